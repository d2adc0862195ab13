package ports

import (
	"context"
	"time"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
)

// Port: advisory cache for optimization results. A solve can burn its whole
// wall-clock budget, so repeated requests for the same stop set are worth
// short-circuiting. Implementations return (nil, nil) on a miss; callers
// treat cache errors as misses.
type PlanCache interface {
	Get(ctx context.Context, key string) (*domain.OptimizationResult, error)
	Set(ctx context.Context, key string, result *domain.OptimizationResult, ttl time.Duration) error
}
