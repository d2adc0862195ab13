package api

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/api/handlers"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/ports"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(routeService *services.RouteService, vehicles ports.VehicleRepository) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Service: routeService}
	stopHandler := &handlers.StopHandler{Service: routeService}
	vehicleHandler := &handlers.VehicleHandler{Repo: vehicles}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("GET /vehicles", vehicleHandler.List)

	mux.HandleFunc("POST /routes", routeHandler.Create)
	mux.HandleFunc("GET /routes", routeHandler.List)
	mux.HandleFunc("POST /routes/{id}/confirm", routeHandler.Confirm)
	mux.HandleFunc("POST /routes/{id}/start", routeHandler.Start)

	mux.HandleFunc("POST /stops/{id}/complete", stopHandler.Complete)
	mux.HandleFunc("POST /stops/{id}/skip", stopHandler.Skip)

	return loggingMiddleware(gzhttp.GzipHandler(mux))
}
