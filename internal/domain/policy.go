package domain

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSwapper Role = "swapper"
)

// Closed lookup table: which roles a creator may plan routes for.
// This is the single source of truth for the creator/target permission
// check; callers must not re-derive it with ad-hoc branching.
var routeCreationTargets = map[Role]map[Role]bool{
	RoleAdmin:   {RoleAdmin: true, RoleManager: true, RoleSwapper: true},
	RoleManager: {RoleSwapper: true},
	RoleSwapper: {},
}

// CanCreateRouteFor reports whether a user with the creator role may create
// a route assigned to a user with the target role. Unknown roles are denied.
func CanCreateRouteFor(creator, target Role) bool {
	return routeCreationTargets[creator][target]
}
