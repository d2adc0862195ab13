package domain

import "testing"

func TestCanCreateRouteFor(t *testing.T) {
	cases := []struct {
		creator Role
		target  Role
		want    bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleSwapper, true},
		{RoleManager, RoleSwapper, true},
		{RoleManager, RoleManager, false},
		{RoleManager, RoleAdmin, false},
		{RoleSwapper, RoleSwapper, false},
		{RoleSwapper, RoleAdmin, false},
		{Role("intern"), RoleSwapper, false},
		{RoleAdmin, Role("intern"), false},
	}

	for _, c := range cases {
		if got := CanCreateRouteFor(c.creator, c.target); got != c.want {
			t.Errorf("CanCreateRouteFor(%s, %s) = %v, want %v", c.creator, c.target, got, c.want)
		}
	}
}
