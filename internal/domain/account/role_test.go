package account

import (
	"testing"

	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":      RoleAdmin,
		" Customer ": RoleCustomer,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := ParseRole("chef"); !httperr.IsBusiness(err, "invalid_role") {
		t.Fatalf("expected invalid_role, got %v", err)
	}
}

func TestCanChangeRole(t *testing.T) {
	if err := CanChangeRole(1, 1, RoleCustomer); !httperr.IsBusiness(err, "cannot_demote_self") {
		t.Fatalf("expected self demotion to be rejected, got %v", err)
	}
	if err := CanChangeRole(1, 1, RoleAdmin); err != nil {
		t.Fatalf("promoting self is a no-op, got %v", err)
	}
	if err := CanChangeRole(1, 2, RoleCustomer); err != nil {
		t.Fatalf("demoting another admin should pass, got %v", err)
	}
}

func TestRoleHome(t *testing.T) {
	if RoleAdmin.Home() != "/admin/dashboard" {
		t.Fatalf("admin home = %q", RoleAdmin.Home())
	}
	if RoleCustomer.Home() != "/customer/" {
		t.Fatalf("customer home = %q", RoleCustomer.Home())
	}
	if Role("").Home() != "/customer/" {
		t.Fatalf("unknown role should land on customer panel")
	}
}
