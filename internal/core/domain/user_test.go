package domain

import (
	"context"
	"errors"
	"testing"
)

func TestParseRoles(t *testing.T) {
	got := ParseRoles([]string{"admin", "ROLE_ADMIN", "seller", "whatever"})
	want := []Role{RoleAdmin, RoleSeller, RoleUser}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}

	if def := ParseRoles(nil); len(def) != 1 || def[0] != RoleUser {
		t.Fatalf("expected default ROLE_USER, got %v", def)
	}
}

func TestPrincipal_Can(t *testing.T) {
	admin := &Principal{Roles: []Role{RoleAdmin}}
	seller := &Principal{Roles: []Role{RoleSeller}}
	none := &Principal{}

	if !admin.Can(PermCatalogWrite) || !admin.Can(PermCatalogRead) {
		t.Error("admin must read and write the catalog")
	}
	if seller.Can(PermCatalogWrite) || !seller.Can(PermCatalogRead) {
		t.Error("seller must only read the catalog")
	}
	if none.Can(PermCatalogRead) {
		t.Error("a principal without roles has no permissions")
	}
}

func TestAuthorize(t *testing.T) {
	if _, err := Authorize(context.Background(), PermCatalogRead); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	ctx := WithPrincipal(context.Background(), &Principal{Username: "u", Roles: []Role{RoleUser}})
	if _, err := Authorize(ctx, PermCatalogWrite); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	p, err := Authorize(ctx, PermCatalogRead)
	if err != nil || p.Username != "u" {
		t.Fatalf("expected principal u, got %+v, %v", p, err)
	}
}
