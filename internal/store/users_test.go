package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/izgubljeno/internal/db"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "Ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.Name != "Ana" || u.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}

	got, err := GetUser(ctx, database, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetUser: %v, %v", got, err)
	}

	byEmail, err := GetUserByEmail(ctx, database, "ANA@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("expected case-insensitive email lookup to find %s, got %+v", u.ID, byEmail)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "Ana", "ana@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	_, err := CreateUser(ctx, database, "Ana Two", "Ana@Example.com", "hash")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetMissingUser(t *testing.T) {
	database := db.NewTestDB(t)

	u, err := GetUser(context.Background(), database, "missing")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil user, got %+v", u)
	}
}
