package users

import (
	"context"
	"errors"
	"testing"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Signup(ctx, "alice", "alice@example.edu", "hunter2", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if u.ID == "" || u.Role != "user" {
		t.Fatalf("unexpected account: %+v", u)
	}
	if u.PasswordHash == "hunter2" {
		t.Fatalf("password stored in the clear")
	}

	got, err := svc.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned wrong account: %+v", got)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "alice", "", "pw", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Signup(ctx, "alice", "", "pw2", ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestSignupRequiresCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "", "", "pw", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Signup(ctx, "bob", "", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "alice", "", "old", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.ResetPassword(ctx, "alice", "new"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "old"); err == nil {
		t.Fatalf("old password still accepted")
	}
	if _, err := svc.Login(ctx, "alice", "new"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	if err := svc.ResetPassword(ctx, "nobody", "new"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}
