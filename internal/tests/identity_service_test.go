package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
	"github.com/api-sage/core-ledger/internal/usecase/services"
)

func newIdentityService(t *testing.T, store collectionStoreStub) *services.IdentityService {
	t.Helper()
	svc, err := services.NewIdentityService(context.Background(), store)
	if err != nil {
		t.Fatalf("failed to build identity service: %v", err)
	}
	return svc
}

func TestBootstrapCreatesDefaultAdminWhenStoreIsEmpty(t *testing.T) {
	svc := newIdentityService(t, collectionStoreStub{})

	admin, err := svc.Authenticate(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("expected default admin to authenticate, got %v", err)
	}
	if admin.Role != domain.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	if admin.LastLogin == nil {
		t.Fatal("expected last login to be set after authentication")
	}
}

func TestBootstrapSkippedWhenUsersExist(t *testing.T) {
	existing := domain.User{
		ID:        "u-1",
		Username:  "carol",
		Role:      domain.UserRoleCustomer,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
	svc := newIdentityService(t, collectionStoreStub{
		loadUsersFn: func(context.Context) (map[string]domain.User, error) {
			return map[string]domain.User{existing.ID: existing}, nil
		},
	})

	if _, err := svc.GetUserByUsername("admin"); !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected no default admin, got %v", err)
	}
}

func TestRegisterStoresOnlyPasswordHash(t *testing.T) {
	svc := newIdentityService(t, collectionStoreStub{})

	user, err := svc.Register(context.Background(), "alice", "s3cret", "alice@example.com", "08010000000", domain.UserRoleCustomer)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret" {
		t.Fatal("expected a hashed password, never the plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("expected stored hash to verify the password: %v", err)
	}
}

func TestRegisterRejectsDuplicateUsernameEvenWhenDeactivated(t *testing.T) {
	svc := newIdentityService(t, collectionStoreStub{})

	user, err := svc.Register(context.Background(), "bob", "pw1234", "bob@example.com", "", domain.UserRoleCustomer)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := svc.Deactivate(context.Background(), user.ID); err != nil {
		t.Fatalf("expected deactivate to succeed, got %v", err)
	}

	if _, err := svc.Register(context.Background(), "bob", "other", "bob2@example.com", "", domain.UserRoleCustomer); !errors.Is(err, commons.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc := newIdentityService(t, collectionStoreStub{})
	user, err := svc.Register(context.Background(), "dave", "pw1234", "dave@example.com", "", domain.UserRoleCustomer)
	if err != nil {
		t.Fatalf("register fixture failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "nobody", "pw1234"); !errors.Is(err, commons.ErrAuthenticationFailed) {
		t.Fatalf("expected failure for unknown username, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "dave", "wrong"); !errors.Is(err, commons.ErrAuthenticationFailed) {
		t.Fatalf("expected failure for wrong password, got %v", err)
	}

	if err := svc.Deactivate(context.Background(), user.ID); err != nil {
		t.Fatalf("deactivate fixture failed: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "dave", "pw1234"); !errors.Is(err, commons.ErrAuthenticationFailed) {
		t.Fatalf("expected failure for inactive user, got %v", err)
	}
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	svc := newIdentityService(t, collectionStoreStub{})
	user, err := svc.Register(context.Background(), "erin", "old-pw", "erin@example.com", "", domain.UserRoleCustomer)
	if err != nil {
		t.Fatalf("register fixture failed: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "new-pw"); !errors.Is(err, commons.ErrAuthenticationFailed) {
		t.Fatalf("expected failure for wrong old password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "old-pw", "new-pw"); err != nil {
		t.Fatalf("expected password change to succeed, got %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "erin", "old-pw"); !errors.Is(err, commons.ErrAuthenticationFailed) {
		t.Fatal("expected old password to stop working")
	}
	if _, err := svc.Authenticate(context.Background(), "erin", "new-pw"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestRegisterPersistFailureRollsBack(t *testing.T) {
	persistErr := errors.New("disk full")
	calls := 0
	svc := newIdentityService(t, collectionStoreStub{
		saveUsersFn: func(context.Context, map[string]domain.User) error {
			calls++
			// First save is the admin bootstrap.
			if calls > 1 {
				return persistErr
			}
			return nil
		},
	})

	if _, err := svc.Register(context.Background(), "frank", "pw1234", "frank@example.com", "", domain.UserRoleCustomer); !errors.Is(err, persistErr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := svc.GetUserByUsername("frank"); !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatal("expected rolled-back user to be absent")
	}
}
