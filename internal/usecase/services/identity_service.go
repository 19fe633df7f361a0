package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
	"github.com/api-sage/core-ledger/internal/logger"
)

// Bootstrap credentials for an empty store. An operational hook, not a
// security feature; deployments must rotate the password immediately.
const defaultAdminUsername = "admin"
const defaultAdminPassword = "admin123"
const defaultAdminEmail = "admin@bank.com"
const defaultAdminPhone = "1234567890"

// IdentityService owns the user collection: registration, credential
// verification and user lifecycle. Every mutation persists the collection
// before reporting success.
type IdentityService struct {
	store repo_interfaces.CollectionStore

	mu    sync.RWMutex
	users map[string]domain.User
}

func NewIdentityService(ctx context.Context, store repo_interfaces.CollectionStore) (*IdentityService, error) {
	users, err := store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	s := &IdentityService{store: store, users: users}

	if len(s.users) == 0 {
		if err := s.bootstrapDefaultAdmin(ctx); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *IdentityService) bootstrapDefaultAdmin(ctx context.Context) error {
	admin, err := newUser(defaultAdminUsername, defaultAdminPassword, defaultAdminEmail, defaultAdminPhone, domain.UserRoleAdmin)
	if err != nil {
		return err
	}

	s.users[admin.ID] = admin
	if err := s.store.SaveUsers(ctx, s.users); err != nil {
		delete(s.users, admin.ID)
		return fmt.Errorf("persist default admin: %w", err)
	}

	logger.Info("identity service created default admin user", logger.Fields{
		"username": admin.Username,
	})
	return nil
}

func (s *IdentityService) Register(ctx context.Context, username, password, email, phone string, role domain.UserRole) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("username is required")
	}
	if password == "" {
		return domain.User{}, fmt.Errorf("password is required")
	}
	if role == "" {
		role = domain.UserRoleCustomer
	}
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("role must be admin or customer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Exact, case-sensitive match across active and inactive users: a
	// deactivated user still reserves the name.
	for _, existing := range s.users {
		if existing.Username == username {
			return domain.User{}, commons.ErrDuplicateUsername
		}
	}

	user, err := newUser(username, password, strings.TrimSpace(email), strings.TrimSpace(phone), role)
	if err != nil {
		return domain.User{}, err
	}

	s.users[user.ID] = user
	if err := s.store.SaveUsers(ctx, s.users); err != nil {
		delete(s.users, user.ID)
		return domain.User{}, fmt.Errorf("persist users: %w", err)
	}

	logger.Info("identity service registered user", logger.Fields{
		"userId":   user.ID,
		"username": user.Username,
		"role":     string(user.Role),
	})
	return user, nil
}

// Authenticate fails identically for unknown usernames, wrong passwords and
// inactive users. On success the last-login timestamp is updated and
// persisted.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.users {
		if user.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return domain.User{}, commons.ErrAuthenticationFailed
		}
		if !user.IsActive {
			return domain.User{}, commons.ErrAuthenticationFailed
		}

		previous := user.LastLogin
		now := time.Now()
		user.LastLogin = &now
		s.users[id] = user
		if err := s.store.SaveUsers(ctx, s.users); err != nil {
			user.LastLogin = previous
			s.users[id] = user
			return domain.User{}, fmt.Errorf("persist users: %w", err)
		}

		logger.Info("identity service authenticated user", logger.Fields{
			"userId":   user.ID,
			"username": user.Username,
		})
		return user, nil
	}

	return domain.User{}, commons.ErrAuthenticationFailed
}

func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return commons.ErrAuthenticationFailed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return commons.ErrAuthenticationFailed
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	previous := user.PasswordHash
	user.PasswordHash = hash
	s.users[userID] = user
	if err := s.store.SaveUsers(ctx, s.users); err != nil {
		user.PasswordHash = previous
		s.users[userID] = user
		return fmt.Errorf("persist users: %w", err)
	}

	logger.Info("identity service changed password", logger.Fields{
		"userId": userID,
	})
	return nil
}

func (s *IdentityService) GetUser(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, commons.ErrRecordNotFound
	}
	return user, nil
}

func (s *IdentityService) GetUserByUsername(username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, commons.ErrRecordNotFound
}

func (s *IdentityService) ListAll() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users
}

func (s *IdentityService) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return commons.ErrRecordNotFound
	}

	previous := user.IsActive
	user.IsActive = false
	s.users[id] = user
	if err := s.store.SaveUsers(ctx, s.users); err != nil {
		user.IsActive = previous
		s.users[id] = user
		return fmt.Errorf("persist users: %w", err)
	}

	logger.Info("identity service deactivated user", logger.Fields{
		"userId": id,
	})
	return nil
}

func newUser(username, password, email, phone string, role domain.UserRole) (domain.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Phone:        phone,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		IsActive:     true,
	}, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
