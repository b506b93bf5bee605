package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided username or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRestricted indicates the client IP exhausted its login attempts.
	ErrLoginRestricted = errors.New("login restricted")
	// ErrAdminExists indicates the username or email is already taken.
	ErrAdminExists = errors.New("admin account already exists")
)

// AdminService coordinates admin authentication, provisioning, and notes.
type AdminService struct {
	cfg           config.AuthSettings
	admins        port.AdminUserRepository
	notes         port.AdminNoteRepository
	loginAttempts port.LoginAttemptStore
	denylist      port.TokenDenylist
	jwt           *security.JWTManager
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(
	cfg config.AuthSettings,
	admins port.AdminUserRepository,
	notes port.AdminNoteRepository,
	loginAttempts port.LoginAttemptStore,
	denylist port.TokenDenylist,
	jwt *security.JWTManager,
) *AdminService {
	return &AdminService{
		cfg:           cfg,
		admins:        admins,
		notes:         notes,
		loginAttempts: loginAttempts,
		denylist:      denylist,
		jwt:           jwt,
	}
}

// Login validates admin credentials and issues an access token. Failed
// attempts are counted per client IP; once the configured maximum is reached
// the IP is restricted until the counter expires.
func (s *AdminService) Login(ctx context.Context, username, password, ip string) (string, *domain.AdminUser, error) {
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	count, err := s.loginAttempts.Count(ctx, ip)
	if err != nil {
		return "", nil, fmt.Errorf("check login attempts: %w", err)
	}
	if s.cfg.LoginMaxAttempts > 0 && count >= s.cfg.LoginMaxAttempts {
		return "", nil, ErrLoginRestricted
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, s.failLogin(ctx, ip)
		}
		return "", nil, fmt.Errorf("lookup admin: %w", err)
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, s.failLogin(ctx, ip)
	}

	token, _, err := s.jwt.Sign(admin.ID, admin.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	sanitized := *admin
	sanitized.PasswordHash = ""
	return token, &sanitized, nil
}

func (s *AdminService) failLogin(ctx context.Context, ip string) error {
	if _, err := s.loginAttempts.Increment(ctx, ip, s.cfg.LoginRestrictTTL); err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return ErrInvalidCredentials
}

// Logout revokes the presented access token via the JTI denylist.
func (s *AdminService) Logout(ctx context.Context, claims *security.AdminClaims) error {
	if claims == nil || claims.ID == "" {
		return fmt.Errorf("token claims required")
	}

	ttl := s.cfg.AccessTokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	return s.denylist.Deny(ctx, claims.ID, ttl)
}

// CurrentUser returns the active admin account for the token subject.
func (s *AdminService) CurrentUser(ctx context.Context, adminID int64) (*domain.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	sanitized := *admin
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// ListAdmins returns active admin accounts plus the total count.
func (s *AdminService) ListAdmins(ctx context.Context, filter port.AdminUserFilter) ([]domain.AdminUser, int, error) {
	admins, err := s.admins.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}

	for i := range admins {
		admins[i].PasswordHash = ""
	}

	total, err := s.admins.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}

	return admins, total, nil
}

// GetAdmin returns a single active admin account.
func (s *AdminService) GetAdmin(ctx context.Context, id int64) (*domain.AdminUser, error) {
	return s.CurrentUser(ctx, id)
}

// CreateAdmin provisions a new admin account after validating the password
// against the provisioning policy and rejecting duplicate username or email.
func (s *AdminService) CreateAdmin(ctx context.Context, username, email, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if err := security.AdminPasswordValidator(username, email).Validate(password); err != nil {
		return nil, err
	}

	if _, err := s.admins.GetByUsername(ctx, username); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.admins.Create(ctx, domain.AdminUser{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	sanitized := *admin
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// RemoveLoginRestriction clears the failed-attempt counter for an IP.
func (s *AdminService) RemoveLoginRestriction(ctx context.Context, ip string) error {
	if strings.TrimSpace(ip) == "" {
		return fmt.Errorf("ip is required")
	}
	return s.loginAttempts.Reset(ctx, ip)
}

// CreateNote records an admin note, optionally attached to a requester.
func (s *AdminService) CreateNote(ctx context.Context, authorID int64, requesterID *int64, text string) (*domain.AdminNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("note text is required")
	}

	return s.notes.Create(ctx, domain.AdminNote{
		Text:        text,
		AuthorID:    &authorID,
		RequesterID: requesterID,
	})
}

// GetNote returns a single note by id.
func (s *AdminService) GetNote(ctx context.Context, id int64) (*domain.AdminNote, error) {
	return s.notes.GetByID(ctx, id)
}

// ListNotes returns notes matching the filter plus the total count.
func (s *AdminService) ListNotes(ctx context.Context, filter port.AdminNoteFilter) ([]domain.AdminNote, int, error) {
	notes, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}

	total, err := s.notes.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	return notes, total, nil
}

// UpdateNote replaces the note body.
func (s *AdminService) UpdateNote(ctx context.Context, id int64, text string) (*domain.AdminNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("note text is required")
	}
	return s.notes.UpdateText(ctx, id, text)
}

// DeleteNote removes a note.
func (s *AdminService) DeleteNote(ctx context.Context, id int64) error {
	return s.notes.Delete(ctx, id)
}
