package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/talash/backend/internal/config"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/firebase"
	"github.com/talash/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService turns externally issued Firebase tokens into local users and
// enforces the registration policy. It never issues tokens of its own.
type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	verifier firebase.Verifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config, verifier firebase.Verifier) *AuthService {
	return &AuthService{db: db, cfg: cfg, verifier: verifier}
}

// Register creates a user with the default role. The email must belong to an
// allowed institutional domain and must not already be registered.
func (s *AuthService) Register(req *dto.SignupRequest) (*models.User, error) {
	return s.register(req.Name, req.Email, models.RoleUser)
}

// RegisterAdmin creates an admin user. The caller must present the configured
// admin registration key.
func (s *AuthService) RegisterAdmin(req *dto.AdminSignupRequest) (*models.User, error) {
	if s.cfg.AdminKeyHash == "" {
		return nil, ErrInvalidAdminKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminKeyHash), []byte(req.AdminKey)); err != nil {
		return nil, ErrInvalidAdminKey
	}
	return s.register(req.Name, req.Email, models.RoleAdmin)
}

func (s *AuthService) register(name, email string, role models.Role) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" {
		return nil, invalidField("name", "must not be empty")
	}
	if email == "" {
		return nil, invalidField("email", "must not be empty")
	}
	if !s.cfg.EmailAllowed(email) {
		return nil, ErrInvalidDomain
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	user := models.User{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// ResolveCaller verifies a bearer token and looks up the matching local user.
// When the token is valid but no user exists yet, it returns the verified
// token alongside ErrNeedsRegistration so the caller can finish signup.
func (s *AuthService) ResolveCaller(bearer string) (*models.User, *firebase.Token, error) {
	if bearer == "" {
		return nil, nil, ErrUnauthenticated
	}

	tok, err := s.verifier.Verify(bearer)
	if err != nil {
		if errors.Is(err, firebase.ErrUpstream) {
			return nil, nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.userByEmail(tok.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tok, ErrNeedsRegistration
		}
		return nil, nil, err
	}
	return user, tok, nil
}

// Login resolves a bearer token against a claimed email. A verified token for
// an email that was never registered creates the user on the fly, matching the
// web client's signup-then-login flow.
func (s *AuthService) Login(bearer, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, invalidField("email", "must not be empty")
	}
	if !s.cfg.EmailAllowed(email) {
		return nil, ErrInvalidDomain
	}

	user, tok, err := s.ResolveCaller(bearer)
	if err != nil {
		if errors.Is(err, ErrNeedsRegistration) && tok != nil && strings.EqualFold(tok.Email, email) {
			name := tok.Name
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			return s.register(name, email, models.RoleUser)
		}
		return nil, err
	}

	if !strings.EqualFold(user.Email, email) {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireRole fails with ErrForbidden unless the caller holds the role.
func (s *AuthService) RequireRole(caller *models.User, role models.Role) error {
	if caller == nil || caller.Role != role {
		return ErrForbidden
	}
	return nil
}

func (s *AuthService) userByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
