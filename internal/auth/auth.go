package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	// ErrSessionNotStarted wraps failures to persist a new session.
	ErrSessionNotStarted = errors.New("session not started")
)

const issuer = "quill"

// Store is the subset of the entity store the auth service needs.
type Store interface {
	store.UserStore
	store.RoleStore
	store.SessionStore
}

type Service struct {
	store    Store
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Principal is an authenticated user together with its roles.
type Principal struct {
	User      model.User
	Roles     []model.Role
	SessionID string
}

func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(model.RoleAdmin)
}

// Login is the result of a successful credential check.
type Login struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

func NewService(st Store, secret []byte, tokenTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.With("component", "auth"),
		now:      time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, name, email, password string) (Principal, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return Principal{}, err
	}
	user := model.User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    s.now(),
	}
	id, err := s.store.CreateUser(ctx, &user)
	if err != nil {
		return Principal{}, err
	}
	user.ID = id
	s.logger.Info("user registered", "user_id", id)
	return Principal{User: user}, nil
}

func (s *Service) Login(ctx context.Context, email, password, ip string) (Login, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Login{}, fmt.Errorf("user %q: %w", email, store.ErrNotFound)
		}
		return Login{}, err
	}
	if !user.Active || !CheckPassword(user.PasswordHash, password) {
		return Login{}, ErrInvalidCredential
	}

	roles, err := s.store.ListUserRoles(ctx, user.ID)
	if err != nil {
		return Login{}, err
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	token, err := s.sign(session)
	if err != nil {
		return Login{}, err
	}
	if err := s.store.StartSession(ctx, session); err != nil {
		return Login{}, fmt.Errorf("%w: %w", ErrSessionNotStarted, err)
	}
	s.logger.Info("user logged in", "user_id", user.ID, "ip", ip)
	return Login{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Principal: Principal{User: user, Roles: roles, SessionID: session.ID},
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, p.SessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	s.logger.Info("user logged out", "user_id", p.User.ID)
	return nil
}

// Authenticate resolves a bearer token to its principal. The token must
// carry a valid signature and refer to a live session of the same user.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrUnauthenticated
	}
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}

	session, err := s.store.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, ErrUnauthenticated
		}
		return Principal{}, err
	}
	if session.UserID != userID || !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrUnauthenticated
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, ErrUnauthenticated
		}
		return Principal{}, err
	}
	if !user.Active {
		return Principal{}, ErrUnauthenticated
	}
	roles, err := s.store.ListUserRoles(ctx, userID)
	if err != nil {
		return Principal{}, err
	}
	return Principal{User: user, Roles: roles, SessionID: session.ID}, nil
}

func (s *Service) Authorize(p Principal, role string) bool {
	return p.HasRole(role)
}

func (s *Service) RequireRole(p Principal, role string) error {
	if !s.Authorize(p, role) {
		return fmt.Errorf("%w: requires role %q", ErrForbidden, role)
	}
	return nil
}

// EnsureSuperuser makes sure the admin role exists and the given user holds
// it, creating the user when no account uses that email yet.
func (s *Service) EnsureSuperuser(ctx context.Context, name, email, password string) (Principal, error) {
	role, err := s.store.EnsureRole(ctx, model.RoleAdmin, "administrator")
	if err != nil {
		return Principal{}, fmt.Errorf("ensure role: %w", err)
	}

	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case errors.Is(err, store.ErrNotFound):
		p, err := s.Register(ctx, name, email, password)
		if err != nil {
			return Principal{}, err
		}
		user = p.User
		s.logger.Info("superuser created", "user_id", user.ID)
	case err != nil:
		return Principal{}, err
	}

	if err := s.store.AddRoleToUser(ctx, user.ID, role.ID); err != nil {
		return Principal{}, fmt.Errorf("grant admin: %w", err)
	}
	roles, err := s.store.ListUserRoles(ctx, user.ID)
	if err != nil {
		return Principal{}, err
	}
	return Principal{User: user, Roles: roles}, nil
}

func (s *Service) sign(session model.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(session.UserID, 10),
		ID:        session.ID,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
