// Package session issues and checks customer sessions and owns the
// account operations that act on the signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/storage"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

const minPasswordLen = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrInvalidInput       = errors.New("invalid input")
)

// Claims is the signed token payload.
type Claims struct {
	UserID string    `json:"uid"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type Manager struct {
	users   user.Repository
	revoker Revoker
	disk    storage.Disk
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(users user.Repository, revoker Revoker, disk storage.Disk, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		users:   users,
		revoker: revoker,
		disk:    disk,
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the time source used for token issue and expiry.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (in RegisterInput) normalize() (RegisterInput, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return in, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return in, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return in, nil
}

// Register creates a customer account and signs it in.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	hash, err := user.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         user.RoleCustomer,
	}
	if err := m.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logx.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return m.issue(u)
}

// Authenticate checks email and password and opens a new session.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	u, err := m.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || !user.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return m.issue(u)
}

// Current resolves token to the signed-in user, reloading the profile so
// role and contact changes take effect immediately.
func (m *Manager) Current(ctx context.Context, token string) (*user.User, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := m.revoker.Revoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	u, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// SignOut revokes token until it expires. Signing out an already invalid
// token is a no-op.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	if err := m.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	logx.FromContext(ctx).Info("user signed out", "user_id", claims.UserID)
	return nil
}

// UpdateProfile applies the non-empty fields of p and returns the fresh row.
func (m *Manager) UpdateProfile(ctx context.Context, userID string, p user.Profile) (*user.User, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	if err := m.users.UpdateProfile(ctx, userID, p); err != nil {
		return nil, err
	}
	return m.users.GetByID(ctx, userID)
}

// UpdateAvatar stores content as the user's avatar and removes the previous
// image when it lives on the same disk.
func (m *Manager) UpdateAvatar(ctx context.Context, userID, filename string, content io.Reader) (*user.User, error) {
	u, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, contentType, err := storage.ImageKey(path.Join("avatars", userID), filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := m.disk.Put(ctx, key, content, contentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	if err := m.users.UpdateAvatar(ctx, userID, m.disk.URL(key)); err != nil {
		_ = m.disk.Delete(ctx, key)
		return nil, err
	}
	if old := storage.KeyFromURL(m.disk, u.AvatarURL); old != "" {
		if err := m.disk.Delete(ctx, old); err != nil {
			logx.FromContext(ctx).Warn("previous avatar not removed", "user_id", userID, "error", err)
		}
	}
	return m.users.GetByID(ctx, userID)
}

func (m *Manager) issue(u *user.User) (*Session, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp.UTC(), User: u}, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.ID == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
