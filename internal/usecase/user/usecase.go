package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fintrack-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carries the token kind alongside the registered set so a refresh
// token can never pass for an access token.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type UserDTO struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Usecase struct {
	repo       user.Repository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *logrus.Logger
}

func NewUsecase(r user.Repository, secret string, accessTTL, refreshTTL time.Duration, log *logrus.Logger) *Usecase {
	return &Usecase{repo: r, secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, log: log}
}

// Register creates a user with a bcrypt-hashed password.
func (u *Usecase) Register(ctx context.Context, username, email, password string) (*UserDTO, error) {
	_, err := u.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, user.ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := &user.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := u.repo.Create(ctx, acc); err != nil {
		return nil, err
	}

	u.log.WithField("email", acc.Email).Info("user registered")
	return &UserDTO{Username: acc.Username, Email: acc.Email, CreatedAt: acc.CreatedAt}, nil
}

// Login verifies credentials and issues a short-lived access token plus a
// long-lived refresh token.
func (u *Usecase) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	acc, err := u.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	access, err := u.sign(acc.ID, TokenTypeAccess, u.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := u.sign(acc.ID, TokenTypeRefresh, u.refreshTTL)
	if err != nil {
		return nil, err
	}

	u.log.WithField("email", acc.Email).Info("user logged in")
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token and mints a new access token. Access
// tokens are rejected here so a leaked short-lived token cannot renew itself.
func (u *Usecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := u.parse(refreshToken)
	if err != nil || claims.TokenType != TokenTypeRefresh {
		return nil, user.ErrTokenInvalid
	}

	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, user.ErrTokenInvalid
	}
	if _, err := u.repo.GetByID(ctx, uid); err != nil {
		return nil, user.ErrTokenInvalid
	}

	access, err := u.sign(uid, TokenTypeAccess, u.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access}, nil
}

func (u *Usecase) sign(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(u.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (u *Usecase) parse(raw string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, user.ErrTokenInvalid
	}
	return &claims, nil
}
