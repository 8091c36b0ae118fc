package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/config"
	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUserInactive       = errors.New("usuario inactivo")
	ErrInvalidRefresh     = errors.New("refresh token inválido")
)

// Claims is the JWT payload for both access and refresh tokens. TokenType
// keeps one from being used in place of the other.
type Claims struct {
	UserID    string `json:"user_id"`
	Rol       string `json:"rol"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService issues and rotates token pairs. Refresh tokens are tracked in
// Redis by JTI so a stolen refresh token dies on first reuse.
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

// Login verifies the credentials and issues a token pair. Unknown email,
// wrong password and inactive account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, clave string) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.Activo {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Clave), []byte(clave)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.UltimoLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a valid refresh token into a new pair. The presented JTI
// is deleted before the new one is stored, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, *TokenPair, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, nil, ErrInvalidRefresh
	}

	key := s.refreshKey(claims.UserID, claims.ID)
	deleted, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return nil, nil, err
	}
	if deleted == 0 {
		return nil, nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidRefresh
		}
		return nil, nil, err
	}
	if !user.Activo {
		return nil, nil, ErrUserInactive
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the presented refresh token. Already-revoked tokens are not
// an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return ErrInvalidRefresh
	}
	return s.rdb.Del(ctx, s.refreshKey(claims.UserID, claims.ID)).Err()
}

// ParseToken validates the signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	access, err := s.signToken(user, "access", s.cfg.AccessTokenExpire, uuid.New().String())
	if err != nil {
		return nil, err
	}

	jti := uuid.New().String()
	refresh, err := s.signToken(user, "refresh", s.cfg.RefreshTokenExpire, jti)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, s.refreshKey(user.ID, jti), "1", s.cfg.RefreshTokenExpire).Err(); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
	}, nil
}

func (s *AuthService) signToken(user *entity.User, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    user.ID,
		Rol:       user.Rol,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *AuthService) refreshKey(userID, jti string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, jti)
}
