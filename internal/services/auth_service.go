package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"auraportal/internal/caching"
	"auraportal/internal/models"
	"auraportal/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// Login attempts allowed per CPF inside the rate-limit window.
const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

// AuthService validates member credentials and manages bearer tokens.
type AuthService interface {
	Authenticate(ctx context.Context, cpf, senha string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeToken(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, cpf, senhaAtual, senhaNova string) error
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	CPF string `json:"cpf"`
	jwt.RegisteredClaims
}

type authService struct {
	memberRepo repositories.MemberRepository
	accessLog  repositories.AccessLogRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
}

// NewAuthService creates a new authentication service
func NewAuthService(memberRepo repositories.MemberRepository, accessLog repositories.AccessLogRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds int) AuthService {
	return &authService{
		memberRepo: memberRepo,
		accessLog:  accessLog,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
	}
}

// Authenticate checks the credential pair against the record store and
// issues a signed bearer token whose subject is the CPF.
func (s *authService) Authenticate(ctx context.Context, cpf, senha string) (*models.TokenResponse, error) {
	limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+cpf, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		log.Printf("WARN: login rate limit check failed: %v", err)
	} else if limited {
		return nil, ErrRateLimited
	}

	member, err := s.memberRepo.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}
	if member == nil || member.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(senha)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		CPF: member.CPF,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "aura-portal-auth",
			Subject:   member.CPF,
			Audience:  jwt.ClaimStrings{"aura-portal"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	s.recordAccess(ctx, member, models.AccessLogin)

	return &models.TokenResponse{
		AccessToken: accessTokenString,
		TokenType:   "Bearer",
		ExpiresIn:   s.tokenTTL,
		CPF:         member.CPF,
		TokenID:     tokenID,
		IssuedAt:    now,
	}, nil
}

// ValidateToken validates the JWT access token and checks the revocation list.
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := jwtToken.Claims.(*TokenClaims)
	if !ok || !jwtToken.Valid {
		return nil, ErrInvalidToken
	}

	revoked, err := s.cacheSvc.GetString(ctx, blacklistKey(claims.ID))
	if err != nil {
		log.Printf("WARN: token blacklist check failed: %v", err)
	} else if revoked != "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RevokeToken blacklists the token's jti until its natural expiry.
func (s *authService) RevokeToken(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return fmt.Errorf("cannot revoke invalid token: %w", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // already expired
	}

	if err := s.cacheSvc.SetString(ctx, blacklistKey(claims.ID), "revoked", ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password and overwrites the stored
// hash, touching only the Senha cell.
func (s *authService) ChangePassword(ctx context.Context, cpf, senhaAtual, senhaNova string) error {
	member, err := s.memberRepo.FindByCPF(ctx, cpf)
	if err != nil {
		return fmt.Errorf("failed to look up member: %w", err)
	}
	if member == nil {
		return repositories.ErrMemberNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(senhaAtual)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(senhaNova), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.memberRepo.UpdatePassword(ctx, cpf, string(hashed)); err != nil {
		return err
	}

	s.recordAccess(ctx, member, models.AccessChangePassword)
	return nil
}

// recordAccess writes an access log entry; logging failures never block the
// request that triggered them.
func (s *authService) recordAccess(ctx context.Context, member *models.Member, action string) {
	entry := &models.AccessEntry{
		CPF:    member.CPF,
		Nome:   member.Nome,
		Action: action,
	}
	if err := s.accessLog.Record(ctx, entry); err != nil {
		log.Printf("WARN: failed to record %s for %s: %v", action, member.CPF, err)
	}
}

func blacklistKey(tokenID string) string {
	return fmt.Sprintf("aura:token_blacklist:%s", tokenID)
}
