package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/config"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/metrics"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/session"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// AuthService implements the admin gate: a shared passcode buys a revocable
// session token. The passcode lives in configuration, preferably as a bcrypt
// hash; the plain compare remains for local setups.
type AuthService struct {
	sessions   session.Store
	metrics    *metrics.Registry
	code       string
	codeHash   string
	jwtSecret  string
	sessionTTL time.Duration
}

// NewAuthService constructs an AuthService from config.
func NewAuthService(sessions session.Store, m *metrics.Registry, cfg *config.Config) *AuthService {
	return &AuthService{
		sessions:   sessions,
		metrics:    m,
		code:       cfg.AdminCode,
		codeHash:   cfg.AdminCodeHash,
		jwtSecret:  cfg.JWTSecret,
		sessionTTL: cfg.SessionTTL,
	}
}

// Login verifies the presented code and returns a session token, or
// utils.ErrInvalidAdminCode.
func (s *AuthService) Login(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)

	if !s.verifyCode(code) {
		s.metrics.AdminLoginDenied.Inc()
		log.Warn().Msg("Admin login rejected")
		return "", utils.ErrInvalidAdminCode
	}

	token, sessionID, err := utils.GenerateAdminToken(s.jwtSecret, s.sessionTTL)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Put(ctx, sessionID, s.sessionTTL); err != nil {
		return "", err
	}

	s.metrics.AdminLogins.Inc()
	log.Info().Str("session_id", sessionID).Msg("Admin login successful")
	return token, nil
}

func (s *AuthService) verifyCode(code string) bool {
	if code == "" {
		return false
	}
	if s.codeHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.codeHash), []byte(code)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.code), []byte(code)) == 1
}

// Verify reports whether token is a live admin session.
func (s *AuthService) Verify(ctx context.Context, token string) bool {
	claims, err := utils.ValidateAdminToken(s.jwtSecret, token)
	if err != nil {
		return false
	}
	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		log.Error().Err(err).Msg("Session lookup failed")
		return false
	}
	return live
}

// Logout revokes the session behind token. An already-invalid token is not an
// error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateAdminToken(s.jwtSecret, token)
	if err != nil {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.ID)
}
