package services

import (
	"time"

	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/security"
	"golang.org/x/crypto/bcrypt"
)

// opsTokenTTL bounds how long an ops dashboard token stays valid.
const opsTokenTTL = 12 * time.Hour

// OpsAuthService authenticates ops dashboard access against the
// configured password hash and issues short-lived tokens.
type OpsAuthService struct {
	passwordHash string
	jwtSecret    string
	logger       *logging.ChanneledLogger
}

// NewOpsAuthService creates a new ops authentication service
func NewOpsAuthService(passwordHash, jwtSecret string, logger *logging.ChanneledLogger) *OpsAuthService {
	return &OpsAuthService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

// AuthResult holds the result of ops authentication
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Enabled reports whether ops access is configured at all.
func (s *OpsAuthService) Enabled() bool {
	return s.passwordHash != "" && s.jwtSecret != ""
}

// Login verifies the password and issues an ops token.
func (s *OpsAuthService) Login(password string) *AuthResult {
	if !s.Enabled() {
		return &AuthResult{Success: false, Error: "ops access not configured"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.Ops().Warn("Ops login rejected")
		}
		return &AuthResult{Success: false, Error: "invalid credentials"}
	}

	token, err := security.GenerateOpsToken(s.jwtSecret, opsTokenTTL)
	if err != nil {
		if s.logger != nil {
			s.logger.Ops().Error("Failed to issue ops token", "error", err.Error())
		}
		return &AuthResult{Success: false, Error: "failed to issue token"}
	}

	if s.logger != nil {
		s.logger.Ops().Info("Ops login accepted")
	}
	return &AuthResult{Token: token, Success: true}
}

// Validate checks an ops token and reports whether it grants access.
func (s *OpsAuthService) Validate(token string) bool {
	if !s.Enabled() {
		return false
	}
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return false
	}
	return security.IsOpsToken(claims)
}
