// Package service holds the application services built on top of the
// persistence gateway.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dentaltrack/internal/gateway"
	"dentaltrack/internal/models"
	"dentaltrack/internal/security"
)

var (
	// ErrUserExists is returned when registering a username that is taken.
	ErrUserExists = errors.New("username already registered")
	// ErrInvalidCredentials is returned when the PIN does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownRole is returned for roles outside the supported set.
	ErrUnknownRole = errors.New("unknown role")
)

// sessionTTL is how long an issued session token stays valid.
const sessionTTL = 24 * time.Hour

// AuthService signs users up and in with a phone number and PIN. The PIN
// hash lives inside the user's profile blob; the blob's other fields are
// owned by the UI and pass through untouched.
type AuthService struct {
	gw     *gateway.Gateway
	secret string
	log    zerolog.Logger
}

func NewAuthService(gw *gateway.Gateway, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{gw: gw, secret: jwtSecret, log: log}
}

// Register creates a new account and returns the user with a session
// token.
func (s *AuthService) Register(username, pin, role string) (*models.User, string, error) {
	if !validRole(role) {
		return nil, "", ErrUnknownRole
	}

	existing, err := s.gw.GetUserByUsername(username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserExists
	}

	result, err := s.gw.CreateUser(username, role)
	if err != nil {
		return nil, "", err
	}
	if err := s.storePINHash(result.ID, "", pin); err != nil {
		return nil, "", err
	}

	user, err := s.gw.GetUserByID(result.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := security.NewSessionToken(s.secret, user.ID, user.Role, sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	s.log.Info().Str("username", username).Str("role", role).Msg("registered user")
	return user, token, nil
}

// Login signs a user in by phone number and PIN. An unknown number
// creates a fresh parent account on the spot, the way the app has always
// onboarded families. Accounts migrated from legacy installs carry no
// PIN hash yet; their first login adopts the PIN presented.
func (s *AuthService) Login(username, pin string) (*models.User, string, error) {
	user, err := s.gw.GetUserByUsername(username)
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		return s.Register(username, pin, models.RoleParent)
	}

	hash, err := pinHashFromProfile(user.ProfileData)
	if err != nil {
		return nil, "", err
	}
	if hash == "" {
		if err := s.storePINHash(user.ID, user.ProfileData, pin); err != nil {
			return nil, "", err
		}
	} else if !security.CheckPIN(hash, pin) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.NewSessionToken(s.secret, user.ID, user.Role, sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return user, token, nil
}

// UpdateRole changes a user's role, e.g. when a parent account takes on
// caretaker duties.
func (s *AuthService) UpdateRole(userID int64, role string) error {
	if !validRole(role) {
		return ErrUnknownRole
	}
	return s.gw.UpdateUserRole(userID, role)
}

// VerifyToken validates a session token and returns its claims.
func (s *AuthService) VerifyToken(token string) (*security.SessionClaims, error) {
	return security.ParseSessionToken(s.secret, token)
}

func validRole(role string) bool {
	switch role {
	case models.RoleChild, models.RoleParent, models.RoleCaretaker:
		return true
	}
	return false
}

// storePINHash writes the bcrypt hash of the PIN into the profile blob,
// preserving whatever other fields the blob carries.
func (s *AuthService) storePINHash(userID int64, profileData, pin string) error {
	hash, err := security.HashPIN(pin)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	profile := map[string]interface{}{}
	if profileData != "" {
		if err := json.Unmarshal([]byte(profileData), &profile); err != nil {
			return fmt.Errorf("corrupt profile data: %w", err)
		}
	}
	profile["pinHash"] = hash

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.gw.UpdateUserProfile(userID, string(data))
}

func pinHashFromProfile(profileData string) (string, error) {
	if profileData == "" {
		return "", nil
	}
	profile := map[string]interface{}{}
	if err := json.Unmarshal([]byte(profileData), &profile); err != nil {
		return "", fmt.Errorf("corrupt profile data: %w", err)
	}
	hash, _ := profile["pinHash"].(string)
	return hash, nil
}
