package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropx/dropx-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthTokenTTL bounds the time between issuing an OAuth token and the callback
const OAuthTokenTTL = 15 * time.Minute

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// AccountService handles sign-up, sign-in, sessions and OAuth tokens
type AccountService struct {
	db         *gorm.DB
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAccountService creates a new account service; sessionTTL is the lifetime of new sessions
func NewAccountService(db *gorm.DB, sessionTTL time.Duration) *AccountService {
	return &AccountService{db: db, sessionTTL: sessionTTL, now: func() time.Time { return time.Now().UTC() }}
}

// SignUpInput holds the registration form
type SignUpInput struct {
	FirstName string
	LastName  string
	Mobile    string
	Email     string
	Password  string
	Role      models.Role
}

// SignUp creates the account, its profile and a first session in one transaction.
// It returns the profile and the raw session secret for the cookie.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*models.User, string, error) {
	email := normalizeEmail(in.Email)
	if len(in.Password) > MaxPasswordBytes {
		return nil, "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	passwordHash := string(hash)

	var (
		user   models.User
		secret string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrUserExists
		}

		account := models.Account{
			Email:        email,
			Name:         strings.TrimSpace(in.FirstName + " " + in.LastName),
			PasswordHash: &passwordHash,
		}
		if err := tx.Create(&account).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrUserExists
			}
			return err
		}

		user = models.User{
			AccountID: account.ID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     email,
			Mobile:    in.Mobile,
			Role:      in.Role,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		secret, err = s.createSession(tx, account.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("sign up: %w", err)
	}

	zap.L().Info("account created", zap.String("account_id", user.AccountID), zap.String("role", string(user.Role)))
	return &user, secret, nil
}

// SignIn checks the password and opens a new session
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.Account, string, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("load account: %w", err)
	}

	if account.PasswordHash == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	secret, err := s.createSession(s.db.WithContext(ctx), account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return &account, secret, nil
}

// SignOut deletes the session behind a cookie secret. Unknown secrets are not an error.
func (s *AccountService) SignOut(ctx context.Context, secret string) error {
	if secret == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("secret_hash = ?", hashSecret(secret)).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolveSession returns the account of a live session
func (s *AccountService) ResolveSession(ctx context.Context, secret string) (*models.Account, error) {
	if secret == "" {
		return nil, ErrSessionNotFound
	}

	var session models.Session
	err := s.db.WithContext(ctx).
		Where("secret_hash = ? AND expires_at > ?", hashSecret(secret), s.now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var account models.Account
	err = s.db.WithContext(ctx).First(&account, "id = ?", session.AccountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &account, nil
}

// OAuthIdentity is the external identity reported by Auth0 for a sign-in
type OAuthIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IssueOAuthToken finds or creates the account of an external identity and
// issues a one-time token for the OAuth callback. Accounts are matched by
// subject first. An existing account is linked by email only when the email is
// verified and the account has no subject yet; otherwise ErrUserExists.
func (s *AccountService) IssueOAuthToken(ctx context.Context, identity OAuthIdentity) (string, string, error) {
	subject := identity.Subject
	email := normalizeEmail(identity.Email)

	var account models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("auth0_subject = ?", subject).First(&account).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("email = ?", email).First(&account).Error
		switch {
		case err == nil:
			if !identity.EmailVerified || account.Auth0Subject != nil {
				return ErrUserExists
			}
			return tx.Model(&account).Update("auth0_subject", subject).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			account = models.Account{Email: email, Name: strings.TrimSpace(identity.Name), Auth0Subject: &subject}
			return tx.Create(&account).Error
		default:
			return err
		}
	})
	if errors.Is(err, ErrUserExists) {
		zap.L().Warn("oauth identity not linked to existing account", zap.String("subject", subject))
		return "", "", err
	}
	if err != nil {
		return "", "", fmt.Errorf("resolve oauth account: %w", err)
	}

	secret, err := newSecret()
	if err != nil {
		return "", "", err
	}
	token := models.OAuthToken{
		AccountID:  account.ID,
		SecretHash: hashSecret(secret),
		ExpiresAt:  s.now().Add(OAuthTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return "", "", fmt.Errorf("store oauth token: %w", err)
	}
	return account.ID, secret, nil
}

// ExchangeOAuthToken consumes a one-time token and opens a session for its account
func (s *AccountService) ExchangeOAuthToken(ctx context.Context, accountID, secret string) (*models.Account, string, error) {
	var (
		account       models.Account
		sessionSecret string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("account_id = ? AND secret_hash = ? AND expires_at > ?", accountID, hashSecret(secret), s.now()).
			Delete(&models.OAuthToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidOAuthToken
		}

		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidOAuthToken
			}
			return err
		}

		var err error
		sessionSecret, err = s.createSession(tx, account.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidOAuthToken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("exchange oauth token: %w", err)
	}
	return &account, sessionSecret, nil
}

// PurgeExpired removes expired sessions and OAuth tokens and reports how many rows went away
func (s *AccountService) PurgeExpired(ctx context.Context) (int64, error) {
	now := s.now()

	sessions := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	if sessions.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", sessions.Error)
	}
	tokens := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.OAuthToken{})
	if tokens.Error != nil {
		return sessions.RowsAffected, fmt.Errorf("purge oauth tokens: %w", tokens.Error)
	}
	return sessions.RowsAffected + tokens.RowsAffected, nil
}

func (s *AccountService) createSession(db *gorm.DB, accountID string) (string, error) {
	secret, err := newSecret()
	if err != nil {
		return "", err
	}
	session := models.Session{
		AccountID:  accountID,
		SecretHash: hashSecret(secret),
		ExpiresAt:  s.now().Add(s.sessionTTL),
	}
	if err := db.Create(&session).Error; err != nil {
		return "", err
	}
	return secret, nil
}

func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
