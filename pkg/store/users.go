package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pfdb/models"
)

// MinPasswordLength is the basic password policy.
const MinPasswordLength = 6

// RefreshTTL is how long an issued refresh token stays usable.
const RefreshTTL = 30 * 24 * time.Hour

// Users manages accounts and their refresh tokens.
type Users struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db, now: time.Now}
}

// Create registers username with a bcrypt hash of password and the named role.
func (u *Users) Create(ctx context.Context, username, password, role string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, errors.New("username required")
	}
	if len(password) < MinPasswordLength {
		return models.User{}, fmt.Errorf("password too short (min %d)", MinPasswordLength)
	}
	db := u.db.WithContext(ctx)
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return models.User{}, ErrUserExists
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	r := models.Role{Name: role}
	if err := db.Where("name = ?", role).FirstOrCreate(&r).Error; err != nil {
		return models.User{}, fmt.Errorf("ensure role %s: %w", role, err)
	}
	user := models.User{Username: username, HashedPassword: hashed, RoleID: &r.ID, Role: r}
	if err := db.Omit("Role").Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate checks a username and password and returns the user with its role loaded.
func (u *Users) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Preload("Role").Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *Users) ByName(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// SeedAdmin creates the administrator account when it does not exist yet.
func (u *Users) SeedAdmin(ctx context.Context, username, password string) error {
	var count int64
	if err := u.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if _, err := u.Create(ctx, username, password, models.RoleAdministrator); err != nil && !errors.Is(err, ErrUserExists) {
		return err
	}
	log.Warn().Str("username", username).Msg("seeded administrator account, change its password")
	return nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// IssueRefreshToken stores the hash of a new random token and returns the raw token.
func (u *Users) IssueRefreshToken(ctx context.Context, userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	rt := models.RefreshToken{UserID: userID, TokenHash: hashToken(token), ExpiresAt: u.now().Add(RefreshTTL)}
	if err := u.db.WithContext(ctx).Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// RotateRefreshToken revokes token and issues a replacement for its user.
func (u *Users) RotateRefreshToken(ctx context.Context, token string) (models.User, string, error) {
	var user models.User
	var next string
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt models.RefreshToken
		if err := tx.Where("token_hash = ?", hashToken(token)).First(&rt).Error; err != nil {
			return ErrInvalidCredentials
		}
		now := u.now()
		if !rt.Usable(now) {
			return ErrInvalidCredentials
		}
		if err := tx.Model(&rt).Update("revoked_at", now).Error; err != nil {
			return err
		}
		if err := tx.Preload("Role").First(&user, rt.UserID).Error; err != nil {
			return ErrInvalidCredentials
		}
		var err error
		next, err = (&Users{db: tx, now: u.now}).IssueRefreshToken(ctx, user.ID)
		return err
	})
	if err != nil {
		return models.User{}, "", err
	}
	return user, next, nil
}

func (u *Users) RevokeRefreshToken(ctx context.Context, token string) error {
	res := u.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(token)).
		Update("revoked_at", u.now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword replaces the password of username and revokes its refresh tokens.
func (u *Users) SetPassword(ctx context.Context, username, password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password too short (min %d)", MinPasswordLength)
	}
	user, err := u.ByName(ctx, username)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("hashed_password", hashed).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", user.ID).
			Update("revoked_at", u.now()).Error
	})
}
