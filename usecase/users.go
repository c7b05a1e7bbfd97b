package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

const defaultUsername = "default_user"

var (
	// ErrGarminNotConfigured the user has no Garmin credentials
	ErrGarminNotConfigured = errors.New("garmin credentials not configured")
	// ErrCredentialsUnreadable the stored Garmin password cannot be decrypted
	ErrCredentialsUnreadable = errors.New("garmin credentials unreadable")
)

// Cipher protects the Garmin password at rest
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encrypted string) (string, error)
}

// Users the profile of the single local user
type Users struct {
	repo   EntryRepository[schema.User]
	cipher Cipher
	logger *zap.Logger
	now    func() time.Time
}

func NewUsers(repo EntryRepository[schema.User], cipher Cipher, logger *zap.Logger) *Users {
	return &Users{repo: repo, cipher: cipher, logger: logger, now: time.Now}
}

func (u *Users) load(ctx context.Context) (*schema.User, error) {
	user, err := u.repo.FindOne(ctx, common.EntryQuery{UserID: schema.DefaultUserID})
	if err != nil || user != nil {
		return user, err
	}
	user = &schema.User{Username: defaultUsername}
	user.SetOwner(schema.DefaultUserID)
	user.Touch(u.now().UTC())
	if err = u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return u.repo.FindOne(ctx, common.EntryQuery{UserID: schema.DefaultUserID})
		}
		return nil, err
	}
	u.logger.Info("default_user_created", zap.Int64("id", user.ID))
	return user, nil
}

// Me the local user, created on first access
func (u *Users) Me(ctx context.Context) (*schema.User, *common.DetailedError) {
	user, err := u.load(ctx)
	if err != nil {
		return nil, storeError(ctx, "Me", err)
	}
	return user, nil
}

// UpdateMe apply a partial profile update, the Garmin password is stored encrypted
func (u *Users) UpdateMe(ctx context.Context, update *schema.UserUpdate) (*schema.User, *common.DetailedError) {
	if derr := validateStruct(update); derr != nil {
		return nil, derr
	}
	user, derr := u.Me(ctx)
	if derr != nil {
		return nil, derr
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.GarminUsername != nil {
		user.GarminUsername = *update.GarminUsername
	}
	if update.GarminPassword != nil && *update.GarminPassword != "" {
		encrypted, err := u.cipher.Encrypt(*update.GarminPassword)
		if err != nil {
			return nil, errorRunningQuery.Wrap(fmt.Errorf("encrypt garmin password: %w", err))
		}
		user.GarminPasswordEncrypted = encrypted
	}
	user.Touch(u.now().UTC())
	if _, err := u.repo.Update(ctx, user); err != nil {
		return nil, storeError(ctx, "UpdateMe", err)
	}
	return user, nil
}

func (u *Users) GarminStatus(ctx context.Context) (*schema.GarminStatus, *common.DetailedError) {
	user, derr := u.Me(ctx)
	if derr != nil {
		return nil, derr
	}
	status := &schema.GarminStatus{Configured: user.HasGarminCredentials()}
	if status.Configured {
		status.Username = &user.GarminUsername
	}
	return status, nil
}

// GarminCredentials the Garmin username and clear password.
// ErrGarminNotConfigured when they are missing, ErrCredentialsUnreadable when the password cannot be decrypted.
func (u *Users) GarminCredentials(ctx context.Context) (string, string, error) {
	user, err := u.load(ctx)
	if err != nil {
		return "", "", err
	}
	if !user.HasGarminCredentials() {
		return "", "", ErrGarminNotConfigured
	}
	password, err := u.cipher.Decrypt(user.GarminPasswordEncrypted)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrCredentialsUnreadable, err)
	}
	return user.GarminUsername, password, nil
}
