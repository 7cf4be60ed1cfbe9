package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"
	"pokePortMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByWallet(ctx context.Context, wallet string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo UserRepository
	validate *validator.Validate
	now      func() time.Time
}

const MaxDisplayNameLength = 16

// blockedWords are rejected anywhere inside a display name, case-insensitively.
var blockedWords = []string{
	"fuck", "shit", "bitch", "cunt", "asshole", "dick", "bastard", "slut", "whore", "nigger", "faggot",
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *userService {
	return &userService{
		userRepo: userRepo,
		validate: validate,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FindOrCreateByWallet resolves a wallet to its user, creating the user on
// first sight. Every call stamps last_login. It runs against whichever
// repository it is given, so callers holding a transaction pass its
// transaction-bound repository.
func FindOrCreateByWallet(ctx context.Context, repo UserRepository, wallet string, email *string, now time.Time) (domain.User, error) {
	normalized, err := utils.NormalizeWallet(wallet)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	existing, err := repo.FindByWallet(ctx, normalized)
	if err == nil {
		if err := repo.UpdateLastLogin(ctx, existing.ID, now); err != nil {
			return domain.User{}, err
		}
		existing.LastLogin = &now
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	newUser := domain.User{
		WalletAddress: normalized,
		Username:      utils.ShortWallet(normalized),
		Email:         nonEmpty(email),
		LastLogin:     &now,
	}

	if err := repo.Create(ctx, &newUser); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return domain.User{}, err
		}

		// lost a concurrent first login for the same wallet; the winner's row
		// is the identity
		winner, findErr := repo.FindByWallet(ctx, normalized)
		if findErr != nil {
			return domain.User{}, err
		}
		if err := repo.UpdateLastLogin(ctx, winner.ID, now); err != nil {
			return domain.User{}, err
		}
		winner.LastLogin = &now
		return winner, nil
	}

	logger.Info("user created", "user_id", newUser.ID, "wallet", normalized)

	return newUser, nil
}

func (s *userService) Authenticate(ctx context.Context, wallet string, email *string) (domain.User, error) {
	if email != nil && *email != "" {
		if err := s.validate.Var(*email, "email"); err != nil {
			logger.Error("Invalid email format", err)
			return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidRequest)
		}
	}

	user, err := FindOrCreateByWallet(ctx, s.userRepo, wallet, email, s.now())
	if err != nil {
		logger.Error("Failed to authenticate wallet", err)
		return domain.User{}, err
	}

	return user, nil
}

func (s *userService) GetUserByWallet(ctx context.Context, wallet string) (domain.User, error) {
	normalized, err := utils.NormalizeWallet(wallet)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	return s.userRepo.FindByWallet(ctx, normalized)
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	if id == 0 {
		return domain.User{}, fmt.Errorf("%w: invalid user id", domain.ErrInvalidRequest)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	return user, nil
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// UpdateProfile merges the patch into the stored user. An empty email clears
// it.
func (s *userService) UpdateProfile(ctx context.Context, id uint, patch domain.UserPatch) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if patch.Email != nil {
		if *patch.Email != "" {
			if err := s.validate.Var(*patch.Email, "email"); err != nil {
				logger.Error("Invalid email format", err)
				return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidRequest)
			}
		}
		existingUser.Email = nonEmpty(patch.Email)
	}

	if patch.IsAdmin != nil {
		existingUser.IsAdmin = *patch.IsAdmin
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	return existingUser, nil
}

func (s *userService) UpdateDisplayName(ctx context.Context, wallet, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if err := ValidateDisplayName(name); err != nil {
		return domain.User{}, err
	}

	existingUser, err := s.GetUserByWallet(ctx, wallet)
	if err != nil {
		logger.Error("User not found for display name update", err)
		return domain.User{}, err
	}

	existingUser.DisplayName = &name

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update display name", err)
		return domain.User{}, err
	}

	return existingUser, nil
}

// DeleteUser hard deletes a user. Orders keep their user_id.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	logger.Info("user deleted", "user_id", id)

	return nil
}

func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: display name is required", domain.ErrInvalidRequest)
	}

	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name must be at most %d characters", domain.ErrInvalidRequest, MaxDisplayNameLength)
	}

	lower := strings.ToLower(name)
	for _, w := range blockedWords {
		if strings.Contains(lower, w) {
			return fmt.Errorf("%w: display name contains inappropriate language", domain.ErrInvalidRequest)
		}
	}

	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	v := strings.TrimSpace(*s)
	return &v
}
