package postgres

import (
	"context"
	"fmt"
	"time"

	"pokePortMarket/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

// Create inserts inside its own transaction, which becomes a savepoint when
// the repository is already bound to one. A unique violation then leaves the
// outer transaction usable.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})

	return translate(err, "user")
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User

	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return domain.User{}, translate(err, "user")
	}

	return user, nil
}

func (r *UserRepository) FindByWallet(ctx context.Context, wallet string) (domain.User, error) {
	var user domain.User

	if err := r.DB.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		return domain.User{}, translate(err, "user")
	}

	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User

	if err := r.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, translate(err, "users")
	}

	return users, nil
}

// Update writes the mutable profile columns.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Select("email", "is_admin", "display_name").
		Updates(user)
	if result.Error != nil {
		return translate(result.Error, "user")
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("last_login", at)
	if result.Error != nil {
		return translate(result.Error, "user")
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return translate(result.Error, "user")
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}

	return nil
}
