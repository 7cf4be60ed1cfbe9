package postgres

import (
	"context"

	"pokePortMarket/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PokedexRepository struct {
	DB *gorm.DB
}

func NewPokedexRepository(db *gorm.DB) *PokedexRepository {
	return &PokedexRepository{
		DB: db,
	}
}

func (r *PokedexRepository) FindCatches(ctx context.Context, userID uint) ([]domain.CaughtPokemon, error) {
	var catches []domain.CaughtPokemon

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("caught_at, id").Find(&catches).Error; err != nil {
		return nil, translate(err, "catches")
	}

	return catches, nil
}

// AddCatch relies on the (user_id, caught_on) unique index for the one catch
// per day rule.
func (r *PokedexRepository) AddCatch(ctx context.Context, p *domain.CaughtPokemon) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "catch")
}

func (r *PokedexRepository) FindBadges(ctx context.Context, userID uint) ([]domain.UserBadge, error) {
	var badges []domain.UserBadge

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("unlocked_at, id").Find(&badges).Error; err != nil {
		return nil, translate(err, "badges")
	}

	return badges, nil
}

func (r *PokedexRepository) AddBadges(ctx context.Context, badges []domain.UserBadge) error {
	if len(badges) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "badge_id"}}, DoNothing: true}).
		Create(&badges).Error

	return translate(err, "badges")
}
