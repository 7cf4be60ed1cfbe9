package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pokePortMarket/domain"

	"gorm.io/gorm"
)

type CardRepository struct {
	DB *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{
		DB: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func activeCards(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Card{}).Where("is_active = ?", true)
}

func paginate(page domain.Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.PerPage)
	}
}

func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	if err := r.DB.WithContext(ctx).Create(card).Error; err != nil {
		return translate(err, "card")
	}

	return nil
}

func (r *CardRepository) FindByID(ctx context.Context, id uint) (domain.Card, error) {
	var card domain.Card

	if err := r.DB.WithContext(ctx).First(&card, id).Error; err != nil {
		return domain.Card{}, translate(err, "card")
	}

	return card, nil
}

func (r *CardRepository) FindActive(ctx context.Context, filter domain.CardFilter, page domain.Page) ([]domain.Card, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		db = activeCards(db)
		if filter.Rarity != "" {
			db = db.Where("rarity = ?", filter.Rarity)
		}
		if filter.SetName != "" {
			db = db.Where("set_name = ?", filter.SetName)
		}
		return db
	}

	return r.findPage(ctx, filtered, page)
}

// SearchActive matches query as a literal, case-sensitive substring of the
// card name.
func (r *CardRepository) SearchActive(ctx context.Context, query string, page domain.Page) ([]domain.Card, int64, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"

	matching := func(db *gorm.DB) *gorm.DB {
		return activeCards(db).Where("name LIKE ?", pattern)
	}

	return r.findPage(ctx, matching, page)
}

func (r *CardRepository) findPage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page domain.Page) ([]domain.Card, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "cards")
	}

	var cards []domain.Card
	if err := r.DB.WithContext(ctx).Scopes(scope, paginate(page)).Order("id").Find(&cards).Error; err != nil {
		return nil, 0, translate(err, "cards")
	}

	return cards, total, nil
}

// Update writes only the fields present in the patch.
func (r *CardRepository) Update(ctx context.Context, id uint, patch domain.CardPatch) error {
	updateData := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}

	if patch.Name != nil {
		updateData["name"] = *patch.Name
	}
	if patch.Description != nil {
		updateData["description"] = *patch.Description
	}
	if patch.PriceEth != nil {
		updateData["price_eth"] = *patch.PriceEth
	}
	if patch.ImageURL != nil {
		updateData["image_url"] = *patch.ImageURL
	}
	if patch.Rarity != nil {
		updateData["rarity"] = *patch.Rarity
	}
	if patch.SetName != nil {
		updateData["set_name"] = *patch.SetName
	}
	if patch.CardNumber != nil {
		updateData["card_number"] = *patch.CardNumber
	}
	if patch.Condition != nil {
		updateData["condition"] = *patch.Condition
	}
	if patch.StockQuantity != nil {
		updateData["stock_quantity"] = *patch.StockQuantity
	}
	if patch.IsActive != nil {
		updateData["is_active"] = *patch.IsActive
	}

	result := r.DB.WithContext(ctx).Model(&domain.Card{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		return translate(result.Error, "card")
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: card not found", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Model(&domain.Card{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error, "card")
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: card not found", domain.ErrNotFound)
	}

	return nil
}

// DecrementStock is a single conditional UPDATE; zero affected rows means the
// card is inactive, gone, or short of stock.
func (r *CardRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	if qty < 1 {
		return false, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidRequest)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Card{}).
		Where("id = ? AND is_active = ? AND stock_quantity >= ?", id, true, qty).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, translate(result.Error, "card")
	}

	return result.RowsAffected == 1, nil
}

func (r *CardRepository) IncrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	if qty < 1 {
		return false, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidRequest)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Card{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, translate(result.Error, "card")
	}

	return result.RowsAffected == 1, nil
}

// DistinctSets lists the set names of active cards, alphabetically.
func (r *CardRepository) DistinctSets(ctx context.Context) ([]string, error) {
	var sets []string

	err := activeCards(r.DB.WithContext(ctx)).
		Where("set_name IS NOT NULL AND set_name <> ''").
		Distinct("set_name").
		Order("set_name").
		Pluck("set_name", &sets).Error
	if err != nil {
		return nil, translate(err, "card sets")
	}

	return sets, nil
}
