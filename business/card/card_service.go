package card

import (
	"context"
	"fmt"
	"strings"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"
	"pokePortMarket/pkg/metrics"
)

// CardRepository contract interface
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id uint) (domain.Card, error)
	FindActive(ctx context.Context, filter domain.CardFilter, page domain.Page) ([]domain.Card, int64, error)
	SearchActive(ctx context.Context, query string, page domain.Page) ([]domain.Card, int64, error)
	Update(ctx context.Context, id uint, patch domain.CardPatch) error
	Deactivate(ctx context.Context, id uint) error
	// DecrementStock removes qty units only if the card is active and holds
	// at least qty. It reports false when nothing was changed.
	DecrementStock(ctx context.Context, id uint, qty int) (bool, error)
	// IncrementStock reports false when the card row no longer exists.
	IncrementStock(ctx context.Context, id uint, qty int) (bool, error)
	DistinctSets(ctx context.Context) ([]string, error)
}

// CatalogCache stores rendered catalog pages. Get resolves key against the
// current catalog version and returns that slot even on a miss; a page read
// from the store after the miss must be written back to that same slot, so a
// page read before an Invalidate is never filed under the newer version.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest any) (slot string, hit bool, err error)
	Set(ctx context.Context, slot string, value any) error
	Invalidate(ctx context.Context) error
}

type cardService struct {
	cardRepo CardRepository
	cache    CatalogCache
}

// NewCardService builds the catalog. cache may be nil.
func NewCardService(cardRepo CardRepository, cache CatalogCache) *cardService {
	return &cardService{
		cardRepo: cardRepo,
		cache:    cache,
	}
}

func (s *cardService) ListCards(ctx context.Context, filter domain.CardFilter, page domain.Page) (domain.PageResult[domain.Card], error) {
	key := fmt.Sprintf("list:r=%s:s=%s:p=%d:n=%d", filter.Rarity, filter.SetName, page.Page, page.PerPage)

	var cached domain.PageResult[domain.Card]
	slot, hit := s.cacheGet(ctx, key, &cached)
	if hit {
		return cached, nil
	}

	cards, total, err := s.cardRepo.FindActive(ctx, filter, page)
	if err != nil {
		logger.Error("Failed to list cards", err)
		return domain.PageResult[domain.Card]{}, err
	}

	result := domain.NewPageResult(cards, total, page)
	s.cacheSet(ctx, slot, result)

	return result, nil
}

// SearchCards matches q as a substring of active card names. An empty query
// matches nothing.
func (s *cardService) SearchCards(ctx context.Context, q string, page domain.Page) (domain.PageResult[domain.Card], error) {
	if q == "" {
		return domain.NewPageResult([]domain.Card{}, 0, page), nil
	}

	key := fmt.Sprintf("search:q=%s:p=%d:n=%d", q, page.Page, page.PerPage)

	var cached domain.PageResult[domain.Card]
	slot, hit := s.cacheGet(ctx, key, &cached)
	if hit {
		return cached, nil
	}

	cards, total, err := s.cardRepo.SearchActive(ctx, q, page)
	if err != nil {
		logger.Error("Failed to search cards", err)
		return domain.PageResult[domain.Card]{}, err
	}

	result := domain.NewPageResult(cards, total, page)
	s.cacheSet(ctx, slot, result)

	return result, nil
}

// GetCardByID returns the card whether or not it is active.
func (s *cardService) GetCardByID(ctx context.Context, id uint) (domain.Card, error) {
	if id == 0 {
		return domain.Card{}, fmt.Errorf("%w: invalid card id", domain.ErrInvalidRequest)
	}

	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find card by id", err)
		return domain.Card{}, err
	}

	return card, nil
}

func (s *cardService) CreateCard(ctx context.Context, input domain.CardInput) (domain.Card, error) {
	if strings.TrimSpace(input.Name) == "" {
		logger.Error("Invalid card data: name is required")
		return domain.Card{}, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	if input.PriceEth.IsNegative() {
		logger.Error("Invalid card data: price cannot be negative")
		return domain.Card{}, fmt.Errorf("%w: price_eth cannot be negative", domain.ErrInvalidRequest)
	}

	stock := domain.DefaultStockQuantity
	if input.StockQuantity != nil {
		stock = *input.StockQuantity
	}
	if stock < 0 {
		logger.Error("Invalid card data: stock cannot be negative")
		return domain.Card{}, fmt.Errorf("%w: stock_quantity cannot be negative", domain.ErrInvalidRequest)
	}

	card := domain.Card{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		PriceEth:      input.PriceEth,
		ImageURL:      input.ImageURL,
		Rarity:        input.Rarity,
		SetName:       input.SetName,
		CardNumber:    input.CardNumber,
		Condition:     input.Condition,
		StockQuantity: stock,
		IsActive:      true,
	}

	if err := s.cardRepo.Create(ctx, &card); err != nil {
		logger.Error("failed to create new card", err)
		return domain.Card{}, fmt.Errorf("failed to create card: %w", err)
	}

	s.invalidate(ctx)
	logger.Info("card created successfully", "card_id", card.ID)

	return card, nil
}

// UpdateCard applies only the fields present in the patch.
func (s *cardService) UpdateCard(ctx context.Context, id uint, patch domain.CardPatch) (domain.Card, error) {
	if id == 0 {
		return domain.Card{}, fmt.Errorf("%w: invalid card id", domain.ErrInvalidRequest)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Card{}, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidRequest)
	}

	if patch.PriceEth != nil && patch.PriceEth.IsNegative() {
		return domain.Card{}, fmt.Errorf("%w: price_eth cannot be negative", domain.ErrInvalidRequest)
	}

	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return domain.Card{}, fmt.Errorf("%w: stock_quantity cannot be negative", domain.ErrInvalidRequest)
	}

	if !patch.Empty() {
		if err := s.cardRepo.Update(ctx, id, patch); err != nil {
			logger.Error("failed to update card", err)
			return domain.Card{}, err
		}
		s.invalidate(ctx)
	}

	updated, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to fetch updated card", err)
		return domain.Card{}, err
	}

	logger.Info("card updated", "card_id", id)

	return updated, nil
}

// DeactivateCard hides the card from listings. Stock and pending orders are
// left alone.
func (s *cardService) DeactivateCard(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: invalid card id", domain.ErrInvalidRequest)
	}

	if err := s.cardRepo.Deactivate(ctx, id); err != nil {
		logger.Error("failed to deactivate card", err)
		return err
	}

	s.invalidate(ctx)
	logger.Info("card deactivated", "card_id", id)

	return nil
}

func (s *cardService) ListSets(ctx context.Context) ([]string, error) {
	var cached []string
	slot, hit := s.cacheGet(ctx, "sets", &cached)
	if hit {
		return cached, nil
	}

	sets, err := s.cardRepo.DistinctSets(ctx)
	if err != nil {
		logger.Error("Failed to list card sets", err)
		return nil, err
	}

	if sets == nil {
		sets = []string{}
	}
	s.cacheSet(ctx, slot, sets)

	return sets, nil
}

// cacheGet returns the slot to fill on a miss; an empty slot means the page
// must not be cached.
func (s *cardService) cacheGet(ctx context.Context, key string, dest any) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	slot, ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("catalog cache read failed", "key", key, "error", err)
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
		return "", false
	}

	if ok {
		metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
	}

	return slot, ok
}

func (s *cardService) cacheSet(ctx context.Context, slot string, value any) {
	if s.cache == nil || slot == "" {
		return
	}

	if err := s.cache.Set(ctx, slot, value); err != nil {
		logger.Warn("catalog cache write failed", "slot", slot, "error", err)
	}
}

func (s *cardService) invalidate(ctx context.Context) {
	InvalidateCatalog(ctx, s.cache)
}

// InvalidateCatalog drops cached catalog pages. A nil cache is a no-op and
// failures are only logged.
func InvalidateCatalog(ctx context.Context, cache CatalogCache) {
	if cache == nil {
		return
	}

	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("catalog cache invalidation failed", "error", err)
	}
}
