package pokedex

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"pokePortMarket/business/user"
	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"
	"pokePortMarket/pkg/metrics"
	"pokePortMarket/pkg/utils"
)

// PokedexRepository contract interface
type PokedexRepository interface {
	// FindCatches lists a user's catches oldest first.
	FindCatches(ctx context.Context, userID uint) ([]domain.CaughtPokemon, error)
	// AddCatch fails with domain.ErrConflict when the user already caught on
	// p.CaughtOn.
	AddCatch(ctx context.Context, p *domain.CaughtPokemon) error
	FindBadges(ctx context.Context, userID uint) ([]domain.UserBadge, error)
	// AddBadges skips badges the user already holds.
	AddBadges(ctx context.Context, badges []domain.UserBadge) error
}

const (
	maxPokemonName = 64
	maxSprite      = 255
)

type PokedexService struct {
	users user.UserRepository
	repo  PokedexRepository
	now   func() time.Time
}

func NewPokedexService(users user.UserRepository, repo PokedexRepository) *PokedexService {
	return &PokedexService{
		users: users,
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// DailyPokemonID picks the species a wallet may catch on day. The pick is
// stable for a wallet through one UTC day.
func DailyPokemonID(wallet string, day time.Time) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(wallet) + "|" + day.UTC().Format("2006-01-02")))

	return int(h.Sum32()%domain.MaxPokemonID) + 1
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today reports the wallet's pick for the current UTC day and whether it can
// still be caught. Wallets that never signed in can always catch.
func (s *PokedexService) Today(ctx context.Context, wallet string) (domain.DailyPokemon, error) {
	normalized, err := utils.NormalizeWallet(wallet)
	if err != nil {
		return domain.DailyPokemon{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	now := s.now()
	today := startOfDay(now)
	daily := domain.DailyPokemon{
		PokemonID: DailyPokemonID(normalized, today),
		CanCatch:  true,
	}

	u, err := s.users.FindByWallet(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		return daily, nil
	}
	if err != nil {
		return domain.DailyPokemon{}, err
	}

	catches, err := s.repo.FindCatches(ctx, u.ID)
	if err != nil {
		return domain.DailyPokemon{}, err
	}

	if n := len(catches); n > 0 {
		last := catches[n-1].CaughtAt
		daily.LastCatch = &last
		if !last.UTC().Before(today) {
			daily.CanCatch = false
			daily.TimeUntilNext = int64(today.AddDate(0, 0, 1).Sub(now).Seconds())
		}
	}

	return daily, nil
}

// Catch records today's catch for a signed-in wallet and unlocks any badges
// it earns. Only the wallet's daily pick is accepted, once per UTC day;
// catching a species already in the collection is allowed.
func (s *PokedexService) Catch(ctx context.Context, input domain.CatchInput) (domain.CatchResult, error) {
	normalized, err := utils.NormalizeWallet(input.WalletAddress)
	if err != nil {
		return domain.CatchResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	name := strings.TrimSpace(input.PokemonName)
	sprite := strings.TrimSpace(input.Sprite)
	switch {
	case input.PokemonID < 1 || input.PokemonID > domain.MaxPokemonID:
		return domain.CatchResult{}, fmt.Errorf("%w: pokemon_id must be between 1 and %d", domain.ErrInvalidRequest, domain.MaxPokemonID)
	case name == "" || len(name) > maxPokemonName:
		return domain.CatchResult{}, fmt.Errorf("%w: pokemon_name is required and at most %d characters", domain.ErrInvalidRequest, maxPokemonName)
	case sprite == "" || len(sprite) > maxSprite:
		return domain.CatchResult{}, fmt.Errorf("%w: sprite is required and at most %d characters", domain.ErrInvalidRequest, maxSprite)
	}

	u, err := s.users.FindByWallet(ctx, normalized)
	if err != nil {
		return domain.CatchResult{}, err
	}

	now := s.now()
	today := startOfDay(now)
	if input.PokemonID != DailyPokemonID(normalized, today) {
		return domain.CatchResult{}, fmt.Errorf("%w: pokemon %d is not today's catch", domain.ErrInvalidRequest, input.PokemonID)
	}

	catches, err := s.repo.FindCatches(ctx, u.ID)
	if err != nil {
		return domain.CatchResult{}, err
	}

	isNew := true
	for _, p := range catches {
		if p.PokemonID == input.PokemonID {
			isNew = false
			break
		}
	}

	caught := domain.CaughtPokemon{
		UserID:      u.ID,
		PokemonID:   input.PokemonID,
		PokemonName: name,
		Sprite:      sprite,
		CaughtOn:    today,
		CaughtAt:    now,
	}
	if err := s.repo.AddCatch(ctx, &caught); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.CatchResult{}, fmt.Errorf("%w: today's pokemon was already caught", domain.ErrInvalidRequest)
		}
		logger.Error("Failed to record catch", "user_id", u.ID, "error", err)
		return domain.CatchResult{}, err
	}

	metrics.PokemonCaught.Inc()
	catches = append(catches, caught)

	unlocked, err := s.unlock(ctx, u.ID, catches)
	if err != nil {
		// the catch stands; a later badge check picks the badges up
		logger.Warn("Failed to unlock badges", "user_id", u.ID, "error", err)
		unlocked = nil
	}

	logger.Info("pokemon caught", "user_id", u.ID, "pokemon_id", caught.PokemonID, "new_entry", isNew)

	return domain.CatchResult{
		Pokemon:     caught,
		IsNewEntry:  isNew,
		TotalCaught: len(catches),
		NewBadges:   nonNilBadges(unlocked),
	}, nil
}

// GetPokedex builds a wallet's collection. Unknown and malformed wallets get
// an empty one.
func (s *PokedexService) GetPokedex(ctx context.Context, wallet string) (domain.Pokedex, error) {
	empty := domain.Pokedex{
		CaughtPokemon: []domain.CaughtPokemon{},
		UniquePokemon: []domain.PokedexEntry{},
		Badges:        []domain.UserBadge{},
	}

	normalized, err := utils.NormalizeWallet(wallet)
	if err != nil {
		return empty, nil
	}

	u, err := s.users.FindByWallet(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		return empty, nil
	}
	if err != nil {
		return domain.Pokedex{}, err
	}

	catches, err := s.repo.FindCatches(ctx, u.ID)
	if err != nil {
		return domain.Pokedex{}, err
	}

	badges, err := s.repo.FindBadges(ctx, u.ID)
	if err != nil {
		return domain.Pokedex{}, err
	}

	dex := empty
	dex.Badges = nonNilBadges(badges)
	if len(catches) == 0 {
		return dex, nil
	}

	first := map[int]domain.PokedexEntry{}
	for _, p := range catches {
		if _, ok := first[p.PokemonID]; ok {
			continue
		}
		first[p.PokemonID] = domain.PokedexEntry{
			PokemonID:     p.PokemonID,
			PokemonName:   p.PokemonName,
			Sprite:        p.Sprite,
			FirstCaughtAt: p.CaughtAt,
		}
	}

	unique := make([]domain.PokedexEntry, 0, len(first))
	for _, e := range first {
		unique = append(unique, e)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].PokemonID < unique[j].PokemonID })

	last := catches[len(catches)-1].CaughtAt
	dex.CaughtPokemon = catches
	dex.UniquePokemon = unique
	dex.TotalCaught = len(catches)
	dex.UniqueCount = len(unique)
	dex.LastDailyCatch = &last

	return dex, nil
}

// CheckBadges unlocks whatever the wallet's collection has earned and returns
// every badge it holds.
func (s *PokedexService) CheckBadges(ctx context.Context, wallet string) ([]domain.UserBadge, error) {
	normalized, err := utils.NormalizeWallet(wallet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	u, err := s.users.FindByWallet(ctx, normalized)
	if err != nil {
		return nil, err
	}

	catches, err := s.repo.FindCatches(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.unlock(ctx, u.ID, catches); err != nil {
		logger.Error("Failed to unlock badges", "user_id", u.ID, "error", err)
		return nil, err
	}

	badges, err := s.repo.FindBadges(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return nonNilBadges(badges), nil
}

// unlock stores the badges catches earn on top of those already held and
// returns the new ones.
func (s *PokedexService) unlock(ctx context.Context, userID uint, catches []domain.CaughtPokemon) ([]domain.UserBadge, error) {
	held, err := s.repo.FindBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := EarnedBadges(catches, held)
	if len(earned) == 0 {
		return nil, nil
	}

	now := s.now()
	badges := make([]domain.UserBadge, 0, len(earned))
	for _, id := range earned {
		badges = append(badges, domain.UserBadge{UserID: userID, BadgeID: id, UnlockedAt: now})
	}

	if err := s.repo.AddBadges(ctx, badges); err != nil {
		return nil, err
	}

	for _, b := range badges {
		metrics.BadgesUnlocked.WithLabelValues(b.BadgeID).Inc()
	}
	logger.Info("badges unlocked", "user_id", userID, "badges", earned)

	return badges, nil
}

func nonNilBadges(b []domain.UserBadge) []domain.UserBadge {
	if b == nil {
		return []domain.UserBadge{}
	}

	return b
}
