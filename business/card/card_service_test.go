package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"pokePortMarket/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCardRepo struct {
	nextID uint
	cards  map[uint]domain.Card
	calls  int
	// afterRead runs once, after the next listing has been loaded
	afterRead func()
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[uint]domain.Card{}}
}

func (r *fakeCardRepo) Create(_ context.Context, c *domain.Card) error {
	r.nextID++
	c.ID = r.nextID
	r.cards[c.ID] = *c
	return nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id uint) (domain.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return domain.Card{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeCardRepo) active(match func(domain.Card) bool, page domain.Page) ([]domain.Card, int64) {
	r.calls++

	var all []domain.Card
	for _, c := range r.cards {
		if c.IsActive && match(c) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}

	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

func (r *fakeCardRepo) FindActive(_ context.Context, f domain.CardFilter, page domain.Page) ([]domain.Card, int64, error) {
	items, total := r.active(func(c domain.Card) bool {
		if f.Rarity != "" && (c.Rarity == nil || *c.Rarity != f.Rarity) {
			return false
		}
		if f.SetName != "" && (c.SetName == nil || *c.SetName != f.SetName) {
			return false
		}
		return true
	}, page)
	return items, total, nil
}

func (r *fakeCardRepo) SearchActive(_ context.Context, q string, page domain.Page) ([]domain.Card, int64, error) {
	items, total := r.active(func(c domain.Card) bool {
		return strings.Contains(c.Name, q)
	}, page)
	return items, total, nil
}

func (r *fakeCardRepo) Update(_ context.Context, id uint, p domain.CardPatch) error {
	c, ok := r.cards[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.PriceEth != nil {
		c.PriceEth = *p.PriceEth
	}
	if p.Rarity != nil {
		c.Rarity = p.Rarity
	}
	if p.StockQuantity != nil {
		c.StockQuantity = *p.StockQuantity
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	r.cards[id] = c
	return nil
}

func (r *fakeCardRepo) Deactivate(_ context.Context, id uint) error {
	c, ok := r.cards[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = false
	r.cards[id] = c
	return nil
}

func (r *fakeCardRepo) DecrementStock(_ context.Context, id uint, qty int) (bool, error) {
	c, ok := r.cards[id]
	if !ok || !c.IsActive || c.StockQuantity < qty {
		return false, nil
	}
	c.StockQuantity -= qty
	r.cards[id] = c
	return true, nil
}

func (r *fakeCardRepo) IncrementStock(_ context.Context, id uint, qty int) (bool, error) {
	c, ok := r.cards[id]
	if !ok {
		return false, nil
	}
	c.StockQuantity += qty
	r.cards[id] = c
	return true, nil
}

func (r *fakeCardRepo) DistinctSets(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, c := range r.cards {
		if c.IsActive && c.SetName != nil && !seen[*c.SetName] {
			seen[*c.SetName] = true
			out = append(out, *c.SetName)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fakeCache keys entries by catalog version like the Redis cache does.
type fakeCache struct {
	version       int
	entries       map[string][]byte
	invalidations int
	failReads     bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) (string, bool, error) {
	if c.failReads {
		return "", false, errors.New("connection refused")
	}
	slot := fmt.Sprintf("v%d:%s", c.version, key)
	raw, ok := c.entries[slot]
	if !ok {
		return slot, false, nil
	}
	return slot, true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, slot string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[slot] = raw
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.invalidations++
	c.version++
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func seed(t *testing.T, svc *cardService, name, rarity, set string) domain.Card {
	t.Helper()
	c, err := svc.CreateCard(context.Background(), domain.CardInput{
		Name:     name,
		PriceEth: decimal.RequireFromString("0.5"),
		Rarity:   strPtr(rarity),
		SetName:  strPtr(set),
	})
	require.NoError(t, err)
	return c
}

func TestCreateCardDefaults(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)

	c, err := svc.CreateCard(context.Background(), domain.CardInput{
		Name:     " Pikachu ",
		PriceEth: decimal.RequireFromString("0.25"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Pikachu", c.Name)
	assert.Equal(t, 1, c.StockQuantity)
	assert.True(t, c.IsActive)

	zero, err := svc.CreateCard(context.Background(), domain.CardInput{
		Name:          "Ditto",
		PriceEth:      decimal.Zero,
		StockQuantity: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, zero.StockQuantity)
}

func TestCreateCardValidation(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input domain.CardInput
	}{
		{name: "missing name", input: domain.CardInput{PriceEth: decimal.NewFromInt(1)}},
		{name: "negative price", input: domain.CardInput{Name: "Mew", PriceEth: decimal.NewFromInt(-1)}},
		{name: "negative stock", input: domain.CardInput{Name: "Mew", PriceEth: decimal.NewFromInt(1), StockQuantity: intPtr(-2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCard(ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestListCardsFiltersAndHidesInactive(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)
	ctx := context.Background()

	seed(t, svc, "Charizard", "Rare", "Base Set")
	seed(t, svc, "Bulbasaur", "Common", "Base Set")
	hidden := seed(t, svc, "Mewtwo", "Rare", "Base Set")
	seed(t, svc, "Lugia", "Rare", "Neo Genesis")

	require.NoError(t, svc.DeactivateCard(ctx, hidden.ID))

	res, err := svc.ListCards(ctx, domain.CardFilter{Rarity: "Rare", SetName: "Base Set"}, domain.NewPage(1, 20))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Charizard", res.Items[0].Name)
	assert.EqualValues(t, 1, res.Total)
	assert.Equal(t, 1, res.Pages)

	all, err := svc.ListCards(ctx, domain.CardFilter{}, domain.NewPage(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, 2, all.Pages)
	assert.Len(t, all.Items, 2)

	got, err := svc.GetCardByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestSearchCards(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)
	ctx := context.Background()

	seed(t, svc, "Charizard", "Rare", "Base Set")
	seed(t, svc, "Charmander", "Common", "Base Set")
	hidden := seed(t, svc, "Blastoise", "Rare", "Base Set")
	require.NoError(t, svc.DeactivateCard(ctx, hidden.ID))

	empty, err := svc.SearchCards(ctx, "", domain.NewPage(1, 20))
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.EqualValues(t, 0, empty.Total)
	assert.Equal(t, 0, empty.Pages)
	assert.Equal(t, 1, empty.CurrentPage)

	one, err := svc.SearchCards(ctx, "izard", domain.NewPage(1, 20))
	require.NoError(t, err)
	require.Len(t, one.Items, 1)
	assert.Equal(t, "Charizard", one.Items[0].Name)

	none, err := svc.SearchCards(ctx, "Blast", domain.NewPage(1, 20))
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestUpdateCardMerges(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)
	ctx := context.Background()

	c := seed(t, svc, "Gengar", "Rare", "Fossil")

	price := decimal.RequireFromString("1.75")
	updated, err := svc.UpdateCard(ctx, c.ID, domain.CardPatch{PriceEth: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.PriceEth))
	assert.Equal(t, "Gengar", updated.Name)
	assert.Equal(t, "Rare", *updated.Rarity)

	_, err = svc.UpdateCard(ctx, c.ID, domain.CardPatch{StockQuantity: intPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.UpdateCard(ctx, c.ID, domain.CardPatch{Name: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.UpdateCard(ctx, 404, domain.CardPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	same, err := svc.UpdateCard(ctx, c.ID, domain.CardPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated.PriceEth.String(), same.PriceEth.String())
}

func TestDeactivateMissingCard(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)
	assert.ErrorIs(t, svc.DeactivateCard(context.Background(), 7), domain.ErrNotFound)
}

func TestListSets(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), nil)
	seed(t, svc, "Pikachu", "Common", "Jungle")
	seed(t, svc, "Raichu", "Rare", "Base Set")
	seed(t, svc, "Pichu", "Common", "Jungle")

	sets, err := svc.ListSets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Base Set", "Jungle"}, sets)
}

func TestListCardsUsesCache(t *testing.T) {
	repo := newFakeCardRepo()
	cache := newFakeCache()
	svc := NewCardService(repo, cache)
	ctx := context.Background()

	seed(t, svc, "Snorlax", "Rare", "Jungle")
	page := domain.NewPage(1, 20)

	first, err := svc.ListCards(ctx, domain.CardFilter{}, page)
	require.NoError(t, err)
	second, err := svc.ListCards(ctx, domain.CardFilter{}, page)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Items[0].Name, second.Items[0].Name)

	seed(t, svc, "Eevee", "Common", "Jungle")
	third, err := svc.ListCards(ctx, domain.CardFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.EqualValues(t, 2, third.Total)
}

func TestCacheFailureFallsBackToStore(t *testing.T) {
	repo := newFakeCardRepo()
	cache := newFakeCache()
	cache.failReads = true
	svc := NewCardService(repo, cache)

	seed(t, svc, "Onix", "Common", "Base Set")

	res, err := svc.ListCards(context.Background(), domain.CardFilter{}, domain.NewPage(1, 20))
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestListingReadDuringDeactivationIsNotCached(t *testing.T) {
	repo := newFakeCardRepo()
	cache := newFakeCache()
	svc := NewCardService(repo, cache)
	ctx := context.Background()

	c := seed(t, svc, "Mewtwo", "Ultra Rare", "Base Set")
	page := domain.NewPage(1, 20)

	repo.afterRead = func() {
		require.NoError(t, svc.DeactivateCard(ctx, c.ID))
	}

	first, err := svc.ListCards(ctx, domain.CardFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Total)

	second, err := svc.ListCards(ctx, domain.CardFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 0, second.Total)
	assert.Empty(t, second.Items)
}

func TestCacheReadFailureSkipsWrite(t *testing.T) {
	repo := newFakeCardRepo()
	cache := newFakeCache()
	svc := NewCardService(repo, cache)
	seed(t, svc, "Onix", "Common", "Base Set")

	cache.failReads = true
	_, err := svc.ListSets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cache.entries)
}
