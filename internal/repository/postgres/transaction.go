package postgres

import (
	"context"

	"pokePortMarket/business/card"
	"pokePortMarket/business/orders"
	"pokePortMarket/business/user"

	"gorm.io/gorm"
)

// Store hands out repositories bound to one gorm handle. The Store built by
// NewStore uses the pool; the one passed to WithinTransaction callbacks is
// bound to the open transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() user.UserRepository {
	return NewUserRepository(s.db)
}

func (s *Store) Cards() card.CardRepository {
	return NewCardRepository(s.db)
}

func (s *Store) Orders() orders.OrdersRepository {
	return NewOrdersRepository(s.db)
}

func (s *Store) Pokedex() *PokedexRepository {
	return NewPokedexRepository(s.db)
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTransaction(ctx context.Context, fn func(repos orders.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
