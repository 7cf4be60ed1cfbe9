package domain

import (
	"time"
)

// CREATE TABLE public.caught_pokemon (
//     id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
//     user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
//     pokemon_id    INTEGER NOT NULL CHECK (pokemon_id BETWEEN 1 AND 151),
//     pokemon_name  VARCHAR(64) NOT NULL,
//     sprite        VARCHAR(255) NOT NULL,
//     caught_on     DATE NOT NULL,
//     caught_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//     UNIQUE (user_id, caught_on)
// );

const (
	// MaxPokemonID bounds the catchable range to the Kanto dex.
	MaxPokemonID = 151
)

type CaughtPokemon struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;not null" json:"-"`
	PokemonID   int       `gorm:"column:pokemon_id;not null" json:"pokemon_id"`
	PokemonName string    `gorm:"column:pokemon_name;type:varchar(64);not null" json:"pokemon_name"`
	Sprite      string    `gorm:"column:sprite;type:varchar(255);not null" json:"sprite"`
	CaughtOn    time.Time `gorm:"column:caught_on;type:date;not null" json:"-"`
	CaughtAt    time.Time `gorm:"column:caught_at;not null" json:"caught_at"`
}

func (CaughtPokemon) TableName() string {
	return "caught_pokemon"
}

type UserBadge struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"column:user_id;not null" json:"-"`
	BadgeID    string    `gorm:"column:badge_id;type:varchar(40);not null" json:"badge_id"`
	UnlockedAt time.Time `gorm:"column:unlocked_at;not null" json:"unlocked_at"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// PokedexEntry is one species in a collection, at its first catch.
type PokedexEntry struct {
	PokemonID     int       `json:"pokemon_id"`
	PokemonName   string    `json:"pokemon_name"`
	Sprite        string    `json:"sprite"`
	FirstCaughtAt time.Time `json:"first_caught_at"`
}

type Pokedex struct {
	CaughtPokemon  []CaughtPokemon `json:"caught_pokemon"`
	UniquePokemon  []PokedexEntry  `json:"unique_pokemon"`
	TotalCaught    int             `json:"total_caught"`
	UniqueCount    int             `json:"unique_count"`
	LastDailyCatch *time.Time      `json:"last_daily_catch"`
	Badges         []UserBadge     `json:"badges"`
}

// DailyPokemon is the species a wallet may catch today. TimeUntilNext counts
// seconds until the next UTC day when today's catch is spent.
type DailyPokemon struct {
	PokemonID     int        `json:"pokemon_id"`
	CanCatch      bool       `json:"can_catch"`
	TimeUntilNext int64      `json:"time_until_next"`
	LastCatch     *time.Time `json:"last_catch"`
}

type CatchInput struct {
	WalletAddress string
	PokemonID     int
	PokemonName   string
	Sprite        string
}

type CatchResult struct {
	Pokemon     CaughtPokemon `json:"pokemon"`
	IsNewEntry  bool          `json:"is_new_entry"`
	TotalCaught int           `json:"total_caught"`
	NewBadges   []UserBadge   `json:"new_badges"`
}
