package main

import (
	"context"
	"flag"
	"log"
	"time"

	"pokePortMarket/business/card"
	userService "pokePortMarket/business/user"
	"pokePortMarket/domain"
	psqlRepo "pokePortMarket/internal/repository/postgres"
	"pokePortMarket/pkg/config"
	"pokePortMarket/pkg/database"
	"pokePortMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type sampleCard struct {
	name, description, price, image, rarity, number, condition string
	stock                                                      int
}

var sampleCards = []sampleCard{
	{"Charizard", "A powerful Fire/Flying-type Pokémon. This rare holographic card features stunning artwork.", "0.5", "https://images.pokemontcg.io/base1/4_hires.png", "Rare", "4/102", "Near Mint", 3},
	{"Pikachu", "The iconic Electric-type Pokémon that started it all.", "0.15", "https://images.pokemontcg.io/base1/58_hires.png", "Common", "58/102", "Mint", 10},
	{"Blastoise", "A mighty Water-type Pokémon with powerful hydro cannons. Holographic rare card.", "0.4", "https://images.pokemontcg.io/base1/2_hires.png", "Rare", "2/102", "Near Mint", 2},
	{"Venusaur", "A Grass/Poison-type Pokémon with incredible plant-based powers.", "0.35", "https://images.pokemontcg.io/base1/15_hires.png", "Rare", "15/102", "Lightly Played", 1},
	{"Mewtwo", "The legendary Psychic-type Pokémon created through genetic manipulation.", "1.2", "https://images.pokemontcg.io/base1/10_hires.png", "Ultra Rare", "10/102", "Mint", 1},
	{"Squirtle", "A Water-type starter Pokémon.", "0.08", "https://images.pokemontcg.io/base1/63_hires.png", "Common", "63/102", "Near Mint", 15},
	{"Charmander", "A Fire-type starter Pokémon.", "0.12", "https://images.pokemontcg.io/base1/46_hires.png", "Common", "46/102", "Near Mint", 8},
	{"Bulbasaur", "A Grass/Poison-type starter Pokémon.", "0.1", "https://images.pokemontcg.io/base1/44_hires.png", "Common", "44/102", "Mint", 12},
}

const sampleSet = "Base Set"

func main() {
	adminWallet := flag.String("admin", "", "wallet address to create as admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := psqlRepo.NewStore(db)
	cardService := card.NewCardService(store.Cards(), nil)

	existing, err := cardService.ListCards(ctx, domain.CardFilter{}, domain.NewPage(1, 1))
	if err != nil {
		logger.Fatal("Failed to read catalog", "error", err)
	}

	if existing.Total > 0 {
		logger.Info("Catalog already populated, skipping cards", "total", existing.Total)
	} else {
		set := sampleSet
		for _, s := range sampleCards {
			stock := s.stock
			created, err := cardService.CreateCard(ctx, domain.CardInput{
				Name:          s.name,
				Description:   &s.description,
				PriceEth:      decimal.RequireFromString(s.price),
				ImageURL:      &s.image,
				Rarity:        &s.rarity,
				SetName:       &set,
				CardNumber:    &s.number,
				Condition:     &s.condition,
				StockQuantity: &stock,
			})
			if err != nil {
				logger.Fatal("Failed to seed card", "name", s.name, "error", err)
			}
			logger.Info("Seeded card", "card_id", created.ID, "name", created.Name)
		}
	}

	if *adminWallet == "" {
		return
	}

	users := userService.NewUserService(store.Users(), validator.New())
	admin, err := users.Authenticate(ctx, *adminWallet, nil)
	if err != nil {
		logger.Fatal("Failed to create admin user", "error", err)
	}

	isAdmin := true
	if _, err := users.UpdateProfile(ctx, admin.ID, domain.UserPatch{IsAdmin: &isAdmin}); err != nil {
		logger.Fatal("Failed to grant admin", "error", err)
	}

	logger.Info("Admin user ready", "user_id", admin.ID, "wallet", admin.WalletAddress)
}
