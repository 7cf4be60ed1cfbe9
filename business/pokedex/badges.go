package pokedex

import (
	"pokePortMarket/domain"
)

// Species groups used by the type badges. A species can sit in more than one.
var (
	bugTypes      = []int{10, 11, 12, 13, 14, 15, 46, 47, 48, 49, 123, 127}
	rockTypes     = []int{74, 75, 76, 95, 138, 139, 140, 141, 142}
	groundTypes   = []int{27, 28, 50, 51, 104, 105, 111, 112}
	waterTypes    = []int{7, 8, 9, 54, 55, 60, 61, 62, 72, 73, 79, 80, 86, 87, 90, 91, 98, 99, 116, 117, 118, 119, 120, 121, 129, 130, 131, 134, 138, 139, 140, 141}
	flyingTypes   = []int{6, 12, 15, 16, 17, 18, 21, 22, 41, 42, 49, 83, 84, 85, 123, 130, 142, 144, 145, 146, 149}
	electricTypes = []int{25, 26, 81, 82, 100, 101, 125, 135, 145}
	psychicTypes  = []int{63, 64, 65, 79, 80, 96, 97, 102, 103, 121, 122, 124, 150, 151}
	evolvedForms  = []int{2, 3, 5, 6, 8, 9, 11, 12, 14, 15, 17, 18, 20, 22, 24, 26, 28, 30, 31, 33, 34, 36, 38, 40, 42, 44, 45, 47, 49, 51, 53, 55, 57, 59, 61, 62, 64, 65, 67, 68, 70, 71, 73, 75, 76, 78, 80, 82, 85, 87, 89, 91, 93, 94, 97, 99, 101, 103, 105, 107, 110, 112, 117, 119, 121, 130, 134, 135, 136, 139, 141, 148, 149}
)

// collection is the view of a user's catches the rules run against.
type collection struct {
	total   int
	species map[int]bool
	days    map[string]bool
}

func newCollection(catches []domain.CaughtPokemon) collection {
	c := collection{
		total:   len(catches),
		species: make(map[int]bool, len(catches)),
		days:    make(map[string]bool, len(catches)),
	}
	for _, p := range catches {
		c.species[p.PokemonID] = true
		c.days[p.CaughtAt.UTC().Format("2006-01-02")] = true
	}

	return c
}

// owned counts how many of ids are in the collection.
func (c collection) owned(ids ...[]int) int {
	seen := map[int]bool{}
	n := 0
	for _, group := range ids {
		for _, id := range group {
			if seen[id] {
				continue
			}
			seen[id] = true
			if c.species[id] {
				n++
			}
		}
	}

	return n
}

func (c collection) hasAll(ids ...int) bool {
	for _, id := range ids {
		if !c.species[id] {
			return false
		}
	}

	return true
}

func (c collection) hasAny(ids ...int) bool {
	for _, id := range ids {
		if c.species[id] {
			return true
		}
	}

	return false
}

type badgeRule struct {
	id    string
	check func(c collection) bool
}

// badgeRules run in this order, which is also the order new badges are
// reported in.
var badgeRules = []badgeRule{
	{"first_catch", func(c collection) bool { return c.total >= 1 }},
	{"novice_collector", func(c collection) bool { return c.total >= 10 }},
	{"kanto_explorer", func(c collection) bool { return c.total >= 25 }},
	{"rising_star", func(c collection) bool { return c.total >= 50 }},
	{"century_club", func(c collection) bool { return c.total >= 100 }},
	{"kanto_master", func(c collection) bool { return c.total >= 151 }},
	{"starter_squad", func(c collection) bool { return c.hasAll(1, 4, 7) }},
	{"evolution_expert", func(c collection) bool { return c.owned(evolvedForms) >= 10 }},
	{"forest_dweller", func(c collection) bool { return c.owned(bugTypes) >= 5 }},
	{"mountain_hiker", func(c collection) bool { return c.owned(rockTypes, groundTypes) >= 5 }},
	{"swimmer", func(c collection) bool { return c.owned(waterTypes) >= 10 }},
	{"bird_watcher", func(c collection) bool { return c.owned(flyingTypes) >= 10 }},
	{"electrician", func(c collection) bool { return c.owned(electricTypes) >= 5 }},
	{"psychic_master", func(c collection) bool { return c.owned(psychicTypes) >= 5 }},
	{"ghost_hunter", func(c collection) bool { return c.hasAll(92, 93, 94) }},
	{"dragon_tamer", func(c collection) bool { return c.hasAll(147, 148, 149) }},
	{"legendary_finder", func(c collection) bool { return c.hasAny(144, 145, 146) }},
	{"the_chosen_one", func(c collection) bool { return c.hasAll(150) }},
	{"hidden_myth", func(c collection) bool { return c.hasAll(151) }},
	{"daily_dedicated", func(c collection) bool { return len(c.days) >= 7 }},
}

// EarnedBadges returns the ids of rules the catches satisfy that are not in
// held yet. Count badges count every catch, duplicates included.
func EarnedBadges(catches []domain.CaughtPokemon, held []domain.UserBadge) []string {
	have := make(map[string]bool, len(held))
	for _, b := range held {
		have[b.BadgeID] = true
	}

	c := newCollection(catches)
	var earned []string
	for _, rule := range badgeRules {
		if !have[rule.id] && rule.check(c) {
			earned = append(earned, rule.id)
		}
	}

	return earned
}
