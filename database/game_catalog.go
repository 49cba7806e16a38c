package database

import "github.com/yeremiapane/casino-floor/models"

// defaultGames are the variants installed when a casino seeds a game type.
var defaultGames = map[string][]models.GameSetting{
	models.GameBlackjack: {
		{Code: "bj_6d", Name: "Blackjack", VariantName: "6-deck shoe", HouseEdge: 0.5, DecisionsPerHour: 70, SeatsAvailable: 7},
		{Code: "bj_2d", Name: "Blackjack", VariantName: "Double deck pitch", HouseEdge: 0.4, DecisionsPerHour: 80, SeatsAvailable: 6},
	},
	models.GamePoker: {
		{Code: "uth", Name: "Ultimate Texas Hold'em", HouseEdge: 2.19, DecisionsPerHour: 30, SeatsAvailable: 6},
		{Code: "three_card", Name: "Three Card Poker", HouseEdge: 3.37, DecisionsPerHour: 35, SeatsAvailable: 6},
	},
	models.GameRoulette: {
		{Code: "roulette_00", Name: "Roulette", VariantName: "Double zero", HouseEdge: 5.26, DecisionsPerHour: 40, SeatsAvailable: 8},
	},
	models.GameBaccarat: {
		{Code: "midi_bac", Name: "Midi Baccarat", HouseEdge: 1.06, DecisionsPerHour: 72, SeatsAvailable: 9},
	},
	models.GamePaiGow: {
		{Code: "pai_gow_poker", Name: "Pai Gow Poker", HouseEdge: 1.46, DecisionsPerHour: 30, SeatsAvailable: 6},
	},
	models.GameCarnival: {
		{Code: "let_it_ride", Name: "Let It Ride", HouseEdge: 3.51, DecisionsPerHour: 40, SeatsAvailable: 7},
	},
}
