package models

import "time"

// Game types
const (
	GameBlackjack = "blackjack"
	GamePoker     = "poker"
	GameRoulette  = "roulette"
	GameBaccarat  = "baccarat"
	GamePaiGow    = "pai_gow"
	GameCarnival  = "carnival"
)

// GameSetting is one configured variant of a game type, e.g. "6-deck shoe"
// blackjack. A casino may configure several variants per game type.
type GameSetting struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CasinoID         string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_game_code" json:"casinoId"`
	Casino           Casino    `gorm:"foreignKey:CasinoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	GameType         string    `gorm:"type:varchar(20);not null;index" json:"gameType"`
	Code             string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_game_code" json:"code"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	VariantName      string    `gorm:"type:varchar(100)" json:"variantName"`
	HouseEdge        float64   `gorm:"type:decimal(6,3);not null;default:0" json:"houseEdge"`
	DecisionsPerHour int       `gorm:"not null;default:0" json:"decisionsPerHour"`
	SeatsAvailable   int       `gorm:"not null;default:0" json:"seatsAvailable"`
	MinBet           *int64    `json:"minBet"`
	MaxBet           *int64    `json:"maxBet"`
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" json:"updatedAt"`
}
