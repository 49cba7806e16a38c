package models

import "time"

// Table statuses
const (
	TableActive   = "active"
	TableInactive = "inactive"
	TableClosed   = "closed"
)

type GamingTable struct {
	ID             string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	CasinoID       string       `gorm:"type:varchar(36);not null;index" json:"casinoId"`
	Casino         Casino       `gorm:"foreignKey:CasinoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Label          string       `gorm:"type:varchar(50);not null" json:"label"`
	Pit            string       `gorm:"type:varchar(50)" json:"pit"`
	GameType       string       `gorm:"type:varchar(20);not null" json:"gameType"`
	GameSettingsID *string      `gorm:"type:varchar(36)" json:"gameSettingsId"`
	GameSettings   *GameSetting `gorm:"foreignKey:GameSettingsID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Status         string       `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ParTotalCents  *int64       `json:"parTotalCents"`
	ParUpdatedAt   *time.Time   `json:"parUpdatedAt"`
	ParUpdatedBy   *string      `gorm:"type:varchar(36)" json:"parUpdatedBy"`
	CreatedAt      time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updatedAt"`
}
