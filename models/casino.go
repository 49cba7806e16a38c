package models

import "time"

// Table bank modes
const (
	BankModeInventoryCount = "INVENTORY_COUNT"
	BankModeImprestToPar   = "IMPREST_TO_PAR"
)

// Setup status
const (
	SetupNotStarted = "not_started"
	SetupInProgress = "in_progress"
	SetupReady      = "ready"
)

type Casino struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// CasinoSettings holds the per-casino configuration collected by the setup
// wizard. Empty strings mean "not configured yet".
type CasinoSettings struct {
	ID                 string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CasinoID           string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"casinoId"`
	Casino             Casino     `gorm:"foreignKey:CasinoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Timezone           string     `gorm:"type:varchar(64)" json:"timezone"`
	GamingDayStartTime string     `gorm:"type:varchar(8)" json:"gamingDayStartTime"`
	TableBankMode      string     `gorm:"type:varchar(20)" json:"tableBankMode"`
	SetupStatus        string     `gorm:"type:varchar(20);not null;default:'not_started'" json:"setupStatus"`
	SetupCompletedAt   *time.Time `json:"setupCompletedAt"`
	SetupCompletedBy   *string    `gorm:"type:varchar(36)" json:"setupCompletedBy"`
	CreatedAt          time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updatedAt"`
}
