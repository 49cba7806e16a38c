package models

import "time"

// Staff roles
const (
	RoleAdmin      = "admin"
	RolePitBoss    = "pit_boss"
	RoleCashier    = "cashier"
	RoleDealer     = "dealer"
	RoleCompliance = "compliance"
)

type Staff struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CasinoID  string    `gorm:"type:varchar(36);index;not null" json:"casinoId"`
	Casino    Casino    `gorm:"foreignKey:CasinoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
