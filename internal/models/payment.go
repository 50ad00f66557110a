package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReservationID uint `gorm:"uniqueIndex;not null" json:"reservation_id"`

	Method string  `gorm:"size:10;not null" json:"method"`
	Status string  `gorm:"size:15;not null;default:'pendente'" json:"status"`
	Amount float64 `gorm:"type:decimal(8,2);not null" json:"amount"`

	ExternalReference string `gorm:"size:36;uniqueIndex" json:"external_reference"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	RefundedAt *time.Time `json:"refunded_at"`
}
