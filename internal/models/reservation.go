package models

import "time"

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	LocationID uint     `gorm:"index:idx_reservation_location_date;not null" json:"location"`
	Location   Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Date      Date      `gorm:"index:idx_reservation_location_date;not null" json:"date"`
	StartTime TimeOfDay `gorm:"not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:15;not null;default:'pendente'" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`

	Payment *Payment `gorm:"constraint:OnDelete:CASCADE;" json:"payment,omitempty"`

	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
