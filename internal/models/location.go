package models

import "time"

type Location struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerID uint `gorm:"index;not null" json:"owner"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"size:255" json:"address"`
	Timezone    string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	PricePerHour float64 `gorm:"type:decimal(8,2);not null;default:0" json:"price_per_hour"`

	OperatingHoursStart TimeOfDay `gorm:"not null" json:"operating_hours_start"`
	OperatingHoursEnd   TimeOfDay `gorm:"not null" json:"operating_hours_end"`

	CancellationHours int  `gorm:"not null;default:24" json:"cancellation_hours"`
	MaxDuration       int  `gorm:"not null;default:4" json:"max_duration"`
	IsActive          bool `gorm:"not null;default:true" json:"is_active"`

	Images []LocationImage `gorm:"constraint:OnDelete:CASCADE;" json:"images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LocationImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	LocationID uint   `gorm:"index;not null" json:"location_id"`
	URL        string `gorm:"size:512;not null" json:"url"`
	ObjectKey  string `gorm:"size:255;not null" json:"-"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
