package reservation

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/timezone"
)

var (
	ErrLocationNameRequired     = httperr.Validation("name_required", "Nome do local é obrigatório.")
	ErrInvalidOperatingHours    = httperr.Validation("invalid_operating_hours", "O horário de abertura deve ser anterior ao de fechamento.")
	ErrInvalidMaxDuration       = httperr.Validation("invalid_max_duration", "Duração máxima deve ser maior que zero.")
	ErrInvalidCancellationHours = httperr.Validation("invalid_cancellation_hours", "Antecedência de cancelamento não pode ser negativa.")
	ErrInvalidPrice             = httperr.Validation("invalid_price", "Preço por hora não pode ser negativo.")
	ErrPriceTooHigh             = httperr.Validation("price_too_high", "Preço por hora excede o valor máximo de uma reserva.")
	ErrInvalidTimezone          = httperr.Validation("invalid_timezone", "Fuso horário inválido.")
	ErrImageNotFound            = httperr.NotFoundErr("image_not_found", "Imagem não encontrada.")
)

// LocationDefaults fill the fields an owner leaves out when creating a
// location. They are never applied to existing locations.
type LocationDefaults struct {
	Opening           models.TimeOfDay
	Closing           models.TimeOfDay
	CancellationHours int
	MaxDuration       int
	Timezone          string
}

// LocationInput carries optional fields; nil means "use the default".
type LocationInput struct {
	Name                string
	Description         string
	Address             string
	Timezone            *string
	PricePerHour        *float64
	OperatingHoursStart *models.TimeOfDay
	OperatingHoursEnd   *models.TimeOfDay
	CancellationHours   *int
	MaxDuration         *int
}

func NewLocation(ownerID uint, in LocationInput, d LocationDefaults) (*models.Location, error) {
	loc := &models.Location{
		OwnerID:             ownerID,
		Timezone:            d.Timezone,
		OperatingHoursStart: d.Opening,
		OperatingHoursEnd:   d.Closing,
		CancellationHours:   d.CancellationHours,
		MaxDuration:         d.MaxDuration,
		IsActive:            true,
	}
	if loc.Timezone == "" {
		loc.Timezone = timezone.DefaultTimezone
	}

	ApplyLocationInput(loc, in)
	if err := ValidateLocation(loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// ApplyLocationInput copies the fields present in in onto loc. Empty text
// fields are left untouched.
func ApplyLocationInput(loc *models.Location, in LocationInput) {
	if s := strings.TrimSpace(in.Name); s != "" {
		loc.Name = s
	}
	if in.Description != "" {
		loc.Description = in.Description
	}
	if in.Address != "" {
		loc.Address = in.Address
	}
	if in.Timezone != nil {
		loc.Timezone = *in.Timezone
	}
	if in.PricePerHour != nil {
		loc.PricePerHour = *in.PricePerHour
	}
	if in.OperatingHoursStart != nil {
		loc.OperatingHoursStart = *in.OperatingHoursStart
	}
	if in.OperatingHoursEnd != nil {
		loc.OperatingHoursEnd = *in.OperatingHoursEnd
	}
	if in.CancellationHours != nil {
		loc.CancellationHours = *in.CancellationHours
	}
	if in.MaxDuration != nil {
		loc.MaxDuration = *in.MaxDuration
	}
}

func ValidateLocation(loc *models.Location) error {
	switch {
	case strings.TrimSpace(loc.Name) == "":
		return ErrLocationNameRequired
	case loc.OperatingHoursStart >= loc.OperatingHoursEnd:
		return ErrInvalidOperatingHours
	case loc.MaxDuration <= 0:
		return ErrInvalidMaxDuration
	case loc.CancellationHours < 0:
		return ErrInvalidCancellationHours
	case loc.PricePerHour < 0:
		return ErrInvalidPrice
	case MaxCharge(loc) > MaxPaymentAmount:
		return ErrPriceTooHigh
	case !timezone.IsValid(loc.Timezone):
		return ErrInvalidTimezone
	}
	return nil
}

// ===============================
// Storage
// ===============================

type LocationFilter struct {
	OwnerID    uint
	ActiveOnly bool
	Query      string
}

type LocationRepository interface {
	ListLocations(ctx context.Context, f LocationFilter) ([]models.Location, error)
	// FindLocation preloads Images.
	FindLocation(ctx context.Context, id uint) (*models.Location, error)
	CreateLocation(ctx context.Context, loc *models.Location) error
	UpdateLocation(ctx context.Context, loc *models.Location) error

	AddImage(ctx context.Context, img *models.LocationImage) error
	GetImage(ctx context.Context, locationID, imageID uint) (*models.LocationImage, error)
	DeleteImage(ctx context.Context, img *models.LocationImage) error
}
