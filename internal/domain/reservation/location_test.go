package reservation

import (
	"testing"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

func defaults() LocationDefaults {
	return LocationDefaults{
		Opening:           tod("08:00"),
		Closing:           tod("18:00"),
		CancellationHours: 24,
		MaxDuration:       4,
		Timezone:          "America/Sao_Paulo",
	}
}

func TestNewLocation_AppliesDefaults(t *testing.T) {
	loc, err := NewLocation(99, LocationInput{Name: "  Sala 1 "}, defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Name != "Sala 1" || loc.OwnerID != 99 || !loc.IsActive {
		t.Fatalf("unexpected location: %+v", loc)
	}
	if loc.OperatingHoursStart.String() != "08:00" || loc.OperatingHoursEnd.String() != "18:00" {
		t.Fatalf("hours = %s-%s", loc.OperatingHoursStart, loc.OperatingHoursEnd)
	}
	if loc.CancellationHours != 24 || loc.MaxDuration != 4 || loc.Timezone != "America/Sao_Paulo" {
		t.Fatalf("defaults not applied: %+v", loc)
	}
}

func TestNewLocation_OverridesDefaults(t *testing.T) {
	open, closing := tod("06:00"), tod("23:00")
	zero, six, price := 0, 6, 80.0

	loc, err := NewLocation(99, LocationInput{
		Name:                "Quadra",
		OperatingHoursStart: &open,
		OperatingHoursEnd:   &closing,
		CancellationHours:   &zero,
		MaxDuration:         &six,
		PricePerHour:        &price,
	}, defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.CancellationHours != 0 || loc.MaxDuration != 6 || loc.PricePerHour != 80 {
		t.Fatalf("overrides not applied: %+v", loc)
	}
}

func TestValidateLocation(t *testing.T) {
	valid := func() *models.Location {
		return &models.Location{
			Name:                "Sala",
			Timezone:            "UTC",
			OperatingHoursStart: tod("08:00"),
			OperatingHoursEnd:   tod("18:00"),
			MaxDuration:         4,
		}
	}

	cases := []struct {
		name   string
		mutate func(l *models.Location)
		code   string
	}{
		{"name", func(l *models.Location) { l.Name = " " }, "name_required"},
		{"hours equal", func(l *models.Location) { l.OperatingHoursEnd = l.OperatingHoursStart }, "invalid_operating_hours"},
		{"max duration", func(l *models.Location) { l.MaxDuration = 0 }, "invalid_max_duration"},
		{"cancellation", func(l *models.Location) { l.CancellationHours = -1 }, "invalid_cancellation_hours"},
		{"price", func(l *models.Location) { l.PricePerHour = -0.01 }, "invalid_price"},
		{"price times max duration", func(l *models.Location) { l.PricePerHour = 999999 }, "price_too_high"},
		{"timezone", func(l *models.Location) { l.Timezone = "Mars/Olympus" }, "invalid_timezone"},
	}

	if err := ValidateLocation(valid()); err != nil {
		t.Fatalf("valid location rejected: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := valid()
			tc.mutate(l)
			if err := ValidateLocation(l); !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestMaxCharge(t *testing.T) {
	loc := &models.Location{
		PricePerHour:        250000,
		OperatingHoursStart: tod("08:00"),
		OperatingHoursEnd:   tod("18:00"),
		MaxDuration:         4,
	}
	if got := MaxCharge(loc); got != 1000000 {
		t.Fatalf("MaxCharge = %v", got)
	}
	if err := ValidateLocation(withValidBasics(loc)); !httperr.IsBusiness(err, "price_too_high") {
		t.Fatalf("expected price_too_high, got %v", err)
	}

	// the operating range caps a generous max duration
	loc.MaxDuration = 48
	loc.PricePerHour = 90000
	loc.OperatingHoursEnd = tod("18:30")
	if got := MaxCharge(loc); got != 990000 {
		t.Fatalf("MaxCharge = %v", got)
	}
	if err := ValidateLocation(withValidBasics(loc)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func withValidBasics(l *models.Location) *models.Location {
	l.Name = "Sala"
	l.Timezone = "UTC"
	return l
}
