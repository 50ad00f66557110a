package reservation

import (
	"time"
	_ "time/tzdata"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

var (
	testNow      = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	testTomorrow = models.NewDate(2026, 10, 19)
)

func tod(s string) models.TimeOfDay {
	return models.MustTimeOfDay(s)
}

func testLocation() *models.Location {
	return &models.Location{
		ID:                  1,
		OwnerID:             99,
		Timezone:            "UTC",
		PricePerHour:        50,
		OperatingHoursStart: tod("08:00"),
		OperatingHoursEnd:   tod("18:00"),
		CancellationHours:   24,
		MaxDuration:         4,
		IsActive:            true,
	}
}

func existing(status Status, date models.Date, start, end string) models.Reservation {
	return models.Reservation{
		ID:         7,
		LocationID: 1,
		UserID:     5,
		Date:       date,
		StartTime:  tod(start),
		EndTime:    tod(end),
		Status:     string(status),
	}
}
