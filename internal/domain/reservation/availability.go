package reservation

import (
	"fmt"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

type AvailabilityInput struct {
	LocationID uint
	Date       models.Date
}

func slotLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// AvailableSlots lists the start-of-hour markers of free slots, ascending.
// Cancelled reservations never block a slot.
func AvailableSlots(
	loc *models.Location,
	reservations []models.Reservation,
	g Granularity,
) []string {

	if g == GranularityMinute {
		return availableSlotsByMinute(loc, reservations)
	}

	occupied := make(map[int]bool)
	for _, r := range reservations {
		if Status(r.Status) == StatusCancelled {
			continue
		}
		for h := r.StartTime.Hour(); h < r.EndTime.Hour(); h++ {
			occupied[h] = true
		}
	}

	slots := []string{}
	for h := loc.OperatingHoursStart.Hour(); h <= loc.OperatingHoursEnd.Hour(); h++ {
		if !occupied[h] {
			slots = append(slots, slotLabel(h))
		}
	}
	return slots
}

// availableSlotsByMinute offers only whole hours that fit inside operating
// hours and do not intersect any reservation.
func availableSlotsByMinute(
	loc *models.Location,
	reservations []models.Reservation,
) []string {

	open := loc.OperatingHoursStart.Minutes()
	closing := loc.OperatingHoursEnd.Minutes()

	first := (open + 59) / 60

	slots := []string{}
	for h := first; (h+1)*60 <= closing; h++ {
		slotStart, slotEnd := h*60, (h+1)*60

		free := true
		for _, r := range reservations {
			if Status(r.Status) == StatusCancelled {
				continue
			}
			if r.StartTime.Minutes() < slotEnd && r.EndTime.Minutes() > slotStart {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, slotLabel(h))
		}
	}
	return slots
}
