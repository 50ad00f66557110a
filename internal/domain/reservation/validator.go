package reservation

import (
	"time"

	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/timezone"
)

// AdmissionRequest is a candidate reservation before it is persisted.
type AdmissionRequest struct {
	LocationID uint
	UserID     uint
	Date       models.Date
	StartTime  models.TimeOfDay
	EndTime    models.TimeOfDay
}

// StartsAt is the reservation start as an instant in the location timezone.
func StartsAt(loc *models.Location, date models.Date, start models.TimeOfDay) time.Time {
	return start.On(date, timezone.Location(loc.Timezone))
}

// CheckRequest runs the admission rules that need no other reservation:
// time range, operating hours, max duration and future-only.
func CheckRequest(loc *models.Location, req AdmissionRequest, now time.Time) error {
	if req.StartTime >= req.EndTime {
		return ErrInvalidTimeRange
	}

	if req.StartTime < loc.OperatingHoursStart || req.EndTime > loc.OperatingHoursEnd {
		return ErrOutsideOperatingHours
	}

	if req.EndTime.Minutes()-req.StartTime.Minutes() > loc.MaxDuration*60 {
		return ErrExceedsMaxDuration(loc.MaxDuration)
	}

	if !StartsAt(loc, req.Date, req.StartTime).After(now) {
		return ErrReservationInPast
	}

	return nil
}

// Overlaps is the half-open interval test used for conflicts.
func Overlaps(existing models.Reservation, start, end models.TimeOfDay) bool {
	return existing.StartTime < end && existing.EndTime > start
}

// CheckConflicts rejects the request when a non-cancelled reservation on the
// same location and date overlaps it.
func CheckConflicts(req AdmissionRequest, existing []models.Reservation) error {
	for _, r := range existing {
		if Status(r.Status) == StatusCancelled {
			continue
		}
		if r.LocationID != req.LocationID || !r.Date.Equal(req.Date) {
			continue
		}
		if Overlaps(r, req.StartTime, req.EndTime) {
			return ErrTimeConflict
		}
	}
	return nil
}

// ValidateAdmission applies every admission rule in order and returns the
// first violation. It has no side effects.
func ValidateAdmission(
	loc *models.Location,
	req AdmissionRequest,
	existing []models.Reservation,
	now time.Time,
) error {
	if err := CheckRequest(loc, req, now); err != nil {
		return err
	}
	return CheckConflicts(req, existing)
}
