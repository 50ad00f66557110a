package reservation

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// ======================================================
// GET
// ======================================================

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Reservation, error) {

	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	r, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	if !domain.MayView(actor, r) {
		return nil, domain.ErrReservationNotFound
	}
	return r, nil
}

// ======================================================
// LIST
// ======================================================

type ListReservationsInput struct {
	Actor      domain.Actor
	LocationID uint
	Status     string
	Date       *models.Date

	// OwnHistory lists the actor's own reservations even for owners,
	// newest first.
	OwnHistory bool
}

type ListReservations struct {
	repo domain.Repository
}

func NewListReservations(repo domain.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

// Execute scopes the listing by role: owners see reservations made for their
// locations, everyone else sees only their own.
func (uc *ListReservations) Execute(
	ctx context.Context,
	in ListReservationsInput,
) ([]models.Reservation, error) {

	if !in.Actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	f := domain.ReservationFilter{
		LocationID: in.LocationID,
		Date:       in.Date,
	}

	switch domain.Status(in.Status) {
	case "":
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled:
		f.Status = domain.Status(in.Status)
	default:
		return nil, domain.ErrInvalidStatusFilter
	}

	if in.OwnHistory || !in.Actor.IsOwner() {
		f.UserID = in.Actor.UserID
	} else {
		f.OwnerID = in.Actor.UserID
	}
	f.NewestFirst = in.OwnHistory

	out, err := uc.repo.ListReservations(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Reservation{}
	}
	return out, nil
}
