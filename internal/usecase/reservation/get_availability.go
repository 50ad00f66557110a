package reservation

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
)

type GetAvailability struct {
	repo        domain.Repository
	cache       SlotCache
	granularity domain.Granularity
}

func NewGetAvailability(
	repo domain.Repository,
	cache SlotCache,
	granularity domain.Granularity,
) *GetAvailability {
	return &GetAvailability{
		repo:        repo,
		cache:       orNoCache(cache),
		granularity: granularity,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]string, error) {

	loc, err := uc.repo.GetLocation(ctx, in.LocationID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	if !loc.IsActive {
		return nil, domain.ErrLocationNotFound
	}

	// gen must be read before the reservations
	cached, gen, ok := uc.cache.Get(ctx, loc.ID, in.Date)
	if ok {
		return cached, nil
	}

	reservations, err := uc.repo.ListActiveForDay(ctx, loc.ID, in.Date)
	if err != nil {
		return nil, err
	}

	slots := domain.AvailableSlots(loc, reservations, uc.granularity)
	uc.cache.Set(ctx, loc.ID, in.Date, gen, slots)

	return slots, nil
}
