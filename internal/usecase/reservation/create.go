package reservation

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	Actor domain.Actor

	LocationID uint
	Date       models.Date
	StartTime  models.TimeOfDay
	EndTime    models.TimeOfDay

	PaymentMethod string
	PaymentStatus string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo        domain.Repository
	clock       clock.Clock
	cache       SlotCache
	audit       *audit.Dispatcher
	granularity domain.Granularity
}

func NewCreateReservation(
	repo domain.Repository,
	clk clock.Clock,
	cache SlotCache,
	audit *audit.Dispatcher,
	granularity domain.Granularity,
) *CreateReservation {
	return &CreateReservation{
		repo:        repo,
		clock:       clk,
		cache:       orNoCache(cache),
		audit:       audit,
		granularity: granularity,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// 1️⃣ Permissão
	// --------------------------------------------------
	if !in.Actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.MayReserve(in.Actor) {
		return nil, domain.ErrForbidden
	}

	// --------------------------------------------------
	// 2️⃣ Pagamento (entrada)
	// --------------------------------------------------
	method, err := domain.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	payStatus, err := domain.ParsePaymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, err
	}

	req := domain.AdmissionRequest{
		LocationID: in.LocationID,
		UserID:     in.Actor.UserID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
	}

	var created *models.Reservation

	err = uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 3️⃣ Local
		// --------------------------------------------------
		loc, err := tx.GetLocation(ctx, in.LocationID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrLocationNotFound
			}
			return err
		}
		if !loc.IsActive {
			return domain.ErrLocationNotFound
		}

		// --------------------------------------------------
		// 4️⃣ Regras que não dependem de outras reservas
		// --------------------------------------------------
		now := uc.clock.Now()
		if err := domain.CheckRequest(loc, req, now); err != nil {
			return err
		}

		// --------------------------------------------------
		// 5️⃣ Conflito (serializado por local + dia)
		// --------------------------------------------------
		if err := tx.LockLocationDay(ctx, loc.ID, in.Date); err != nil {
			return err
		}

		existing, err := tx.ListOverlapping(ctx, loc.ID, in.Date, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}
		if err := domain.CheckConflicts(req, existing); err != nil {
			return err
		}

		// --------------------------------------------------
		// 6️⃣ Reserva + pagamento
		// --------------------------------------------------
		r := &models.Reservation{
			UserID:     in.Actor.UserID,
			LocationID: loc.ID,
			Date:       in.Date,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			Status:     string(domain.InitialStatus()),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		// toda reserva nasce com um pagamento; só "pago" confirma
		amount := domain.PaymentAmount(loc, in.StartTime, in.EndTime, uc.granularity)
		payment, err := domain.NewPayment(method, payStatus, amount, now)
		if err != nil {
			return err
		}
		if domain.PaymentStatus(payment.Status) == domain.PaymentPaid {
			if err := domain.Confirm(r); err != nil {
				return err
			}
		}

		if err := tx.CreateReservation(ctx, r); err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrTimeConflict
			}
			return err
		}

		payment.ReservationID = r.ID
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}
		r.Payment = payment

		created = r
		return nil
	})

	if err != nil {
		if httperr.IsExclusionConflict(err) {
			err = domain.ErrTimeConflict
		}
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				LocationID: audit.UintPtr(in.LocationID),
				UserID:     audit.UintPtr(in.Actor.UserID),
				Action:     "reservation_conflict",
				Entity:     "reservation",
				Metadata: map[string]any{
					"date":       in.Date.String(),
					"start_time": in.StartTime.String(),
					"end_time":   in.EndTime.String(),
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Cache + auditoria
	// --------------------------------------------------
	uc.cache.Invalidate(ctx, created.LocationID, created.Date)

	meta := map[string]any{
		"date":       created.Date.String(),
		"start_time": created.StartTime.String(),
		"end_time":   created.EndTime.String(),
		"status":     created.Status,
	}
	if created.Payment != nil {
		meta["amount"] = created.Payment.Amount
		meta["payment_status"] = created.Payment.Status
	}

	uc.audit.Dispatch(audit.Event{
		LocationID: audit.UintPtr(created.LocationID),
		UserID:     audit.UintPtr(created.UserID),
		Action:     "reservation_created",
		Entity:     "reservation",
		EntityID:   audit.UintPtr(created.ID),
		Metadata:   meta,
	})

	return created, nil
}
