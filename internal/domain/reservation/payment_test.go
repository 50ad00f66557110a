package reservation

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

func TestPaymentAmount(t *testing.T) {
	loc := testLocation()

	cases := []struct {
		name       string
		start, end string
		g          Granularity
		want       float64
	}{
		{"whole hours", "09:00", "12:00", GranularityHour, 150},
		{"hour difference truncates", "09:30", "11:15", GranularityHour, 100},
		{"minute proportional", "09:30", "11:15", GranularityMinute, 87.5},
		{"minute rounds to cents", "09:00", "09:20", GranularityMinute, 16.67},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PaymentAmount(loc, tod(tc.start), tod(tc.end), tc.g)
			if got != tc.want {
				t.Fatalf("PaymentAmount() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewPayment(t *testing.T) {
	p, err := NewPayment(MethodPix, PaymentPending, 150, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != "pendente" || p.Method != "pix" || p.Amount != 150 {
		t.Fatalf("unexpected payment %+v", p)
	}
	if p.ExternalReference == "" {
		t.Fatal("external reference must be generated")
	}
	if !p.CreatedAt.Equal(testNow) {
		t.Fatalf("created_at = %v", p.CreatedAt)
	}

	if _, err := NewPayment(MethodPix, PaymentRefunded, 150, testNow); !httperr.IsBusiness(err, "invalid_payment_status") {
		t.Fatalf("refunded initial status must be rejected, got %v", err)
	}

	if _, err := NewPayment(MethodPix, PaymentPending, MaxPaymentAmount+0.01, testNow); !httperr.IsBusiness(err, "amount_too_high") {
		t.Fatalf("amount above the column limit must be rejected, got %v", err)
	}

	for _, amount := range []float64{0, -10} {
		if _, err := NewPayment(MethodPix, PaymentPaid, amount, testNow); !httperr.IsBusiness(err, "invalid_amount") {
			t.Fatalf("amount %v must be rejected, got %v", amount, err)
		}
	}
}

func TestParsePayment(t *testing.T) {
	if m, err := ParsePaymentMethod(" PIX "); err != nil || m != MethodPix {
		t.Fatalf("ParsePaymentMethod = %v, %v", m, err)
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatal("unknown method must fail")
	}
	if s, err := ParsePaymentStatus(""); err != nil || s != PaymentPending {
		t.Fatalf("empty status must default to pending: %v %v", s, err)
	}
	if _, err := ParsePaymentStatus("estornado"); err == nil {
		t.Fatal("unknown status must fail")
	}
}

func TestApplyPaymentStatus(t *testing.T) {
	t.Run("paid confirms pending reservation", func(t *testing.T) {
		r := existing(StatusPending, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pendente"}

		if err := ApplyPaymentStatus(&r, p, PaymentPaid, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != "pago" || r.Status != string(StatusConfirmed) {
			t.Fatalf("payment=%s reservation=%s", p.Status, r.Status)
		}
	})

	t.Run("repeated report is a no-op", func(t *testing.T) {
		r := existing(StatusConfirmed, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pago"}
		if err := ApplyPaymentStatus(&r, p, PaymentPaid, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cancelled reservation cannot be paid", func(t *testing.T) {
		r := existing(StatusCancelled, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pendente"}
		err := ApplyPaymentStatus(&r, p, PaymentPaid, testNow)
		if !httperr.IsBusiness(err, "reservation_cancelled") {
			t.Fatalf("expected reservation_cancelled, got %v", err)
		}
		if p.Status != "pendente" {
			t.Fatal("payment must stay pending")
		}
	})

	t.Run("refunded payment cannot be paid again", func(t *testing.T) {
		r := existing(StatusCancelled, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "reembolsado"}
		if err := ApplyPaymentStatus(&r, p, PaymentPaid, testNow); !httperr.IsBusiness(err, "payment_refunded") {
			t.Fatalf("expected payment_refunded, got %v", err)
		}
	})

	t.Run("refund cannot be reported", func(t *testing.T) {
		r := existing(StatusConfirmed, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pago"}
		if err := ApplyPaymentStatus(&r, p, PaymentRefunded, testNow); !httperr.IsBusiness(err, "invalid_payment_status") {
			t.Fatalf("expected invalid_payment_status, got %v", err)
		}
	})

	t.Run("paid cannot go back to pending", func(t *testing.T) {
		r := existing(StatusConfirmed, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pago"}
		if err := ApplyPaymentStatus(&r, p, PaymentPending, testNow); !httperr.IsBusiness(err, "invalid_payment_transition") {
			t.Fatalf("expected invalid_payment_transition, got %v", err)
		}
	})
}

func TestEvaluateRefund_Boundary(t *testing.T) {
	loc := testLocation()
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	t.Run("exactly 24h is refunded", func(t *testing.T) {
		r := existing(StatusCancelled, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pago"}
		now := start.Add(-24 * time.Hour)

		out := EvaluateRefund(&r, loc, p, now)
		if out != CancelledWithRefund || !out.Refunded() {
			t.Fatalf("outcome = %v", out)
		}
		if p.Status != "reembolsado" || p.RefundedAt == nil || !p.RefundedAt.Equal(now) {
			t.Fatalf("payment not refunded: %+v", p)
		}
	})

	t.Run("23h59m is not refunded", func(t *testing.T) {
		r := existing(StatusCancelled, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pago"}

		out := EvaluateRefund(&r, loc, p, start.Add(-(23*time.Hour + 59*time.Minute)))
		if out != CancelledWithoutRefund {
			t.Fatalf("outcome = %v", out)
		}
		if p.Status != "pago" || p.RefundedAt != nil {
			t.Fatalf("payment must be untouched: %+v", p)
		}
	})

	t.Run("pending payment is a plain cancellation", func(t *testing.T) {
		r := existing(StatusCancelled, testTomorrow, "10:00", "12:00")
		p := &models.Payment{Status: "pendente"}
		if out := EvaluateRefund(&r, loc, p, start.Add(-48*time.Hour)); out != CancelledPlain {
			t.Fatalf("outcome = %v", out)
		}
		if p.Status != "pendente" {
			t.Fatal("pending payment must stay pending")
		}
	})

	t.Run("no payment is a plain cancellation", func(t *testing.T) {
		r := existing(StatusCancelled, testTomorrow, "10:00", "12:00")
		if out := EvaluateRefund(&r, loc, nil, start.Add(-48*time.Hour)); out != CancelledPlain {
			t.Fatalf("outcome = %v", out)
		}
	})
}

func TestCancelOutcomeMessages(t *testing.T) {
	seen := map[string]bool{}
	for _, o := range []CancelOutcome{CancelledPlain, CancelledWithRefund, CancelledWithoutRefund} {
		msg := o.Message()
		if msg == "" || seen[msg] {
			t.Fatalf("message for %d must be unique and non-empty: %q", o, msg)
		}
		seen[msg] = true
	}
}
