package booking

import "tour_booking/model"

// Apply outcomes. Discards are normal, logged results of applying an event,
// not errors; logs and metrics must be able to tell them apart from failures.
const (
	OutcomeApplied         = "applied"
	OutcomeDuplicate       = "duplicate"
	OutcomeStaleOrderRef   = "stale_order_ref"
	OutcomeOutOfOrder      = "out_of_order"
	OutcomeAlreadyTerminal = "already_terminal"
)

const (
	rankPending    = 0
	rankFailure    = 1
	rankCapture    = 2
	rankSettlement = 3
)

// finalityRank totally orders gateway payment statuses so a less final
// notification can never overwrite a more final one, regardless of delivery
// order. deny/cancel/expire/failure share one terminal-failure rank.
var finalityRank = map[string]int{
	model.PaymentPending:    rankPending,
	model.PaymentDeny:       rankFailure,
	model.PaymentCancel:     rankFailure,
	model.PaymentExpire:     rankFailure,
	model.PaymentFailure:    rankFailure,
	model.PaymentCapture:    rankCapture,
	model.PaymentSettlement: rankSettlement,
}

// FinalityRank returns the rank of a gateway payment status, or -1 for a
// status outside the known vocabulary.
func FinalityRank(status string) int {
	rank, ok := finalityRank[status]
	if !ok {
		return -1
	}
	return rank
}

func IsKnownPaymentStatus(status string) bool {
	_, ok := finalityRank[status]
	return ok
}

func isSuccessStatus(status string) bool {
	return status == model.PaymentSettlement || status == model.PaymentCapture
}

type decision struct {
	Outcome       string
	NewStatus     string
	NewPayment    string
	IssueVoucher  bool
	DiscardReason string
}

// decideTransition evaluates one gateway payment status against the booking's
// current state. It is pure: persistence, locking and dedup happen around it.
//
//	pending / pending_verification + settlement|capture  -> confirmed (+voucher)
//	pending / pending_verification + deny|cancel|expire|failure -> cancelled
//	confirmed | completed | cancelled + anything          -> no-op
func decideTransition(b *model.Booking, incoming string) decision {
	switch b.Status {
	case model.BookingConfirmed, model.BookingCompleted:
		return decision{
			Outcome:       OutcomeAlreadyTerminal,
			DiscardReason: "booking already confirmed",
		}
	case model.BookingCancelled:
		return decision{
			Outcome:       OutcomeAlreadyTerminal,
			DiscardReason: "booking cancelled, terminal",
		}
	}

	if FinalityRank(incoming) < FinalityRank(b.PaymentStatus) {
		return decision{
			Outcome:       OutcomeOutOfOrder,
			DiscardReason: "incoming status less final than recorded status",
		}
	}

	switch {
	case isSuccessStatus(incoming):
		return decision{
			Outcome:      OutcomeApplied,
			NewStatus:    model.BookingConfirmed,
			NewPayment:   incoming,
			IssueVoucher: true,
		}
	case FinalityRank(incoming) == rankFailure:
		return decision{
			Outcome:    OutcomeApplied,
			NewStatus:  model.BookingCancelled,
			NewPayment: incoming,
		}
	default:
		// pending: no status change, but the event is recorded.
		return decision{
			Outcome:    OutcomeApplied,
			NewStatus:  b.Status,
			NewPayment: incoming,
		}
	}
}
