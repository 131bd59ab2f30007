package booking

import "tour_booking/model"

// issueVoucher marks the voucher on the booking in memory; the caller
// persists it in the same transaction as the confirmed transition, so there
// is no window where status=confirmed exists without a voucher after a
// crash. Idempotent: an already issued code is never regenerated.
func issueVoucher(b *model.Booking) {
	if b.VoucherIssued {
		return
	}
	b.VoucherIssued = true
	b.VoucherCode = NewVoucherCode()
}
