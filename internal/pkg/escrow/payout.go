package escrow

// payout computes the two nested fee layers of spec §4.5.4. S is the
// per-player stake in smallest unit, depositFeePercent the transfer
// backend's fixed deposit fee for the token, houseFeePercent the
// configured house cut of the pot.
//
//	A = floor(S * (1 - depositFeePercent/100))   escrow amount per player
//	P = 2 * A                                    pot in escrow
//	H = floor(P * houseFeePercent / 100)         house fee
//	W = P - H                                    winner payout
type payoutResult struct {
	EscrowPerPlayer uint64
	Pot             uint64
	HouseFee        uint64
	WinnerPayout    uint64
}

func computePayout(stake uint64, depositFeePercent float64, houseFeePercent int) payoutResult {
	a := floorPercentOf(stake, 100-depositFeePercent)
	pot := a * 2
	house := floorPercentOf(pot, float64(houseFeePercent))
	winner := pot - house

	return payoutResult{
		EscrowPerPlayer: a,
		Pot:             pot,
		HouseFee:        house,
		WinnerPayout:    winner,
	}
}

// floorPercentOf returns floor(amount * percent / 100) without losing
// precision to float64 rounding on the amounts this system deals in: the
// multiplication happens in float64 (percent is fractional, e.g. 0.5) but
// amount-scale inputs here stay well under float64's 53-bit mantissa for
// any realistic stake.
func floorPercentOf(amount uint64, percent float64) uint64 {
	return uint64(float64(amount) * percent / 100)
}
