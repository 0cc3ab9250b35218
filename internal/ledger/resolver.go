package ledger

import "errors"

var ErrInsufficientFunds = errors.New("insufficient funds")

// Pricing describes what a booking costs and which token types may fund it.
type Pricing struct {
	Credits     int64
	Group       bool
	SemiPrivate bool
	WorkoutDay  bool
}

// Resolution is the outcome of selecting a funding instrument. AmountCharged
// is in credits and is zero for token-funded and free-user bookings.
// NewBalance is the post-charge balance; storage is untouched.
type Resolution struct {
	Instrument    Instrument
	AmountCharged int64
	NewBalance    Balance
}

// Resolve picks exactly one funding instrument for a booking, in fixed
// precedence order: matching token type, then the free-user bypass, then
// wallet credits. The order is load-bearing: swapping it changes who gets
// charged.
func Resolve(bal Balance, p Pricing) (Resolution, error) {
	if token, ok := tokenFor(p); ok && bal.TokenCount(token) > 0 {
		next := bal
		next.addTokens(token, -1)
		return Resolution{Instrument: token, AmountCharged: 0, NewBalance: next}, nil
	}

	if bal.IsFree {
		return Resolution{Instrument: InstrumentCredits, AmountCharged: 0, NewBalance: bal}, nil
	}

	if bal.WalletCredits >= p.Credits {
		next := bal
		next.WalletCredits -= p.Credits
		return Resolution{Instrument: InstrumentCredits, AmountCharged: p.Credits, NewBalance: next}, nil
	}

	return Resolution{}, ErrInsufficientFunds
}

// tokenFor maps a pricing to the single token type that may fund it.
func tokenFor(p Pricing) (Instrument, bool) {
	if !p.Group {
		return InstrumentPrivateToken, true
	}
	if p.SemiPrivate {
		return InstrumentSemiPrivateToken, true
	}
	if p.WorkoutDay {
		return InstrumentWorkoutDayToken, true
	}
	return InstrumentPublicToken, true
}

// Refund reverses a charge using the instrument recorded at booking time.
// The instrument is never re-derived from current activity state: pricing
// or the member's free status may have changed since booking.
func Refund(bal Balance, instrument Instrument, amountCharged int64) Balance {
	next := bal
	if instrument.IsToken() {
		next.addTokens(instrument, 1)
		return next
	}
	next.WalletCredits += amountCharged
	return next
}
