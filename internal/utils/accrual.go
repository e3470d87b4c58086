package utils

// Accrual math for payment streams. All amounts are int64 in the smallest
// currency unit; division truncates toward zero and every truncation
// remainder is reconciled at finalize, never dropped.

// RatePerSecond computes the streaming rate for a deposit over a window and
// the remainder lost to integer truncation. The remainder belongs to the
// final settlement leg.
func RatePerSecond(deposit, startTime, stopTime int64) (rate, remainder int64) {
	window := stopTime - startTime
	if window <= 0 {
		return 0, deposit
	}
	rate = deposit / window
	remainder = deposit - rate*window
	return rate, remainder
}

// Clamp bounds t to [lo, hi].
func Clamp(t, lo, hi int64) int64 {
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	return t
}

// Accrued returns the amount earned by the payee at atTime, capped at the
// deposit.
func Accrued(deposit, rate, startTime, stopTime, atTime int64) int64 {
	elapsed := Clamp(atTime, startTime, stopTime) - startTime
	accrued := rate * elapsed
	if accrued > deposit {
		accrued = deposit
	}
	return accrued
}

// Withdrawable returns how much the payee may withdraw at atTime given what
// was already taken, floored at zero.
func Withdrawable(deposit, rate, startTime, stopTime, totalWithdrawn, atTime int64) int64 {
	available := Accrued(deposit, rate, startTime, stopTime, atTime) - totalWithdrawn
	if available < 0 {
		return 0
	}
	return available
}

// Split is the three-way division of a stream's remaining balance at
// finalize. Fee + Royalty + Payee always equals the input remaining amount.
type Split struct {
	Fee     int64
	Royalty int64
	Payee   int64
}

// SplitRemaining divides the remaining balance between platform fee, creator
// royalty and payee. Both cuts truncate; the payee leg absorbs every
// truncation remainder so nothing is created or destroyed.
func SplitRemaining(remaining int64, feeBps, royaltyBps int32, hasRoyalty bool) Split {
	s := Split{}
	s.Fee = remaining * int64(feeBps) / 10000
	if hasRoyalty {
		s.Royalty = remaining * int64(royaltyBps) / 10000
	}
	s.Payee = remaining - s.Fee - s.Royalty
	return s
}
