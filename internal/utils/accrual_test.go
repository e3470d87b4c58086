package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatePerSecond(t *testing.T) {
	t.Run("Exact division", func(t *testing.T) {
		rate, rem := RatePerSecond(3600, 0, 3600)
		assert.Equal(t, int64(1), rate)
		assert.Equal(t, int64(0), rem)
	})

	t.Run("Truncation remainder", func(t *testing.T) {
		// deposit=100 over 3 seconds -> rate 33, remainder 1
		rate, rem := RatePerSecond(100, 10, 13)
		assert.Equal(t, int64(33), rate)
		assert.Equal(t, int64(1), rem)
	})

	t.Run("Empty window", func(t *testing.T) {
		rate, rem := RatePerSecond(100, 5, 5)
		assert.Equal(t, int64(0), rate)
		assert.Equal(t, int64(100), rem)
	})
}

func TestWithdrawable(t *testing.T) {
	// stream: deposit 100, rate 33, window [10, 13]
	t.Run("Before start", func(t *testing.T) {
		assert.Equal(t, int64(0), Withdrawable(100, 33, 10, 13, 0, 5))
	})

	t.Run("Mid stream", func(t *testing.T) {
		assert.Equal(t, int64(66), Withdrawable(100, 33, 10, 13, 0, 12))
	})

	t.Run("After stop accrual is capped at rate times window", func(t *testing.T) {
		// 33*3 = 99; the remaining 1 unit is the finalize remainder.
		assert.Equal(t, int64(99), Withdrawable(100, 33, 10, 13, 0, 50))
	})

	t.Run("Withdrawn amounts reduce availability", func(t *testing.T) {
		assert.Equal(t, int64(33), Withdrawable(100, 33, 10, 13, 66, 50))
	})

	t.Run("Overdrawn floors at zero", func(t *testing.T) {
		assert.Equal(t, int64(0), Withdrawable(100, 33, 10, 13, 99, 11))
	})
}

func TestSplitRemaining(t *testing.T) {
	t.Run("Fee and royalty", func(t *testing.T) {
		s := SplitRemaining(10000, 250, 500, true)
		assert.Equal(t, int64(250), s.Fee)
		assert.Equal(t, int64(500), s.Royalty)
		assert.Equal(t, int64(9250), s.Payee)
	})

	t.Run("No royalty recipient configured", func(t *testing.T) {
		s := SplitRemaining(10000, 250, 500, false)
		assert.Equal(t, int64(250), s.Fee)
		assert.Equal(t, int64(0), s.Royalty)
		assert.Equal(t, int64(9750), s.Payee)
	})

	t.Run("Truncation goes to payee", func(t *testing.T) {
		s := SplitRemaining(999, 250, 100, true)
		assert.Equal(t, int64(24), s.Fee)    // 999*250/10000 truncated
		assert.Equal(t, int64(9), s.Royalty) // 999*100/10000 truncated
		assert.Equal(t, int64(966), s.Payee)
		assert.Equal(t, int64(999), s.Fee+s.Royalty+s.Payee)
	})

	t.Run("Conservation across arbitrary inputs", func(t *testing.T) {
		for _, remaining := range []int64{0, 1, 3, 99, 100, 12345, 999999937} {
			s := SplitRemaining(remaining, 250, 500, true)
			assert.Equal(t, remaining, s.Fee+s.Royalty+s.Payee)
		}
	})
}
