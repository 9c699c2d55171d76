package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		in     string
		reason string
	}{
		{"150.25", ""},
		{"1.000", ""},
		{"999999999999999999.99", ""},
		{"0", "amount must be greater than zero"},
		{"-5", "amount must be greater than zero"},
		{"0.001", "amount cannot have more than 2 decimal places"},
		{"1000000000000000000", "amount is out of range"},
		{"1e-20000000", "amount is out of range"},
		{"1e20000000", "amount is out of range"},
		{"123456789012345678901", "amount is out of range"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tc.in))
			if tc.reason == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidInput)
			require.EqualError(t, err, tc.reason)
		})
	}
}

func TestValidateAmountExtremeExponentsAreCheap(t *testing.T) {
	start := time.Now()
	for _, in := range []string{"1e-20000000", "1e20000000", "-7e-999999999", "3e999999999"} {
		require.ErrorIs(t, ValidateAmount(decimal.RequireFromString(in)), ErrInvalidInput, in)
		require.ErrorIs(t, ValidateBalance(decimal.RequireFromString(in)), ErrInvalidInput, in)
	}
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestValidateBalance(t *testing.T) {
	require.NoError(t, ValidateBalance(decimal.Zero))
	require.NoError(t, ValidateBalance(decimal.RequireFromString("10.12")))
	require.EqualError(t, ValidateBalance(decimal.RequireFromString("10.123")), "balance cannot have more than 2 decimal places")
	require.EqualError(t, ValidateBalance(decimal.NewFromInt(-1)), "balance cannot be negative")
}
