package entity

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		input       string
		expected    string
		expectedErr error
	}{
		{"100", "100", nil},
		{" 42 ", "42", nil},
		{"0", "0", nil},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", "115792089237316195423570985008687907853269984665640564039457584007913129639935", nil},
		{"", "", errs.ErrInvalidAmount},
		{"-1", "", errs.ErrInvalidAmount},
		{"10.50", "", errs.ErrInvalidAmount},
		{"1e3", "", errs.ErrInvalidAmount},
		{"+5", "", errs.ErrInvalidAmount},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639936", "", errs.ErrAmountOverflow},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			amount, err := ParseAmount(tc.input)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, amount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, FormatAmount(amount))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(nil))
	assert.Equal(t, "0", FormatAmount(ZeroAmount()))
	assert.Equal(t, "1234", FormatAmount(NewAmount(1234)))
}

func TestAddAmounts(t *testing.T) {
	sum, err := AddAmounts(NewAmount(40), NewAmount(2))
	require.NoError(t, err)
	assert.Equal(t, "42", FormatAmount(sum))

	maxAmount := new(uint256.Int).SetAllOne()
	_, err = AddAmounts(maxAmount, NewAmount(1))
	assert.ErrorIs(t, err, errs.ErrAmountOverflow)
}

func TestAmountToFloat(t *testing.T) {
	assert.Equal(t, float64(0), AmountToFloat(nil))
	assert.Equal(t, float64(1500), AmountToFloat(NewAmount(1500)))
}

func TestParseReason(t *testing.T) {
	t.Run("Text reason is left aligned", func(t *testing.T) {
		reason, err := ParseReason("GOV")
		require.NoError(t, err)
		assert.Equal(t, byte('G'), reason[0])
		assert.Equal(t, byte(0), reason[3])
		assert.Equal(t, "GOV", ReasonString(reason))
	})

	t.Run("Hex reason is decoded", func(t *testing.T) {
		reason, err := ParseReason("0x474f56")
		require.NoError(t, err)
		assert.Equal(t, "GOV", ReasonString(reason))
	})

	t.Run("Binary reason renders as hex", func(t *testing.T) {
		reason, err := ParseReason("0x01ff")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ReasonString(reason), "0x01ff"))
	})

	t.Run("Invalid reasons", func(t *testing.T) {
		for _, input := range []string{"", "   ", "0xzz", "0x", strings.Repeat("a", 33)} {
			_, err := ParseReason(input)
			assert.ErrorIs(t, err, errs.ErrInvalidReason, "input %q", input)
		}
	})
}

func TestParseAccount(t *testing.T) {
	account, err := ParseAccount("0x00000000000000000000000000000000000000a1")
	require.NoError(t, err)
	assert.Equal(t, testAccount, account)

	_, err = ParseAccount("not-an-address")
	assert.ErrorIs(t, err, errs.ErrInvalidAccount)
}
