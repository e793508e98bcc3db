package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_NewFromMinorUnits(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc     string
		amount   int64
		currency string
		expected string
	}{
		{
			desc:     "Should format usd cents",
			amount:   145,
			currency: "USD",
			expected: "1.45",
		},
		{
			desc:     "Should keep trailing zeros",
			amount:   1000,
			currency: "eur",
			expected: "10.00",
		},
		{
			desc:     "Should format stars without fraction",
			amount:   100,
			currency: "XTR",
			expected: "100",
		},
		{
			desc:     "Should format yen without fraction",
			amount:   500,
			currency: "JPY",
			expected: "500",
		},
		{
			desc:     "Should format amount lower than one unit",
			amount:   5,
			currency: "UAH",
			expected: "0.05",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			m := NewFromMinorUnits(tc.amount, tc.currency)
			assert.Equal(t, tc.expected, m.String())
			assert.Equal(t, tc.amount, m.MinorUnits())
		})
	}
}

func TestMoney_NewFromString(t *testing.T) {
	t.Parallel()

	m, err := NewFromString("19.99", "usd")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), m.MinorUnits())
	assert.Equal(t, "USD", m.Currency())

	_, err = NewFromString("nineteen", "usd")
	assert.Error(t, err)
}
