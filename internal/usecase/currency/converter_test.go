package currency

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testRates() []domain.FxRate {
	// 1 USD = 0.79 GBP = 0.92 EUR on the 10th; slightly different on the 20th
	return []domain.FxRate{
		{Date: date("2024-03-10"), Currency: "GBP", Rate: decimal.NewFromFloat(0.79)},
		{Date: date("2024-03-10"), Currency: "EUR", Rate: decimal.NewFromFloat(0.92)},
		{Date: date("2024-03-20"), Currency: "GBP", Rate: decimal.NewFromFloat(0.80)},
		{Date: date("2024-03-20"), Currency: "EUR", Rate: decimal.NewFromFloat(0.93)},
	}
}

func TestConvert_SameCurrency(t *testing.T) {
	c := NewConverter(testRates())

	got, rate, fallback, err := c.Convert(decimal.NewFromInt(100), "USD", "USD", date("2024-03-10"))

	assert.NoError(t, err)
	assert.False(t, fallback)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
	assert.True(t, decimal.NewFromInt(100).Equal(got))
}

func TestConvert_PivotCrossRate(t *testing.T) {
	c := NewConverter(testRates())

	// 140 USD -> GBP at 0.79 = 110.60
	got, rate, fallback, err := c.Convert(decimal.NewFromInt(140), "USD", "GBP", date("2024-03-10"))

	assert.NoError(t, err)
	assert.False(t, fallback)
	assert.True(t, decimal.NewFromFloat(0.79).Equal(rate))
	assert.True(t, decimal.NewFromFloat(110.60).Equal(got.Round(2)))
}

func TestConvert_NonPivotPair(t *testing.T) {
	c := NewConverter(testRates())

	// EUR -> GBP routes through USD: 92 EUR -> 100 USD -> 79 GBP
	got, _, fallback, err := c.Convert(decimal.NewFromInt(92), "EUR", "GBP", date("2024-03-10"))

	assert.NoError(t, err)
	assert.False(t, fallback)
	assert.True(t, decimal.NewFromInt(79).Equal(got.Round(2)))
}

func TestConvert_NearestPastPreferred(t *testing.T) {
	c := NewConverter(testRates())

	// 2024-03-15 has no data; the 10th (nearest past) wins over the 20th
	_, rate, fallback, err := c.Convert(decimal.NewFromInt(100), "USD", "GBP", date("2024-03-15"))

	assert.NoError(t, err)
	assert.False(t, fallback)
	assert.True(t, decimal.NewFromFloat(0.79).Equal(rate))
}

func TestConvert_NearestFutureWhenNoPast(t *testing.T) {
	c := NewConverter(testRates())

	// 2024-03-01 predates all data; the 10th (earliest future) is used
	_, rate, fallback, err := c.Convert(decimal.NewFromInt(100), "USD", "GBP", date("2024-03-01"))

	assert.NoError(t, err)
	assert.False(t, fallback)
	assert.True(t, decimal.NewFromFloat(0.79).Equal(rate))
}

func TestConvert_NoDataFallsBackToIdentity(t *testing.T) {
	c := NewConverter(nil)

	got, rate, fallback, err := c.Convert(decimal.NewFromInt(100), "USD", "GBP", date("2024-03-10"))

	assert.NoError(t, err)
	assert.True(t, fallback)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
	assert.True(t, decimal.NewFromInt(100).Equal(got))
}

func TestConvert_MissingCurrencyFallsBack(t *testing.T) {
	c := NewConverter(testRates())

	// JPY is not in the table at all
	got, rate, fallback, err := c.Convert(decimal.NewFromInt(100), "USD", "JPY", date("2024-03-10"))

	assert.NoError(t, err)
	assert.True(t, fallback)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
	assert.True(t, decimal.NewFromInt(100).Equal(got))
}

func TestConvert_MalformedCurrencyIsHardError(t *testing.T) {
	c := NewConverter(testRates())

	_, _, _, err := c.Convert(decimal.NewFromInt(100), "usd", "GBP", date("2024-03-10"))
	assert.Error(t, err)

	_, _, _, err = c.Convert(decimal.NewFromInt(100), "USD", "POUNDS", date("2024-03-10"))
	assert.Error(t, err)
}

func TestConvert_RoundTrip(t *testing.T) {
	c := NewConverter(testRates())
	asOf := date("2024-03-10")
	amount := decimal.NewFromFloat(123.45)

	gbp, _, fallback, err := c.Convert(amount, "USD", "GBP", asOf)
	require.NoError(t, err)
	require.False(t, fallback)

	back, _, fallback, err := c.Convert(gbp, "GBP", "USD", asOf)
	require.NoError(t, err)
	require.False(t, fallback)

	// Within rounding tolerance
	diff := back.Sub(amount).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)),
		"expected %s, got %s back", amount, back)
}
