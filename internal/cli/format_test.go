package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// Property: signed amounts carry exactly one sign that matches the value,
// and percentages keep two decimals and parse back to the rounded input.
func TestProperty_SignedFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatSignedMoney sign matches value", prop.ForAll(
		func(amount float64) bool {
			if math.Abs(amount) < 0.01 {
				return true
			}
			formatted := FormatSignedMoney(amount, "GBP")
			if amount > 0 {
				return strings.HasPrefix(formatted, "+£")
			}
			return strings.HasPrefix(formatted, "-£")
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatPercent keeps two decimals", prop.ForAll(
		func(value float64) bool {
			formatted := FormatPercent(value)
			if !strings.HasSuffix(formatted, "%") {
				return false
			}
			num := strings.TrimSuffix(strings.TrimPrefix(formatted, "+"), "%")
			parts := strings.Split(num, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				return false
			}
			parsed, err := strconv.ParseFloat(num, 64)
			return err == nil && math.Abs(parsed-value) <= 0.005+1e-9
		},
		gen.Float64Range(-1000, 1000),
	))

	properties.Property("FormatQuantity round-trips", prop.ForAll(
		func(qty float64) bool {
			parsed, err := strconv.ParseFloat(FormatQuantity(qty), 64)
			return err == nil && parsed == qty
		},
		gen.Float64Range(0, 1e7),
	))

	properties.TestingRun(t)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "£1,234.50", FormatMoney(1234.5, "GBP"))
	assert.Equal(t, "+£10.00", FormatSignedMoney(10, "GBP"))
	assert.Equal(t, "-£5.00", FormatSignedMoney(-5, "GBP"))
	assert.Equal(t, "£0.00", FormatSignedMoney(0, "GBP"))
}

func TestFormatPercentExamples(t *testing.T) {
	testCases := []struct {
		value    float64
		expected string
	}{
		{0, "0.00%"},
		{1.5, "+1.50%"},
		{-2.5, "-2.50%"},
		{100, "+100.00%"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatPercent(tc.value))
		})
	}
	assert.Equal(t, "42.50%", FormatShare(42.5))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "10", FormatQuantity(10))
	assert.Equal(t, "0.125", FormatQuantity(0.125))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "3m 5s", FormatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "2h 30m", FormatDuration(150*time.Minute))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Equal(t, "01-Mar-2024", FormatDate(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "Vanguard...", TruncateString("Vanguard FTSE All-World", 11))
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "ab   ", PadRight("ab", 5))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "red", stripANSI("\x1b[31mred\x1b[0m"))
	assert.Equal(t, 3, visibleLen("\x1b[1;32mabc\x1b[0m"))
}
