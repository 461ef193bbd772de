package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/depolib/instrument"
)

func callableDeposit() instrument.Deposit {
	dep := testDeposit()
	dep.Callable = true
	dep.CallSchedule = []instrument.CallOption{
		{CallDate: date(2023, time.July, 1), CallPrice: 1.01, NoticeDays: 30},
	}
	return dep
}

func TestOptionAdjustedValue_BelowStraightPV(t *testing.T) {
	dep := callableDeposit()
	asOf := date(2023, time.January, 1)
	c := testCurve(t)

	straight, err := Price(dep, asOf, c)
	require.NoError(t, err)

	oav, err := OptionAdjustedValue(dep, asOf, c, 0.2)
	require.NoError(t, err)

	assert.Less(t, oav, straight, "issuer call rights reduce holder value")
}

func TestOptionAdjustedValue_NonCallable(t *testing.T) {
	dep := testDeposit()
	asOf := date(2023, time.January, 1)
	c := testCurve(t)

	straight, err := Price(dep, asOf, c)
	require.NoError(t, err)

	oav, err := OptionAdjustedValue(dep, asOf, c, 0.2)
	require.NoError(t, err)

	assert.InDelta(t, straight, oav, 1e-9)
}

func TestOptionAdjustedValue_PastCallsSkipped(t *testing.T) {
	dep := callableDeposit()
	// Valuing after the only call date: no live optionality remains.
	asOf := date(2023, time.August, 1)
	c := testCurve(t)

	straight, err := Price(dep, asOf, c)
	require.NoError(t, err)

	oav, err := OptionAdjustedValue(dep, asOf, c, 0.2)
	require.NoError(t, err)

	assert.InDelta(t, straight, oav, 1e-9)
}

func TestOptionAdjustedValue_MoreVolMoreOptionValue(t *testing.T) {
	dep := callableDeposit()
	asOf := date(2023, time.January, 1)
	c := testCurve(t)

	lowVol, err := OptionAdjustedValue(dep, asOf, c, 0.1)
	require.NoError(t, err)
	highVol, err := OptionAdjustedValue(dep, asOf, c, 0.4)
	require.NoError(t, err)

	assert.Less(t, highVol, lowVol)
}

func TestOptionAdjustedValue_InvalidVolatility(t *testing.T) {
	dep := callableDeposit()
	_, err := OptionAdjustedValue(dep, date(2023, time.January, 1), testCurve(t), 0)
	require.Error(t, err)
}
