package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationConvexity_OneYearBullet(t *testing.T) {
	dep := testDeposit()
	asOf := date(2023, time.January, 1)

	risk, err := DurationConvexity(dep, asOf, 0.05)
	require.NoError(t, err)

	assert.Greater(t, risk.ModifiedDuration, 0.0)
	assert.Less(t, risk.ModifiedDuration, 1.0, "a one-year bullet cannot have duration above its maturity")
	assert.Greater(t, risk.Convexity, 0.0)
}

func TestDurationConvexity_LongerMaturityLongerDuration(t *testing.T) {
	short := testDeposit()
	asOf := date(2023, time.January, 1)

	long := testDeposit()
	long.MaturityDate = date(2028, time.January, 1)

	shortRisk, err := DurationConvexity(short, asOf, 0.05)
	require.NoError(t, err)
	longRisk, err := DurationConvexity(long, asOf, 0.05)
	require.NoError(t, err)

	assert.Greater(t, longRisk.ModifiedDuration, shortRisk.ModifiedDuration)
}

func TestDurationConvexity_ZeroPriceGuard(t *testing.T) {
	dep := testDeposit()
	dep.Principal = 0

	_, err := DurationConvexity(dep, date(2023, time.January, 1), 0.05)
	require.Error(t, err)
}

func TestDurationConvexity_LoanUnsupported(t *testing.T) {
	loan := loanFixture()
	_, err := DurationConvexity(loan, date(2023, time.January, 1), 0.05)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedInstrument)
}
