package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRange(t *testing.T) {
	dates, err := DefaultRange("", "", "2024-03-31", 30)
	require.NoError(t, err)
	assert.Equal(t, Date{Start: "2024-03-01", End: "2024-03-31"}, dates)

	dates, err = DefaultRange("2024-01-01", "", "2024-03-31", 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", dates.End)

	_, err = DefaultRange("2024-04-02", "2024-04-01", "2024-03-31", 30)
	assert.Error(t, err)

	_, err = DefaultRange("04/01/2024", "", "2024-03-31", 30)
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2024-02-27", "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = DaysBetween("2024-03-02", "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDateContains(t *testing.T) {
	d := Date{Start: "2024-01-10", End: "2024-01-12"}
	assert.True(t, d.Contains("2024-01-10"))
	assert.True(t, d.Contains("2024-01-12"))
	assert.False(t, d.Contains("2024-01-13"))
}

func TestTimeItWithoutTimers(t *testing.T) {
	ctx := context.Background()
	TimeIt(ctx, "noop")
	assert.Equal(t, int64(0), TimeEnd(ctx, "noop"))
	assert.Equal(t, "", TimeResults(ctx))

	ctx = TimeItContext(ctx)
	TimeIt(ctx, "step")
	TimeEnd(ctx, "step")
	assert.Contains(t, TimeResults(ctx), "step:")
}
