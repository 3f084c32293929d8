package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), DueDate(2024, time.February, 31))
	assert.Equal(t, date(2023, time.February, 28), DueDate(2023, time.February, 30))
	assert.Equal(t, date(2024, time.April, 30), DueDate(2024, time.April, 31))
	assert.Equal(t, date(2024, time.March, 5), DueDate(2024, time.March, 5))
}

func TestMonthsSpanned(t *testing.T) {
	assert.Equal(t, 3, MonthsSpanned(date(2024, 1, 1), date(2024, 3, 31)))
	assert.Equal(t, 4, MonthsSpanned(date(2024, 1, 1), date(2024, 4, 1)))
	assert.Equal(t, 1, MonthsSpanned(date(2024, 5, 10), date(2024, 5, 10)))
	assert.Equal(t, 14, MonthsSpanned(date(2023, 12, 20), date(2025, 1, 2)))
	assert.Equal(t, 0, MonthsSpanned(date(2024, 2, 1), date(2024, 1, 31)))
}

func TestTodayTruncatesInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	c := Fixed{T: time.Date(2024, 2, 10, 22, 30, 0, 0, time.UTC)}

	assert.Equal(t, date(2024, 2, 10), Today(c, time.UTC))
	assert.Equal(t, date(2024, 2, 11), Today(c, loc))
	assert.Equal(t, date(2024, 2, 10), Today(c, nil))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 5), d)

	_, err = ParseDate("05-03-2024")
	assert.Error(t, err)
}
