package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func findHoliday(holidays []Holiday, name string) (Holiday, bool) {
	for _, h := range holidays {
		if h.Name == name {
			return h, true
		}
	}
	return Holiday{}, false
}

func TestFederalFixedDates(t *testing.T) {
	p := NewRuleProvider()
	holidays := p.HolidaysFor("federal", 2024)
	require.Len(t, holidays, 11)

	h, ok := findHoliday(holidays, "Independence Day")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.July, 4), h.Date)

	h, ok = findHoliday(holidays, "Christmas Day")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.December, 25), h.Date)
}

func TestObservedShiftSaturdayToFriday(t *testing.T) {
	p := NewRuleProvider()

	// Veterans Day 2023 falls on a Saturday; observed the preceding Friday.
	h, ok := findHoliday(p.HolidaysFor("federal", 2023), "Veterans Day")
	require.True(t, ok)
	assert.Equal(t, date(2023, time.November, 10), h.Date)

	// Christmas 2021 falls on a Saturday.
	h, ok = findHoliday(p.HolidaysFor("federal", 2021), "Christmas Day")
	require.True(t, ok)
	assert.Equal(t, date(2021, time.December, 24), h.Date)
}

func TestObservedShiftSundayToMonday(t *testing.T) {
	p := NewRuleProvider()

	// Independence Day 2021 falls on a Sunday; observed the following Monday.
	h, ok := findHoliday(p.HolidaysFor("federal", 2021), "Independence Day")
	require.True(t, ok)
	assert.Equal(t, date(2021, time.July, 5), h.Date)
}

func TestNthWeekdayHolidays(t *testing.T) {
	p := NewRuleProvider()
	holidays := p.HolidaysFor("federal", 2024)

	h, ok := findHoliday(holidays, "Birthday of Martin Luther King, Jr.")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.January, 15), h.Date)

	h, ok = findHoliday(holidays, "Labor Day")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.September, 2), h.Date)

	h, ok = findHoliday(holidays, "Thanksgiving Day")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.November, 28), h.Date)
}

func TestLastWeekdayOfMonth(t *testing.T) {
	p := NewRuleProvider()

	h, ok := findHoliday(p.HolidaysFor("federal", 2024), "Memorial Day")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.May, 27), h.Date)

	h, ok = findHoliday(p.HolidaysFor("federal", 2021), "Memorial Day")
	require.True(t, ok)
	assert.Equal(t, date(2021, time.May, 31), h.Date)
}

func TestFloridaCalendarDiffersFromFederal(t *testing.T) {
	p := NewRuleProvider()
	florida := p.HolidaysFor("florida_state", 2024)

	_, hasColumbus := findHoliday(florida, "Columbus Day")
	assert.False(t, hasColumbus)

	h, ok := findHoliday(florida, "Day After Thanksgiving")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.November, 29), h.Date)
}

func TestDayAfterThanksgivingWhenNovemberStartsOnFriday(t *testing.T) {
	// November 2024 starts on a Friday: the day after the 4th Thursday is the
	// 5th Friday, not the 4th.
	p := NewRuleProvider()
	h, ok := findHoliday(p.HolidaysFor("florida_state", 2024), "Day After Thanksgiving")
	require.True(t, ok)
	assert.Equal(t, time.Friday, h.Date.Weekday())
	assert.Equal(t, date(2024, time.November, 29), h.Date)
}

func TestUnknownJurisdictionFailsOpen(t *testing.T) {
	p := NewRuleProvider()
	holidays := p.HolidaysFor("atlantis", 2024)
	assert.NotNil(t, holidays)
	assert.Empty(t, holidays)
	assert.False(t, p.Known("atlantis"))
}

func TestHolidaysSortedAndDeterministic(t *testing.T) {
	p := NewRuleProvider()
	first := p.HolidaysFor("federal", 2025)
	second := p.HolidaysFor("federal", 2025)
	require.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Date.Before(first[i].Date))
	}
}

func TestSetMembership(t *testing.T) {
	p := NewRuleProvider()
	set := NewSet(p.HolidaysFor("federal", 2024))

	assert.True(t, set.Contains(date(2024, time.July, 4)))
	assert.Equal(t, "Independence Day", set.NameOf(date(2024, time.July, 4)))
	assert.False(t, set.Contains(date(2024, time.July, 5)))
	assert.Equal(t, 11, set.Len())
}
