package deadlines

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

func newTestService() *Service {
	calc := docket.NewCalculator(calendar.NewRuleProvider(), docket.NewTableResolver())
	return NewService(calc, calendar.NewRuleProvider(), nil, nil)
}

// ---------------------------------------------------------------------------
// Calculate
// ---------------------------------------------------------------------------

func TestCalculate(t *testing.T) {
	svc := newTestService()

	result, err := svc.Calculate(CalculateRequest{
		TriggerDate:    "2024-01-10",
		BaseDays:       3,
		CountingMethod: "BUSINESS",
		ServiceMethod:  "PERSONAL",
		Jurisdiction:   "federal",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", docket.FormatDate(result.DeadlineDate))
	assert.Empty(t, result.ConfigGaps())
}

func TestCalculateServiceExtension(t *testing.T) {
	svc := newTestService()

	result, err := svc.Calculate(CalculateRequest{
		TriggerDate:    "2024-01-10",
		BaseDays:       3,
		CountingMethod: "BUSINESS",
		ServiceMethod:  "CERTIFIED_MAIL",
		Jurisdiction:   "federal",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-18", docket.FormatDate(result.DeadlineDate))
	assert.Equal(t, 3, result.ServiceDaysAdded)
}

func TestCalculateRejectsBadInput(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name string
		req  CalculateRequest
		code errors.ErrorCode
	}{
		{
			name: "malformed date",
			req: CalculateRequest{TriggerDate: "01/10/2024", BaseDays: 3,
				CountingMethod: "CALENDAR", ServiceMethod: "PERSONAL", Jurisdiction: "federal"},
			code: errors.ErrCodeInvalidDate,
		},
		{
			name: "unknown counting method",
			req: CalculateRequest{TriggerDate: "2024-01-10", BaseDays: 3,
				CountingMethod: "LUNAR", ServiceMethod: "PERSONAL", Jurisdiction: "federal"},
			code: errors.ErrCodeValidation,
		},
		{
			name: "unknown service method",
			req: CalculateRequest{TriggerDate: "2024-01-10", BaseDays: 3,
				CountingMethod: "CALENDAR", ServiceMethod: "CARRIER_PIGEON", Jurisdiction: "federal"},
			code: errors.ErrCodeValidation,
		},
		{
			name: "day count out of range",
			req: CalculateRequest{TriggerDate: "2024-01-10", BaseDays: 100000,
				CountingMethod: "CALENDAR", ServiceMethod: "PERSONAL", Jurisdiction: "federal"},
			code: errors.ErrCodeInvalidDayCount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Calculate(tc.req)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.code), "want %s, got %v", tc.code, err)
		})
	}
}

func TestCalculateUnknownJurisdictionDegrades(t *testing.T) {
	svc := newTestService()

	result, err := svc.Calculate(CalculateRequest{
		TriggerDate:    "2024-01-10",
		BaseDays:       10,
		CountingMethod: "COURT",
		ServiceMethod:  "CERTIFIED_MAIL",
		Jurisdiction:   "atlantis",
	})
	require.NoError(t, err, "unknown jurisdiction degrades, it does not fail")
	assert.NotEmpty(t, result.ConfigGaps())
}

// ---------------------------------------------------------------------------
// Holidays
// ---------------------------------------------------------------------------

func TestHolidays(t *testing.T) {
	svc := newTestService()

	holidays, err := svc.Holidays("federal", 2024)
	require.NoError(t, err)
	assert.Len(t, holidays, 11)
}

func TestHolidaysUnknownJurisdiction(t *testing.T) {
	svc := newTestService()

	_, err := svc.Holidays("atlantis", 2024)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeJurisdictionUnknown))

	var ae *errors.AppError
	require.True(t, stderrors.As(err, &ae))
	assert.Contains(t, ae.Detail, "federal", "error lists the configured jurisdictions")
}

func TestHolidaysYearOutOfRange(t *testing.T) {
	svc := newTestService()

	_, err := svc.Holidays("federal", 1850)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

// ---------------------------------------------------------------------------
// iCalendar export
// ---------------------------------------------------------------------------

func TestExportICal(t *testing.T) {
	svc := newTestService()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	trigger := &docket.Trigger{
		ID:          common.NewID(),
		TriggerType: "complaint_served",
		TriggerDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	deadlines := []*docket.Deadline{
		{
			ID:             common.NewID(),
			Title:          "Answer Due",
			DeadlineDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			Priority:       docket.PriorityFatal,
			Status:         docket.DeadlinePending,
			ApplicableRule: "FRCP 12(a)(1)(A)(i)",
			UpdatedAt:      now,
		},
		{
			ID:           common.NewID(),
			Title:        "Corporate Disclosure; Statement",
			DeadlineDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			Priority:     docket.PriorityStandard,
			Status:       docket.DeadlinePending,
			UpdatedAt:    now,
		},
		{
			ID:           common.NewID(),
			Title:        "Withdrawn Motion",
			DeadlineDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
			Priority:     docket.PriorityStandard,
			Status:       docket.DeadlineCancelled,
			UpdatedAt:    now,
		},
	}

	out := string(svc.ExportICal(trigger, deadlines))

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"), "cancelled deadlines are excluded")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240131")
	assert.Contains(t, out, "DTSTAMP:20240110T120000Z")
	assert.Contains(t, out, "SUMMARY:Answer Due")
	assert.Contains(t, out, "Corporate Disclosure\\;")
	assert.Contains(t, out, "PRIORITY:1")
	assert.NotContains(t, out, "Withdrawn Motion")

	// Every content line stays within the 75-octet fold limit.
	for _, line := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(line), 75, "line %q exceeds fold limit", line)
	}
}

// ---------------------------------------------------------------------------
// Holiday cache decorator
// ---------------------------------------------------------------------------

type memCache struct {
	data map[string][]calendar.Holiday
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*dest.(*[]calendar.Holiday) = v
	return true, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.data[key] = value.([]calendar.Holiday)
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type countingProvider struct {
	src   calendar.Provider
	calls int
}

func (p *countingProvider) HolidaysFor(jurisdiction string, year int) []calendar.Holiday {
	p.calls++
	return p.src.HolidaysFor(jurisdiction, year)
}

func (p *countingProvider) Known(jurisdiction string) bool {
	return p.src.Known(jurisdiction)
}

func TestCachedHolidayProvider(t *testing.T) {
	src := &countingProvider{src: calendar.NewRuleProvider()}
	cache := &memCache{data: make(map[string][]calendar.Holiday)}
	provider := NewCachedHolidayProvider(src, cache, time.Hour, nil, nil)

	first := provider.HolidaysFor("federal", 2024)
	second := provider.HolidaysFor("federal", 2024)

	assert.Equal(t, 1, src.calls, "second lookup is served from the cache")
	assert.Equal(t, first, second)
	assert.True(t, provider.Known("federal"))
	assert.False(t, provider.Known("atlantis"))
}
