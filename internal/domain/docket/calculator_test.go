package docket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/pkg/errors"
)

func newTestCalculator() *Calculator {
	return NewCalculator(calendar.NewRuleProvider(), NewTableResolver())
}

func TestCalculatePersonalService(t *testing.T) {
	calc := newTestCalculator()
	result, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-01-10"),
		BaseDays:     3,
		Method:       CountingBusiness,
		Service:      ServicePersonal,
		Jurisdiction: "federal",
	})
	require.NoError(t, err)

	assert.Equal(t, mustDate(t, "2024-01-15"), result.DeadlineDate)
	assert.Equal(t, 3, result.BaseDays)
	assert.Equal(t, 0, result.ServiceDaysAdded)
	assert.Equal(t, 1, result.WeekendsSkipped)
	assert.Equal(t, CountingBusiness, result.CountingMethod)
}

func TestCalculateCertifiedMailExtension(t *testing.T) {
	calc := newTestCalculator()
	result, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-01-10"),
		BaseDays:     3,
		Method:       CountingBusiness,
		Service:      ServiceCertifiedMail,
		Jurisdiction: "federal",
	})
	require.NoError(t, err)

	// Federal mail service adds 3 days, making 6 business days total.
	assert.Equal(t, 3, result.ServiceDaysAdded)
	assert.Equal(t, mustDate(t, "2024-01-18"), result.DeadlineDate)

	var sawServiceStep bool
	for _, e := range result.AuditLog {
		if e.Action == ActionAddServiceDays {
			sawServiceStep = true
		}
	}
	assert.True(t, sawServiceStep)
}

func TestCalculateFloridaElectronicAddsNothing(t *testing.T) {
	calc := newTestCalculator()
	result, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-01-10"),
		BaseDays:     20,
		Method:       CountingCalendar,
		Service:      ServiceElectronic,
		Jurisdiction: "florida_state",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ServiceDaysAdded)
	assert.Empty(t, result.ConfigGaps())
}

func TestCalculateZeroDaysReturnsTriggerDate(t *testing.T) {
	calc := newTestCalculator()
	for _, method := range []CountingMethod{CountingCalendar, CountingBusiness, CountingCourt, CountingRetrograde} {
		result, err := calc.Calculate(CalculationInput{
			TriggerDate:  mustDate(t, "2024-01-13"),
			BaseDays:     0,
			Method:       method,
			Service:      ServicePersonal,
			Jurisdiction: "federal",
		})
		require.NoError(t, err)
		assert.Equal(t, mustDate(t, "2024-01-13"), result.DeadlineDate, "method %s", method)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	calc := newTestCalculator()
	in := CalculationInput{
		TriggerDate:  mustDate(t, "2024-03-01"),
		BaseDays:     45,
		Method:       CountingCourt,
		Service:      ServiceFirstClassMail,
		Jurisdiction: "federal",
	}
	first, err := calc.Calculate(in)
	require.NoError(t, err)
	second, err := calc.Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateExtensionLengthensBackwardCount(t *testing.T) {
	calc := newTestCalculator()
	personal, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-09-03"),
		BaseDays:     14,
		Method:       CountingRetrograde,
		Service:      ServicePersonal,
		Jurisdiction: "federal",
	})
	require.NoError(t, err)

	mailed, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-09-03"),
		BaseDays:     14,
		Method:       CountingRetrograde,
		Service:      ServiceCertifiedMail,
		Jurisdiction: "federal",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, mailed.ServiceDaysAdded)
	assert.True(t, mailed.DeadlineDate.Before(personal.DeadlineDate),
		"extension must move a retrograde deadline further back")
}

func TestCalculateUnknownJurisdictionDegradesGracefully(t *testing.T) {
	calc := newTestCalculator()
	result, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-01-10"),
		BaseDays:     10,
		Method:       CountingCourt,
		Service:      ServiceCertifiedMail,
		Jurisdiction: "texas_state",
	})
	require.NoError(t, err, "configuration gaps never block calculation")

	assert.Equal(t, 0, result.ServiceDaysAdded)
	gaps := result.ConfigGaps()
	require.Len(t, gaps, 2)
	assert.Contains(t, gaps[0], "no holiday calendar configured")
	assert.Contains(t, gaps[1], "no service extension table configured")
}

func TestCalculateAuditStepsRenumbered(t *testing.T) {
	calc := newTestCalculator()
	result, err := calc.Calculate(CalculationInput{
		TriggerDate:  mustDate(t, "2024-01-10"),
		BaseDays:     3,
		Method:       CountingBusiness,
		Service:      ServiceCertifiedMail,
		Jurisdiction: "federal",
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.AuditLog)
	assert.Equal(t, ActionRecordTrigger, result.AuditLog[0].Action)
	for i, e := range result.AuditLog {
		assert.Equal(t, i+1, e.Step)
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Calculate(CalculationInput{
		BaseDays: 3, Method: CountingBusiness, Service: ServicePersonal, Jurisdiction: "federal",
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDate))

	_, err = calc.Calculate(CalculationInput{
		TriggerDate: mustDate(t, "2024-01-10"), BaseDays: 3,
		Method: "LUNAR", Service: ServicePersonal, Jurisdiction: "federal",
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = calc.Calculate(CalculationInput{
		TriggerDate: mustDate(t, "2024-01-10"), BaseDays: 100000,
		Method: CountingCalendar, Service: ServicePersonal, Jurisdiction: "federal",
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDayCount))
}
