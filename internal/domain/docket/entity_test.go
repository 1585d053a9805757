package docket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

var testNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

func newTestTrigger(t *testing.T) *Trigger {
	t.Helper()
	trigger, err := NewTrigger(common.NewID(), "complaint_served", mustDate(t, "2024-01-10"),
		ServicePersonal, "frcp-complaint-served", "federal", testNow)
	require.NoError(t, err)
	return trigger
}

func TestTriggerLifecycle(t *testing.T) {
	trigger := newTestTrigger(t)
	assert.Equal(t, TriggerPending, trigger.Status)

	require.NoError(t, trigger.Activate(testNow))
	assert.Equal(t, TriggerActive, trigger.Status)

	require.NoError(t, trigger.Complete(testNow))
	assert.Equal(t, TriggerCompleted, trigger.Status)

	err := trigger.Cancel(testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTriggerStateInvalid))
}

func TestTriggerActivateTwiceFails(t *testing.T) {
	trigger := newTestTrigger(t)
	require.NoError(t, trigger.Activate(testNow))
	err := trigger.Activate(testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTriggerStateInvalid))
}

func TestTriggerCancelIsTerminal(t *testing.T) {
	trigger := newTestTrigger(t)
	require.NoError(t, trigger.Cancel(testNow))
	assert.Equal(t, TriggerCancelled, trigger.Status)

	err := trigger.Reschedule(mustDate(t, "2024-02-01"), ServicePersonal, testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTriggerStateInvalid))
}

func TestTriggerRescheduleNormalizesDate(t *testing.T) {
	trigger := newTestTrigger(t)
	noisy := time.Date(2024, 2, 1, 17, 45, 12, 0, time.UTC)
	require.NoError(t, trigger.Reschedule(noisy, ServiceElectronic, testNow))

	assert.Equal(t, mustDate(t, "2024-02-01"), trigger.TriggerDate)
	assert.Equal(t, ServiceElectronic, trigger.ServiceMethod)
}

func TestNewTriggerValidation(t *testing.T) {
	_, err := NewTrigger("", "complaint_served", mustDate(t, "2024-01-10"),
		ServicePersonal, "frcp-complaint-served", "federal", testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = NewTrigger(common.NewID(), "complaint_served", time.Time{},
		ServicePersonal, "frcp-complaint-served", "federal", testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDate))

	_, err = NewTrigger(common.NewID(), "complaint_served", mustDate(t, "2024-01-10"),
		"CARRIER_PIGEON", "frcp-complaint-served", "federal", testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestDeadlineCompletedCannotBeRescheduled(t *testing.T) {
	d := &Deadline{
		ID:           common.NewID(),
		TriggerID:    common.NewID(),
		Title:        "Answer Due",
		DeadlineDate: mustDate(t, "2024-01-31"),
		Priority:     PriorityFatal,
		Status:       DeadlinePending,
	}
	require.NoError(t, d.Complete(testNow))

	err := d.Reschedule(mustDate(t, "2024-02-15"), nil, testNow)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRecalculationConflict))
	assert.Equal(t, mustDate(t, "2024-01-31"), d.DeadlineDate)
}

func TestDeadlineDetachPreservesRecord(t *testing.T) {
	d := &Deadline{
		ID:        common.NewID(),
		TriggerID: common.NewID(),
		Status:    DeadlineCompleted,
	}
	d.Detach(testNow)
	assert.True(t, d.TriggerID.IsEmpty())
	assert.Equal(t, DeadlineCompleted, d.Status)
}
