package cascade

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/domain/rules"
	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

// ---------------------------------------------------------------------------
// In-memory unit of work
// ---------------------------------------------------------------------------

type memStore struct {
	triggers  map[common.ID]*docket.Trigger
	deadlines map[common.ID]*docket.Deadline
}

func newMemStore() *memStore {
	return &memStore{
		triggers:  make(map[common.ID]*docket.Trigger),
		deadlines: make(map[common.ID]*docket.Deadline),
	}
}

// WithinTx snapshots the store and restores it when fn fails, mimicking a
// database rollback.
func (s *memStore) WithinTx(_ context.Context, fn func(docket.TriggerRepository, docket.DeadlineRepository) error) error {
	snapTriggers := make(map[common.ID]*docket.Trigger, len(s.triggers))
	for k, v := range s.triggers {
		c := *v
		snapTriggers[k] = &c
	}
	snapDeadlines := make(map[common.ID]*docket.Deadline, len(s.deadlines))
	for k, v := range s.deadlines {
		c := *v
		snapDeadlines[k] = &c
	}

	if err := fn(&memTriggerRepo{s}, &memDeadlineRepo{s}); err != nil {
		s.triggers = snapTriggers
		s.deadlines = snapDeadlines
		return err
	}
	return nil
}

type memTriggerRepo struct{ s *memStore }

func (r *memTriggerRepo) Create(_ context.Context, t *docket.Trigger) error {
	r.s.triggers[t.ID] = t
	return nil
}

func (r *memTriggerRepo) Update(_ context.Context, t *docket.Trigger) error {
	if _, ok := r.s.triggers[t.ID]; !ok {
		return errors.Newf(errors.ErrCodeTriggerNotFound, "trigger %s not found", t.ID)
	}
	r.s.triggers[t.ID] = t
	return nil
}

func (r *memTriggerRepo) GetByID(_ context.Context, id common.ID) (*docket.Trigger, error) {
	t, ok := r.s.triggers[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeTriggerNotFound, "trigger %s not found", id)
	}
	return t, nil
}

func (r *memTriggerRepo) ListByCase(_ context.Context, caseID common.ID, _ common.Pagination) ([]*docket.Trigger, int64, error) {
	var out []*docket.Trigger
	for _, t := range r.s.triggers {
		if t.CaseID == caseID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

type memDeadlineRepo struct{ s *memStore }

func (r *memDeadlineRepo) Create(_ context.Context, d *docket.Deadline) error {
	r.s.deadlines[d.ID] = d
	return nil
}

func (r *memDeadlineRepo) Update(_ context.Context, d *docket.Deadline) error {
	if _, ok := r.s.deadlines[d.ID]; !ok {
		return errors.Newf(errors.ErrCodeDeadlineNotFound, "deadline %s not found", d.ID)
	}
	r.s.deadlines[d.ID] = d
	return nil
}

func (r *memDeadlineRepo) Delete(_ context.Context, id common.ID) error {
	if _, ok := r.s.deadlines[id]; !ok {
		return errors.Newf(errors.ErrCodeDeadlineNotFound, "deadline %s not found", id)
	}
	delete(r.s.deadlines, id)
	return nil
}

func (r *memDeadlineRepo) GetByID(_ context.Context, id common.ID) (*docket.Deadline, error) {
	d, ok := r.s.deadlines[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDeadlineNotFound, "deadline %s not found", id)
	}
	return d, nil
}

func (r *memDeadlineRepo) ListByTrigger(_ context.Context, triggerID common.ID) ([]*docket.Deadline, error) {
	var out []*docket.Deadline
	for _, d := range r.s.deadlines {
		if d.TriggerID == triggerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDeadlineRepo) ListByCase(_ context.Context, _ common.ID, _ common.Pagination) ([]*docket.Deadline, int64, error) {
	return nil, 0, nil
}

func (r *memDeadlineRepo) ListPendingInRange(_ context.Context, from, to time.Time, _ common.Pagination) ([]*docket.Deadline, int64, error) {
	var out []*docket.Deadline
	for _, d := range r.s.deadlines {
		if d.Status != docket.DeadlinePending {
			continue
		}
		if d.DeadlineDate.Before(from) || d.DeadlineDate.After(to) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeadlineDate.Before(out[j].DeadlineDate) })
	return out, int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Mock publisher
// ---------------------------------------------------------------------------

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, store *memStore, publisher EventPublisher) *Engine {
	t.Helper()
	calc := docket.NewCalculator(calendar.NewRuleProvider(), docket.NewTableResolver())
	return NewEngine(store, rules.NewBuiltinRegistry(), calc, publisher, nil, nil).
		WithClock(func() time.Time { return fixedNow })
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := docket.ParseDate(s)
	require.NoError(t, err)
	return d
}

func createTrialTrigger(t *testing.T, engine *Engine) *CreateTriggerResult {
	t.Helper()
	result, err := engine.CreateTrigger(context.Background(), CreateTriggerInput{
		CaseID:         common.NewID(),
		TriggerType:    "trial_date",
		TriggerDate:    mustParse(t, "2024-09-03"),
		ServiceMethod:  docket.ServicePersonal,
		RuleTemplateID: "frcp-trial-date",
	})
	require.NoError(t, err)
	return result
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateTriggerExpandsAllSpecs(t *testing.T) {
	store := newMemStore()
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, EventTriggerCreated, mock.Anything).Return(nil)

	engine := newTestEngine(t, store, publisher)
	result := createTrialTrigger(t, engine)

	assert.Equal(t, docket.TriggerActive, result.Trigger.Status)
	require.Len(t, result.Deadlines, 5)
	assert.Len(t, store.deadlines, 5)

	for _, d := range result.Deadlines {
		assert.Equal(t, result.Trigger.ID, d.TriggerID)
		assert.NotEmpty(t, d.SpecID)
		require.NotNil(t, d.Calculation)
		require.NotEmpty(t, d.Calculation.AuditLog)
		for i, e := range d.Calculation.AuditLog {
			assert.Equal(t, i+1, e.Step)
		}
	}
	publisher.AssertExpectations(t)
}

func TestCreateTriggerUnknownTemplate(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store, nil)

	_, err := engine.CreateTrigger(context.Background(), CreateTriggerInput{
		CaseID:         common.NewID(),
		TriggerType:    "trial_date",
		TriggerDate:    mustParse(t, "2024-09-03"),
		ServiceMethod:  docket.ServicePersonal,
		RuleTemplateID: "no-such-template",
	})
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, store.triggers)
	assert.Empty(t, store.deadlines)
}

func TestCreateTriggerTypeMismatch(t *testing.T) {
	engine := newTestEngine(t, newMemStore(), nil)
	_, err := engine.CreateTrigger(context.Background(), CreateTriggerInput{
		CaseID:         common.NewID(),
		TriggerType:    "complaint_served",
		TriggerDate:    mustParse(t, "2024-09-03"),
		ServiceMethod:  docket.ServicePersonal,
		RuleTemplateID: "frcp-trial-date",
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestCreateTriggerExpansionIsAtomic(t *testing.T) {
	// A template whose second spec exceeds the calculator's day bound: the
	// expansion must fail without persisting anything.
	registry := rules.NewInMemoryRegistry()
	require.NoError(t, registry.Register(&rules.RuleTemplate{
		RuleID: "broken", Jurisdiction: "federal", CourtType: "district", TriggerType: "trial_date",
		Specs: []rules.DeadlineSpec{
			{SpecID: "ok", Title: "Fine", DaysFromTrigger: 10,
				CountingMethod: docket.CountingCalendar, Priority: docket.PriorityStandard},
			{SpecID: "broken", Title: "Broken", DaysFromTrigger: 100000,
				CountingMethod: docket.CountingCalendar, Priority: docket.PriorityStandard},
		},
	}))

	store := newMemStore()
	calc := docket.NewCalculator(calendar.NewRuleProvider(), docket.NewTableResolver())
	engine := NewEngine(store, registry, calc, nil, nil, nil).
		WithClock(func() time.Time { return fixedNow })

	_, err := engine.CreateTrigger(context.Background(), CreateTriggerInput{
		CaseID:         common.NewID(),
		TriggerType:    "trial_date",
		TriggerDate:    mustParse(t, "2024-09-03"),
		ServiceMethod:  docket.ServicePersonal,
		RuleTemplateID: "broken",
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeCascadeExpansionFailed))
	assert.Empty(t, store.triggers)
	assert.Empty(t, store.deadlines)
}

// ---------------------------------------------------------------------------
// Recalculate
// ---------------------------------------------------------------------------

func TestRecalculateUnchangedDateIsIdempotent(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store, nil)
	created := createTrialTrigger(t, engine)

	// The store hands out shared pointers, so snapshot values before the
	// recalculation mutates them.
	beforeDates := make(map[common.ID]time.Time, len(created.Deadlines))
	beforeCalcs := make(map[common.ID]docket.CalculationResult, len(created.Deadlines))
	for _, d := range created.Deadlines {
		beforeDates[d.ID] = d.DeadlineDate
		beforeCalcs[d.ID] = *d.Calculation
	}

	result, err := engine.Recalculate(context.Background(), created.Trigger.ID, RecalculateInput{
		TriggerDate:   mustParse(t, "2024-09-03"),
		ServiceMethod: docket.ServicePersonal,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Updated)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Removed)

	for _, after := range result.Deadlines {
		before, ok := beforeDates[after.ID]
		require.True(t, ok, "deadline identity preserved across recalculation")
		assert.Equal(t, before, after.DeadlineDate)
		assert.Equal(t, beforeCalcs[after.ID], *after.Calculation)
	}
}

func TestRecalculateMovesDeadlines(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store, nil)
	created := createTrialTrigger(t, engine)

	result, err := engine.Recalculate(context.Background(), created.Trigger.ID, RecalculateInput{
		TriggerDate:   mustParse(t, "2024-10-01"),
		ServiceMethod: docket.ServicePersonal,
	})
	require.NoError(t, err)

	assert.Equal(t, mustParse(t, "2024-10-01"), result.Trigger.TriggerDate)
	for _, d := range result.Deadlines {
		assert.True(t, d.DeadlineDate.After(mustParse(t, "2024-08-13")),
			"deadlines shift with the trigger date")
	}
}

func TestRecalculateConflictsOnCompletedDeadline(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store, nil)
	created := createTrialTrigger(t, engine)

	completed := created.Deadlines[0]
	require.NoError(t, completed.Complete(fixedNow))
	store.deadlines[completed.ID] = completed

	_, err := engine.Recalculate(context.Background(), created.Trigger.ID, RecalculateInput{
		TriggerDate:   mustParse(t, "2024-10-01"),
		ServiceMethod: docket.ServicePersonal,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRecalculationConflict))

	// The conflict aborts the whole reconciliation.
	current := store.deadlines[created.Deadlines[1].ID]
	assert.Equal(t, created.Deadlines[1].DeadlineDate, current.DeadlineDate)
}

func TestRecalculateOverridePreservesCompleted(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store, nil)
	created := createTrialTrigger(t, engine)

	completed := created.Deadlines[0]
	originalDate := completed.DeadlineDate
	require.NoError(t, completed.Complete(fixedNow))
	store.deadlines[completed.ID] = completed

	result, err := engine.Recalculate(context.Background(), created.Trigger.ID, RecalculateInput{
		TriggerDate:       mustParse(t, "2024-10-01"),
		ServiceMethod:     docket.ServicePersonal,
		OverrideCompleted: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 4, result.Updated)
	assert.Equal(t, originalDate, store.deadlines[completed.ID].DeadlineDate,
		"completed deadline keeps its historical date")
}

func TestRecalculateRemovesDroppedSpecs(t *testing.T) {
	registry := rules.NewInMemoryRegistry()
	require.NoError(t, registry.Register(&rules.RuleTemplate{
		RuleID: "shrinking", Jurisdiction: "federal", CourtType: "district", TriggerType: "trial_date",
		Specs: []rules.DeadlineSpec{
			{SpecID: "keep", Title: "Keep", DaysFromTrigger: 10,
				CountingMethod: docket.CountingCalendar, Priority: docket.PriorityStandard},
		},
	}))

	store := newMemStore()
	calc := docket.NewCalculator(calendar.NewRuleProvider(), docket.NewTableResolver())
	engine := NewEngine(store, registry, calc, nil, nil, nil).
		WithClock(func() time.Time { return fixedNow })

	created, err := engine.CreateTrigger(context.Background(), CreateTriggerInput{
		CaseID:         common.NewID(),
		TriggerType:    "trial_date",
		TriggerDate:    mustParse(t, "2024-09-03"),
		ServiceMethod:  docket.ServicePersonal,
		RuleTemplateID: "shrinking",
	})
	require.NoError(t, err)

	// Simulate a deadline left over from an earlier template version.
	orphan := &docket.Deadline{
		ID:           common.NewID(),
		TriggerID:    created.Trigger.ID,
		SpecID:       "dropped",
		Title:        "Dropped Spec",
		DeadlineDate: mustParse(t, "2024-09-20"),
		Priority:     docket.PriorityStandard,
		Status:       docket.DeadlinePending,
	}
	store.deadlines[orphan.ID] = orphan

	result, err := engine.Recalculate(context.Background(), created.Trigger.ID, RecalculateInput{
		TriggerDate:   mustParse(t, "2024-09-03"),
		ServiceMethod: docket.ServicePersonal,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	_, stillThere := store.deadlines[orphan.ID]
	assert.False(t, stillThere)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDeleteTriggerCascades(t *testing.T) {
	store := newMemStore()
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, EventTriggerCreated, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, EventTriggerCancelled, mock.Anything).Return(nil)

	engine := newTestEngine(t, store, publisher)
	created := createTrialTrigger(t, engine)

	completed := created.Deadlines[2]
	require.NoError(t, completed.Complete(fixedNow))
	store.deadlines[completed.ID] = completed

	result, err := engine.DeleteTrigger(context.Background(), created.Trigger.ID)
	require.NoError(t, err)

	assert.Equal(t, docket.TriggerCancelled, result.Trigger.Status)
	assert.Equal(t, 4, result.Deleted)
	assert.Equal(t, 1, result.Detached)

	survivor, ok := store.deadlines[completed.ID]
	require.True(t, ok, "completed deadline survives as historical record")
	assert.True(t, survivor.TriggerID.IsEmpty())
	assert.Len(t, store.deadlines, 1)
	publisher.AssertExpectations(t)
}

// ---------------------------------------------------------------------------
// Docket views
// ---------------------------------------------------------------------------

func TestUpcomingAndOverdueDeadlines(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store, nil)
	createTrialTrigger(t, engine)

	// Trial date 2024-09-03 with retrograde offsets lands deadlines on
	// Jul 22, Aug 2, Aug 13 (twice) and Aug 22.
	engine.WithClock(func() time.Time { return time.Date(2024, 8, 10, 9, 0, 0, 0, time.UTC) })

	upcoming, err := engine.UpcomingDeadlines(context.Background(), 14, common.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, upcoming.TotalCount)
	for _, d := range upcoming.Items {
		assert.Equal(t, docket.DeadlinePending, d.Status)
	}

	overdue, err := engine.OverdueDeadlines(context.Background(), common.Pagination{})
	require.NoError(t, err)
	require.EqualValues(t, 2, overdue.TotalCount)
	assert.Equal(t, mustParse(t, "2024-07-22"), overdue.Items[0].DeadlineDate)
	assert.Equal(t, mustParse(t, "2024-08-02"), overdue.Items[1].DeadlineDate)

	_, err = engine.UpcomingDeadlines(context.Background(), 0, common.Pagination{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

// ---------------------------------------------------------------------------
// Deadline lifecycle
// ---------------------------------------------------------------------------

func TestCompleteDeadlinePublishes(t *testing.T) {
	store := newMemStore()
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, EventTriggerCreated, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, EventDeadlineCompleted, mock.Anything).Return(nil)

	engine := newTestEngine(t, store, publisher)
	created := createTrialTrigger(t, engine)

	deadline, err := engine.CompleteDeadline(context.Background(), created.Deadlines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, docket.DeadlineCompleted, deadline.Status)
	publisher.AssertExpectations(t)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	store := newMemStore()
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, EventTriggerCreated, mock.Anything).
		Return(errors.Internal("broker down"))

	engine := newTestEngine(t, store, publisher)
	result := createTrialTrigger(t, engine)
	assert.Len(t, result.Deadlines, 5)
}
