package scheduleform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dutychart/internal/api"
	"dutychart/internal/model"
)

type fakePersister struct {
	created []api.ScheduleInput
	patched []patchCall
	err     error
}

type patchCall struct {
	id int64
	in api.ScheduleInput
}

func (p *fakePersister) CreateSchedule(_ context.Context, in api.ScheduleInput) (*model.Schedule, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.created = append(p.created, in)
	return &model.Schedule{ID: 99, Name: in.Name}, nil
}

func (p *fakePersister) PatchSchedule(_ context.Context, id int64, in api.ScheduleInput) (*model.Schedule, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.patched = append(p.patched, patchCall{id: id, in: in})
	return &model.Schedule{ID: id, Name: in.Name}, nil
}

type fakeNotifier struct {
	successes []string
	failures  []string
}

func (n *fakeNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *fakeNotifier) Error(msg string)   { n.failures = append(n.failures, msg) }

func int64ptr(v int64) *int64 { return &v }

func morningTemplate() model.Schedule {
	return model.Schedule{ID: 1, Name: "Morning", StartTime: "06:00:00", EndTime: "14:00:00", Status: model.StatusTemplate}
}

func newCreateForm(p *fakePersister, n *fakeNotifier) *Form {
	f := New(Config{Mode: ModeCreate, Persister: p, Notifier: n})
	f.SetLists(
		[]model.Office{{ID: 3, Name: "Central Office"}},
		[]model.Schedule{morningTemplate()},
	)
	return f
}

func TestSelectTemplatePrefillsTruncatedTimes(t *testing.T) {
	f := newCreateForm(&fakePersister{}, &fakeNotifier{})

	require.NoError(t, f.SelectTemplate("Morning"))

	draft := f.Draft()
	assert.Equal(t, "Morning", draft.Name)
	assert.Equal(t, "06:00", draft.StartTime)
	assert.Equal(t, "14:00", draft.EndTime)
}

func TestSelectTemplateUnknownNameKeepsTimes(t *testing.T) {
	f := newCreateForm(&fakePersister{}, &fakeNotifier{})
	f.SetStartTime("08:00")

	require.NoError(t, f.SelectTemplate("Nonexistent"))

	draft := f.Draft()
	assert.Equal(t, "Nonexistent", draft.Name)
	assert.Equal(t, "08:00", draft.StartTime)
}

func TestToggleCustomClearsDraftAndErrors(t *testing.T) {
	f := newCreateForm(&fakePersister{}, &fakeNotifier{})
	require.NoError(t, f.SelectTemplate("Morning"))

	// Force some field errors first.
	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation) // office missing
	require.NotEmpty(t, f.FieldErrors())

	f.ToggleCustom()

	draft := f.Draft()
	assert.True(t, f.Custom())
	assert.Empty(t, draft.Name)
	assert.Empty(t, draft.StartTime)
	assert.Empty(t, draft.EndTime)
	assert.Empty(t, f.FieldErrors())

	f.ToggleCustom()
	assert.False(t, f.Custom())
}

func TestSelectTemplateRejectedInCustomMode(t *testing.T) {
	f := newCreateForm(&fakePersister{}, &fakeNotifier{})
	f.ToggleCustom()

	assert.ErrorIs(t, f.SelectTemplate("Morning"), ErrCustomMode)
}

func TestSubmitUnmodifiedTemplateSkipsConfirmation(t *testing.T) {
	p := &fakePersister{}
	n := &fakeNotifier{}
	f := newCreateForm(p, n)
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)

	div, err := f.Submit(context.Background())

	require.NoError(t, err)
	assert.Nil(t, div)
	require.Len(t, p.created, 1)
	assert.Equal(t, "06:00", p.created[0].StartTime)
	assert.Equal(t, "14:00", p.created[0].EndTime)
	assert.Equal(t, model.StatusOfficeSchedule, p.created[0].Status)
	assert.Equal(t, []string{"Schedule Created Successfully"}, n.successes)
}

func TestSubmitDivergentTimesRequiresConfirmation(t *testing.T) {
	p := &fakePersister{}
	f := newCreateForm(p, &fakeNotifier{})
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)
	f.SetEndTime("15:00")

	div, err := f.Submit(context.Background())

	require.NoError(t, err)
	require.NotNil(t, div)
	assert.Equal(t, "Morning", div.TemplateName)
	assert.Equal(t, "06:00 - 14:00", div.Standard())
	assert.Equal(t, "06:00 - 15:00", div.New())
	assert.Empty(t, p.created, "no network call before confirmation")

	require.NoError(t, f.Confirm(context.Background()))
	require.Len(t, p.created, 1)
	assert.Equal(t, "15:00", p.created[0].EndTime)
	assert.Nil(t, f.Pending())
}

func TestCancelConfirmationAbandonsSubmission(t *testing.T) {
	p := &fakePersister{}
	f := newCreateForm(p, &fakeNotifier{})
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)
	f.SetStartTime("07:00")

	div, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, div)

	f.CancelConfirmation()

	assert.Nil(t, f.Pending())
	assert.Empty(t, p.created)
	assert.ErrorIs(t, f.Confirm(context.Background()), ErrNothingPending)
}

func TestCustomModeNeverConfirms(t *testing.T) {
	p := &fakePersister{}
	f := newCreateForm(p, &fakeNotifier{})
	f.ToggleCustom()
	f.SetName("Morning") // same name as a template, but custom mode skips the check
	f.SetStartTime("09:00")
	f.SetEndTime("17:00")
	f.SetOffice(3)

	div, err := f.Submit(context.Background())

	require.NoError(t, err)
	assert.Nil(t, div)
	require.Len(t, p.created, 1)
}

func TestSubmitMissingOfficeIsFieldErrorWithoutNetworkCall(t *testing.T) {
	p := &fakePersister{}
	f := newCreateForm(p, &fakeNotifier{})
	require.NoError(t, f.SelectTemplate("Morning"))

	div, err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, div)
	assert.Equal(t, "Office is required", f.FieldErrors()["office"])
	assert.Empty(t, p.created)
}

func TestValidationMessages(t *testing.T) {
	f := New(Config{Mode: ModeCreate, Persister: &fakePersister{}})
	f.ToggleCustom()
	f.SetName("   ")

	_, err := f.Submit(context.Background())

	require.ErrorIs(t, err, ErrValidation)
	errs := f.FieldErrors()
	assert.Equal(t, "Schedule name is required", errs["name"])
	assert.Equal(t, "Start time is required", errs["start_time"])
	assert.Equal(t, "End time is required", errs["end_time"])
	assert.Equal(t, "Office is required", errs["office"])
}

func TestOvernightShiftPassesValidation(t *testing.T) {
	p := &fakePersister{}
	f := newCreateForm(p, &fakeNotifier{})
	f.ToggleCustom()
	f.SetName("Night")
	f.SetStartTime("22:00")
	f.SetEndTime("06:00")
	f.SetOffice(3)

	div, err := f.Submit(context.Background())

	require.NoError(t, err)
	assert.Nil(t, div)
	require.Len(t, p.created, 1)
	assert.Equal(t, "22:00", p.created[0].StartTime)
	assert.Equal(t, "06:00", p.created[0].EndTime)
}

func TestAPIFieldErrorMapsInlineWithoutGeneralError(t *testing.T) {
	p := &fakePersister{err: &api.APIError{
		Status:      400,
		FieldErrors: map[string]string{"start_time": "This field is required."},
	}}
	n := &fakeNotifier{}
	f := newCreateForm(p, n)
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)

	_, err := f.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "This field is required.", f.FieldErrors()["start_time"])
	assert.Empty(t, f.FieldErrors()["general"])
	assert.Empty(t, n.failures, "field-only errors raise no toast")
}

func TestAPIDetailErrorBecomesToast(t *testing.T) {
	p := &fakePersister{err: &api.APIError{Status: 403, Detail: "Permission denied."}}
	n := &fakeNotifier{}
	f := newCreateForm(p, n)
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)

	_, err := f.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"Permission denied."}, n.failures)
	assert.Empty(t, f.FieldErrors()["general"])
}

func TestUnstructuredErrorBecomesGenericFailure(t *testing.T) {
	p := &fakePersister{err: errors.New("connection reset")}
	n := &fakeNotifier{}
	f := newCreateForm(p, n)
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)

	_, err := f.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Failed to save schedule. Please try again.", f.FieldErrors()["general"])
	assert.Equal(t, []string{"Failed to save schedule. Please try again."}, n.failures)
}

func TestCreateSuccessResetsDraft(t *testing.T) {
	f := newCreateForm(&fakePersister{}, &fakeNotifier{})
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)

	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Draft{}, f.Draft())
}

func TestOnScheduleAddedCallback(t *testing.T) {
	called := 0
	f := New(Config{
		Mode:            ModeCreate,
		Persister:       &fakePersister{},
		OnScheduleAdded: func() { called++ },
	})
	f.SetLists([]model.Office{{ID: 3}}, []model.Schedule{morningTemplate()})
	require.NoError(t, f.SelectTemplate("Morning"))
	f.SetOffice(3)

	_, err := f.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, called)
}

func TestEditModePatchesPreservingStatus(t *testing.T) {
	p := &fakePersister{}
	n := &fakeNotifier{}
	initial := &model.Schedule{
		ID:        12,
		Name:      "Evening",
		StartTime: "14:00:00",
		EndTime:   "22:00:00",
		Office:    int64ptr(3),
		Status:    model.StatusExpired,
	}
	f := New(Config{Mode: ModeEdit, Initial: initial, Persister: p, Notifier: n})
	f.SetLists([]model.Office{{ID: 3}}, nil)

	assert.True(t, f.Custom(), "editing starts in custom mode")
	assert.True(t, f.TimesEditable())

	f.SetEndTime("23:00")
	div, err := f.Submit(context.Background())

	require.NoError(t, err)
	assert.Nil(t, div)
	require.Len(t, p.patched, 1)
	assert.Equal(t, int64(12), p.patched[0].id)
	assert.Equal(t, model.StatusExpired, p.patched[0].in.Status, "prior status preserved")
	assert.Equal(t, []string{"Schedule Updated Successfully"}, n.successes)
	assert.Equal(t, "Evening", f.Draft().Name, "edit mode keeps the draft")
}

func TestEditModeDefaultsStatusWhenUnset(t *testing.T) {
	p := &fakePersister{}
	initial := &model.Schedule{ID: 5, Name: "Old", StartTime: "08:00", EndTime: "16:00", Office: int64ptr(1)}
	f := New(Config{Mode: ModeEdit, Initial: initial, Persister: p})

	_, err := f.Submit(context.Background())

	require.NoError(t, err)
	require.Len(t, p.patched, 1)
	assert.Equal(t, model.StatusOfficeSchedule, p.patched[0].in.Status)
}

func TestSubmitLabels(t *testing.T) {
	create := New(Config{Mode: ModeCreate, Persister: &fakePersister{}})
	edit := New(Config{Mode: ModeEdit, Persister: &fakePersister{}})

	assert.Equal(t, "Create Schedule", create.SubmitLabel())
	assert.Equal(t, "Update Schedule", edit.SubmitLabel())

	create.submitting = true
	edit.submitting = true
	assert.Equal(t, "Creating...", create.SubmitLabel())
	assert.Equal(t, "Updating...", edit.SubmitLabel())
	assert.Equal(t, "Saving...", create.ConfirmLabel())
}

func TestSubmitRejectedWhileInFlight(t *testing.T) {
	f := newCreateForm(&fakePersister{}, &fakeNotifier{})
	f.submitting = true

	_, err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitting)
}
