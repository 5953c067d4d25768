// Package scheduleform implements the duty-hours schedule form: template
// selection with prefill, a custom-schedule mode, field validation, and the
// confirmation gate shown when saved times diverge from the chosen template.
package scheduleform

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"dutychart/internal/api"
	"dutychart/internal/metrics"
	"dutychart/internal/model"
)

// Mode selects create-new versus edit-existing behavior.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var (
	// ErrCustomMode is returned when a template is selected while the form is
	// in custom mode.
	ErrCustomMode = errors.New("template selection disabled in custom mode")
	// ErrValidation is returned by Submit when field validation failed;
	// details are in FieldErrors.
	ErrValidation = errors.New("validation failed")
	// ErrNothingPending is returned by Confirm without a suspended submission.
	ErrNothingPending = errors.New("no submission awaiting confirmation")
	// ErrSubmitting is returned when a submit overlaps an in-flight one.
	ErrSubmitting = errors.New("submission already in progress")
)

// Persister saves the finished draft. *api.Client satisfies it.
type Persister interface {
	CreateSchedule(ctx context.Context, in api.ScheduleInput) (*model.Schedule, error)
	PatchSchedule(ctx context.Context, id int64, in api.ScheduleInput) (*model.Schedule, error)
}

// Loader fetches the collaborator lists the form depends on. *api.Client
// satisfies it.
type Loader interface {
	ListOffices(ctx context.Context) ([]model.Office, error)
	ListSchedules(ctx context.Context, filter api.ScheduleFilter) ([]model.Schedule, error)
}

// Notifier is the transient toast surface.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Draft is the mutable form state. Outside custom mode, StartTime and EndTime
// are sourced only from the selected template.
type Draft struct {
	Name      string
	StartTime string
	EndTime   string
	Office    *int64
}

// Divergence describes a mismatch between the selected template's canonical
// times and the draft's, pending operator confirmation.
type Divergence struct {
	TemplateName  string
	StandardStart string // HH:MM
	StandardEnd   string
	DraftStart    string
	DraftEnd      string
}

// Standard renders the template's canonical hours for the dialog.
func (d Divergence) Standard() string {
	return fmt.Sprintf("%s - %s", d.StandardStart, d.StandardEnd)
}

// New renders the operator's edited hours for the dialog.
func (d Divergence) New() string {
	return fmt.Sprintf("%s - %s", d.DraftStart, d.DraftEnd)
}

// Config wires a Form.
type Config struct {
	Mode            Mode
	Initial         *model.Schedule // prefill when editing
	Persister       Persister
	Loader          Loader
	Notifier        Notifier
	OnScheduleAdded func() // parent refetch hook, invoked after every successful save
	Logger          *zerolog.Logger
}

// Form is the duty-hours schedule form state machine. It is driven from a
// single goroutine, like the event loop it models.
type Form struct {
	mode      Mode
	initial   *model.Schedule
	persister Persister
	loader    Loader
	notifier  Notifier
	onAdded   func()
	logger    *zerolog.Logger
	validate  *validator.Validate

	offices   []model.Office
	templates []model.Schedule

	draft      Draft
	fieldErrs  map[string]string
	custom     bool
	submitting bool
	pending    *Divergence
}

// New builds a form. In edit mode the initial schedule prefills the draft and
// the form starts in custom mode so the historical record's name and times
// stay editable.
func New(cfg Config) *Form {
	f := &Form{
		mode:      cfg.Mode,
		initial:   cfg.Initial,
		persister: cfg.Persister,
		loader:    cfg.Loader,
		notifier:  cfg.Notifier,
		onAdded:   cfg.OnScheduleAdded,
		logger:    cfg.Logger,
		validate:  validator.New(),
		fieldErrs: make(map[string]string),
	}
	if f.mode == "" {
		f.mode = ModeCreate
	}

	if cfg.Initial != nil {
		f.draft = Draft{
			Name:      cfg.Initial.Name,
			StartTime: cfg.Initial.StartTime,
			EndTime:   cfg.Initial.EndTime,
			Office:    cfg.Initial.Office,
		}
		if f.mode == ModeEdit {
			f.custom = true
		}
	}
	return f
}

// Load fetches offices and the template list. Failures only log; the form
// stays usable with whatever it already has.
func (f *Form) Load(ctx context.Context) {
	if f.loader == nil {
		return
	}
	offices, err := f.loader.ListOffices(ctx)
	if err != nil {
		f.logf(err, "failed to load offices")
	} else {
		f.offices = offices
	}

	schedules, err := f.loader.ListSchedules(ctx, api.ScheduleFilter{})
	if err != nil {
		f.logf(err, "failed to load schedules")
		return
	}
	f.templates = model.DiscoverTemplates(schedules)
}

// SetLists injects the collaborator lists directly (the parent screen may
// already hold them). The schedule list goes through template discovery.
func (f *Form) SetLists(offices []model.Office, schedules []model.Schedule) {
	f.offices = offices
	f.templates = model.DiscoverTemplates(schedules)
}

// Offices returns the selectable offices.
func (f *Form) Offices() []model.Office { return f.offices }

// Templates returns the discovered template list.
func (f *Form) Templates() []model.Schedule { return f.templates }

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft { return f.draft }

// Custom reports whether the form is in custom-schedule mode.
func (f *Form) Custom() bool { return f.custom }

// Submitting reports whether a save is in flight.
func (f *Form) Submitting() bool { return f.submitting }

// Pending returns the divergence awaiting confirmation, or nil.
func (f *Form) Pending() *Divergence { return f.pending }

// FieldErrors returns the current inline errors keyed by field name; the
// "general" key holds the non-field fallback error.
func (f *Form) FieldErrors() map[string]string { return f.fieldErrs }

// TimesEditable reports whether the time inputs should be enabled: custom
// schedules and edits of existing assignments (records predating the custom
// toggle must stay fixable). The setters themselves always apply; the
// divergence gate at submit is what guards template times, not the inputs.
func (f *Form) TimesEditable() bool {
	return f.custom || f.mode == ModeEdit
}

// ToggleCustom flips custom-schedule mode, clearing name, times and all
// field errors regardless of prior state.
func (f *Form) ToggleCustom() {
	f.custom = !f.custom
	f.draft.Name = ""
	f.draft.StartTime = ""
	f.draft.EndTime = ""
	f.fieldErrs = make(map[string]string)
}

// SelectTemplate picks a template by name, autofilling the draft name and the
// template's times truncated to minute precision.
func (f *Form) SelectTemplate(name string) error {
	if f.custom {
		return ErrCustomMode
	}
	f.draft.Name = name
	if tpl := model.FindTemplate(f.templates, name); tpl != nil {
		f.draft.StartTime = model.CleanTime(tpl.StartTime)
		f.draft.EndTime = model.CleanTime(tpl.EndTime)
	}
	delete(f.fieldErrs, "name")
	return nil
}

// SetName sets a free-text schedule name (the custom-mode input).
func (f *Form) SetName(name string) {
	f.draft.Name = name
	delete(f.fieldErrs, "name")
}

// SetStartTime sets the draft start time ("HH:MM").
func (f *Form) SetStartTime(t string) {
	f.draft.StartTime = t
	delete(f.fieldErrs, "start_time")
}

// SetEndTime sets the draft end time ("HH:MM").
func (f *Form) SetEndTime(t string) {
	f.draft.EndTime = t
	delete(f.fieldErrs, "end_time")
}

// SetOffice selects the office the schedule is assigned to.
func (f *Form) SetOffice(id int64) {
	f.draft.Office = &id
	delete(f.fieldErrs, "office")
}

// Submit validates the draft and either persists it or suspends on a
// divergence from the selected template. A non-nil Divergence means no network
// call happened yet; Confirm proceeds, CancelConfirmation abandons.
func (f *Form) Submit(ctx context.Context) (*Divergence, error) {
	if f.submitting {
		return nil, ErrSubmitting
	}
	if !f.validateDraft() {
		metrics.IncScheduleSubmit("validation_error")
		return nil, ErrValidation
	}

	if !f.custom {
		if tpl := model.FindTemplate(f.templates, f.draft.Name); tpl != nil {
			if model.CleanTime(tpl.StartTime) != model.CleanTime(f.draft.StartTime) ||
				model.CleanTime(tpl.EndTime) != model.CleanTime(f.draft.EndTime) {
				f.pending = &Divergence{
					TemplateName:  tpl.Name,
					StandardStart: model.CleanTime(tpl.StartTime),
					StandardEnd:   model.CleanTime(tpl.EndTime),
					DraftStart:    model.CleanTime(f.draft.StartTime),
					DraftEnd:      model.CleanTime(f.draft.EndTime),
				}
				return f.pending, nil
			}
		}
	}

	return nil, f.persist(ctx)
}

// Confirm proceeds with the submission suspended by a divergence.
func (f *Form) Confirm(ctx context.Context) error {
	if f.pending == nil {
		return ErrNothingPending
	}
	if f.submitting {
		return ErrSubmitting
	}
	return f.persist(ctx)
}

// CancelConfirmation abandons the suspended submission and returns to editing.
func (f *Form) CancelConfirmation() {
	f.pending = nil
}

func (f *Form) persist(ctx context.Context) error {
	f.submitting = true
	f.fieldErrs = make(map[string]string)
	f.pending = nil
	defer func() { f.submitting = false }()

	in := api.ScheduleInput{
		Name:      f.draft.Name,
		StartTime: f.draft.StartTime,
		EndTime:   f.draft.EndTime,
		Office:    f.draft.Office,
	}

	var err error
	if f.mode == ModeEdit && f.initial != nil && f.initial.ID != 0 {
		in.Status = f.initial.Status
		if in.Status == "" {
			in.Status = model.StatusOfficeSchedule
		}
		_, err = f.persister.PatchSchedule(ctx, f.initial.ID, in)
	} else {
		in.Status = model.StatusOfficeSchedule
		_, err = f.persister.CreateSchedule(ctx, in)
	}

	if err != nil {
		f.logf(err, "failed to save schedule")
		metrics.IncScheduleSubmit("error")
		f.applySaveError(err)
		return err
	}

	metrics.IncScheduleSubmit("ok")
	if f.mode == ModeEdit {
		f.notify("Schedule Updated Successfully")
	} else {
		f.notify("Schedule Created Successfully")
		f.draft = Draft{}
	}
	if f.onAdded != nil {
		f.onAdded()
	}
	return nil
}

// applySaveError maps a failed save onto the notifier and inline errors:
// structured bodies surface detail/non_field_errors as a toast and every other
// key as a field error; anything else yields one generic toast plus a
// "general" form error.
func (f *Form) applySaveError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Structured() {
		if msg := apiErr.Message(); msg != "" && f.notifier != nil {
			f.notifier.Error(msg)
		}
		for field, msg := range apiErr.FieldErrors {
			f.fieldErrs[field] = msg
		}
		return
	}

	const generic = "Failed to save schedule. Please try again."
	if f.notifier != nil {
		f.notifier.Error(generic)
	}
	f.fieldErrs["general"] = generic
}

// SubmitLabel is the submit button caption for the current state.
func (f *Form) SubmitLabel() string {
	if f.submitting {
		if f.mode == ModeEdit {
			return "Updating..."
		}
		return "Creating..."
	}
	if f.mode == ModeEdit {
		return "Update Schedule"
	}
	return "Create Schedule"
}

// ConfirmLabel is the confirmation dialog's action caption.
func (f *Form) ConfirmLabel() string {
	if f.submitting {
		return "Saving..."
	}
	return "Create Schedule"
}

func (f *Form) notify(msg string) {
	if f.notifier != nil {
		f.notifier.Success(msg)
	}
}

func (f *Form) logf(err error, msg string) {
	if f.logger != nil {
		f.logger.Error().Err(err).Msg(msg)
	}
}
