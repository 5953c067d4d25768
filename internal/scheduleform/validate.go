package scheduleform

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// draftRules mirrors Draft for validation. All four fields are required.
// There is deliberately no start<end rule: overnight shifts (22:00 -> 06:00)
// are legitimate duty hours.
type draftRules struct {
	Name      string `validate:"required"`
	StartTime string `validate:"required"`
	EndTime   string `validate:"required"`
	Office    *int64 `validate:"required"`
}

var requiredMessages = map[string]struct{ key, msg string }{
	"Name":      {"name", "Schedule name is required"},
	"StartTime": {"start_time", "Start time is required"},
	"EndTime":   {"end_time", "End time is required"},
	"Office":    {"office", "Office is required"},
}

// validateDraft runs pre-submit validation, replacing the field error set.
// Returns true when the draft is submittable.
func (f *Form) validateDraft() bool {
	f.fieldErrs = make(map[string]string)

	// Whitespace-only names do not count.
	rules := draftRules{
		Name:      strings.TrimSpace(f.draft.Name),
		StartTime: f.draft.StartTime,
		EndTime:   f.draft.EndTime,
		Office:    f.draft.Office,
	}
	err := f.validate.Struct(rules)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.fieldErrs["general"] = "Invalid form state"
		return false
	}
	for _, fe := range verrs {
		if m, ok := requiredMessages[fe.StructField()]; ok {
			f.fieldErrs[m.key] = m.msg
		}
	}
	return len(f.fieldErrs) == 0
}
