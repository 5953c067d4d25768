package model

// Schedule status values as stored by the backend. Historical rows may carry
// no status at all; template discovery has to tolerate that.
const (
	StatusTemplate       = "template"
	StatusOfficeSchedule = "office_schedule"
	StatusExpired        = "expired"
)

// Schedule is a shift definition. With a nil Office and status "template" it is
// a reusable template; bound to an office with status "office_schedule" it is
// the duty-hours record actually assigned to that office.
type Schedule struct {
	ID         int64  `json:"id,omitempty"`
	Name       string `json:"name"`
	StartTime  string `json:"start_time"` // "HH:MM" or "HH:MM:SS"
	EndTime    string `json:"end_time"`
	Office     *int64 `json:"office,omitempty"`
	OfficeName string `json:"office_name,omitempty"`
	Status     string `json:"status,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// IsTemplate reports whether the row is usable as a template: either tagged
// explicitly, or an office-less row from before status existed.
func (s Schedule) IsTemplate() bool {
	return s.Status == StatusTemplate || (s.Office == nil && s.Status == "")
}

// CleanTime normalizes a backend time string to minute precision ("HH:MM").
// The backend serializes times as "HH:MM:SS" while drafts hold "HH:MM".
func CleanTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// DiscoverTemplates extracts the template list from the full schedule set.
//
// Two tiers: rows that look like templates (explicit status, or office-less
// and status-less) win outright. If there are none, fall back to deduplicating
// office-less rows by name, first occurrence winning. The fallback keeps
// datasets created before templates were a first-class status working; do not
// collapse the tiers.
func DiscoverTemplates(all []Schedule) []Schedule {
	var templates []Schedule
	for _, s := range all {
		if s.IsTemplate() {
			templates = append(templates, s)
		}
	}
	if len(templates) > 0 {
		return templates
	}

	seen := make(map[string]struct{})
	for _, s := range all {
		if s.Name == "" || s.Office != nil {
			continue
		}
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		templates = append(templates, s)
	}
	return templates
}

// FindTemplate returns the first template with the given name, or nil.
func FindTemplate(templates []Schedule, name string) *Schedule {
	for i := range templates {
		if templates[i].Name == name {
			return &templates[i]
		}
	}
	return nil
}
