package nepcal

import (
	"fmt"
	"time"
)

// Picker is the month-view state for the BS date picker. The viewed month is
// independent of the selected value: paging changes the view only, selecting
// a day emits the date's Gregorian ISO form through the change callback.
type Picker struct {
	viewYear  int
	viewMonth int
	selected  *Date

	onChange func(iso string)
	now      func() time.Time
}

// PickerOption customizes a Picker.
type PickerOption func(*Picker)

// WithNow injects the current-time source (tests pin it).
func WithNow(now func() time.Time) PickerOption {
	return func(p *Picker) { p.now = now }
}

// NewPicker builds a picker viewing the month of value (ISO yyyy-mm-dd), or
// the current BS month when value is empty or unparseable.
func NewPicker(value string, onChange func(iso string), opts ...PickerOption) *Picker {
	p := &Picker{onChange: onChange, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	if value != "" {
		if d, err := ParseISO(value); err == nil {
			p.selected = &d
			p.viewYear, p.viewMonth = d.Year, d.Month
			return p
		}
	}
	today := p.today()
	p.viewYear, p.viewMonth = today.Year, today.Month
	return p
}

func (p *Picker) today() Date {
	d, err := FromGregorian(p.now())
	if err != nil {
		return Date{Year: MaxYear, Month: 12, Day: monthDays[MaxYear][11]}
	}
	return d
}

// View returns the viewed year and month.
func (p *Picker) View() (year, month int) {
	return p.viewYear, p.viewMonth
}

// Title renders the view header, e.g. "Baisakh 2082".
func (p *Picker) Title() string {
	return fmt.Sprintf("%s %d", MonthName(p.viewMonth), p.viewYear)
}

// Selected returns the selected BS date, or nil when no value is set.
func (p *Picker) Selected() *Date {
	if p.selected == nil {
		return nil
	}
	d := *p.selected
	return &d
}

// DaysInView counts the days of the viewed month by probing forward until the
// month rolls over. Month lengths vary per year in this calendar, so probing
// against date validity is the reference behavior rather than reading any
// particular table row.
func (p *Picker) DaysInView() int {
	days := 28
	for days < 33 {
		next := Date{Year: p.viewYear, Month: p.viewMonth, Day: days + 1}
		if !next.Valid() {
			break
		}
		days++
	}
	return days
}

// LeadingBlanks returns the number of empty cells before day 1 in a
// Sunday-first grid.
func (p *Picker) LeadingBlanks() int {
	wd, err := (Date{Year: p.viewYear, Month: p.viewMonth, Day: 1}).Weekday()
	if err != nil {
		return 0
	}
	return int(wd)
}

// PrevMonth pages the view back one month, rolling the year at Baisakh.
func (p *Picker) PrevMonth() {
	if p.viewMonth == 1 {
		p.viewYear--
		p.viewMonth = 12
	} else {
		p.viewMonth--
	}
}

// NextMonth pages the view forward one month, rolling the year at Chaitra.
func (p *Picker) NextMonth() {
	if p.viewMonth == 12 {
		p.viewYear++
		p.viewMonth = 1
	} else {
		p.viewMonth++
	}
}

// Select picks a day in the viewed month and emits its Gregorian ISO form.
func (p *Picker) Select(day int) error {
	d := Date{Year: p.viewYear, Month: p.viewMonth, Day: day}
	iso, err := d.ISO()
	if err != nil {
		return err
	}
	p.selected = &d
	if p.onChange != nil {
		p.onChange(iso)
	}
	return nil
}

// Clear drops the selection and emits an empty value.
func (p *Picker) Clear() {
	p.selected = nil
	if p.onChange != nil {
		p.onChange("")
	}
}

// Today jumps the view to the current BS month and selects today.
func (p *Picker) Today() error {
	today := p.today()
	p.viewYear, p.viewMonth = today.Year, today.Month
	return p.Select(today.Day)
}

// IsSelected reports whether day in the viewed month is the selected date.
func (p *Picker) IsSelected(day int) bool {
	return p.selected != nil &&
		p.selected.Year == p.viewYear &&
		p.selected.Month == p.viewMonth &&
		p.selected.Day == day
}

// IsToday reports whether day in the viewed month is today.
func (p *Picker) IsToday(day int) bool {
	today := p.today()
	return today.Year == p.viewYear && today.Month == p.viewMonth && today.Day == day
}

// FormatValue renders the selection as mm/dd/yyyy in BS terms for the input
// field, or "" with no selection.
func (p *Picker) FormatValue() string {
	if p.selected == nil {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%d", p.selected.Month, p.selected.Day, p.selected.Year)
}
