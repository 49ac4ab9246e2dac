package domain

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf8"
)

// BirthdayLayout is the textual form of a birthday: YYYY-MM-DD.
const BirthdayLayout = "2006-01-02"

// phoneLength is the exact number of ASCII digits in a valid phone number.
const phoneLength = 10

// Birthday is a calendar date without time of day. The zero value means unknown.
type Birthday struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseBirthday parses a YYYY-MM-DD date. An empty string yields the zero Birthday.
func ParseBirthday(s string) (Birthday, error) {
	if s == "" {
		return Birthday{}, nil
	}
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: birthday %q must be a valid YYYY-MM-DD date", ErrValidation, s)
	}
	return Birthday{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// IsZero reports whether the birthday is unknown.
func (b Birthday) IsZero() bool {
	return b == Birthday{}
}

// String returns the YYYY-MM-DD form, or "" for an unknown birthday.
func (b Birthday) String() string {
	if b.IsZero() {
		return ""
	}
	return time.Date(b.Year, b.Month, b.Day, 0, 0, 0, 0, time.UTC).Format(BirthdayLayout)
}

// next returns the first occurrence of the birthday's month and day on or after day.
// day must be a UTC midnight. February 29 falls on March 1 in non-leap years.
func (b Birthday) next(day time.Time) time.Time {
	occurrence := time.Date(day.Year(), b.Month, b.Day, 0, 0, 0, 0, time.UTC)
	if occurrence.Before(day) {
		occurrence = time.Date(day.Year()+1, b.Month, b.Day, 0, 0, 0, 0, time.UTC)
	}
	return occurrence
}

// Record is a single contact: a name, an optional birthday and an ordered list of phones.
type Record struct {
	Name     string
	Birthday Birthday
	Phones   []string
}

// NewRecord creates a Record with no phones. birthday may be empty.
func NewRecord(name string, birthday string) (*Record, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	b, err := ParseBirthday(birthday)
	if err != nil {
		return nil, err
	}
	return &Record{Name: name, Birthday: b}, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: name must be valid UTF-8", ErrValidation)
	}
	return nil
}

// ValidatePhone checks that v is exactly ten ASCII digits.
func ValidatePhone(v string) error {
	if len(v) != phoneLength {
		return fmt.Errorf("%w: phone %q must be exactly %d digits", ErrValidation, v, phoneLength)
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return fmt.Errorf("%w: phone %q must be exactly %d digits", ErrValidation, v, phoneLength)
		}
	}
	return nil
}

// AddPhone appends a validated phone number.
func (r *Record) AddPhone(v string) error {
	if err := ValidatePhone(v); err != nil {
		return err
	}
	r.Phones = append(r.Phones, v)
	return nil
}

// EditPhone replaces the phone at index i.
func (r *Record) EditPhone(i int, v string) error {
	if err := r.checkIndex(i); err != nil {
		return err
	}
	if err := ValidatePhone(v); err != nil {
		return err
	}
	r.Phones[i] = v
	return nil
}

// RemovePhone deletes the phone at index i.
func (r *Record) RemovePhone(i int) error {
	if err := r.checkIndex(i); err != nil {
		return err
	}
	r.Phones = slices.Delete(r.Phones, i, i+1)
	return nil
}

// FindPhone returns the index of the first phone equal to v, or -1.
func (r *Record) FindPhone(v string) int {
	return slices.Index(r.Phones, v)
}

// SetBirthday replaces the birthday. An empty string clears it.
func (r *Record) SetBirthday(s string) error {
	b, err := ParseBirthday(s)
	if err != nil {
		return err
	}
	r.Birthday = b
	return nil
}

// DaysUntilBirthday returns the number of days from today to the next occurrence of the
// birthday, 0 if it is today. ok is false when the birthday is unknown.
func (r *Record) DaysUntilBirthday(today time.Time) (days int, ok bool) {
	if r.Birthday.IsZero() {
		return 0, false
	}
	day := truncateToDay(today)
	return int(r.Birthday.next(day).Sub(day).Hours() / 24), true
}

// Validate re-checks every invariant of the record.
func (r *Record) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if !r.Birthday.IsZero() {
		if t := time.Date(r.Birthday.Year, r.Birthday.Month, r.Birthday.Day, 0, 0, 0, 0, time.UTC); t.Day() != r.Birthday.Day || t.Month() != r.Birthday.Month {
			return fmt.Errorf("%w: birthday %d-%02d-%02d does not exist", ErrValidation, r.Birthday.Year, r.Birthday.Month, r.Birthday.Day)
		}
	}
	for _, p := range r.Phones {
		if err := ValidatePhone(p); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.Phones = slices.Clone(r.Phones)
	return &c
}

func (r *Record) checkIndex(i int) error {
	if i < 0 || i >= len(r.Phones) {
		return fmt.Errorf("%w: phone index %d, record %q has %d phones", ErrIndexOutOfRange, i, r.Name, len(r.Phones))
	}
	return nil
}

// truncateToDay maps t to midnight UTC of its own calendar date.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
