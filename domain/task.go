package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TitleMinLength = 11
	TitleMaxLength = 256
	NotesMaxLength = 1000
)

// Validation messages returned to clients verbatim.
const (
	MsgTitleRequired = "Title is required."
	MsgTitleTooShort = "Title must be longer than 10 characters."
	MsgTitleTooLong  = "Title must be 256 characters or less."
	MsgNotesTooLong  = "Notes must be 1000 characters or less."
	MsgInvalidDue    = "Invalid due date format. Use ISO 8601 format."
)

// Task is the single persisted to-do item.
type Task struct {
	ID        string
	Title     string
	Notes     *string
	DueDate   *time.Time
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
	// Version is bumped on every successful write and guards against lost updates.
	Version int64
}

// IsCompleted reports whether the task is marked done.
func (t *Task) IsCompleted() bool {
	return t != nil && t.Done
}

// HasDueDate reports whether a due date is set.
func (t *Task) HasDueDate() bool {
	return t != nil && t.DueDate != nil
}

// NormalizeTitle trims the title and checks its length bounds.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return "", Validation(MsgTitleRequired)
	case n < TitleMinLength:
		return "", Validation(MsgTitleTooShort)
	case n > TitleMaxLength:
		return "", Validation(MsgTitleTooLong)
	}
	return trimmed, nil
}

// ValidateNotes checks the notes length bound.
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > NotesMaxLength {
		return Validation(MsgNotesTooLong)
	}
	return nil
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate parses an ISO 8601 timestamp. Only the empty string yields nil;
// whitespace-only input is invalid. Values without an offset are interpreted as UTC.
func ParseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	value := strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.Truncate(time.Microsecond)
			return &parsed, nil
		}
	}
	return nil, Validation(MsgInvalidDue)
}

// Stamp returns the UpdatedAt value for a mutation happening at now.
// The result always moves past the previous UpdatedAt, so it never precedes CreatedAt.
func Stamp(current Task, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(current.UpdatedAt) {
		now = current.UpdatedAt.Add(time.Microsecond)
	}
	return now
}
