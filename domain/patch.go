package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Optional tracks whether a field was present in a payload, independent of its value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON marks the field as present. JSON null leaves it absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

// TaskPatch is a sparse update; only fields with Set applied.
type TaskPatch struct {
	Title   Optional[string] `json:"title"`
	Notes   Optional[string] `json:"notes"`
	DueDate Optional[string] `json:"dueDate"`
	Done    Optional[bool]   `json:"done"`
}

// ApplyPatch validates the present fields of patch and returns the resulting task.
// current is not modified. UpdatedAt advances even if no field value changes.
func ApplyPatch(current Task, patch TaskPatch, now time.Time) (Task, error) {
	next := current

	if patch.Title.Set {
		title, err := NormalizeTitle(patch.Title.Value)
		if err != nil {
			return Task{}, err
		}
		next.Title = title
	}

	if patch.Notes.Set {
		if err := ValidateNotes(patch.Notes.Value); err != nil {
			return Task{}, err
		}
		notes := patch.Notes.Value
		next.Notes = &notes
	}

	if patch.DueDate.Set {
		due, err := ParseDueDate(patch.DueDate.Value)
		if err != nil {
			return Task{}, err
		}
		next.DueDate = due
	}

	if patch.Done.Set && patch.Done.Value != current.Done {
		next.Done = patch.Done.Value
	}

	next.UpdatedAt = Stamp(current, now)
	next.Version = current.Version + 1
	return next, nil
}

// ApplyToggle sets Done unconditionally and advances UpdatedAt.
func ApplyToggle(current Task, done bool, now time.Time) Task {
	next := current
	next.Done = done
	next.UpdatedAt = Stamp(current, now)
	next.Version = current.Version + 1
	return next
}
