package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "empty", in: "", wantErr: MsgTitleRequired},
		{name: "whitespace", in: "   \t ", wantErr: MsgTitleRequired},
		{name: "short", in: "short", wantErr: MsgTitleTooShort},
		{name: "ten chars", in: "0123456789", wantErr: MsgTitleTooShort},
		{name: "ten chars padded", in: "  0123456789  ", wantErr: MsgTitleTooShort},
		{name: "eleven chars", in: "01234567890", want: "01234567890"},
		{name: "trimmed", in: "  Buy groceries today ", want: "Buy groceries today"},
		{name: "max", in: strings.Repeat("a", TitleMaxLength), want: strings.Repeat("a", TitleMaxLength)},
		{name: "too long", in: strings.Repeat("a", TitleMaxLength+1), wantErr: MsgTitleTooLong},
		{name: "multibyte counted as runes", in: strings.Repeat("é", 11), want: strings.Repeat("é", 11)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeTitle(tc.in)
			if tc.wantErr != "" {
				if !IsDomainError(err, ErrCodeInvalid) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if err.Error() != tc.wantErr {
					t.Fatalf("unexpected message: %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateNotes(t *testing.T) {
	if err := ValidateNotes(""); err != nil {
		t.Fatalf("empty notes: %v", err)
	}
	if err := ValidateNotes(strings.Repeat("n", NotesMaxLength)); err != nil {
		t.Fatalf("notes at limit: %v", err)
	}
	err := ValidateNotes(strings.Repeat("n", NotesMaxLength+1))
	if !IsDomainError(err, ErrCodeInvalid) || err.Error() != MsgNotesTooLong {
		t.Fatalf("expected notes validation error, got %v", err)
	}
}

func TestParseDueDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-03-01T10:30:00Z", want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2025-03-01T10:30:00.123456Z", want: time.Date(2025, 3, 1, 10, 30, 0, 123456000, time.UTC)},
		{in: "2025-03-01T12:30:00+02:00", want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2025-03-01T10:30:00", want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2025-03-01T10:30", want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2025-03-01", want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDueDate(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got == nil || !got.Equal(tc.want) {
			t.Fatalf("parse %q: expected %v, got %v", tc.in, tc.want, got)
		}
	}

	got, err := ParseDueDate("")
	if err != nil || got != nil {
		t.Fatalf("empty due date should be absent, got %v, %v", got, err)
	}

	if got, err := ParseDueDate(" 2025-03-01 "); err != nil || !got.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("padded date should parse, got %v, %v", got, err)
	}

	for _, bad := range []string{"   ", "\t", "tomorrow", "2025-13-01", "01/02/2025"} {
		if _, err := ParseDueDate(bad); !IsDomainError(err, ErrCodeInvalid) {
			t.Fatalf("expected validation error for %q, got %v", bad, err)
		}
	}
}

func TestParseDueDateKeepsOffset(t *testing.T) {
	got, err := ParseDueDate("2025-03-01T12:30:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, offset := got.Zone(); offset != 2*60*60 {
		t.Fatalf("expected +02:00 offset, got %d", offset)
	}
}

func TestStampAlwaysAdvances(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := Task{CreatedAt: created, UpdatedAt: created}

	if got := Stamp(current, created.Add(time.Second)); !got.Equal(created.Add(time.Second)) {
		t.Fatalf("expected clock value, got %v", got)
	}
	if got := Stamp(current, created); !got.After(created) {
		t.Fatalf("expected stamp after previous update, got %v", got)
	}
	if got := Stamp(current, created.Add(-time.Hour)); got.Before(created) || !got.After(current.UpdatedAt) {
		t.Fatalf("stamp must not go back in time, got %v", got)
	}
}

func TestApplyPatch(t *testing.T) {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	notes := "original notes"
	due := created.Add(48 * time.Hour)
	current := Task{
		ID:        "a",
		Title:     "Original title here",
		Notes:     &notes,
		DueDate:   &due,
		CreatedAt: created,
		UpdatedAt: created,
		Version:   3,
	}
	now := created.Add(time.Minute)

	t.Run("empty patch only stamps", func(t *testing.T) {
		next, err := ApplyPatch(current, TaskPatch{}, now)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if next.Title != current.Title || *next.Notes != notes || !next.DueDate.Equal(due) || next.Done {
			t.Fatalf("fields changed: %+v", next)
		}
		if !next.UpdatedAt.Equal(now) {
			t.Fatalf("expected UpdatedAt %v, got %v", now, next.UpdatedAt)
		}
		if next.Version != 4 {
			t.Fatalf("expected version 4, got %d", next.Version)
		}
	})

	t.Run("present fields applied", func(t *testing.T) {
		next, err := ApplyPatch(current, TaskPatch{
			Title:   Some("  A brand new title  "),
			Notes:   Some(""),
			DueDate: Some(""),
			Done:    Some(true),
		}, now)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if next.Title != "A brand new title" {
			t.Fatalf("unexpected title %q", next.Title)
		}
		if next.Notes == nil || *next.Notes != "" {
			t.Fatalf("expected empty notes, got %v", next.Notes)
		}
		if next.DueDate != nil {
			t.Fatalf("expected due date cleared, got %v", next.DueDate)
		}
		if !next.Done {
			t.Fatalf("expected done")
		}
	})

	t.Run("current untouched", func(t *testing.T) {
		_, _ = ApplyPatch(current, TaskPatch{Title: Some("Something else entirely")}, now)
		if current.Title != "Original title here" || current.Version != 3 {
			t.Fatalf("current mutated: %+v", current)
		}
	})

	t.Run("invalid fields rejected", func(t *testing.T) {
		patches := []TaskPatch{
			{Title: Some("short")},
			{Title: Some("   ")},
			{Notes: Some(strings.Repeat("x", NotesMaxLength+1))},
			{DueDate: Some("not a date")},
			{DueDate: Some("   ")},
			{Title: Some("A perfectly valid title"), DueDate: Some("nope")},
		}
		for i, p := range patches {
			if _, err := ApplyPatch(current, p, now); !IsDomainError(err, ErrCodeInvalid) {
				t.Fatalf("patch %d: expected validation error, got %v", i, err)
			}
		}
	})
}

func TestApplyToggleSameValueStillStamps(t *testing.T) {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	current := Task{Done: true, CreatedAt: created, UpdatedAt: created, Version: 1}

	next := ApplyToggle(current, true, created)
	if !next.Done {
		t.Fatalf("expected done")
	}
	if !next.UpdatedAt.After(current.UpdatedAt) {
		t.Fatalf("expected UpdatedAt to advance")
	}
	if next.Version != 2 {
		t.Fatalf("expected version 2, got %d", next.Version)
	}
}

func TestTaskPatchJSONPresence(t *testing.T) {
	var patch TaskPatch
	if err := json.Unmarshal([]byte(`{"done":false,"dueDate":"","notes":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if patch.Title.Set {
		t.Fatalf("absent title reported as set")
	}
	if patch.Notes.Set {
		t.Fatalf("null notes reported as set")
	}
	if !patch.DueDate.Set || patch.DueDate.Value != "" {
		t.Fatalf("explicit empty dueDate not captured: %+v", patch.DueDate)
	}
	if !patch.Done.Set || patch.Done.Value {
		t.Fatalf("explicit done=false not captured: %+v", patch.Done)
	}

	if err := json.Unmarshal([]byte(`{"done":"yes"}`), &TaskPatch{}); err == nil {
		t.Fatalf("expected type error")
	}
}
