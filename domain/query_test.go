package domain

import (
	"fmt"
	"sort"
	"testing"
	"time"
)

func TestNewListQuery(t *testing.T) {
	cases := []struct {
		status, sort, order string
		want                ListQuery
	}{
		{"", "", "", ListQuery{StatusAll, SortDueDate, OrderAsc}},
		{"ACTIVE", "dueDate", "asc", ListQuery{StatusActive, SortDueDate, OrderAsc}},
		{"Completed", "DUEDATE", "desc", ListQuery{StatusCompleted, SortDueDate, OrderDesc}},
		{"bogus", "createdAt", "ASC", ListQuery{StatusAll, SortCreatedAt, OrderAsc}},
		{"all", "createdat", "sideways", ListQuery{StatusAll, SortCreatedAt, OrderDesc}},
		{"all", "dueDate", "sideways", ListQuery{StatusAll, SortDueDate, OrderDesc}},
		{"all", "title", "desc", ListQuery{StatusAll, SortDueDate, OrderAsc}},
	}
	for _, tc := range cases {
		got := NewListQuery(tc.status, tc.sort, tc.order)
		if got != tc.want {
			t.Fatalf("NewListQuery(%q, %q, %q) = %+v, want %+v", tc.status, tc.sort, tc.order, got, tc.want)
		}
	}
}

func TestListQueryMatches(t *testing.T) {
	open := Task{Done: false}
	closed := Task{Done: true}

	cases := []struct {
		status StatusFilter
		open   bool
		closed bool
	}{
		{StatusAll, true, true},
		{StatusActive, true, false},
		{StatusCompleted, false, true},
	}
	for _, tc := range cases {
		q := ListQuery{Status: tc.status}
		if q.Matches(open) != tc.open || q.Matches(closed) != tc.closed {
			t.Fatalf("status %s: unexpected match result", tc.status)
		}
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func orderedIDs(q ListQuery, tasks []Task) []string {
	sorted := append([]Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool { return q.Less(sorted[i], sorted[j]) })
	ids := make([]string, len(sorted))
	for i, task := range sorted {
		ids[i] = task.ID
	}
	return ids
}

func TestListQueryLess(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "done-early", Done: true, DueDate: ptrTime(base.Add(-48 * time.Hour)), CreatedAt: base},
		{ID: "no-due-old", CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "due-tomorrow", DueDate: ptrTime(base.Add(24 * time.Hour)), CreatedAt: base.Add(-3 * time.Hour)},
		{ID: "due-yesterday", DueDate: ptrTime(base.Add(-24 * time.Hour)), CreatedAt: base.Add(-4 * time.Hour)},
		{ID: "due-tomorrow-newer", DueDate: ptrTime(base.Add(24 * time.Hour)), CreatedAt: base.Add(-1 * time.Hour)},
		{ID: "no-due-new", CreatedAt: base},
	}

	cases := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{
			name: "due asc",
			q:    ListQuery{Sort: SortDueDate, Order: OrderAsc},
			want: []string{"due-yesterday", "due-tomorrow-newer", "due-tomorrow", "no-due-new", "no-due-old", "done-early"},
		},
		{
			name: "due desc",
			q:    ListQuery{Sort: SortDueDate, Order: OrderDesc},
			want: []string{"due-tomorrow-newer", "due-tomorrow", "due-yesterday", "no-due-new", "no-due-old", "done-early"},
		},
		{
			name: "created asc",
			q:    ListQuery{Sort: SortCreatedAt, Order: OrderAsc},
			want: []string{"due-yesterday", "due-tomorrow", "no-due-old", "due-tomorrow-newer", "no-due-new", "done-early"},
		},
		{
			name: "created desc",
			q:    ListQuery{Sort: SortCreatedAt, Order: OrderDesc},
			want: []string{"no-due-new", "due-tomorrow-newer", "no-due-old", "due-tomorrow", "due-yesterday", "done-early"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := orderedIDs(tc.q, tasks)
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Fatalf("order mismatch\n got: %v\nwant: %v", got, tc.want)
			}
		})
	}
}

func TestListQueryLessTieBreaksOnID(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Task{ID: "a", CreatedAt: at}
	b := Task{ID: "b", CreatedAt: at}
	for _, q := range []ListQuery{
		{Sort: SortDueDate, Order: OrderAsc},
		{Sort: SortCreatedAt, Order: OrderDesc},
	} {
		if !q.Less(a, b) || q.Less(b, a) {
			t.Fatalf("%+v: expected id tie-break", q)
		}
	}
}

func TestNewPage(t *testing.T) {
	cases := []struct {
		number, size int
		want         Page
		offset       int
	}{
		{0, 0, Page{1, 50}, 0},
		{-3, 10, Page{1, 10}, 0},
		{3, 10, Page{3, 10}, 20},
		{2, 500, Page{2, 100}, 100},
	}
	for _, tc := range cases {
		got := NewPage(tc.number, tc.size, 50, 100)
		if got != tc.want || got.Offset() != tc.offset {
			t.Fatalf("NewPage(%d, %d) = %+v offset %d", tc.number, tc.size, got, got.Offset())
		}
	}
}
