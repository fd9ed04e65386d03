package postgres

import (
	"time"

	"github.com/fastygo/todo/domain"
)

func nullTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

func whereClause(q domain.ListQuery) (string, []interface{}) {
	switch q.Status {
	case domain.StatusActive:
		return ` WHERE done = $1`, []interface{}{false}
	case domain.StatusCompleted:
		return ` WHERE done = $1`, []interface{}{true}
	default:
		return "", nil
	}
}

// orderClause mirrors domain.ListQuery.Less.
func orderClause(q domain.ListQuery) string {
	switch {
	case q.Sort == domain.SortCreatedAt && q.Order == domain.OrderAsc:
		return `done ASC, created_at ASC, id ASC`
	case q.Sort == domain.SortCreatedAt:
		return `done ASC, created_at DESC, id ASC`
	case q.Order == domain.OrderAsc:
		return `done ASC, (due_date IS NULL) ASC, due_date ASC, created_at DESC, id ASC`
	default:
		return `done ASC, (due_date IS NULL) ASC, due_date DESC, created_at DESC, id ASC`
	}
}

// limitArg binds LIMIT to the page size chosen by the caller.
// A non-positive limit becomes NULL, which Postgres treats as no limit.
func limitArg(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}
