package domain

import "strings"

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// SortField names the secondary ordering key applied after the done partition.
type SortField string

const (
	SortDueDate   SortField = "dueDate"
	SortCreatedAt SortField = "createdAt"
)

// SortOrder is the direction of the secondary ordering key.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseStatus maps a raw query value to a StatusFilter. Unknown values select all tasks.
func ParseStatus(raw string) StatusFilter {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive
	case "completed":
		return StatusCompleted
	default:
		return StatusAll
	}
}

// ListQuery is the normalised filter and ordering of a task listing.
type ListQuery struct {
	Status StatusFilter
	Sort   SortField
	Order  SortOrder
}

// NewListQuery normalises raw query parameters.
// Empty order means asc and any other unknown order means desc.
// An unknown sort field falls back to dueDate ascending regardless of order.
func NewListQuery(status, sort, order string) ListQuery {
	q := ListQuery{Status: ParseStatus(status), Order: OrderDesc}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
		q.Order = OrderAsc
	}

	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "", "duedate":
		q.Sort = SortDueDate
	case "createdat":
		q.Sort = SortCreatedAt
	default:
		q.Sort = SortDueDate
		q.Order = OrderAsc
	}
	return q
}

// Matches reports whether t passes the status filter.
func (q ListQuery) Matches(t Task) bool {
	switch q.Status {
	case StatusActive:
		return !t.Done
	case StatusCompleted:
		return t.Done
	default:
		return true
	}
}

// Less orders tasks: incomplete before completed, then by the requested key,
// then by id so that paging is stable.
func (q ListQuery) Less(a, b Task) bool {
	if a.Done != b.Done {
		return !a.Done
	}

	switch q.Sort {
	case SortCreatedAt:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if q.Order == OrderAsc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	default:
		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			if q.Order == OrderAsc {
				return a.DueDate.Before(*b.DueDate)
			}
			return a.DueDate.After(*b.DueDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

// Page describes a 1-based page window.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps page parameters. size < 1 uses defaultSize; size above maxSize is capped.
func NewPage(number, size, defaultSize, maxSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
