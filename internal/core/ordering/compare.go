// Package ordering is the task comparator shared by the stores and the
// mixed-view merge.
package ordering

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

// Comparator returns a three-way comparison for tasks under order. Missing
// values sort last in both directions and ties fall back to ascending id.
//
// The returned func holds a collator and must not be shared between goroutines.
func Comparator(order domain.SortOrder) func(a, b domain.Task) int {
	col := collate.New(language.English, collate.Numeric, collate.IgnoreCase)

	return func(a, b domain.Task) int {
		c, decided := compareField(col, order.Field, a, b)
		if !decided {
			if order.Desc {
				c = -c
			}
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}
}

// compareField compares a single field. decided is true when the result
// comes from null placement and must not be inverted for descending order.
func compareField(col *collate.Collator, field domain.SortField, a, b domain.Task) (int, bool) {
	switch field {
	case domain.SortTitle:
		return col.CompareString(a.Title, b.Title), false
	case domain.SortTaskNo:
		return strings.Compare(a.TaskNo, b.TaskNo), false
	case domain.SortStatus:
		return strings.Compare(string(a.Status), string(b.Status)), false
	case domain.SortPriority:
		return compareInt(a.Priority.Rank(), b.Priority.Rank()), false
	case domain.SortDeadline:
		return compareTimes(a.Deadline, b.Deadline)
	case domain.SortCompletedAt:
		return compareTimes(a.CompletedAt, b.CompletedAt)
	default:
		return compareTime(a.CreatedAt, b.CreatedAt), false
	}
}

func compareTimes(a, b *time.Time) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, true
	case a == nil:
		return 1, true
	case b == nil:
		return -1, true
	}
	return compareTime(*a, *b), false
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Merge interleaves per-store pages that were each sorted by order and returns
// the [skip, skip+limit) window of the union.
func Merge(order domain.SortOrder, skip, limit int, pages ...[]domain.Task) []domain.Task {
	cmp := Comparator(order)
	var all []domain.Task
	for _, p := range pages {
		all = append(all, p...)
	}
	slices.SortStableFunc(all, cmp)

	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) || limit <= 0 {
		return []domain.Task{}
	}
	end := len(all)
	if limit < end-skip {
		end = skip + limit
	}
	return all[skip:end]
}
