package core

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// DefaultPageSize applies when a list request does not specify a page size.
const DefaultPageSize = 20

// Timestamped is implemented by every listable entity so shared ordering
// can read its creation and update timestamps.
type Timestamped interface {
	Times() (creationTime, updateTime string)
}

type SortField int

const (
	SortByUpdateTime SortField = iota
	SortByCreationTime
)

// OrderSpec is a parsed "orderBy" request parameter.
type OrderSpec struct {
	Field     SortField
	Ascending bool
}

// ParseOrderSpec parses an "orderBy" value of the form
// "creationTime asc|desc" or "updateTime asc|desc".
// An empty value defaults to "updateTime desc".
func ParseOrderSpec(s string) (OrderSpec, error) {
	spec := OrderSpec{Field: SortByUpdateTime, Ascending: false}
	s = CleanString(s)
	if s == "" {
		return spec, nil
	}

	parts := strings.Fields(s)
	if len(parts) > 2 {
		return spec, NewValidationError(errors.Errorf("invalid orderBy: %q", s))
	}
	switch parts[0] {
	case "updateTime":
		spec.Field = SortByUpdateTime
	case "creationTime":
		spec.Field = SortByCreationTime
	default:
		return spec, NewValidationError(errors.Errorf("invalid orderBy field: %q", parts[0]))
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "asc":
			spec.Ascending = true
		case "desc":
			spec.Ascending = false
		default:
			return spec, NewValidationError(errors.Errorf("invalid orderBy direction: %q", parts[1]))
		}
	}
	return spec, nil
}

// SortByTime stably sorts items per the given spec. Entities with equal sort
// keys keep their relative order. A malformed timestamp fails the whole call
// rather than producing a silently misordered page.
func SortByTime[T Timestamped](items []T, spec OrderSpec) error {
	// pre-parse so the comparator stays error-free
	keys := make([]int64, len(items))
	for i, item := range items {
		creation, update := item.Times()
		s := update
		if spec.Field == SortByCreationTime {
			s = creation
		}
		t, err := ParseTime(s)
		if err != nil {
			return errors.Wrap(err, "sorting")
		}
		keys[i] = t.UnixNano()
	}

	// sort an index permutation so keys and items stay in lockstep
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		if spec.Ascending {
			return keys[idx[i]] < keys[idx[j]]
		}
		return keys[idx[i]] > keys[idx[j]]
	})

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
	return nil
}

// Page is one window of a list result.
type Page[T any] struct {
	Items    []T
	NextPage null.Int
}

// Paginate slices items into the requested page. Pages are 0-based; an
// out-of-range page yields an empty page with a null next pointer rather
// than an error.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	n := len(items)
	totalPages := (n + pageSize - 1) / pageSize
	if page < 0 || page >= totalPages {
		return Page[T]{Items: []T{}}
	}

	start := page * pageSize
	end := start + pageSize
	if end > n {
		end = n
	}

	p := Page[T]{Items: items[start:end]}
	if page+1 < totalPages {
		p.NextPage = null.IntFrom(page + 1)
	}
	return p
}
