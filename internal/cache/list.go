package cache

import (
	"sort"
	"strings"

	"github.com/lowcarboncode/gitdis/internal/errors"
	"github.com/lowcarboncode/gitdis/internal/value"
)

// Order selects ascending or descending iteration for List.
type Order int

const (
	Asc Order = iota
	Desc
)

// FilterKind selects a key predicate for List.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterStartsWith
	FilterEndsWith
	FilterStartAndEndsWith
)

// Filter is a post-filter applied to keys during List.
type Filter struct {
	Kind   FilterKind
	Start  string
	End    string
}

func (f Filter) matches(key string) bool {
	switch f.Kind {
	case FilterStartsWith:
		return strings.HasPrefix(key, f.Start)
	case FilterEndsWith:
		return strings.HasSuffix(key, f.End)
	case FilterStartAndEndsWith:
		return strings.HasPrefix(key, f.Start) && strings.HasSuffix(key, f.End)
	default:
		return true
	}
}

// ListProps configures a List call: spec.md §4.1 "Range query list(props)".
// Limit is a hard cap on returned items; 0 returns an empty result per
// spec.md §8's boundary case, a negative value means "no cap".
type ListProps struct {
	StartAfter    string // meaningful only when HasStartAfter is true
	HasStartAfter bool
	Order         Order
	Filter        Filter
	Limit         int
}

// NewListProps returns a ListProps with defaults: no cursor, ascending,
// no filter, and the given hard cap.
func NewListProps(limit int) ListProps {
	return ListProps{Order: Asc, Filter: Filter{Kind: FilterNone}, Limit: limit}
}

// Item is one (key, value) pair returned by List.
type Item struct {
	Key   Key
	Value value.Value
}

// List returns a cursor-paginated, filtered view over the cache's sorted
// keys, per spec.md §4.1. Results preserve iteration order and respect
// Limit exactly.
func (c *Cache) List(props ListProps) ([]Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if props.Limit == 0 {
		return []Item{}, nil
	}

	startIdx := 0
	if props.Order == Asc {
		if props.HasStartAfter {
			pos := sort.SearchStrings(c.list, props.StartAfter)
			if pos >= len(c.list) || c.list[pos] != props.StartAfter {
				return nil, errors.SortKeyNotFound(props.StartAfter)
			}
			startIdx = pos + 1
		}
		return c.collect(c.list[startIdx:], props)
	}

	// Desc: walk the ascending list in reverse.
	reversed := make([]Key, len(c.list))
	for i, k := range c.list {
		reversed[len(c.list)-1-i] = k
	}
	if props.HasStartAfter {
		pos := -1
		for i, k := range reversed {
			if k == props.StartAfter {
				pos = i
				break
			}
		}
		if pos == -1 {
			return nil, errors.SortKeyNotFound(props.StartAfter)
		}
		startIdx = pos + 1
	}
	return c.collect(reversed[startIdx:], props)
}

func (c *Cache) collect(keys []Key, props ListProps) ([]Item, error) {
	items := make([]Item, 0, len(keys))
	for _, k := range keys {
		if !props.Filter.matches(k) {
			continue
		}
		v := c.m[k]
		items = append(items, Item{Key: k, Value: v})
		if props.Limit > 0 && len(items) == props.Limit {
			break
		}
	}
	return items, nil
}
