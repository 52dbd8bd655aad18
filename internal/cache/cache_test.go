package cache

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowcarboncode/gitdis/internal/value"
)

func TestInsertAndGet(t *testing.T) {
	c := New(10)
	c.Insert("a", value.NumberFromInt(1))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.True(t, v.Equal(value.NumberFromInt(1)))

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestInsert_NoopOnEqualValue(t *testing.T) {
	var events []Event
	sink := sinkFunc(func(_ string, e Event) { events = append(events, e) })
	c := NewWithSink(10, "b", sink)

	c.Insert("a", value.NumberFromInt(1))
	c.Insert("a", value.NumberFromInt(1))

	assert.Equal(t, 1, c.Len())
	assert.Len(t, events, 1, "equal-value insert must not re-publish")
}

func TestInsert_UpdateEmitsEvent(t *testing.T) {
	var events []Event
	sink := sinkFunc(func(_ string, e Event) { events = append(events, e) })
	c := NewWithSink(10, "b", sink)

	c.Insert("a", value.NumberFromInt(1))
	c.Insert("a", value.NumberFromInt(2))

	assert.Len(t, events, 2)
	v, _ := c.Get("a")
	assert.True(t, v.Equal(value.NumberFromInt(2)))
}

func TestRemove_KeyNotFound(t *testing.T) {
	c := New(10)
	err := c.Remove("missing")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	var events []Event
	sink := sinkFunc(func(_ string, e Event) { events = append(events, e) })
	c := NewWithSink(10, "b", sink)

	c.Insert("a", value.NumberFromInt(1))
	require.NoError(t, c.Remove("a"))
	assert.False(t, c.Contains("a"))
	assert.Equal(t, EventRemove, events[len(events)-1].Kind)
}

func TestClear(t *testing.T) {
	c := New(10)
	c.Insert("a", value.NumberFromInt(1))
	c.Insert("b", value.NumberFromInt(2))
	c.Clear()
	assert.True(t, c.IsEmpty())
}

// TestCapacityEviction covers spec.md §8 scenario 4.
func TestCapacityEviction(t *testing.T) {
	c := New(2)
	c.Insert("a", value.NumberFromInt(1))
	c.Insert("b", value.NumberFromInt(2))
	c.Insert("c", value.NumberFromInt(3))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

// TestCapacityOne covers the §8 boundary: capacity=1 keeps the larger key.
func TestCapacityOne(t *testing.T) {
	c := New(1)
	c.Insert("a", value.NumberFromInt(1))
	c.Insert("b", value.NumberFromInt(2))

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains("b"))
	assert.False(t, c.Contains("a"))
}

func TestSetCapacity_BelowSizeDoesNotEvict(t *testing.T) {
	c := New(10)
	c.Insert("a", value.NumberFromInt(1))
	c.Insert("b", value.NumberFromInt(2))
	c.SetCapacity(1)
	assert.Equal(t, 2, c.Len())
}

// TestSortedListing covers spec.md §8 scenario 3.
func TestSortedListing(t *testing.T) {
	c := New(5)
	c.Insert("b", value.NumberFromInt(2))
	c.Insert("a", value.NumberFromInt(1))
	c.Insert("c", value.NumberFromInt(3))

	items, err := c.List(NewListProps(10))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, keysOf(items))
}

func TestList_InvariantOrderingAfterMutations(t *testing.T) {
	c := New(100)
	keys := []string{"m", "a", "z", "b", "y", "c"}
	for i, k := range keys {
		c.Insert(k, value.NumberFromInt(int64(i)))
	}
	require.NoError(t, c.Remove("a"))

	items, err := c.List(NewListProps(-1))
	require.NoError(t, err)

	got := keysOf(items)
	wantSorted := append([]string(nil), got...)
	sort.Strings(wantSorted)
	assert.Equal(t, wantSorted, got)
}

func TestList_StartAfter(t *testing.T) {
	c := New(10)
	for _, k := range []string{"a", "b", "c"} {
		c.Insert(k, value.String(k))
	}

	props := NewListProps(-1)
	props.HasStartAfter = true
	props.StartAfter = "a"
	items, err := c.List(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, keysOf(items))
}

func TestList_StartAfterLastKeyAscIsEmpty(t *testing.T) {
	c := New(10)
	for _, k := range []string{"a", "b", "c"} {
		c.Insert(k, value.String(k))
	}
	props := NewListProps(-1)
	props.HasStartAfter = true
	props.StartAfter = "c"
	items, err := c.List(props)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestList_StartAfterNotFound(t *testing.T) {
	c := New(10)
	c.Insert("a", value.String("a"))
	props := NewListProps(-1)
	props.HasStartAfter = true
	props.StartAfter = "nope"
	_, err := c.List(props)
	assert.Error(t, err)
}

func TestList_LimitZeroIsEmpty(t *testing.T) {
	c := New(10)
	c.Insert("a", value.String("a"))
	items, err := c.List(NewListProps(0))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestList_Descending(t *testing.T) {
	c := New(10)
	for _, k := range []string{"a", "b", "c"} {
		c.Insert(k, value.String(k))
	}
	props := NewListProps(-1)
	props.Order = Desc
	items, err := c.List(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, keysOf(items))
}

func TestList_FilterStartsWith(t *testing.T) {
	c := New(10)
	for _, k := range []string{"app.name", "app.version", "db.host"} {
		c.Insert(k, value.String(k))
	}
	props := NewListProps(-1)
	props.Filter = Filter{Kind: FilterStartsWith, Start: "app."}
	items, err := c.List(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.name", "app.version"}, keysOf(items))
}

func TestList_FilterEndsWith(t *testing.T) {
	c := New(10)
	for _, k := range []string{"app.name", "db.name", "db.host"} {
		c.Insert(k, value.String(k))
	}
	props := NewListProps(-1)
	props.Filter = Filter{Kind: FilterEndsWith, End: ".name"}
	items, err := c.List(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.name", "db.name"}, keysOf(items))
}

func TestList_FilterStartAndEndsWith(t *testing.T) {
	c := New(10)
	for _, k := range []string{"app.name", "app.version", "db.name"} {
		c.Insert(k, value.String(k))
	}
	props := NewListProps(-1)
	props.Filter = Filter{Kind: FilterStartAndEndsWith, Start: "app.", End: "name"}
	items, err := c.List(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.name"}, keysOf(items))
}

func TestInsertIfNotExists(t *testing.T) {
	c := New(10)
	require.NoError(t, c.InsertIfNotExists("a", value.String("1")))
	err := c.InsertIfNotExists("a", value.String("2"))
	assert.Error(t, err)
}

func keysOf(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

type sinkFunc func(branchKey string, e Event)

func (f sinkFunc) Publish(branchKey string, e Event) { f(branchKey, e) }
