package payload

import (
	"strconv"

	"github.com/lowcarboncode/gitdis/internal/value"
)

// RefKind identifies the container kind a RefEntry describes.
type RefKind int

const (
	RefObject RefKind = iota
	RefArray
)

// RefEntry describes one container node's shape: its kind and the ordered
// dotted paths of its immediate children, per spec.md §3 "Reference index
// entry".
type RefEntry struct {
	Kind     RefKind
	Children []string
}

// FlattenResult is the output of Flatten: a dotted-path leaf map plus the
// companion container shape index.
type FlattenResult struct {
	FlatMap map[string]value.Value
	Refs    map[string]RefEntry
}

// Flatten converts a decoded document rooted at rootKey into a flat
// dotted.path -> leaf mapping plus a reference index of container paths to
// their children, per spec.md §4.2. It is a pure function of (rootKey, v):
// equal inputs yield equal (flat_map, refs) including children order.
func Flatten(rootKey string, v value.Value) FlattenResult {
	result := FlattenResult{
		FlatMap: map[string]value.Value{},
		Refs:    map[string]RefEntry{},
	}
	flattenInto(rootKey, v, &result)
	return result
}

func flattenInto(prefix string, v value.Value, result *FlattenResult) {
	switch v.Kind() {
	case value.KindObject:
		children := make([]string, 0, len(v.ObjectKeys()))
		for _, k := range v.ObjectKeys() {
			child, _ := v.ObjectGet(k)
			newKey := joinKey(prefix, k)
			flattenInto(newKey, child, result)
			children = append(children, newKey)
		}
		result.Refs[prefix] = RefEntry{Kind: RefObject, Children: children}
	case value.KindArray:
		items := v.ArrayItems()
		children := make([]string, 0, len(items))
		for i, item := range items {
			newKey := joinKey(prefix, strconv.Itoa(i))
			flattenInto(newKey, item, result)
			children = append(children, newKey)
		}
		result.Refs[prefix] = RefEntry{Kind: RefArray, Children: children}
	default:
		result.FlatMap[prefix] = v
	}
}

func joinKey(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
