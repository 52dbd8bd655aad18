package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_Object(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a":{"b":{"c":"hello"}}}`))
	require.NoError(t, err)

	result := Flatten("doc", v)

	leaf, ok := result.FlatMap["doc.a.b.c"]
	require.True(t, ok)
	assert.Equal(t, "hello", leaf.StringValue())

	ref, ok := result.Refs["doc.a.b"]
	require.True(t, ok)
	assert.Equal(t, RefObject, ref.Kind)
	assert.Equal(t, []string{"doc.a.b.c"}, ref.Children)
}

func TestFlatten_Array(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"xs":["x","y"]}`))
	require.NoError(t, err)

	result := Flatten("r", v)

	x, ok := result.FlatMap["r.xs.0"]
	require.True(t, ok)
	assert.Equal(t, "x", x.StringValue())

	y, ok := result.FlatMap["r.xs.1"]
	require.True(t, ok)
	assert.Equal(t, "y", y.StringValue())

	ref, ok := result.Refs["r.xs"]
	require.True(t, ok)
	assert.Equal(t, RefArray, ref.Kind)
	assert.Equal(t, []string{"r.xs.0", "r.xs.1"}, ref.Children)
}

func TestFlatten_Determinism(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a":1,"b":[1,2,{"c":3}]}`))
	require.NoError(t, err)

	r1 := Flatten("root", v)
	r2 := Flatten("root", v)

	assert.Equal(t, len(r1.FlatMap), len(r2.FlatMap))
	for k, v1 := range r1.FlatMap {
		v2, ok := r2.FlatMap[k]
		require.True(t, ok)
		assert.True(t, v1.Equal(v2))
	}
	assert.Equal(t, r1.Refs, r2.Refs)
}

func TestFlatten_ShapeDuality(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a":{"b":1,"c":[1,2]}}`))
	require.NoError(t, err)

	result := Flatten("root", v)

	for container, ref := range result.Refs {
		for _, child := range ref.Children {
			_, isLeaf := result.FlatMap[child]
			_, isContainer := result.Refs[child]
			assert.True(t, isLeaf || isContainer, "child %s of %s is neither leaf nor container", child, container)
		}
	}
}

func TestFlatten_UndefinedLeaf(t *testing.T) {
	u := Decode("broken.json", []byte(`{not json`))
	result := Flatten("doc", u)
	leaf, ok := result.FlatMap["doc"]
	require.True(t, ok)
	assert.True(t, leaf.IsUndefined())
}
