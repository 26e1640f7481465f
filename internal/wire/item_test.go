package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalItem_RoundTrip(t *testing.T) {
	t.Parallel()
	cases := []Item{
		&RectangleItem{Transform: IdentityTransform(), Stroke: Stroke{Width: 2, Color: "#000"}, Fill: "#fff"},
		&EllipseItem{Transform: IdentityTransform()},
		&LineItem{Start: Point{X: 1, Y: 2}, End: Point{X: 3, Y: 4}},
		&PolygonItem{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}},
		&PathItem{Transform: IdentityTransform(), Path: Spline{Points: []Point{{X: 1, Y: 1}}}},
		&ImageItem{URL: "http://example.com/a.png"},
		&TextItem{Text: "hello"},
		&LinkItem{URL: "http://example.com", Text: "link"},
		&TagItem{Data: "tag data"},
	}

	for _, item := range cases {
		data, err := MarshalItem(item)
		require.NoError(t, err)

		decoded, err := UnmarshalItem(data)
		require.NoError(t, err)
		assert.Equal(t, item.Kind(), decoded.Kind())
		assert.Equal(t, item, decoded)
	}
}

func TestUnmarshalItem_UnknownKind(t *testing.T) {
	t.Parallel()
	_, err := UnmarshalItem([]byte(`{"type":"Bogus"}`))
	assert.Error(t, err)
}

func TestApplyLocationUpdate_TransformFamily(t *testing.T) {
	t.Parallel()
	r := &RectangleItem{Transform: IdentityTransform()}
	newT := Transform{Origin: Point{X: 5, Y: 5}, StretchX: 2, StretchY: 2}

	ok, applied := r.ApplyLocationUpdate(NewTransformUpdate(newT))
	assert.True(t, ok)
	assert.Equal(t, newT, applied.Transform)
	assert.Equal(t, newT, r.Transform)

	// Wrong family is rejected, current value is returned unchanged.
	ok, current := r.ApplyLocationUpdate(NewPointsUpdate([]Point{{X: 1, Y: 1}}))
	assert.False(t, ok)
	assert.Equal(t, UpdateTransform, current.Kind)
	assert.Equal(t, newT, current.Transform)
}

func TestApplyLocationUpdate_LineRequiresExactlyTwoPoints(t *testing.T) {
	t.Parallel()
	l := &LineItem{Start: Point{X: 0, Y: 0}, End: Point{X: 1, Y: 1}}

	ok, _ := l.ApplyLocationUpdate(NewPointsUpdate([]Point{{X: 9, Y: 9}}))
	assert.False(t, ok)
	assert.Equal(t, Point{X: 0, Y: 0}, l.Start)

	ok, applied := l.ApplyLocationUpdate(NewPointsUpdate([]Point{{X: 9, Y: 9}, {X: 8, Y: 8}}))
	assert.True(t, ok)
	assert.Equal(t, Point{X: 9, Y: 9}, l.Start)
	assert.Equal(t, Point{X: 8, Y: 8}, l.End)
	assert.Len(t, applied.Points, 2)
}

func TestRawItem_MarshalJSONNilIsNull(t *testing.T) {
	t.Parallel()
	var r RawItem
	data, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestRawItem_DecodeRoundTrip(t *testing.T) {
	t.Parallel()
	item := &TextItem{Transform: IdentityTransform(), Text: "hi"}
	raw, err := NewRawItem(item)
	require.NoError(t, err)

	decoded, err := raw.Decode()
	require.NoError(t, err)
	assert.Equal(t, item, decoded)
}
