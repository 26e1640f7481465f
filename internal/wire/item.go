package wire

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var itemJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ItemKind names one of the nine Item variants. Values match the "type"
// discriminant carried on the wire, mirroring how Item is tagged in the
// original canvas model.
type ItemKind string

const (
	KindRectangle ItemKind = "Rectangle"
	KindEllipse   ItemKind = "Ellipse"
	KindLine      ItemKind = "Line"
	KindPolygon   ItemKind = "Polygon"
	KindPath      ItemKind = "Path"
	KindImage     ItemKind = "Image"
	KindText      ItemKind = "Text"
	KindLink      ItemKind = "Link"
	KindTag       ItemKind = "Tag"
)

// LocationFamily partitions Item variants by how they are positioned. Every
// Item has exactly one; ApplyLocationUpdate rejects a LocationUpdate from the
// wrong family instead of silently coercing it.
type LocationFamily int

const (
	// FamilyTransform covers items located by a single Transform: Rectangle,
	// Ellipse, Path, Image, Text, Link, Tag.
	FamilyTransform LocationFamily = iota
	// FamilyPoints covers items located by an ordered point list: Line
	// (exactly two points) and Polygon (one or more points).
	FamilyPoints
)

// Item is one of the nine drawable variants a Canvas stores. Implementations
// live in this file; each knows its own kind and location family so Canvas
// and the selection handlers never need a type switch to route behavior.
type Item interface {
	Kind() ItemKind
	Family() LocationFamily
	// ApplyLocationUpdate attempts to relocate the item in place. On success
	// it returns (true, the update that was just applied). On failure it
	// returns (false, the item's unchanged current location) so the caller
	// can build an IncorrectType reject carrying the current value.
	ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate)
}

// LocationUpdateKind discriminates LocationUpdate's two shapes on the wire.
type LocationUpdateKind string

const (
	UpdateTransform LocationUpdateKind = "Transform"
	UpdatePoints    LocationUpdateKind = "Points"
)

// LocationUpdate carries either a new Transform or a new point list; exactly
// one of Transform/Points is meaningful, selected by Kind.
type LocationUpdate struct {
	Kind      LocationUpdateKind `json:"type"`
	Transform Transform          `json:"transform,omitempty"`
	Points    []Point            `json:"points,omitempty"`
}

// NewTransformUpdate builds a Transform-kind LocationUpdate.
func NewTransformUpdate(t Transform) LocationUpdate {
	return LocationUpdate{Kind: UpdateTransform, Transform: t}
}

// NewPointsUpdate builds a Points-kind LocationUpdate.
func NewPointsUpdate(p []Point) LocationUpdate {
	return LocationUpdate{Kind: UpdatePoints, Points: p}
}

// TypeDescriptor renders u's shape for an IncorrectType reject's
// expected/received fields: "Transform" or "Point[N]" with N the point
// count, so a Line's fixed two-point shape reads as "Point[2]".
func (u LocationUpdate) TypeDescriptor() string {
	if u.Kind == UpdateTransform {
		return string(UpdateTransform)
	}
	return fmt.Sprintf("Point[%d]", len(u.Points))
}

// ============================================================================
// Transform-located variants
// ============================================================================

type RectangleItem struct {
	Transform Transform `json:"transform"`
	Stroke    Stroke    `json:"stroke"`
	Fill      Color     `json:"fill"`
}

func (i *RectangleItem) Kind() ItemKind         { return KindRectangle }
func (i *RectangleItem) Family() LocationFamily { return FamilyTransform }
func (i *RectangleItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

type EllipseItem struct {
	Transform Transform `json:"transform"`
	Stroke    Stroke    `json:"stroke"`
	Fill      Color     `json:"fill"`
}

func (i *EllipseItem) Kind() ItemKind         { return KindEllipse }
func (i *EllipseItem) Family() LocationFamily { return FamilyTransform }
func (i *EllipseItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

type PathItem struct {
	Transform Transform `json:"transform"`
	Path      Spline    `json:"path"`
	Stroke    Stroke    `json:"stroke"`
}

func (i *PathItem) Kind() ItemKind         { return KindPath }
func (i *PathItem) Family() LocationFamily { return FamilyTransform }
func (i *PathItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

type ImageItem struct {
	Transform   Transform `json:"transform"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
}

func (i *ImageItem) Kind() ItemKind         { return KindImage }
func (i *ImageItem) Family() LocationFamily { return FamilyTransform }
func (i *ImageItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

type TextItem struct {
	Transform Transform `json:"transform"`
	Text      string    `json:"text"`
}

func (i *TextItem) Kind() ItemKind         { return KindText }
func (i *TextItem) Family() LocationFamily { return FamilyTransform }
func (i *TextItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

type LinkItem struct {
	Transform Transform `json:"transform"`
	URL       string    `json:"url"`
	Text      string    `json:"text"`
}

func (i *LinkItem) Kind() ItemKind         { return KindLink }
func (i *LinkItem) Family() LocationFamily { return FamilyTransform }
func (i *LinkItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

// TagItem anchors a short text annotation to a point on the board. Unlike the
// original prototype (which positioned tags by bare id+data with no
// location), this spec classifies Tag as transform-located so it can be
// moved and selected the same way as every other transform-located variant.
type TagItem struct {
	Transform Transform `json:"transform"`
	Data      string    `json:"data"`
}

func (i *TagItem) Kind() ItemKind         { return KindTag }
func (i *TagItem) Family() LocationFamily { return FamilyTransform }
func (i *TagItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	return applyTransformUpdate(&i.Transform, u)
}

func applyTransformUpdate(t *Transform, u LocationUpdate) (bool, LocationUpdate) {
	if u.Kind != UpdateTransform {
		return false, NewTransformUpdate(*t)
	}
	*t = u.Transform
	return true, u
}

// ============================================================================
// Point-located variants
// ============================================================================

type LineItem struct {
	Start  Point  `json:"start"`
	End    Point  `json:"end"`
	Stroke Stroke `json:"stroke"`
}

func (i *LineItem) Kind() ItemKind         { return KindLine }
func (i *LineItem) Family() LocationFamily { return FamilyPoints }
func (i *LineItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	current := NewPointsUpdate([]Point{i.Start, i.End})
	if u.Kind != UpdatePoints || len(u.Points) != 2 {
		return false, current
	}
	i.Start, i.End = u.Points[0], u.Points[1]
	return true, u
}

type PolygonItem struct {
	Points []Point `json:"points"`
	Stroke Stroke  `json:"stroke"`
	Fill   Color   `json:"fill"`
}

func (i *PolygonItem) Kind() ItemKind         { return KindPolygon }
func (i *PolygonItem) Family() LocationFamily { return FamilyPoints }
func (i *PolygonItem) ApplyLocationUpdate(u LocationUpdate) (bool, LocationUpdate) {
	current := NewPointsUpdate(append([]Point(nil), i.Points...))
	if u.Kind != UpdatePoints {
		return false, current
	}
	i.Points = append([]Point(nil), u.Points...)
	return true, u
}

// ============================================================================
// Marshaling
// ============================================================================

// itemEnvelope is the wire shape of an Item: the variant's fields flattened
// alongside a "type" discriminant, matching the tagged-union convention used
// throughout this package.
type itemEnvelope struct {
	Type ItemKind `json:"type"`
}

// MarshalItem encodes an Item with its "type" discriminant.
func MarshalItem(item Item) ([]byte, error) {
	body, err := itemJSON.Marshal(item)
	if err != nil {
		return nil, err
	}
	var fields map[string]jsoniter.RawMessage
	if err := itemJSON.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typeTag, err := itemJSON.Marshal(item.Kind())
	if err != nil {
		return nil, err
	}
	fields["type"] = typeTag
	return itemJSON.Marshal(fields)
}

// NewRawItem encodes item into a RawItem ready to embed in a response or
// notification payload without a second decode round trip downstream.
func NewRawItem(item Item) (RawItem, error) {
	data, err := MarshalItem(item)
	if err != nil {
		return RawItem{}, err
	}
	return RawItem{data: data}, nil
}

// UnmarshalItem decodes an Item by reading its "type" discriminant and
// dispatching to the matching concrete variant.
func UnmarshalItem(data []byte) (Item, error) {
	var env itemEnvelope
	if err := itemJSON.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode item envelope: %w", err)
	}

	var item Item
	switch env.Type {
	case KindRectangle:
		item = &RectangleItem{}
	case KindEllipse:
		item = &EllipseItem{}
	case KindLine:
		item = &LineItem{}
	case KindPolygon:
		item = &PolygonItem{}
	case KindPath:
		item = &PathItem{}
	case KindImage:
		item = &ImageItem{}
	case KindText:
		item = &TextItem{}
	case KindLink:
		item = &LinkItem{}
	case KindTag:
		item = &TagItem{}
	default:
		return nil, fmt.Errorf("unknown item type %q", env.Type)
	}

	if err := itemJSON.Unmarshal(data, item); err != nil {
		return nil, fmt.Errorf("decode %s item: %w", env.Type, err)
	}
	return item, nil
}
