// Package decoder turns encoded wire payloads back into SDK values.
//
// It is the inverse of the encoder for the reserved shapes: "__type"
// tagged objects (Date, Pointer, Object, GeoPoint, Polygon, File, Relation)
// and "__op" mutation ops. Subtrees without reserved shapes are returned
// unchanged as value.Value, so their key order survives re-encoding.
package decoder

import (
	"strconv"
	"time"

	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/model"
	"github.com/wippyai/payload/value"
)

// Decode converts v into Go values the encoder understands.
func Decode(v value.Value) (any, error) {
	d := &decoder{}
	return d.decode(v)
}

type decoder struct {
	path []string
}

func (d *decoder) fail(detail string) error {
	path := make([]string, len(d.path))
	copy(path, d.path)
	return errors.InvalidData(errors.PhaseDecode, path, detail)
}

func (d *decoder) wrap(err error) error {
	e := errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "invalid value")
	e.Path = make([]string, len(d.path))
	copy(e.Path, d.path)
	return e
}

func (d *decoder) field(name string, v value.Value) (any, error) {
	d.path = append(d.path, name)
	defer func() { d.path = d.path[:len(d.path)-1] }()
	return d.decode(v)
}

func (d *decoder) decode(v value.Value) (any, error) {
	if !needsDecode(v) {
		return v, nil
	}
	switch x := v.(type) {
	case value.Array:
		out := make([]any, len(x))
		for i, e := range x {
			dv, err := d.field("["+strconv.Itoa(i)+"]", e)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case *value.Object:
		if _, ok := x.Get("__op"); ok {
			return d.decodeOp(x)
		}
		if t, ok := x.Get("__type"); ok {
			if s, ok := t.(value.String); ok && isReserved(string(s)) {
				return d.decodeTyped(string(s), x)
			}
		}
		return d.decodeMembers(x, nil)
	}
	return v, nil
}

func isReserved(t string) bool {
	switch t {
	case "Date", "Pointer", "Object", "GeoPoint", "Polygon", "File", "Relation":
		return true
	}
	return false
}

// needsDecode reports whether v contains a reserved shape.
func needsDecode(v value.Value) bool {
	switch x := v.(type) {
	case value.Array:
		for _, e := range x {
			if needsDecode(e) {
				return true
			}
		}
	case *value.Object:
		if _, ok := x.Get("__op"); ok {
			return true
		}
		if t, ok := x.Get("__type"); ok {
			if s, ok := t.(value.String); ok && isReserved(string(s)) {
				return true
			}
		}
		found := false
		x.Range(func(_ string, e value.Value) bool {
			found = needsDecode(e)
			return !found
		})
		return found
	}
	return false
}

// decodeMembers decodes every member not listed in skip into a map.
func (d *decoder) decodeMembers(obj *value.Object, skip map[string]bool) (map[string]any, error) {
	out := make(map[string]any, obj.Len())
	var err error
	obj.Range(func(k string, e value.Value) bool {
		if skip[k] {
			return true
		}
		var dv any
		dv, err = d.field(k, e)
		if err != nil {
			return false
		}
		out[k] = dv
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *decoder) str(obj *value.Object, key string, required bool) (string, error) {
	v, ok := obj.Get(key)
	if !ok {
		if required {
			return "", d.fail("missing " + key)
		}
		return "", nil
	}
	s, ok := v.(value.String)
	if !ok {
		return "", d.fail(key + " must be a string")
	}
	return string(s), nil
}

func (d *decoder) num(obj *value.Object, key string) (float64, error) {
	v, ok := obj.Get(key)
	if !ok {
		return 0, d.fail("missing " + key)
	}
	return toNumber(v, func() error { return d.fail(key + " must be a number") })
}

func toNumber(v value.Value, fail func() error) (float64, error) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), nil
	case value.Float:
		return float64(n), nil
	}
	return 0, fail()
}

func (d *decoder) decodeTyped(typ string, obj *value.Object) (any, error) {
	switch typ {
	case "Date":
		iso, err := d.str(obj, "iso", true)
		if err != nil {
			return nil, err
		}
		t, perr := time.Parse(time.RFC3339Nano, iso)
		if perr != nil {
			return nil, d.fail("invalid date " + strconv.Quote(iso))
		}
		return t, nil

	case "Pointer":
		return d.decodePointer(obj)

	case "Object":
		return d.decodeObject(obj)

	case "GeoPoint":
		lat, err := d.num(obj, "latitude")
		if err != nil {
			return nil, err
		}
		lng, err := d.num(obj, "longitude")
		if err != nil {
			return nil, err
		}
		pt, gerr := model.NewGeoPoint(lat, lng)
		if gerr != nil {
			return nil, d.wrap(gerr)
		}
		return pt, nil

	case "Polygon":
		return d.decodePolygon(obj)

	case "File":
		name, err := d.str(obj, "name", true)
		if err != nil {
			return nil, err
		}
		url, err := d.str(obj, "url", false)
		if err != nil {
			return nil, err
		}
		return model.NewSavedFile(name, url), nil

	case "Relation":
		className, err := d.str(obj, "className", true)
		if err != nil {
			return nil, err
		}
		return &model.Relation{TargetClass: className}, nil
	}
	return nil, d.fail("unknown __type " + strconv.Quote(typ))
}

func (d *decoder) decodePointer(obj *value.Object) (*model.Object, error) {
	className, err := d.str(obj, "className", true)
	if err != nil {
		return nil, err
	}
	id, err := d.str(obj, "objectId", false)
	if err != nil {
		return nil, err
	}
	if id != "" {
		return model.NewPointer(className, id), nil
	}
	localID, err := d.str(obj, "_localId", false)
	if err != nil {
		return nil, err
	}
	if localID == "" {
		return nil, d.fail("pointer needs objectId or _localId")
	}
	o := model.NewObject(className)
	o.SetLocalID(localID)
	return o, nil
}

var objectMeta = map[string]bool{"__type": true, "className": true, "objectId": true, "_localId": true}

func (d *decoder) decodeObject(obj *value.Object) (*model.Object, error) {
	className, err := d.str(obj, "className", true)
	if err != nil {
		return nil, err
	}
	id, err := d.str(obj, "objectId", false)
	if err != nil {
		return nil, err
	}
	localID, err := d.str(obj, "_localId", false)
	if err != nil {
		return nil, err
	}

	data, err := d.decodeMembers(obj, objectMeta)
	if err != nil {
		return nil, err
	}
	if raw, ok := obj.Get("ACL"); ok {
		acl, aerr := model.ACLFromJSON(raw)
		if aerr != nil {
			return nil, d.wrap(aerr)
		}
		data["ACL"] = acl
	}

	if id == "" {
		// Offline reference or unsaved object: data becomes pending edits.
		o := model.NewObject(className)
		if localID != "" {
			o.SetLocalID(localID)
		}
		for k, v := range data {
			o.Set(k, v)
		}
		return o, nil
	}
	return model.NewFetched(className, id, data), nil
}

func (d *decoder) decodePolygon(obj *value.Object) (*model.Polygon, error) {
	raw, ok := obj.Get("coordinates")
	if !ok {
		return nil, d.fail("missing coordinates")
	}
	coords, ok := raw.(value.Array)
	if !ok {
		return nil, d.fail("coordinates must be an array")
	}
	points := make([]model.GeoPoint, 0, len(coords))
	for i, c := range coords {
		pair, ok := c.(value.Array)
		if !ok || len(pair) != 2 {
			return nil, d.fail("coordinate " + strconv.Itoa(i) + " must be a [lat, lng] pair")
		}
		bad := func() error { return d.fail("coordinate " + strconv.Itoa(i) + " must hold numbers") }
		lat, err := toNumber(pair[0], bad)
		if err != nil {
			return nil, err
		}
		lng, err := toNumber(pair[1], bad)
		if err != nil {
			return nil, err
		}
		pt, gerr := model.NewGeoPoint(lat, lng)
		if gerr != nil {
			return nil, d.wrap(gerr)
		}
		points = append(points, pt)
	}
	poly, perr := model.NewPolygon(points)
	if perr != nil {
		return nil, d.wrap(perr)
	}
	return poly, nil
}
