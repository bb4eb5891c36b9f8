package encoder

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

// isoLayout matches JavaScript's Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

type Encoder struct {
	opts  Options
	debug bool
}

func New(opts ...Option) *Encoder {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()
	return &Encoder{
		opts:  o,
		debug: o.Logger.Core().Enabled(zap.DebugLevel),
	}
}

// Encode is a shorthand for New(opts...).Encode(v).
func Encode(v any, opts ...Option) (value.Value, error) {
	return New(opts...).Encode(v)
}

// Options returns the normalized options.
func (e *Encoder) Options() Options {
	return e.opts
}

// Encode converts v into a JSON value tree with a fresh seen set.
func (e *Encoder) Encode(v any) (value.Value, error) {
	return e.EncodeSeen(v, nil)
}

// EncodeSeen is Encode with a caller-supplied seen set. Objects already
// in seen are encoded as references. A nil seen allocates a new one.
func (e *Encoder) EncodeSeen(v any, seen *Seen) (value.Value, error) {
	if seen == nil {
		seen = NewSeen()
	}
	st := &State{enc: e, seen: seen}
	st.trace("encode", v)
	return st.encode(v)
}

func (st *State) encode(v any) (value.Value, error) {
	st.depth++
	defer func() { st.depth-- }()

	if st.depth > st.enc.opts.MaxDepth {
		st.logRecursionLimit(v)
		return nil, errors.RecursionLimit(st.Path(), st.depth, st.enc.opts.MaxDepth)
	}
	return st.dispatch(v)
}

// dispatch matches v against the variants in priority order.
func (st *State) dispatch(v any) (value.Value, error) {
	if isNil(v) {
		return value.Null{}, nil
	}

	if obj, ok := v.(Object); ok {
		return st.encodeObject(obj)
	}
	if sp, ok := v.(Special); ok {
		return st.encodeSpecial(sp)
	}
	if f, ok := v.(File); ok {
		if f.URL() == "" {
			return nil, errors.UnsavedFile(st.Path(), fileName(f))
		}
		return st.delegate(f.ToJSON())
	}

	switch x := v.(type) {
	case time.Time:
		return st.encodeDate(x)
	case *time.Time:
		return st.encodeDate(*x)
	case Pattern:
		return value.String(x.Source), nil
	case *Pattern:
		return value.String(x.Source), nil
	case *regexp.Regexp:
		return value.String(x.String()), nil
	case value.Value:
		return st.encodeTree(x)
	case string:
		return value.String(x), nil
	case bool:
		return value.Bool(x), nil
	case int:
		return value.Int(x), nil
	case int64:
		return value.Int(x), nil
	case float64:
		return encodeFloat(x), nil
	case json.Number:
		return encodeNumber(st, x)
	case []any:
		return st.encodeSlice(x)
	case map[string]any:
		return st.encodeMap(x)
	case json.Marshaler:
		return st.encodeMarshaler(x)
	}
	return st.encodeReflect(v)
}

func (st *State) encodeObject(obj Object) (value.Value, error) {
	o := st.enc.opts
	if o.DisallowObjects {
		return nil, errors.DisallowedObject(st.Path(), obj.ClassName())
	}

	key, err := entryKey(obj)
	if err != nil {
		err.(*errors.Error).Path = st.Path()
		return nil, err
	}

	if o.ForcePointers || st.seen.has(key) || obj.Dirty() || len(obj.ServerData()) == 0 {
		st.trace("encode object as pointer", obj)
		if o.Offline && strings.HasPrefix(identity(obj), LocalIDPrefix) {
			return orNull(obj.ToOfflinePointer()), nil
		}
		return orNull(obj.ToPointer()), nil
	}

	st.seen.add(key)
	st.trace("encode full object", obj)
	return st.delegate(obj.ToFullJSON(st))
}

// identity is the persisted id, falling back to the local id.
func identity(obj Object) string {
	if id := obj.ID(); id != "" {
		return id
	}
	return obj.LocalID()
}

func (st *State) encodeSpecial(sp Special) (value.Value, error) {
	switch sp.SpecialKind() {
	case SpecialOp, SpecialACL, SpecialGeoPoint, SpecialPolygon, SpecialRelation:
		if ns, ok := sp.(NestedSpecial); ok {
			return st.delegate(ns.EncodeJSON(st))
		}
		return st.delegate(sp.ToJSON())
	}
	return nil, errors.InvalidUse(errors.PhaseEncode, st.Path(), typeName(sp),
		"unknown special value kind "+sp.SpecialKind().String())
}

// delegate passes a collaborator's own serialization through, attaching
// the current path to unstructured errors.
func (st *State) delegate(v value.Value, err error) (value.Value, error) {
	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return nil, err
		}
		e := errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "value serialization failed")
		e.Path = st.Path()
		return nil, e
	}
	return orNull(v), nil
}

func (st *State) encodeDate(t time.Time) (value.Value, error) {
	if !validDate(t) {
		return nil, errors.InvalidDate(st.Path(), t)
	}
	iso := t.UTC().Format(isoLayout)
	return value.ObjectOf("__type", value.String("Date"), "iso", value.String(iso)), nil
}

// validDate rejects the zero time and years that have no four-digit
// ISO-8601 rendering.
func validDate(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}

// encodeTree re-walks an already encoded tree so containers still count
// toward the depth limit.
func (st *State) encodeTree(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Array:
		out := make(value.Array, len(x))
		for i, e := range x {
			st.pushIndex(i)
			ev, err := st.encode(e)
			st.pop()
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case *value.Object:
		out := value.NewObject(x.Len())
		var err error
		x.Range(func(k string, e value.Value) bool {
			var ev value.Value
			ev, err = st.EncodeField(k, e)
			if err != nil {
				return false
			}
			out.Set(k, ev)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case value.Float:
		return encodeFloat(float64(x)), nil
	}
	return v, nil
}

func (st *State) encodeSlice(s []any) (value.Value, error) {
	out := make(value.Array, len(s))
	for i, e := range s {
		st.pushIndex(i)
		ev, err := st.encode(e)
		st.pop()
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

func (st *State) encodeMap(m map[string]any) (value.Value, error) {
	keys := sortedKeys(m)
	out := value.NewObject(len(keys))
	for _, k := range keys {
		ev, err := st.EncodeField(k, m[k])
		if err != nil {
			return nil, err
		}
		out.Set(k, ev)
	}
	return out, nil
}

// encodeMarshaler parses the value's own JSON back into a tree.
func (st *State) encodeMarshaler(m json.Marshaler) (value.Value, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return st.delegate(nil, err)
	}
	v, err := value.ParseJSON(b)
	if err != nil {
		return st.delegate(nil, err)
	}
	return v, nil
}

func encodeFloat(f float64) value.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.Null{}
	}
	return value.Float(f)
}

func encodeNumber(st *State, n json.Number) (value.Value, error) {
	if i, err := n.Int64(); err == nil {
		return value.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, errors.InvalidUse(errors.PhaseEncode, st.Path(), "json.Number", "invalid number "+n.String())
	}
	return encodeFloat(f), nil
}

func orNull(v value.Value) value.Value {
	if v == nil {
		return value.Null{}
	}
	return v
}

func fileName(f File) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
