package encoder

import (
	"encoding/base64"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// encodeReflect handles named types and containers not covered by the
// fast paths in dispatch.
func (st *State) encodeReflect(v any) (value.Value, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer:
		// Each pointer hop counts toward depth, so pointer-only cycles
		// hit the limit.
		return st.encode(rv.Elem().Interface())
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return value.Float(float64(u)), nil
		}
		return value.Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return encodeFloat(rv.Float()), nil
	case reflect.String:
		return value.String(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return value.String(base64.StdEncoding.EncodeToString(rv.Bytes())), nil
		}
		return st.encodeList(rv)
	case reflect.Array:
		return st.encodeList(rv)
	case reflect.Map:
		return st.encodeReflectMap(rv)
	case reflect.Struct:
		return st.encodeStruct(rv)
	}
	return nil, errors.Unsupported(errors.PhaseEncode, st.Path(), rv.Type().String())
}

func (st *State) encodeList(rv reflect.Value) (value.Value, error) {
	n := rv.Len()
	out := make(value.Array, n)
	for i := 0; i < n; i++ {
		st.pushIndex(i)
		ev, err := st.encode(rv.Index(i).Interface())
		st.pop()
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

func (st *State) encodeReflectMap(rv reflect.Value) (value.Value, error) {
	keyType := rv.Type().Key()
	byName := make(map[string]reflect.Value, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		var name string
		switch keyType.Kind() {
		case reflect.String:
			name = k.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			name = strconv.FormatInt(k.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			name = strconv.FormatUint(k.Uint(), 10)
		default:
			return nil, errors.Unsupported(errors.PhaseEncode, st.Path(), rv.Type().String())
		}
		byName[name] = iter.Value()
	}

	keys := sortedKeys(byName)
	out := value.NewObject(len(keys))
	for _, k := range keys {
		ev, err := st.EncodeField(k, byName[k].Interface())
		if err != nil {
			return nil, err
		}
		out.Set(k, ev)
	}
	return out, nil
}

func (st *State) encodeStruct(rv reflect.Value) (value.Value, error) {
	fields := structFields(rv.Type())
	out := value.NewObject(len(fields))
	for _, f := range fields {
		fv, ok := fieldByIndex(rv, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		ev, err := st.EncodeField(f.name, fv.Interface())
		if err != nil {
			return nil, err
		}
		out.Set(f.name, ev)
	}
	return out, nil
}

// fieldByIndex walks embedded pointers, reporting false when one is nil.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, true
}

type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map // reflect.Type -> []field

// structFields lists the encodable fields of t: exported fields named by
// their json tag, with untagged embedded structs flattened. A field at a
// shallower embedding depth hides deeper fields of the same name.
func structFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	seen := make(map[string]bool)
	var walk func(t reflect.Type, index []int)
	var embedded []struct {
		t     reflect.Type
		index []int
	}

	walk = func(t reflect.Type, index []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			idx := append(append([]int{}, index...), i)

			if sf.Anonymous && name == "" {
				if !sf.IsExported() {
					continue
				}
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					embedded = append(embedded, struct {
						t     reflect.Type
						index []int
					}{ft, idx})
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			fields = append(fields, field{
				name:      name,
				index:     idx,
				omitEmpty: strings.Contains(opts, "omitempty"),
			})
		}
	}

	walk(t, nil)
	for len(embedded) > 0 {
		next := embedded[0]
		embedded = embedded[1:]
		walk(next.t, next.index)
	}

	fieldCache.Store(t, fields)
	return fields
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
