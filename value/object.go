package value

// Object is a string-keyed map that preserves insertion order.
// The zero value is not usable; create objects with NewObject.
type Object struct {
	vals map[string]Value
	keys []string
}

// NewObject returns an empty object with room for n keys.
func NewObject(n int) *Object {
	return &Object{
		vals: make(map[string]Value, n),
		keys: make([]string, 0, n),
	}
}

// ObjectOf builds an object from alternating key/value pairs.
// It panics on an odd argument count or a non-string key.
func ObjectOf(pairs ...any) *Object {
	if len(pairs)%2 != 0 {
		panic("value: ObjectOf needs key/value pairs")
	}
	o := NewObject(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic("value: ObjectOf key must be a string")
		}
		v, _ := pairs[i+1].(Value)
		if v == nil {
			v = Null{}
		}
		o.Set(k, v)
	}
	return o
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) sealed()    {}

// Set stores v under k. An existing key keeps its position.
func (o *Object) Set(k string, v Value) {
	if v == nil {
		v = Null{}
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[k]
	return v, ok
}

// Delete removes k, keeping the order of the remaining keys.
func (o *Object) Delete(k string) {
	if _, ok := o.vals[k]; !ok {
		return
	}
	delete(o.vals, k)
	for i, key := range o.keys {
		if key == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *Object) Range(fn func(k string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// MarshalJSON writes the members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(o.keys)*16)
	buf = append(buf, '{')
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := String(k).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := marshalElem(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}
