package model

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/value"
)

// Object is a domain object. It is not safe for concurrent mutation.
type Object struct {
	serverData map[string]any
	pending    map[string]Op
	className  string
	id         string
	localID    string
}

var _ encoder.Object = (*Object)(nil)

// NewObject returns an unsaved object of the given class with a fresh
// local id.
func NewObject(className string) *Object {
	o := newObject(className)
	o.localID = NewLocalID()
	return o
}

func newObject(className string) *Object {
	return &Object{
		className:  className,
		serverData: make(map[string]any),
		pending:    make(map[string]Op),
	}
}

// NewPointer returns an unfetched reference to a persisted object.
func NewPointer(className, id string) *Object {
	o := newObject(className)
	o.id = id
	return o
}

// NewFetched returns a persisted object with server-confirmed data.
func NewFetched(className, id string, data map[string]any) *Object {
	o := NewPointer(className, id)
	maps.Copy(o.serverData, data)
	return o
}

// NewLocalID returns a fresh client-generated identity.
func NewLocalID() string {
	return encoder.LocalIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (o *Object) ClassName() string { return o.className }
func (o *Object) ID() string        { return o.id }

// LocalID returns the client-generated identity. Objects built with
// NewPointer or NewFetched have none.
func (o *Object) LocalID() string { return o.localID }

// SetLocalID assigns a known local identity, e.g. one read back from an
// offline payload.
func (o *Object) SetLocalID(id string) { o.localID = id }

// Dirty reports pending local edits.
func (o *Object) Dirty() bool { return len(o.pending) > 0 }

// ServerData returns a copy of the server-confirmed fields.
func (o *Object) ServerData() map[string]any { return maps.Clone(o.serverData) }

// Get returns the current value of key, pending edits included.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.serverData[key]
	if op, pending := o.pending[key]; pending {
		return op.Apply(v, ok)
	}
	return v, ok
}

// Set records a pending value for key.
func (o *Object) Set(key string, v any) { o.Op(key, SetOp{Value: v}) }

// Unset records a pending removal of key.
func (o *Object) Unset(key string) { o.Op(key, UnsetOp{}) }

// Increment records a pending numeric increment of key.
func (o *Object) Increment(key string, amount float64) {
	o.Op(key, IncrementOp{Amount: amount})
}

// Add records pending appends to the array at key.
func (o *Object) Add(key string, items ...any) { o.Op(key, AddOp{Objects: items}) }

// Op records a pending op for key. A later op replaces an earlier one.
func (o *Object) Op(key string, op Op) {
	o.pending[key] = op
}

// Attributes returns the current field values, pending edits applied.
func (o *Object) Attributes() map[string]any {
	out := maps.Clone(o.serverData)
	for k := range o.pending {
		if v, ok := o.Get(k); ok {
			out[k] = v
		} else {
			delete(out, k)
		}
	}
	return out
}

// Commit applies pending edits to the server data, as a successful save
// would, and assigns id when the object had none.
func (o *Object) Commit(id string) {
	o.serverData = o.Attributes()
	clear(o.pending)
	if o.id == "" {
		o.id = id
	}
}

// ToPointer returns {"__type":"Pointer","className":...,"objectId":...}.
// Unsaved objects carry "_localId" instead of "objectId".
func (o *Object) ToPointer() value.Value {
	p := value.ObjectOf("__type", value.String("Pointer"), "className", value.String(o.className))
	if o.id != "" {
		p.Set("objectId", value.String(o.id))
	} else {
		p.Set("_localId", value.String(o.LocalID()))
	}
	return p
}

// ToOfflinePointer returns {"__type":"Object","className":...,"_localId":...}.
func (o *Object) ToOfflinePointer() value.Value {
	return value.ObjectOf(
		"__type", value.String("Object"),
		"className", value.String(o.className),
		"_localId", value.String(o.LocalID()),
	)
}

// ToFullJSON encodes every attribute through st, followed by objectId,
// __type and className.
func (o *Object) ToFullJSON(st *encoder.State) (value.Value, error) {
	attrs := o.Attributes()
	keys := slices.Sorted(maps.Keys(attrs))

	out := value.NewObject(len(keys) + 3)
	for _, k := range keys {
		v, err := st.EncodeField(k, attrs[k])
		if err != nil {
			return nil, err
		}
		out.Set(k, v)
	}
	if o.id != "" {
		out.Set("objectId", value.String(o.id))
	}
	out.Set("__type", value.String("Object"))
	out.Set("className", value.String(o.className))
	return out, nil
}

// SaveJSON returns the request body for saving the pending edits: one
// entry per key, each op in its wire form. opts apply to op operands, so
// encoder.Offline(true) writes locally identified objects in offline form.
func (o *Object) SaveJSON(opts ...encoder.Option) (*value.Object, error) {
	body := make(map[string]any, len(o.pending))
	for k, op := range o.pending {
		body[k] = op
	}
	v, err := encoder.Encode(body, opts...)
	if err != nil {
		return nil, err
	}
	return v.(*value.Object), nil
}
