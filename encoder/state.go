package encoder

import (
	"reflect"
	"strconv"

	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

// Seen records the domain objects already expanded within one top-level
// encode call. It is append-only and not safe for concurrent use.
type Seen struct {
	entries map[any]struct{}
	order   []any
}

// NewSeen returns an empty seen set.
func NewSeen() *Seen {
	return &Seen{entries: make(map[any]struct{})}
}

// Contains reports whether obj was recorded.
func (s *Seen) Contains(obj Object) bool {
	key, err := entryKey(obj)
	if err != nil {
		return false
	}
	return s.has(key)
}

// Mark records obj so later encounters use its reference form.
func (s *Seen) Mark(obj Object) error {
	key, err := entryKey(obj)
	if err != nil {
		return err
	}
	s.add(key)
	return nil
}

// Len returns the number of recorded objects.
func (s *Seen) Len() int {
	return len(s.order)
}

// Entries returns "<class>:<id>" labels in insertion order. Unsaved
// objects are labelled with their local id.
func (s *Seen) Entries() []string {
	out := make([]string, len(s.order))
	for i, key := range s.order {
		switch k := key.(type) {
		case string:
			out[i] = k
		case Object:
			out[i] = k.ClassName() + ":" + k.LocalID()
		}
	}
	return out
}

func (s *Seen) has(key any) bool {
	_, ok := s.entries[key]
	return ok
}

func (s *Seen) add(key any) {
	if _, ok := s.entries[key]; ok {
		return
	}
	s.entries[key] = struct{}{}
	s.order = append(s.order, key)
}

// entryKey is "<class>:<id>" for persisted objects and the object itself
// otherwise. It only reads ClassName and ID.
func entryKey(obj Object) (any, error) {
	if id := obj.ID(); id != "" {
		return obj.ClassName() + ":" + id, nil
	}
	if !reflect.TypeOf(obj).Comparable() {
		return nil, errors.InvalidUse(errors.PhaseEncode, nil, typeName(obj),
			"unsaved object type is not comparable and cannot be tracked by identity")
	}
	return obj, nil
}

// State is the traversal context of one top-level encode call.
type State struct {
	enc   *Encoder
	seen  *Seen
	path  []string
	depth int
}

// Encode encodes a nested value with the same flags, seen set and depth
// counter as the current call.
func (st *State) Encode(v any) (value.Value, error) {
	return st.encode(v)
}

// EncodeField is Encode with name appended to the error path.
func (st *State) EncodeField(name string, v any) (value.Value, error) {
	st.push(name)
	defer st.pop()
	return st.encode(v)
}

// Seen returns the shared seen set.
func (st *State) Seen() *Seen { return st.seen }

// Options returns the options of the encoder running this call.
func (st *State) Options() Options { return st.enc.opts }

// Offline reports whether the offline reference form is enabled.
func (st *State) Offline() bool { return st.enc.opts.Offline }

// Depth returns the current recursion depth.
func (st *State) Depth() int { return st.depth }

// Path returns a copy of the path of the value being encoded.
func (st *State) Path() []string {
	out := make([]string, len(st.path))
	copy(out, st.path)
	return out
}

func (st *State) push(seg string) { st.path = append(st.path, seg) }
func (st *State) pop()            { st.path = st.path[:len(st.path)-1] }

func (st *State) pushIndex(i int) { st.push("[" + strconv.Itoa(i) + "]") }
