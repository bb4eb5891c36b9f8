package model

import (
	"reflect"
	"slices"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

// Op is a pending mutation of one field.
type Op interface {
	encoder.Special
	// Apply returns the field value after the op, given the current value
	// and whether it exists. ok is false when the op removes the field.
	Apply(old any, exists bool) (v any, ok bool)
}

var (
	_ Op = SetOp{}
	_ Op = UnsetOp{}
	_ Op = IncrementOp{}
	_ Op = AddOp{}
	_ Op = AddUniqueOp{}
	_ Op = RemoveOp{}
	_ Op = (*RelationOp)(nil)
)

var (
	_ encoder.NestedSpecial = SetOp{}
	_ encoder.NestedSpecial = AddOp{}
	_ encoder.NestedSpecial = AddUniqueOp{}
	_ encoder.NestedSpecial = RemoveOp{}
)

// encodeOperand encodes op operands with objects reduced to pointers.
func encodeOperand(v any, opts ...encoder.Option) (value.Value, error) {
	return encoder.Encode(v, append(opts, encoder.DisallowObjects(false), encoder.ForcePointers(true))...)
}

// encodeOperandIn encodes an operand with the caller's Offline flag, depth
// limit and logger. Errors carry the caller's path as a prefix.
func encodeOperandIn(st *encoder.State, v any) (value.Value, error) {
	out, err := encodeOperand(v, encoder.WithOptions(st.Options()))
	if e, ok := err.(*errors.Error); ok {
		e.Path = append(st.Path(), e.Path...)
	}
	return out, err
}

// SetOp replaces the field. Its wire form is the encoded value itself.
type SetOp struct {
	Value any
}

func (SetOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (op SetOp) ToJSON() (value.Value, error) { return encodeOperand(op.Value) }

func (op SetOp) EncodeJSON(st *encoder.State) (value.Value, error) {
	return encodeOperandIn(st, op.Value)
}

func (op SetOp) Apply(any, bool) (any, bool) { return op.Value, true }

// UnsetOp removes the field.
type UnsetOp struct{}

func (UnsetOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (UnsetOp) ToJSON() (value.Value, error) {
	return value.ObjectOf("__op", value.String("Delete")), nil
}

func (UnsetOp) Apply(any, bool) (any, bool) { return nil, false }

// IncrementOp adds Amount to a numeric field. A missing field counts as 0.
type IncrementOp struct {
	Amount float64
}

func (IncrementOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (op IncrementOp) ToJSON() (value.Value, error) {
	return value.ObjectOf("__op", value.String("Increment"), "amount", value.Number(op.Amount)), nil
}

func (op IncrementOp) Apply(old any, _ bool) (any, bool) {
	return toFloat(old) + op.Amount, true
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

func toSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return slices.Clone(s)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// sameItem compares persisted objects by class and id, everything else deeply.
func sameItem(a, b any) bool {
	ao, aok := a.(*Object)
	bo, bok := b.(*Object)
	if aok && bok {
		if ao.id != "" && bo.id != "" {
			return ao.className == bo.className && ao.id == bo.id
		}
		return ao == bo
	}
	return reflect.DeepEqual(a, b)
}

func arrayOp(name string, objects []any) (value.Value, error) {
	return arrayOpIn(nil, name, objects)
}

// arrayOpIn is arrayOp with the caller's state; st may be nil.
func arrayOpIn(st *encoder.State, name string, objects []any) (value.Value, error) {
	var (
		enc value.Value
		err error
	)
	if st != nil {
		enc, err = encodeOperandIn(st, objects)
	} else {
		enc, err = encodeOperand(objects)
	}
	if err != nil {
		return nil, err
	}
	if _, ok := enc.(value.Array); !ok {
		enc = value.Array{}
	}
	return value.ObjectOf("__op", value.String(name), "objects", enc), nil
}

// AddOp appends Objects to an array field.
type AddOp struct {
	Objects []any
}

func (AddOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (op AddOp) ToJSON() (value.Value, error) { return arrayOp("Add", op.Objects) }

func (op AddOp) EncodeJSON(st *encoder.State) (value.Value, error) {
	return arrayOpIn(st, "Add", op.Objects)
}

func (op AddOp) Apply(old any, _ bool) (any, bool) {
	return append(toSlice(old), op.Objects...), true
}

// AddUniqueOp appends the Objects not already present.
type AddUniqueOp struct {
	Objects []any
}

func (AddUniqueOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (op AddUniqueOp) ToJSON() (value.Value, error) { return arrayOp("AddUnique", op.Objects) }

func (op AddUniqueOp) EncodeJSON(st *encoder.State) (value.Value, error) {
	return arrayOpIn(st, "AddUnique", op.Objects)
}

func (op AddUniqueOp) Apply(old any, _ bool) (any, bool) {
	out := toSlice(old)
	for _, item := range op.Objects {
		if !slices.ContainsFunc(out, func(e any) bool { return sameItem(e, item) }) {
			out = append(out, item)
		}
	}
	return out, true
}

// RemoveOp removes every occurrence of Objects from an array field.
type RemoveOp struct {
	Objects []any
}

func (RemoveOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (op RemoveOp) ToJSON() (value.Value, error) { return arrayOp("Remove", op.Objects) }

func (op RemoveOp) EncodeJSON(st *encoder.State) (value.Value, error) {
	return arrayOpIn(st, "Remove", op.Objects)
}

func (op RemoveOp) Apply(old any, _ bool) (any, bool) {
	out := toSlice(old)
	return slices.DeleteFunc(out, func(e any) bool {
		return slices.ContainsFunc(op.Objects, func(item any) bool { return sameItem(e, item) })
	}), true
}

// RelationOp adds and removes persisted objects of one class to a relation.
type RelationOp struct {
	TargetClass string
	Adds        []*Object
	Removes     []*Object
}

// NewRelationOp validates that every object is persisted and of the same class.
func NewRelationOp(adds, removes []*Object) (*RelationOp, error) {
	op := &RelationOp{Adds: adds, Removes: removes}
	for _, obj := range slices.Concat(adds, removes) {
		if obj.ID() == "" {
			return nil, errors.InvalidUse(errors.PhaseEncode, nil, "*model.Object",
				"cannot add or remove an unsaved object from a relation")
		}
		if op.TargetClass == "" {
			op.TargetClass = obj.ClassName()
		}
		if obj.ClassName() != op.TargetClass {
			return nil, errors.InvalidUse(errors.PhaseEncode, nil, "*model.Object",
				"relation objects must share one class, got "+op.TargetClass+" and "+obj.ClassName())
		}
	}
	return op, nil
}

func (*RelationOp) SpecialKind() encoder.SpecialKind { return encoder.SpecialOp }

func (op *RelationOp) ToJSON() (value.Value, error) {
	pointers := func(objs []*Object) value.Array {
		out := make(value.Array, len(objs))
		for i, o := range objs {
			out[i] = o.ToPointer()
		}
		return out
	}
	var ops value.Array
	if len(op.Adds) > 0 {
		ops = append(ops, value.ObjectOf("__op", value.String("AddRelation"), "objects", pointers(op.Adds)))
	}
	if len(op.Removes) > 0 {
		ops = append(ops, value.ObjectOf("__op", value.String("RemoveRelation"), "objects", pointers(op.Removes)))
	}
	switch len(ops) {
	case 0:
		return value.Null{}, nil
	case 1:
		return ops[0], nil
	}
	return value.ObjectOf("__op", value.String("Batch"), "ops", ops), nil
}

func (op *RelationOp) Apply(any, bool) (any, bool) {
	return &Relation{TargetClass: op.TargetClass}, true
}
