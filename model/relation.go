package model

import (
	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/value"
)

// Relation is a many-to-many link from a parent field to objects of
// TargetClass.
type Relation struct {
	Parent      *Object
	Key         string
	TargetClass string
}

var _ encoder.Special = (*Relation)(nil)

func (*Relation) SpecialKind() encoder.SpecialKind { return encoder.SpecialRelation }

func (r *Relation) ToJSON() (value.Value, error) {
	return value.ObjectOf("__type", value.String("Relation"), "className", value.String(r.TargetClass)), nil
}
