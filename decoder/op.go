package decoder

import (
	"strconv"

	"github.com/wippyai/payload/model"
	"github.com/wippyai/payload/value"
)

func (d *decoder) decodeOp(obj *value.Object) (model.Op, error) {
	name, err := d.str(obj, "__op", true)
	if err != nil {
		return nil, err
	}

	switch name {
	case "Delete":
		return model.UnsetOp{}, nil
	case "Increment":
		amount, err := d.num(obj, "amount")
		if err != nil {
			return nil, err
		}
		return model.IncrementOp{Amount: amount}, nil
	case "Add", "AddUnique", "Remove":
		items, err := d.objects(obj)
		if err != nil {
			return nil, err
		}
		switch name {
		case "Add":
			return model.AddOp{Objects: items}, nil
		case "AddUnique":
			return model.AddUniqueOp{Objects: items}, nil
		}
		return model.RemoveOp{Objects: items}, nil
	case "AddRelation", "RemoveRelation":
		targets, err := d.relationTargets(obj)
		if err != nil {
			return nil, err
		}
		if name == "AddRelation" {
			return d.relationOp(targets, nil)
		}
		return d.relationOp(nil, targets)
	case "Batch":
		return d.decodeBatch(obj)
	}
	return nil, d.fail("unknown __op " + strconv.Quote(name))
}

func (d *decoder) objects(obj *value.Object) ([]any, error) {
	raw, ok := obj.Get("objects")
	if !ok {
		return nil, d.fail("missing objects")
	}
	arr, ok := raw.(value.Array)
	if !ok {
		return nil, d.fail("objects must be an array")
	}
	out := make([]any, len(arr))
	for i, e := range arr {
		v, err := d.field("objects["+strconv.Itoa(i)+"]", e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) relationTargets(obj *value.Object) ([]*model.Object, error) {
	items, err := d.objects(obj)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Object, len(items))
	for i, item := range items {
		o, ok := item.(*model.Object)
		if !ok {
			return nil, d.fail("relation op objects must be pointers")
		}
		out[i] = o
	}
	return out, nil
}

func (d *decoder) relationOp(adds, removes []*model.Object) (*model.RelationOp, error) {
	op, err := model.NewRelationOp(adds, removes)
	if err != nil {
		return nil, d.wrap(err)
	}
	return op, nil
}

// decodeBatch accepts the AddRelation/RemoveRelation pair produced by
// RelationOp.
func (d *decoder) decodeBatch(obj *value.Object) (model.Op, error) {
	raw, ok := obj.Get("ops")
	if !ok {
		return nil, d.fail("missing ops")
	}
	ops, ok := raw.(value.Array)
	if !ok {
		return nil, d.fail("ops must be an array")
	}
	var adds, removes []*model.Object
	for _, e := range ops {
		sub, ok := e.(*value.Object)
		if !ok {
			return nil, d.fail("batch entries must be ops")
		}
		op, err := d.decodeOp(sub)
		if err != nil {
			return nil, err
		}
		rel, ok := op.(*model.RelationOp)
		if !ok {
			return nil, d.fail("batch supports relation ops only")
		}
		adds = append(adds, rel.Adds...)
		removes = append(removes, rel.Removes...)
	}
	return d.relationOp(adds, removes)
}
