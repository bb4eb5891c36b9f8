package model

import (
	"maps"
	"slices"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

// PublicPrincipal is the ACL key that applies to everyone.
const PublicPrincipal = "*"

type permission struct {
	read, write bool
}

// ACL maps principals (user ids, "role:<name>" or "*") to read and write
// access.
type ACL struct {
	perms map[string]permission
}

var _ encoder.Special = (*ACL)(nil)

func NewACL() *ACL {
	return &ACL{perms: make(map[string]permission)}
}

func (a *ACL) SetReadAccess(principal string, allowed bool) {
	p := a.perms[principal]
	p.read = allowed
	a.set(principal, p)
}

func (a *ACL) SetWriteAccess(principal string, allowed bool) {
	p := a.perms[principal]
	p.write = allowed
	a.set(principal, p)
}

func (a *ACL) SetPublicReadAccess(allowed bool)  { a.SetReadAccess(PublicPrincipal, allowed) }
func (a *ACL) SetPublicWriteAccess(allowed bool) { a.SetWriteAccess(PublicPrincipal, allowed) }

func (a *ACL) ReadAccess(principal string) bool  { return a.perms[principal].read }
func (a *ACL) WriteAccess(principal string) bool { return a.perms[principal].write }

func (a *ACL) set(principal string, p permission) {
	if !p.read && !p.write {
		delete(a.perms, principal)
		return
	}
	a.perms[principal] = p
}

func (*ACL) SpecialKind() encoder.SpecialKind { return encoder.SpecialACL }

// ToJSON returns {"<principal>":{"read":true,"write":true}} with principals
// sorted and only granted permissions present.
func (a *ACL) ToJSON() (value.Value, error) {
	out := value.NewObject(len(a.perms))
	for _, principal := range slices.Sorted(maps.Keys(a.perms)) {
		p := a.perms[principal]
		entry := value.NewObject(2)
		if p.read {
			entry.Set("read", value.Bool(true))
		}
		if p.write {
			entry.Set("write", value.Bool(true))
		}
		out.Set(principal, entry)
	}
	return out, nil
}

// ACLFromJSON parses the wire form produced by ToJSON.
func ACLFromJSON(v value.Value) (*ACL, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "ACL must be an object, got "+v.Kind().String())
	}
	acl := NewACL()
	var err error
	obj.Range(func(principal string, entry value.Value) bool {
		perms, ok := entry.(*value.Object)
		if !ok {
			err = errors.InvalidData(errors.PhaseDecode, []string{principal}, "ACL entry must be an object")
			return false
		}
		for _, access := range []string{"read", "write"} {
			raw, present := perms.Get(access)
			if !present {
				continue
			}
			b, ok := raw.(value.Bool)
			if !ok {
				err = errors.InvalidData(errors.PhaseDecode, []string{principal, access}, "ACL permission must be a boolean")
				return false
			}
			if access == "read" {
				acl.SetReadAccess(principal, bool(b))
			} else {
				acl.SetWriteAccess(principal, bool(b))
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return acl, nil
}
