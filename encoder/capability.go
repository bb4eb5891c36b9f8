package encoder

import (
	"github.com/wippyai/payload/value"
)

// Object is a domain object: an identity-bearing entity backed by
// server-confirmed data plus possible local edits.
//
// Implementations without a persisted id are tracked by their own
// identity, so their dynamic type must be comparable (use pointer
// receivers).
type Object interface {
	// ClassName returns the kind of the object.
	ClassName() string
	// ID returns the persisted identity, or "" when the object was never saved.
	ID() string
	// LocalID returns the client-generated identity of an unsaved object.
	LocalID() string
	// Dirty reports unsaved local modifications.
	Dirty() bool
	// ServerData returns the server-confirmed fields.
	ServerData() map[string]any
	// ToPointer returns the compact reference form.
	ToPointer() value.Value
	// ToOfflinePointer returns the reference form for a local identity.
	ToOfflinePointer() value.Value
	// ToFullJSON returns the complete serialization. Nested values should
	// be encoded with st.Encode so they share the traversal state.
	ToFullJSON(st *State) (value.Value, error)
}

// SpecialKind enumerates the self-serializing value types.
type SpecialKind uint8

const (
	SpecialOp SpecialKind = iota + 1
	SpecialACL
	SpecialGeoPoint
	SpecialPolygon
	SpecialRelation
)

func (k SpecialKind) String() string {
	switch k {
	case SpecialOp:
		return "op"
	case SpecialACL:
		return "acl"
	case SpecialGeoPoint:
		return "geopoint"
	case SpecialPolygon:
		return "polygon"
	case SpecialRelation:
		return "relation"
	}
	return "unknown"
}

// Special is a mutation op, ACL, GeoPoint, Polygon or Relation value.
// Its ToJSON result is used verbatim.
type Special interface {
	SpecialKind() SpecialKind
	ToJSON() (value.Value, error)
}

// NestedSpecial is a Special whose wire form holds nested values, such as
// the operands of a mutation op. The encoder calls EncodeJSON instead of
// ToJSON so the nested values see the caller's options and path.
type NestedSpecial interface {
	Special
	EncodeJSON(st *State) (value.Value, error)
}

// File is a reference to stored file content.
type File interface {
	// URL returns the remote location, or "" before the file is saved.
	URL() string
	ToJSON() (value.Value, error)
}

// Pattern is a regular expression in source form. Only Source survives
// encoding; Flags are dropped.
type Pattern struct {
	Source string
	Flags  string
}
