// Package encoder converts an in-memory object graph into a JSON value tree.
//
// It is the serialization boundary of the SDK: every value sent to the
// remote service passes through Encode. Values are matched against a closed,
// ordered list of variants; the first match wins:
//
//	Object     domain object: reference form or full JSON form
//	Special    mutation op, ACL, GeoPoint, Polygon, Relation: own ToJSON
//	           (EncodeJSON with the call state for NestedSpecial)
//	File       own ToJSON, only once it has a remote URL
//	time.Time  {"__type":"Date","iso":"2024-01-01T00:00:00.000Z"}
//	Pattern    source text (flags are dropped)
//	sequence   slices, arrays, value.Array
//	keyed      *value.Object, string-keyed maps, structs
//	primitive  nil, bool, numbers, strings
//
// # Domain Objects
//
// An object is reduced to its compact reference form (ToPointer) when
// pointers are forced, when it was already expanded earlier in the same
// call, when it has unsaved local edits, or when it has no server data.
// With Offline set, objects whose identity is a local id ("local...") use
// ToOfflinePointer instead. Otherwise the object is recorded in the seen
// set and expanded through ToFullJSON, which receives the traversal State
// so nested field values share the seen set and the depth counter.
//
// # Limits
//
// Every encode step increments a depth counter. Exceeding MaxDepth (999 by
// default) fails the call with errors.ErrRecursionLimit, which almost
// always means a cyclic plain structure.
//
// # Thread Safety
//
// Encoder is immutable after New and safe for concurrent use. Each call
// allocates its own State and Seen set. A Seen passed to EncodeSeen must
// not be shared between concurrent calls.
//
// # Known Lossy Conversions
//
// Pattern values keep only their source; flags such as case-insensitivity
// are discarded. *regexp.Regexp keeps inline flags because Go stores them in
// the pattern text itself.
package encoder
