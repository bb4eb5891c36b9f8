// Package value defines the closed JSON value tree produced by the encoder.
//
// Every encoded payload is one of:
//
//	Null, Bool, Int, Float, String   scalars
//	Array                            ordered sequence of values
//	*Object                          string-keyed map that keeps insertion order
//
// The set is sealed: only types in this package implement Value. A tree
// built from these types marshals with encoding/json (or any codec that
// honours json.Marshaler) without further transformation.
package value
