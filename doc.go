// Package payload encodes SDK object graphs into the JSON wire format
// understood by the remote data service, and decodes that format back.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	payload/             Root package with one-call Marshal and Unmarshal helpers
//	├── encoder/         Object graph to value tree (reference rules, depth limit)
//	├── decoder/         Value tree back to SDK values
//	├── model/           Domain objects, ACLs, geo types, files, relations, ops
//	├── value/           Ordered JSON value tree
//	├── codec/           json, go-json, jsonc, cbor, yaml codecs and compression
//	├── errors/          Structured error types for debugging
//	└── cmd/payload/     Command-line transcoder with an interactive mode
//
// # Quick Start
//
// Encode an object for a save request:
//
//	post := model.NewObject("Post")
//	post.Set("title", "hello")
//	post.Set("author", model.NewPointer("_User", "u1"))
//
//	body, err := payload.Marshal(post.Attributes(), "json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// {"author":{"__type":"Pointer","className":"_User","objectId":"u1"},"title":"hello"}
//
// # Encoding Modes
//
// Three flags change how domain objects are written:
//
//   - encoder.DisallowObjects rejects any domain object
//   - encoder.ForcePointers writes every domain object as a reference
//   - encoder.Offline writes objects that only have a local id as offline
//     references, for storage in a local cache
//
// # Thread Safety
//
// Encoders, codecs and the helpers in this package are safe for concurrent
// use. Domain objects from the model package are not; mutate an object from
// a single goroutine.
package payload
