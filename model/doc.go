// Package model provides the SDK value types the encoder consumes.
//
// Object is the domain object: server-confirmed data plus pending local
// edits. ACL, GeoPoint, Polygon, Relation and the mutation ops serialize
// themselves; File serializes itself once it has a URL.
//
//	post := model.NewObject("Post")
//	post.Set("title", "hello")
//	body, err := post.SaveJSON()      // {"title":"hello"}
//	post.Commit("p1")                 // simulate a successful save
//	full, err := encoder.Encode(post) // full JSON form, or a pointer when seen
package model
