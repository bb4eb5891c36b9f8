package model

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

func jsonOf(t *testing.T, v value.Value) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestObjectLifecycle(t *testing.T) {
	post := NewObject("Post")
	assert.Empty(t, post.ID())
	assert.True(t, strings.HasPrefix(post.LocalID(), encoder.LocalIDPrefix))
	assert.Equal(t, post.LocalID(), post.LocalID(), "local id is stable")
	assert.False(t, post.Dirty())

	post.Set("title", "hello")
	post.Increment("views", 2)
	assert.True(t, post.Dirty())

	views, ok := post.Get("views")
	require.True(t, ok)
	assert.Equal(t, 2.0, views)

	body, err := post.SaveJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"title":"hello","views":{"__op":"Increment","amount":2}}`, jsonOf(t, body))

	post.Commit("p1")
	assert.Equal(t, "p1", post.ID())
	assert.False(t, post.Dirty())
	assert.Equal(t, map[string]any{"title": "hello", "views": 2.0}, post.ServerData())

	post.Unset("title")
	_, ok = post.Get("title")
	assert.False(t, ok)
	post.Commit("ignored")
	assert.Equal(t, "p1", post.ID())
	assert.Equal(t, map[string]any{"views": 2.0}, post.ServerData())
}

func TestObjectEncoding(t *testing.T) {
	author := NewFetched("User", "u1", map[string]any{"name": "ann"})
	post := NewFetched("Post", "p1", map[string]any{
		"title":   "hi",
		"author":  author,
		"created": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	got, err := encoder.Encode(post)
	require.NoError(t, err)
	assert.Equal(t,
		`{"author":{"name":"ann","objectId":"u1","__type":"Object","className":"User"},`+
			`"created":{"__type":"Date","iso":"2024-01-01T00:00:00.000Z"},"title":"hi",`+
			`"objectId":"p1","__type":"Object","className":"Post"}`,
		jsonOf(t, got))

	got, err = encoder.Encode(post, encoder.ForcePointers(true))
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"Pointer","className":"Post","objectId":"p1"}`, jsonOf(t, got))

	ref := NewPointer("Post", "p2")
	got, err = encoder.Encode(ref)
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"Pointer","className":"Post","objectId":"p2"}`, jsonOf(t, got))
}

func TestObjectPointerForms(t *testing.T) {
	draft := NewObject("Post")
	draft.SetLocalID("localabc")

	assert.Equal(t, `{"__type":"Pointer","className":"Post","_localId":"localabc"}`, jsonOf(t, draft.ToPointer()))
	assert.Equal(t, `{"__type":"Object","className":"Post","_localId":"localabc"}`, jsonOf(t, draft.ToOfflinePointer()))

	got, err := encoder.Encode(draft, encoder.Offline(true))
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"Object","className":"Post","_localId":"localabc"}`, jsonOf(t, got))
}

func TestACL(t *testing.T) {
	acl := NewACL()
	acl.SetPublicReadAccess(true)
	acl.SetReadAccess("u1", true)
	acl.SetWriteAccess("u1", true)
	acl.SetWriteAccess("u2", true)
	acl.SetWriteAccess("u2", false)

	assert.True(t, acl.ReadAccess(PublicPrincipal))
	assert.False(t, acl.WriteAccess("u2"))

	got, err := encoder.Encode(acl)
	require.NoError(t, err)
	want := `{"*":{"read":true},"u1":{"read":true,"write":true}}`
	assert.Equal(t, want, jsonOf(t, got))

	parsed, err := ACLFromJSON(got)
	require.NoError(t, err)
	again, err := parsed.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, want, jsonOf(t, again))

	_, err = ACLFromJSON(value.ObjectOf("u1", value.ObjectOf("read", value.String("yes"))))
	require.Error(t, err)
}

func TestGeoTypes(t *testing.T) {
	pt, err := NewGeoPoint(40.5, -73.25)
	require.NoError(t, err)
	got, err := encoder.Encode(pt)
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"GeoPoint","latitude":40.5,"longitude":-73.25}`, jsonOf(t, got))

	_, err = NewGeoPoint(91, 0)
	require.ErrorIs(t, err, errors.ErrInvalidUse)
	_, err = NewGeoPoint(0, -181)
	require.ErrorIs(t, err, errors.ErrInvalidUse)

	_, err = NewPolygon([]GeoPoint{pt, pt})
	require.ErrorIs(t, err, errors.ErrInvalidUse)

	poly, err := NewPolygon([]GeoPoint{{0, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)
	got, err = encoder.Encode(poly)
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"Polygon","coordinates":[[0,0],[0,1],[1,1]]}`, jsonOf(t, got))
}

func TestFileAndRelation(t *testing.T) {
	f := NewFile("a.txt")
	_, err := encoder.Encode(f)
	require.ErrorIs(t, err, errors.ErrUnsavedFile)

	f.MarkSaved("tfss-a.txt", "https://files.example/a.txt")
	got, err := encoder.Encode(f)
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"File","name":"tfss-a.txt","url":"https://files.example/a.txt"}`, jsonOf(t, got))

	got, err = encoder.Encode(&Relation{TargetClass: "Tag"})
	require.NoError(t, err)
	assert.Equal(t, `{"__type":"Relation","className":"Tag"}`, jsonOf(t, got))
}

func TestOps(t *testing.T) {
	tag := NewFetched("Tag", "t1", map[string]any{"name": "go"})

	tests := []struct {
		name string
		op   Op
		want string
	}{
		{"set", SetOp{Value: tag}, `{"__type":"Pointer","className":"Tag","objectId":"t1"}`},
		{"unset", UnsetOp{}, `{"__op":"Delete"}`},
		{"increment", IncrementOp{Amount: 1.5}, `{"__op":"Increment","amount":1.5}`},
		{"add", AddOp{Objects: []any{"a", tag}}, `{"__op":"Add","objects":["a",{"__type":"Pointer","className":"Tag","objectId":"t1"}]}`},
		{"add unique", AddUniqueOp{Objects: []any{1}}, `{"__op":"AddUnique","objects":[1]}`},
		{"remove empty", RemoveOp{}, `{"__op":"Remove","objects":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoder.Encode(tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, jsonOf(t, got))
		})
	}
}

func TestOpApply(t *testing.T) {
	tag := NewPointer("Tag", "t1")
	sameTag := NewPointer("Tag", "t1")

	v, ok := AddUniqueOp{Objects: []any{"b", sameTag}}.Apply([]any{"a", tag}, true)
	require.True(t, ok)
	assert.Len(t, v, 3)

	v, _ = RemoveOp{Objects: []any{sameTag}}.Apply([]any{"a", tag}, true)
	assert.Equal(t, []any{"a"}, v)

	v, _ = IncrementOp{Amount: 1}.Apply(int64(4), true)
	assert.Equal(t, 5.0, v)

	_, ok = UnsetOp{}.Apply("x", true)
	assert.False(t, ok)
}

func TestRelationOp(t *testing.T) {
	a := NewPointer("Tag", "a")
	b := NewPointer("Tag", "b")

	op, err := NewRelationOp([]*Object{a}, nil)
	require.NoError(t, err)
	got, err := encoder.Encode(op)
	require.NoError(t, err)
	assert.Equal(t, `{"__op":"AddRelation","objects":[{"__type":"Pointer","className":"Tag","objectId":"a"}]}`, jsonOf(t, got))

	op, err = NewRelationOp([]*Object{a}, []*Object{b})
	require.NoError(t, err)
	got, err = op.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, jsonOf(t, got), `"__op":"Batch"`)

	rel, ok := op.Apply(nil, false)
	require.True(t, ok)
	assert.Equal(t, "Tag", rel.(*Relation).TargetClass)

	_, err = NewRelationOp([]*Object{NewObject("Tag")}, nil)
	require.ErrorIs(t, err, errors.ErrInvalidUse)

	_, err = NewRelationOp([]*Object{a, NewPointer("User", "u")}, nil)
	require.ErrorIs(t, err, errors.ErrInvalidUse)
}

func TestSaveJSONEncodesPointers(t *testing.T) {
	author := NewFetched("User", "u1", map[string]any{"name": "ann"})
	post := NewObject("Post")
	post.Set("author", author)
	post.Add("tags", "go", "json")

	body, err := post.SaveJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"author":{"__type":"Pointer","className":"User","objectId":"u1"},"tags":{"__op":"Add","objects":["go","json"]}}`,
		jsonOf(t, body))
}

func TestLocalIDAssignedOnConstruction(t *testing.T) {
	assert.NotEmpty(t, NewObject("Post").LocalID())
	assert.NotEqual(t, NewObject("Post").LocalID(), NewObject("Post").LocalID())
	assert.Empty(t, NewPointer("Post", "p1").LocalID())
	assert.Empty(t, NewFetched("Post", "p1", nil).LocalID())
}

func TestEncodeSharedUnsavedChildConcurrently(t *testing.T) {
	child := NewObject("Comment")
	parent := NewFetched("Post", "p1", map[string]any{"comment": child})

	const workers = 8
	results := make([]value.Value, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = encoder.Encode(parent)
		}()
	}
	wg.Wait()

	want := `{"comment":{"__type":"Pointer","className":"Comment","_localId":"` + child.LocalID() +
		`"},"objectId":"p1","__type":"Object","className":"Post"}`
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, want, jsonOf(t, results[i]))
	}
}

func TestOpsKeepOfflineForm(t *testing.T) {
	draft := NewObject("Comment")
	draft.SetLocalID("localc1")
	post := NewFetched("Post", "p1", nil)
	post.Set("latest", draft)
	post.Add("comments", draft)

	body, err := post.SaveJSON(encoder.Offline(true))
	require.NoError(t, err)
	assert.Equal(t,
		`{"comments":{"__op":"Add","objects":[{"__type":"Object","className":"Comment","_localId":"localc1"}]},`+
			`"latest":{"__type":"Object","className":"Comment","_localId":"localc1"}}`,
		jsonOf(t, body))

	body, err = post.SaveJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"comments":{"__op":"Add","objects":[{"__type":"Pointer","className":"Comment","_localId":"localc1"}]},`+
			`"latest":{"__type":"Pointer","className":"Comment","_localId":"localc1"}}`,
		jsonOf(t, body))

	got, err := encoder.Encode(AddUniqueOp{Objects: []any{draft}}, encoder.Offline(true), encoder.DisallowObjects(true))
	require.NoError(t, err)
	assert.Equal(t, `{"__op":"AddUnique","objects":[{"__type":"Object","className":"Comment","_localId":"localc1"}]}`, jsonOf(t, got))
}

func TestSaveJSONErrorPath(t *testing.T) {
	post := NewObject("Post")
	post.Add("events", time.Time{})

	_, err := post.SaveJSON()
	require.ErrorIs(t, err, errors.ErrInvalidDate)
	assert.Equal(t, []string{"events", "[0]"}, err.(*errors.Error).Path)
}
