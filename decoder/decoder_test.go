package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/model"
	"github.com/wippyai/payload/value"
)

func parse(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := value.ParseJSON([]byte(s))
	require.NoError(t, err)
	return v
}

func TestDecodePlainDataUnchanged(t *testing.T) {
	in := parse(t, `{"z":1,"a":[true,{"k":"v"}],"__type":"Custom"}`)
	got, err := Decode(in)
	require.NoError(t, err)
	assert.Same(t, in.(*value.Object), got.(*value.Object))
}

func TestDecodeTypedValues(t *testing.T) {
	got, err := Decode(parse(t, `{"__type":"Date","iso":"2024-01-01T00:00:00.000Z"}`))
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(got.(time.Time)))

	got, err = Decode(parse(t, `{"__type":"Pointer","className":"Post","objectId":"p1"}`))
	require.NoError(t, err)
	obj := got.(*model.Object)
	assert.Equal(t, "Post", obj.ClassName())
	assert.Equal(t, "p1", obj.ID())
	assert.Empty(t, obj.ServerData())

	got, err = Decode(parse(t, `{"__type":"Object","className":"Post","objectId":"p1","title":"hi","ACL":{"*":{"read":true}}}`))
	require.NoError(t, err)
	obj = got.(*model.Object)
	title, _ := obj.Get("title")
	assert.Equal(t, value.String("hi"), title)
	acl, _ := obj.Get("ACL")
	assert.True(t, acl.(*model.ACL).ReadAccess("*"))

	got, err = Decode(parse(t, `{"__type":"GeoPoint","latitude":1,"longitude":2.5}`))
	require.NoError(t, err)
	assert.Equal(t, model.GeoPoint{Latitude: 1, Longitude: 2.5}, got)

	got, err = Decode(parse(t, `{"__type":"File","name":"a.txt","url":"https://f/a.txt"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://f/a.txt", got.(*model.File).URL())

	got, err = Decode(parse(t, `{"__type":"Relation","className":"Tag"}`))
	require.NoError(t, err)
	assert.Equal(t, "Tag", got.(*model.Relation).TargetClass)

	got, err = Decode(parse(t, `{"__type":"Polygon","coordinates":[[0,0],[0,1],[1,1]]}`))
	require.NoError(t, err)
	assert.Len(t, got.(*model.Polygon).Points, 3)
}

func TestDecodeOfflineObject(t *testing.T) {
	got, err := Decode(parse(t, `{"__type":"Object","className":"Post","_localId":"local42"}`))
	require.NoError(t, err)
	obj := got.(*model.Object)
	assert.Empty(t, obj.ID())
	assert.Equal(t, "local42", obj.LocalID())
}

func TestDecodeOps(t *testing.T) {
	got, err := Decode(parse(t, `{"__op":"Increment","amount":3}`))
	require.NoError(t, err)
	assert.Equal(t, model.IncrementOp{Amount: 3}, got)

	got, err = Decode(parse(t, `{"__op":"Delete"}`))
	require.NoError(t, err)
	assert.Equal(t, model.UnsetOp{}, got)

	got, err = Decode(parse(t, `{"__op":"AddUnique","objects":["a",{"__type":"Pointer","className":"Tag","objectId":"t"}]}`))
	require.NoError(t, err)
	op := got.(model.AddUniqueOp)
	require.Len(t, op.Objects, 2)
	assert.Equal(t, value.String("a"), op.Objects[0])
	assert.IsType(t, &model.Object{}, op.Objects[1])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		path []string
	}{
		{"bad date", `{"when":{"__type":"Date","iso":"yesterday"}}`, []string{"when"}},
		{"date without iso", `{"__type":"Date"}`, nil},
		{"pointer without id", `{"__type":"Pointer","className":"Post"}`, nil},
		{"latitude out of range", `[{"__type":"GeoPoint","latitude":100,"longitude":0}]`, []string{"[0]"}},
		{"short polygon", `{"__type":"Polygon","coordinates":[[0,0]]}`, nil},
		{"unknown op", `{"__op":"Explode"}`, nil},
		{"relation with plain value", `{"__op":"AddRelation","objects":[1]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(parse(t, tt.in))
			require.Error(t, err)
			e, ok := err.(*errors.Error)
			require.True(t, ok, "error %T", err)
			assert.Equal(t, errors.PhaseDecode, e.Phase)
			assert.Equal(t, errors.KindInvalidData, e.Kind)
			if tt.path != nil {
				assert.Equal(t, tt.path, e.Path)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := []string{
		`{"__type":"Date","iso":"2024-06-01T12:30:00.123Z"}`,
		`{"__type":"Pointer","className":"Post","objectId":"p1"}`,
		`{"title":"hi","tags":["a","b"],"objectId":"p1","__type":"Object","className":"Post"}`,
		`{"where":{"location":{"__type":"GeoPoint","latitude":40,"longitude":-73.5}},"limit":10}`,
		`{"__op":"Add","objects":[{"__type":"Pointer","className":"Tag","objectId":"t"}]}`,
		`{"__op":"Batch","ops":[{"__op":"AddRelation","objects":[{"__type":"Pointer","className":"Tag","objectId":"a"}]},{"__op":"RemoveRelation","objects":[{"__type":"Pointer","className":"Tag","objectId":"b"}]}]}`,
		`[{"__type":"File","name":"a.txt","url":"https://f/a.txt"},{"__type":"Relation","className":"Tag"}]`,
		`{"__type":"Polygon","coordinates":[[0,0],[0,1],[1,1]]}`,
	}

	for _, p := range payloads {
		t.Run(p, func(t *testing.T) {
			in := parse(t, p)
			decoded, err := Decode(in)
			require.NoError(t, err)
			out, err := encoder.Encode(decoded)
			require.NoError(t, err)
			assert.True(t, value.Equal(in, out), "got %s", mustString(out))
		})
	}
}

func TestRoundTripOffline(t *testing.T) {
	in := parse(t, `{"__type":"Object","className":"Post","_localId":"local42"}`)
	decoded, err := Decode(in)
	require.NoError(t, err)
	out, err := encoder.Encode(decoded, encoder.Offline(true))
	require.NoError(t, err)
	assert.True(t, value.Equal(in, out))
}

func mustString(v value.Value) string {
	b, _ := v.MarshalJSON()
	return string(b)
}
