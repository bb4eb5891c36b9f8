package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/payload/codec"
	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/model"
	"github.com/wippyai/payload/value"
)

func TestMarshal(t *testing.T) {
	in := map[string]any{
		"when":  time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
		"owner": model.NewPointer("_User", "u1"),
	}
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"json", "json", `{"owner":{"__type":"Pointer","className":"_User","objectId":"u1"},"when":{"__type":"Date","iso":"2024-01-02T03:04:05.006Z"}}`},
		{"default", "", `{"owner":{"__type":"Pointer","className":"_User","objectId":"u1"},"when":{"__type":"Date","iso":"2024-01-02T03:04:05.006Z"}}`},
		{"go-json", "go-json", `{"owner":{"__type":"Pointer","className":"_User","objectId":"u1"},"when":{"__type":"Date","iso":"2024-01-02T03:04:05.006Z"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(in, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalErrors(t *testing.T) {
	_, err := Marshal(1, "xml")
	assert.ErrorIs(t, err, errors.New(errors.PhaseCodec, errors.KindNotFound).Build())

	_, err = Marshal([]any{model.NewPointer("Item", "a")}, "json", encoder.DisallowObjects(true))
	assert.ErrorIs(t, err, errors.ErrDisallowedObject)
}

func TestMarshalCBORMatchesTree(t *testing.T) {
	in := map[string]any{"n": 1, "tags": []string{"a", "b"}}
	b, err := Marshal(in, "cbor")
	require.NoError(t, err)

	got, err := codec.Read("cbor", b)
	require.NoError(t, err)
	want, err := Encode(in)
	require.NoError(t, err)
	assert.True(t, value.Equal(want, got))
}

func TestTranscode(t *testing.T) {
	in := `{"post":{"__type":"Object","className":"Post","objectId":"p1","title":"x"},"n":2}`

	out, err := Transcode([]byte(in), "json", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"n":2,"post":{"title":"x","objectId":"p1","__type":"Object","className":"Post"}}`, string(out))

	out, err = Transcode([]byte(in), "json", "json", encoder.ForcePointers(true))
	require.NoError(t, err)
	assert.Equal(t, `{"n":2,"post":{"__type":"Pointer","className":"Post","objectId":"p1"}}`, string(out))
}

func TestTranscodeYAMLInput(t *testing.T) {
	in := "owner:\n  __type: Pointer\n  className: _User\n  objectId: u1\n"
	out, err := Transcode([]byte(in), "yaml", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"owner":{"__type":"Pointer","className":"_User","objectId":"u1"}}`, string(out))
}

func TestUnmarshalInvalid(t *testing.T) {
	_, err := Unmarshal([]byte(`{"d":{"__type":"Date","iso":"yesterday"}}`), "json")
	require.Error(t, err)
	e, ok := err.(*errors.Error)
	require.True(t, ok)
	assert.Equal(t, errors.PhaseDecode, e.Phase)
	assert.Equal(t, []string{"d"}, e.Path)
}
