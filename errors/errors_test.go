package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindInvalidUse,
				Path:   []string{"user", "tags", "[2]"},
				GoType: "chan int",
				Detail: "cannot encode",
			},
			contains: []string{"[encode]", "invalid_use", "user.tags[2]", "chan int", "cannot encode"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[decode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCodec,
				Kind:   KindInvalidData,
				Detail: "bad input",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[codec]", "invalid_data", "bad input", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseCodec,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindUnsavedFile,
		Path:  []string{"avatar"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindUnsavedFile}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnsavedFile}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidDate}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrUnsavedFile) {
		t.Error("errors.Is should match the sentinel")
	}
	if errors.Is(err, ErrRecursionLimit) {
		t.Error("errors.Is should not match an unrelated sentinel")
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a.b"},
		{[]string{"items", "[3]", "owner"}, "items[3].owner"},
		{[]string{"[0]", "[1]"}, "[0][1]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := JoinPath(tt.path); got != tt.want {
				t.Errorf("JoinPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindInvalidUse).
		Path("user", "name").
		GoType("func()").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "data", "func").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindInvalidUse {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUse)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "func()" {
		t.Errorf("GoType = %v, want 'func()'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected data, got func" {
		t.Errorf("Detail = %v, want 'expected data, got func'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("RecursionLimit", func(t *testing.T) {
		err := RecursionLimit([]string{"a"}, 1000, 999)
		if !errors.Is(err, ErrRecursionLimit) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRecursionLimit)
		}
		if !strings.Contains(err.Detail, "circular reference") {
			t.Errorf("Detail = %v, should mention circular reference", err.Detail)
		}
		if err.Value != 1000 {
			t.Errorf("Value = %v, want 1000", err.Value)
		}
	})

	t.Run("DisallowedObject", func(t *testing.T) {
		err := DisallowedObject(nil, "Post")
		if !errors.Is(err, ErrDisallowedObject) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDisallowedObject)
		}
		if !strings.Contains(err.Detail, "Post") {
			t.Errorf("Detail = %v, should contain class name", err.Detail)
		}
	})

	t.Run("UnsavedFile", func(t *testing.T) {
		err := UnsavedFile([]string{"avatar"}, "me.png")
		if !errors.Is(err, ErrUnsavedFile) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsavedFile)
		}
	})

	t.Run("InvalidDate", func(t *testing.T) {
		err := InvalidDate(nil, "zero")
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidDate)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseEncode, []string{"cb"}, "func()")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
		if err.GoType != "func()" {
			t.Errorf("GoType = %v, want 'func()'", err.GoType)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseCodec, "codec", "xml")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Error(), `codec "xml" not found`) {
			t.Errorf("Error() = %v", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("eof")
		err := Wrap(PhaseCodec, KindInvalidData, cause, "read yaml")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep cause in chain")
		}
	})
}
