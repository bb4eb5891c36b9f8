package value

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMarshalJSON(t *testing.T) {
	obj := NewObject(3)
	obj.Set("z", Int(1))
	obj.Set("a", Array{Bool(true), Null{}, String("x")})
	obj.Set("m", Float(1.5))

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null{}, `null`},
		{"true", Bool(true), `true`},
		{"false", Bool(false), `false`},
		{"int", Int(-42), `-42`},
		{"float", Float(0.25), `0.25`},
		{"string", String("a\"b"), `"a\"b"`},
		{"nil array", Array(nil), `[]`},
		{"object keeps order", obj, `{"z":1,"a":[true,null,"x"],"m":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal = %s, want %s", b, tt.want)
			}
		})
	}
}

func TestFloatMarshalNaN(t *testing.T) {
	if _, err := Float(math.NaN()).MarshalJSON(); err == nil {
		t.Error("expected error for NaN")
	}
}

func TestNumber(t *testing.T) {
	if v := Number(3); v != Int(3) {
		t.Errorf("Number(3) = %#v, want Int(3)", v)
	}
	if v := Number(2.5); v != Float(2.5) {
		t.Errorf("Number(2.5) = %#v, want Float(2.5)", v)
	}
	if v := Number(math.Inf(1)); v.Kind() != KindNull {
		t.Errorf("Number(+Inf) = %#v, want Null", v)
	}
}

func TestObjectSetKeepsPosition(t *testing.T) {
	obj := ObjectOf("a", Int(1), "b", Int(2), "c", Int(3))
	obj.Set("a", Int(10))
	obj.Delete("b")

	keys := obj.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("Keys = %v, want [a c]", keys)
	}
	v, ok := obj.Get("a")
	if !ok || v != Int(10) {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := obj.Get("b"); ok {
		t.Error("b should be deleted")
	}
}

func TestParseJSONKeepsOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"b":1,"a":{"y":2.5,"x":[1,"s",null,false]},"big":12345678901234567890}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("ParseJSON = %T, want *Object", v)
	}
	if keys := obj.Keys(); keys[0] != "b" || keys[1] != "a" || keys[2] != "big" {
		t.Errorf("Keys = %v", keys)
	}
	big, _ := obj.Get("big")
	if big.Kind() != KindFloat {
		t.Errorf("out-of-range integer kind = %v, want float", big.Kind())
	}

	b, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(b); got != `{"b":1,"a":{"y":2.5,"x":[1,"s",null,false]},"big":12345678901234567000}` {
		t.Errorf("round trip = %s", got)
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,`, `1 2`, `{"a":}`} {
		if _, err := ParseJSON([]byte(in)); err == nil {
			t.Errorf("ParseJSON(%q) should fail", in)
		}
	}
}

func TestEqual(t *testing.T) {
	a := ObjectOf("x", Int(1), "y", Array{String("s")})
	b := ObjectOf("y", Array{String("s")}, "x", Float(1))

	if !Equal(a, b) {
		t.Error("objects with same members in different order should be equal")
	}
	if Equal(a, ObjectOf("x", Int(1))) {
		t.Error("objects with different sizes should differ")
	}
	if Equal(String("1"), Int(1)) {
		t.Error("string and int should differ")
	}
	if !Equal(nil, Null{}) {
		t.Error("nil should equal Null")
	}
}

func TestInterface(t *testing.T) {
	v := ObjectOf("n", Int(1), "l", Array{Bool(true), Null{}})
	got, ok := Interface(v).(map[string]any)
	if !ok {
		t.Fatalf("Interface = %T", Interface(v))
	}
	if got["n"] != int64(1) {
		t.Errorf("n = %#v", got["n"])
	}
	l := got["l"].([]any)
	if l[0] != true || l[1] != nil {
		t.Errorf("l = %#v", l)
	}
}
