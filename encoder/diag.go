package encoder

import (
	"fmt"
	"reflect"

	"github.com/wippyai/payload/errors"
	"go.uber.org/zap"
)

const previewLimit = 256

// typeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// preview renders v for logs without descending into containers, which
// may be cyclic.
func preview(v any) string {
	if v == nil {
		return "nil"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Chan:
		return fmt.Sprintf("%s(len=%d)", rv.Type(), rv.Len())
	case reflect.Struct, reflect.Pointer, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return rv.Type().String()
	}
	s := fmt.Sprintf("%v", v)
	if len(s) > previewLimit {
		s = s[:previewLimit] + "..."
	}
	return s
}

func (st *State) trace(msg string, v any) {
	if !st.enc.debug {
		return
	}
	st.enc.opts.Logger.Debug(msg,
		zap.String("path", errors.JoinPath(st.path)),
		zap.Int("depth", st.depth),
		zap.String("type", typeName(v)),
	)
}

// logRecursionLimit reports the value and flags that hit the ceiling so a
// cyclic input can be tracked down.
func (st *State) logRecursionLimit(v any) {
	o := st.enc.opts
	o.Logger.Error("encoding failed due to high number of recursive calls, likely caused by circular reference within object",
		zap.String("value", preview(v)),
		zap.String("path", errors.JoinPath(st.path)),
		zap.Int("depth", st.depth),
		zap.Int("max_depth", o.MaxDepth),
		zap.Bool("disallow_objects", o.DisallowObjects),
		zap.Bool("force_pointers", o.ForcePointers),
		zap.Bool("offline", o.Offline),
		zap.Strings("seen", st.seen.Entries()),
	)
}
