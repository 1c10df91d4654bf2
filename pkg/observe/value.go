package observe

import (
	"encoding"
	"fmt"
	"math"
	"reflect"

	"github.com/aretw0/deepwatch/pkg/domain"
)

type shape int

const (
	shapeScalar shape = iota
	shapeRecord
	shapeSequence
	shapeView
	shapeUnsupported
)

// classify reports how a value is observed. []byte and TextMarshaler values
// (time.Time, net.IP, ...) are scalars even though their kind is container-like.
func classify(v any) shape {
	if domain.IsUndefined(v) {
		return shapeScalar
	}
	switch v.(type) {
	case nil:
		return shapeScalar
	case map[string]any:
		return shapeRecord
	case []any:
		return shapeSequence
	case *View:
		return shapeView
	case []byte, encoding.TextMarshaler:
		return shapeScalar
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return shapeUnsupported
	case reflect.Pointer:
		switch rv.Type().Elem().Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			return shapeUnsupported
		}
	}
	return shapeScalar
}

func isContainer(v any) bool {
	s := classify(v)
	return s == shapeRecord || s == shapeSequence
}

func typeName(v any) string {
	if _, ok := v.(*View); ok {
		return "view of another tree"
	}
	return fmt.Sprintf("%T", v)
}

// same is the no-op test of a write: identity for containers and views, value
// equality for scalars. NaN equals NaN.
func same(a, b any) bool {
	if domain.IsUndefined(a) || domain.IsUndefined(b) {
		return domain.IsUndefined(a) && domain.IsUndefined(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map:
		return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.Cap() > 0 && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Float32, reflect.Float64:
		fa, fb := reflect.ValueOf(a).Float(), reflect.ValueOf(b).Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	}
	if !ta.Comparable() {
		return false
	}
	return equalScalars(a, b)
}

// equalScalars compares with ==, treating a runtime panic (an incomparable value
// nested in an interface field) as inequality.
func equalScalars(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
