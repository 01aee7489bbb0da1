package lifetime

import (
	"fmt"
	"reflect"

	"github.com/funvibe/lifetime/internal/evaluator"
)

// RuntimeError is the Go form of an error value.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// FunctionRef stands for a function value on the Go side. It cannot be
// called from Go.
type FunctionRef struct {
	Name       string
	Parameters []string
}

// Marshaller handles conversion between Go and program values. Values it
// creates are allocated on the given heap; the caller binds them.
type Marshaller struct {
	heap *evaluator.Heap
}

func NewMarshaller(heap *evaluator.Heap) *Marshaller {
	return &Marshaller{heap: heap}
}

// ToValue converts a Go value to a program value.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Value, error) {
	if val == nil {
		return evaluator.UNIT, nil
	}

	// Values from the same heap are copied so the caller owns the result
	if obj, ok := val.(evaluator.Value); ok {
		return m.heap.Copy(obj), nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.I64{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.U64{Value: v.Uint()}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.F64{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return &evaluator.U64{Value: 1}, nil
		}
		return &evaluator.U64{Value: 0}, nil
	case reflect.String:
		return m.heap.NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		return m.sliceToList(v)
	case reflect.Func:
		return m.funcToNative(v)
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

// FromValue converts a program value to a Go value. targetType is
// optional; if provided, the result is converted to it.
func (m *Marshaller) FromValue(obj evaluator.Value, targetType reflect.Type) (interface{}, error) {
	var out interface{}
	switch o := obj.(type) {
	case nil, *evaluator.Unit:
		return nil, nil
	case *evaluator.U64:
		out = o.Value
	case *evaluator.I64:
		out = o.Value
	case *evaluator.F64:
		out = o.Value
	case *evaluator.String:
		out = o.Value
	case *evaluator.Error:
		out = &RuntimeError{Message: o.Message}
	case *evaluator.List:
		return m.listToSlice(o, targetType)
	case *evaluator.Function:
		out = &FunctionRef{Name: o.Name, Parameters: append([]string(nil), o.Parameters...)}
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", obj.Type())
	}

	if targetType == nil || targetType.Kind() == reflect.Interface {
		return out, nil
	}
	rv := reflect.ValueOf(out)
	if rv.Type().AssignableTo(targetType) {
		return out, nil
	}
	if isNumberKind(rv.Kind()) && isNumberKind(targetType.Kind()) {
		return rv.Convert(targetType).Interface(), nil
	}
	return nil, fmt.Errorf("cannot convert %s to %s", obj.Type(), targetType)
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (m *Marshaller) sliceToList(v reflect.Value) (*evaluator.List, error) {
	elements := make([]evaluator.Value, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			for _, el := range elements[:i] {
				m.heap.Release(el)
			}
			return nil, err
		}
		elements[i] = val
	}
	return m.heap.NewList(elements), nil
}

func (m *Marshaller) listToSlice(l *evaluator.List, targetType reflect.Type) (interface{}, error) {
	// If targetType is nil, default to []interface{}
	elemType := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(l.Elements))
	for _, el := range l.Elements {
		val, err := m.FromValue(el, elemType)
		if err != nil {
			return nil, err
		}
		if val == nil {
			slice = reflect.Append(slice, reflect.Zero(elemType))
			continue
		}
		slice = reflect.Append(slice, reflect.ValueOf(val))
	}
	return slice.Interface(), nil
}

// funcToNative wraps a Go function as a builtin. Parameters are named
// arg0, arg1 and so on; a trailing error result becomes an error value.
func (m *Marshaller) funcToNative(fn reflect.Value) (*evaluator.Function, error) {
	fnType := fn.Type()
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("variadic functions are not supported")
	}
	if fnType.NumOut() > 2 {
		return nil, fmt.Errorf("functions may return at most a value and an error")
	}

	params := make([]string, fnType.NumIn())
	for i := range params {
		params[i] = fmt.Sprintf("arg%d", i)
	}

	heap := m.heap
	native := func(frame *evaluator.Scope) evaluator.Value {
		goArgs := make([]reflect.Value, len(params))
		for i, name := range params {
			b, ok := frame.Resolve(name)
			if !ok {
				return heap.NewError("%s is not defined", name)
			}
			val, err := m.FromValue(b.Value, fnType.In(i))
			if err != nil {
				return heap.NewError("argument %d conversion failed: %v", i, err)
			}
			if val == nil {
				goArgs[i] = reflect.Zero(fnType.In(i))
			} else {
				goArgs[i] = reflect.ValueOf(val)
			}
		}

		results := fn.Call(goArgs)
		if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
			if err, _ := results[n-1].Interface().(error); err != nil {
				return heap.NewError("%v", err)
			}
			results = results[:n-1]
		}
		if len(results) == 0 {
			return evaluator.UNIT
		}
		val, err := m.ToValue(results[0].Interface())
		if err != nil {
			return heap.NewError("result conversion failed: %v", err)
		}
		return val
	}
	return heap.NewNative("", params, native), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
