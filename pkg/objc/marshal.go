package objc

import (
	"fmt"
	"reflect"
	"unsafe"
)

var (
	receiverType      = reflect.TypeFor[MessageReceiver]()
	idSetterType      = reflect.TypeFor[idSetter]()
	uintptrType       = reflect.TypeFor[uintptr]()
	unsafePointerType = reflect.TypeFor[unsafe.Pointer]()
	voidType          = reflect.TypeFor[struct{}]()
	selType           = reflect.TypeFor[Sel]()
	classType         = reflect.TypeFor[Class]()
	classRefType      = reflect.TypeFor[ClassRef]()
	impType           = reflect.TypeFor[IMP]()
)

// basicTypes are the canonical ABI types of the scalar kinds.
var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int64](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint64](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Uintptr: uintptrType,
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
}

// isObjectType reports whether values of t are object pointers on the wire.
func isObjectType(t reflect.Type) bool {
	return t.Implements(receiverType) || reflect.PointerTo(t).Implements(idSetterType)
}

// abiCompatible reports whether t can cross the C ABI unchanged.
func abiCompatible(t reflect.Type) bool {
	if _, ok := basicTypes[t.Kind()]; ok {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return abiCompatible(t.Elem())
	case reflect.Struct:
		if isObjectType(t) {
			return true
		}
		for i := range t.NumField() {
			if !abiCompatible(t.Field(i).Type) {
				return false
			}
		}
		return true
	}
	return false
}

// marshalArgs converts Go arguments into ABI values, returning the values and
// the Go types they came from.
func marshalArgs(args []any) ([]reflect.Value, []reflect.Type) {
	if len(args) == 0 {
		return nil, nil
	}
	vals := make([]reflect.Value, len(args))
	types := make([]reflect.Type, len(args))
	for i, a := range args {
		vals[i], types[i] = marshalArg(i, a)
	}
	return vals, types
}

func marshalArg(i int, a any) (reflect.Value, reflect.Type) {
	switch v := a.(type) {
	case nil:
		return reflect.ValueOf(uintptr(0)), reflect.TypeFor[ID]()
	case MessageReceiver:
		id, _ := v.messageTarget()
		return reflect.ValueOf(uintptr(id)), reflect.TypeOf(a)
	case interface{ ID() ID }:
		// Mut and Allocated are not receivers but still pass as objects.
		return reflect.ValueOf(uintptr(v.ID())), reflect.TypeOf(a)
	}
	rv := reflect.ValueOf(a)
	t := rv.Type()
	if bt, ok := basicTypes[t.Kind()]; ok {
		return rv.Convert(bt), t
	}
	switch t.Kind() {
	case reflect.UnsafePointer:
		return rv, t
	case reflect.Pointer:
		return reflect.ValueOf(rv.UnsafePointer()), t
	case reflect.Struct, reflect.Array:
		if abiCompatible(t) {
			return rv, t
		}
	}
	panic(fmt.Sprintf("objc: argument %d: cannot pass %s to Objective-C", i, t))
}

// abiResultType returns the ABI type the trampoline returns for a Go result
// type t, or nil for void.
func abiResultType(t reflect.Type) reflect.Type {
	if t == voidType {
		return nil
	}
	if reflect.PointerTo(t).Implements(idSetterType) {
		return uintptrType
	}
	if bt, ok := basicTypes[t.Kind()]; ok {
		return bt
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return unsafePointerType
	case reflect.Struct:
		if abiCompatible(t) {
			return t
		}
	}
	panic(fmt.Sprintf("objc: cannot return %s from Objective-C", t))
}

// storeResult reinterprets the raw ABI result into out.
func storeResult(out, raw reflect.Value) {
	t := out.Type()
	switch {
	case reflect.PointerTo(t).Implements(idSetterType):
		p := reflect.New(t)
		p.Interface().(idSetter).setID(ID(raw.Uint()))
		out.Set(p.Elem())
	case t.Kind() == reflect.Pointer:
		out.Set(reflect.NewAt(t.Elem(), raw.UnsafePointer()))
	case raw.Type() == t:
		out.Set(raw)
	default:
		out.Set(raw.Convert(t))
	}
}
