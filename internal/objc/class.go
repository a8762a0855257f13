//go:build darwin && cgo && objc

package objc

/*
#include <stdlib.h>
#include <objc/runtime.h>
*/
import "C"

import "unsafe"

type Class uintptr

func GetClass(name string) Class {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Class(unsafe.Pointer(C.objc_getClass(cname)))
}

func (cls Class) cclass() C.Class {
	return C.Class(unsafe.Pointer(cls))
}

func (cls Class) Name() string {
	return C.GoString(C.class_getName(cls.cclass()))
}

func (cls Class) Super() Class {
	return Class(unsafe.Pointer(C.class_getSuperclass(cls.cclass())))
}

// Meta returns the metaclass, which holds the class methods.
func (cls Class) Meta() Class {
	return Class(unsafe.Pointer(C.object_getClass(C.id(unsafe.Pointer(cls)))))
}

func (cls Class) ImageName() string {
	return C.GoString(C.class_getImageName(cls.cclass()))
}

func (cls Class) Methods() []Method {
	var count C.uint
	list := C.class_copyMethodList(cls.cclass(), &count)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))

	out := make([]Method, count)
	for i, m := range unsafe.Slice(list, int(count)) {
		out[i] = Method(unsafe.Pointer(m))
	}
	return out
}

// Protocols returns the names of the protocols the class adopts.
func (cls Class) Protocols() []string {
	var count C.uint
	list := C.class_copyProtocolList(cls.cclass(), &count)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))

	var out []string
	for _, p := range unsafe.Slice(list, int(count)) {
		out = append(out, C.GoString(C.protocol_getName(p)))
	}
	return out
}

func (cls Class) Properties() []Property {
	var count C.uint
	list := C.class_copyPropertyList(cls.cclass(), &count)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))

	out := make([]Property, count)
	for i, p := range unsafe.Slice(list, int(count)) {
		out[i] = Property(unsafe.Pointer(p))
	}
	return out
}

func (cls Class) Ivars() []Ivar {
	var count C.uint
	list := C.class_copyIvarList(cls.cclass(), &count)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))

	out := make([]Ivar, count)
	for i, v := range unsafe.Slice(list, int(count)) {
		out[i] = Ivar(unsafe.Pointer(v))
	}
	return out
}

type Method uintptr

func (m Method) cmethod() C.Method {
	return C.Method(unsafe.Pointer(m))
}

func (m Method) Name() string {
	return C.GoString(C.sel_getName(C.method_getName(m.cmethod())))
}

func (m Method) TypeEncoding() string {
	return C.GoString(C.method_getTypeEncoding(m.cmethod()))
}

type Property uintptr

func (p Property) cprop() C.objc_property_t {
	return C.objc_property_t(unsafe.Pointer(p))
}

func (p Property) Name() string {
	return C.GoString(C.property_getName(p.cprop()))
}

func (p Property) Attributes() string {
	return C.GoString(C.property_getAttributes(p.cprop()))
}

type Ivar uintptr

func (ivar Ivar) civar() C.Ivar {
	return C.Ivar(unsafe.Pointer(ivar))
}

func (ivar Ivar) Name() string {
	return C.GoString(C.ivar_getName(ivar.civar()))
}

func (ivar Ivar) TypeEncoding() string {
	return C.GoString(C.ivar_getTypeEncoding(ivar.civar()))
}
