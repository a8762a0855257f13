package objc

import "fmt"

// ID is a raw, mutable pointer to an Objective-C object.
type ID uintptr

// ConstPtr is a raw pointer to an Objective-C object that may only be read through.
type ConstPtr uintptr

// Sel is a registered selector.
type Sel uintptr

// Class is a pointer to an Objective-C class (or metaclass) object.
type Class uintptr

// IMP is a method implementation pointer.
type IMP uintptr

// RegisterName registers name with the active runtime and returns its selector.
func RegisterName(name string) Sel {
	return CurrentRuntime().RegisterName(name)
}

// Name returns the selector's name.
func (s Sel) Name() string {
	if s == 0 {
		return "<null selector>"
	}
	return CurrentRuntime().SelName(s)
}

// GetClass returns the class named name, or 0 when it is not loaded.
func GetClass(name string) Class {
	return CurrentRuntime().GetClass(name)
}

func (c Class) Name() string {
	if c == 0 {
		return "nil"
	}
	return CurrentRuntime().ClassName(c)
}

func (c Class) IsMetaClass() bool {
	return c != 0 && CurrentRuntime().IsMetaClass(c)
}

// Class returns the class of the object, or 0 for nil.
func (id ID) Class() Class {
	if id == 0 {
		return 0
	}
	return CurrentRuntime().ClassOf(id)
}

func (id ID) String() string {
	return fmt.Sprintf("%#x", uintptr(id))
}

// Object is an immutable reference to an Objective-C object. Generated
// bindings embed it to get a typed reference:
//
//	type NSData struct{ objc.Object }
type Object struct {
	id ID
}

// ObjectFrom wraps a raw object pointer. It does not retain.
func ObjectFrom(id ID) Object {
	return Object{id: id}
}

func (o Object) ID() ID {
	return o.id
}

func (o Object) IsNil() bool {
	return o.id == 0
}

func (o *Object) setID(id ID) {
	o.id = id
}

// AnyObject is the untyped object reference.
type AnyObject struct{ Object }

// ObjectType is satisfied by Object wrappers. It lets generic code rebuild a
// typed reference from a raw pointer.
type ObjectType interface {
	~struct{ Object }
	MessageReceiver
	ID() ID
}

// Wrap reinterprets id as a T without retaining it.
func Wrap[T ObjectType](id ID) T {
	return T(struct{ Object }{Object{id: id}})
}

// idSetter is implemented by pointers to every type a raw object result can be
// rebuilt into.
type idSetter interface {
	setID(ID)
}
