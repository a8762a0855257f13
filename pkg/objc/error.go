package objc

import "fmt"

// Error is the error an Objective-C method reported through its trailing
// NSError ** parameter. Err owns the error object and is nil when the method
// failed without providing one.
type Error[E ObjectType] struct {
	Class       string
	ClassMethod bool
	Selector    string
	Err         *Retained[E]
}

func (e *Error[E]) Error() string {
	m := methodName(e.Class, e.ClassMethod, e.Selector)
	if e.Err == nil {
		return m + " failed without an error"
	}
	return fmt.Sprintf("%s failed with error %s", m, e.Err.ID())
}

// SendWithError sends sel, a method returning BOOL whose last parameter is
// an NSError **, to recv. args omit that parameter. When the method returns
// NO the error it wrote is retained and returned as an *Error[E].
func SendWithError[E ObjectType, Recv MessageReceiver](recv Recv, sel Sel, args ...any) error {
	rt := CurrentRuntime()
	var out ID
	var ok bool
	dispatch(rt, recv, 0, sel, withErrorOut(args, &out), reflectOf(&ok))
	if ok {
		return nil
	}
	return newError[E](rt, IDOf(recv), sel, out)
}

// SendRetainedWithError is SendRetained for methods whose last parameter is
// an NSError **. A NULL result is returned as an *Error[E] holding the error
// the method wrote.
func SendRetainedWithError[T, E ObjectType, Recv MessageReceiver](recv Recv, sel Sel, args ...any) (*Retained[T], error) {
	rt := CurrentRuntime()
	var out ID
	family := FamilyOf(rt.SelName(sel))
	if r := sendRetained[T](rt, family, recv, sel, withErrorOut(args, &out)); r != nil {
		return r, nil
	}
	return nil, newError[E](rt, IDOf(recv), sel, out)
}

// InitWithError is Init for initialisers whose last parameter is an
// NSError **.
func InitWithError[T, E ObjectType](a *Allocated[T], sel Sel, args ...any) (*Retained[T], error) {
	if a == nil {
		return nil, &NilResultError{Family: FamilyAlloc, Selector: "alloc", ClassMethod: true}
	}
	rt := a.own.rt
	var out ID
	if r := Init(a, sel, withErrorOut(args, &out)...); r != nil {
		return r, nil
	}
	// the allocation is gone, so only the selector is known
	return nil, newError[E](rt, 0, sel, out)
}

// withErrorOut appends the NSError ** argument without touching the
// caller's backing array.
func withErrorOut(args []any, out *ID) []any {
	return append(args[:len(args):len(args)], out)
}

func newError[E ObjectType](rt Runtime, recv ID, sel Sel, out ID) *Error[E] {
	e := &Error[E]{Selector: rt.SelName(sel)}
	if recv != 0 {
		cls := rt.ClassOf(recv)
		e.Class = rt.ClassName(cls)
		e.ClassMethod = rt.IsMetaClass(cls)
	}
	if out != 0 {
		// errors are returned autoreleased
		e.Err = adopt[E](rt, rt.Retain(out))
	}
	return e
}
