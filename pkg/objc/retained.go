package objc

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/apex/log"
)

// owner holds the single reference a handle owns. It lives apart from the
// handle so the garbage collector cleanup can reach it without keeping the
// handle alive.
type owner struct {
	rt   Runtime
	id   ID
	done atomic.Bool
}

// relinquish marks the reference as no longer owned, reporting whether this
// call was the first to do so.
func (o *owner) relinquish() bool {
	return o.done.CompareAndSwap(false, true)
}

func (o *owner) release() bool {
	if !o.relinquish() {
		return false
	}
	o.rt.Release(o.id)
	return true
}

func releaseUnreachable(o *owner) {
	if o.release() {
		log.WithField("object", o.id).Debug("objc: released unreachable handle")
	}
}

// Retained is a handle owning one +1 reference to an object of type T.
//
// The reference is released exactly once: by Release, or when the handle
// becomes unreachable. IntoRaw and Autorelease hand the reference off
// instead. A nil *Retained stands for a NULL result.
type Retained[T ObjectType] struct {
	obj     T
	own     *owner
	cleanup runtime.Cleanup
}

func adopt[T ObjectType](rt Runtime, id ID) *Retained[T] {
	if id == 0 {
		return nil
	}
	own := &owner{rt: rt, id: id}
	r := &Retained[T]{obj: Wrap[T](id), own: own}
	r.cleanup = runtime.AddCleanup(r, releaseUnreachable, own)
	return r
}

// Adopt takes ownership of a +1 reference. It returns nil for a nil id.
func Adopt[T ObjectType](id ID) *Retained[T] {
	return adopt[T](CurrentRuntime(), id)
}

// RetainID retains a +0 reference and returns a handle owning the new
// reference. It returns nil for a nil id.
func RetainID[T ObjectType](id ID) *Retained[T] {
	if id == 0 {
		return nil
	}
	rt := CurrentRuntime()
	return adopt[T](rt, rt.Retain(id))
}

func (r *Retained[T]) live() {
	if r == nil {
		return
	}
	if r.own.done.Load() {
		panic(fmt.Sprintf("objc: use of relinquished handle to %s", r.own.id))
	}
}

// Get returns the borrowed typed reference. It is valid while the handle
// still owns the object.
func (r *Retained[T]) Get() T {
	r.live()
	return r.obj
}

// ID returns the object's id, or 0 for a nil handle.
func (r *Retained[T]) ID() ID {
	if r == nil {
		return 0
	}
	return r.own.id
}

// A nil handle messages nil, like a NULL id does.
func (r *Retained[T]) messageTarget() (ID, Access) {
	if r == nil {
		return 0, Immutable
	}
	r.live()
	return r.own.id, Immutable
}

// Mut returns a mutable reference. The handle must be the only reference to
// the object the caller is using.
func (r *Retained[T]) Mut() Mut[T] {
	r.live()
	return Mut[T]{obj: r.obj}
}

// Clone retains the object and returns a second handle.
func (r *Retained[T]) Clone() *Retained[T] {
	r.live()
	return adopt[T](r.own.rt, r.own.rt.Retain(r.own.id))
}

// Release gives up the handle's reference. Calling it more than once, or on
// a nil handle, is a no-op.
func (r *Retained[T]) Release() {
	if r == nil {
		return
	}
	if r.own.release() {
		r.cleanup.Stop()
	}
}

// IntoRaw relinquishes ownership and returns the +1 pointer. The caller
// becomes responsible for releasing it.
func (r *Retained[T]) IntoRaw() ID {
	if r == nil {
		return 0
	}
	if !r.own.relinquish() {
		panic(fmt.Sprintf("objc: use of relinquished handle to %s", r.own.id))
	}
	r.cleanup.Stop()
	return r.own.id
}

// Autorelease hands the reference to the innermost autorelease pool and
// returns a reference valid until the pool drains.
func (r *Retained[T]) Autorelease() T {
	if r == nil {
		var zero T
		return zero
	}
	rt := r.own.rt
	id := r.IntoRaw()
	rt.Autorelease(id)
	return r.obj
}

// Allocated is an allocated but uninitialised object. It can only be
// consumed by Init.
type Allocated[T ObjectType] struct {
	own     *owner
	cleanup runtime.Cleanup
}

func (a *Allocated[T]) ID() ID {
	if a == nil {
		return 0
	}
	return a.own.id
}

// Release frees an allocation that will not be initialised.
func (a *Allocated[T]) Release() {
	if a == nil {
		return
	}
	if a.own.release() {
		a.cleanup.Stop()
	}
}

func (a *Allocated[T]) take() ID {
	if !a.own.relinquish() {
		panic(fmt.Sprintf("objc: allocation %s already consumed", a.own.id))
	}
	a.cleanup.Stop()
	return a.own.id
}

func adoptAllocated[T ObjectType](rt Runtime, id ID) *Allocated[T] {
	if id == 0 {
		return nil
	}
	own := &owner{rt: rt, id: id}
	a := &Allocated[T]{own: own}
	a.cleanup = runtime.AddCleanup(a, releaseUnreachable, own)
	return a
}

// SendRetained sends sel to recv and takes ownership of the object result,
// following the memory-management convention of the selector's method
// family. It returns nil when the method returns NULL.
//
// Alloc and init family selectors must go through SendAlloc and Init.
func SendRetained[T ObjectType, Recv MessageReceiver](recv Recv, sel Sel, args ...any) *Retained[T] {
	rt := CurrentRuntime()
	return sendRetained[T](rt, FamilyOf(rt.SelName(sel)), recv, sel, args)
}

// SendRetainedWith is SendRetained with an explicit method family, for
// methods annotated ns_returns_retained or ns_returns_not_retained.
func SendRetainedWith[T ObjectType, Recv MessageReceiver](family Family, recv Recv, sel Sel, args ...any) *Retained[T] {
	return sendRetained[T](CurrentRuntime(), family, recv, sel, args)
}

// SendRetainedNonNil is SendRetained for methods declared to never return
// NULL. A NULL result is reported as a *NilResultError.
func SendRetainedNonNil[T ObjectType, Recv MessageReceiver](recv Recv, sel Sel, args ...any) (*Retained[T], error) {
	rt := CurrentRuntime()
	family := FamilyOf(rt.SelName(sel))
	if r := sendRetained[T](rt, family, recv, sel, args); r != nil {
		return r, nil
	}
	return nil, newNilResultError(rt, family, IDOf(recv), sel)
}

func sendRetained[T ObjectType](rt Runtime, family Family, recv MessageReceiver, sel Sel, args []any) *Retained[T] {
	switch family {
	case FamilyAlloc:
		panic(fmt.Sprintf("objc: %s is an alloc method, use SendAlloc", rt.SelName(sel)))
	case FamilyInit:
		panic(fmt.Sprintf("objc: %s is an init method, use Init", rt.SelName(sel)))
	}
	var raw ID
	dispatch(rt, recv, 0, sel, args, reflectOf(&raw))
	if raw == 0 {
		return nil
	}
	if !family.ReturnsRetained() {
		raw = rt.Retain(raw)
	}
	// an unretained result may be owned by recv
	runtime.KeepAlive(recv)
	return adopt[T](rt, raw)
}

// SendAlloc sends an alloc-family selector to a class.
func SendAlloc[T ObjectType, Recv MessageReceiver](recv Recv, sel Sel, args ...any) *Allocated[T] {
	rt := CurrentRuntime()
	var raw ID
	dispatch(rt, recv, 0, sel, args, reflectOf(&raw))
	return adoptAllocated[T](rt, raw)
}

// SendAllocNonNil is SendAlloc for allocators declared to never return NULL.
func SendAllocNonNil[T ObjectType, Recv MessageReceiver](recv Recv, sel Sel, args ...any) (*Allocated[T], error) {
	if a := SendAlloc[T](recv, sel, args...); a != nil {
		return a, nil
	}
	rt := CurrentRuntime()
	return nil, newNilResultError(rt, FamilyAlloc, IDOf(recv), sel)
}

// Alloc sends +alloc to cls.
func Alloc[T ObjectType, Recv MessageReceiver](cls Recv) *Allocated[T] {
	return SendAlloc[T](cls, RegisterName("alloc"))
}

// Init sends an init-family selector to an allocated object. The allocation
// is consumed whatever the outcome; a nil allocation yields nil.
func Init[T ObjectType](a *Allocated[T], sel Sel, args ...any) *Retained[T] {
	if a == nil {
		return nil
	}
	rt := a.own.rt
	id := a.take()
	var raw ID
	dispatch(rt, id, 0, sel, args, reflectOf(&raw))
	return adopt[T](rt, raw)
}

// InitNonNil is Init for initialisers declared to never return NULL.
func InitNonNil[T ObjectType](a *Allocated[T], sel Sel, args ...any) (*Retained[T], error) {
	if a == nil {
		return nil, &NilResultError{Family: FamilyAlloc, Selector: "alloc", ClassMethod: true}
	}
	rt := a.own.rt
	if r := Init(a, sel, args...); r != nil {
		return r, nil
	}
	return nil, &NilResultError{Family: FamilyInit, Selector: rt.SelName(sel)}
}

// New sends +new to cls.
func New[T ObjectType, Recv MessageReceiver](cls Recv) *Retained[T] {
	rt := CurrentRuntime()
	return sendRetained[T](rt, FamilyNew, cls, rt.RegisterName("new"), nil)
}

// Must returns v, panicking if err is non-nil.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// AutoreleasePool runs fn inside a fresh autorelease pool.
func AutoreleasePool(fn func()) {
	rt := CurrentRuntime()
	token := rt.PushPool()
	defer rt.PopPool(token)
	fn()
}

// NilResultError reports a NULL result from a method declared non-null.
type NilResultError struct {
	Family      Family
	Class       string
	ClassMethod bool
	Selector    string
}

func newNilResultError(rt Runtime, family Family, recv ID, sel Sel) *NilResultError {
	e := &NilResultError{Family: family, Selector: rt.SelName(sel)}
	if recv != 0 {
		cls := rt.ClassOf(recv)
		e.Class = rt.ClassName(cls)
		e.ClassMethod = rt.IsMetaClass(cls)
	}
	return e
}

func (e *NilResultError) method() string {
	return methodName(e.Class, e.ClassMethod, e.Selector)
}

func methodName(class string, classMethod bool, sel string) string {
	kind := "-"
	if classMethod {
		kind = "+"
	}
	if class == "" {
		return kind + sel
	}
	return fmt.Sprintf("%s[%s %s]", kind, class, sel)
}

func (e *NilResultError) Error() string {
	switch e.Family {
	case FamilyNew:
		return "failed creating new instance using " + e.method()
	case FamilyAlloc:
		return "failed allocating with " + e.method()
	case FamilyInit:
		return "failed initializing object with -" + e.Selector
	case FamilyCopy, FamilyMutableCopy:
		return "failed copying object"
	default:
		return "unexpected NULL returned from " + e.method()
	}
}
