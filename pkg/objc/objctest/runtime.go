// Package objctest provides an in-memory Objective-C runtime for tests.
//
// The runtime keeps a retain count per object and records every retain,
// release and autorelease so tests can assert on ownership. Over-releasing,
// messaging a deallocated object or sending an unknown selector panics, the
// way a zombie-enabled process would crash.
package objctest

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/blacktop/go-objc/pkg/objc"
)

// Imp implements a method. self is the receiver (a class for class methods);
// args hold the ABI-level argument values, with objects as uintptr. Object
// results are returned as objc.ID.
type Imp func(rt *Runtime, self objc.ID, args []any) any

type method struct {
	types string
	imp   Imp
}

type class struct {
	id      objc.Class
	name    string
	super   *class
	meta    *class
	isMeta  bool
	methods map[objc.Sel]method
}

func (c *class) lookup(sel objc.Sel) (method, bool) {
	for k := c; k != nil; k = k.super {
		if m, ok := k.methods[sel]; ok {
			return m, true
		}
	}
	return method{}, false
}

type object struct {
	class        *class
	retainCount  int
	retains      int
	releases     int
	autoreleases int
	dead         bool
	values       map[string]any
}

// Runtime is a fake objc.Runtime. It is safe for concurrent use.
type Runtime struct {
	mu      sync.Mutex
	next    uintptr
	sels    map[string]objc.Sel
	names   map[objc.Sel]string
	classes map[string]*class
	byID    map[objc.Class]*class
	objects map[objc.ID]*object
	pools   [][]objc.ID
	sends   int
}

var _ objc.Runtime = (*Runtime)(nil)

// New returns a runtime with an NSObject root class implementing alloc, new,
// init, copy, mutableCopy, self, class, hash, isEqual:, retainCount and
// description.
func New() *Runtime {
	r := &Runtime{
		next:    0x1000,
		sels:    make(map[string]objc.Sel),
		names:   make(map[objc.Sel]string),
		classes: make(map[string]*class),
		byID:    make(map[objc.Class]*class),
		objects: make(map[objc.ID]*object),
	}
	r.defineRoot()
	return r
}

// Install makes a new runtime the active objc runtime for the rest of the
// test.
func Install(t interface{ Cleanup(func()) }) *Runtime {
	r := New()
	t.Cleanup(objc.SetRuntime(r))
	return r
}

func (r *Runtime) alloc() uintptr {
	r.next += 0x10
	return r.next
}

func returnSelf(_ *Runtime, self objc.ID, _ []any) any { return self }

func (r *Runtime) defineRoot() {
	root := r.DefineClass("NSObject", "")
	root.ClassMethod("alloc", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Instantiate(objc.Class(self))
	})
	root.ClassMethod("new", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Instantiate(objc.Class(self))
	})
	root.ClassMethod("class", "#16@0:8", returnSelf)
	root.Method("init", "@16@0:8", returnSelf)
	root.Method("self", "@16@0:8", returnSelf)
	root.Method("class", "#16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.ClassOf(self)
	})
	root.Method("copy", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Instantiate(rt.ClassOf(self))
	})
	root.Method("mutableCopy", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Instantiate(rt.ClassOf(self))
	})
	root.Method("hash", "Q16@0:8", func(_ *Runtime, self objc.ID, _ []any) any {
		return uint64(self)
	})
	root.Method("isEqual:", "c24@0:8@16", func(_ *Runtime, self objc.ID, args []any) any {
		return uintptr(self) == args[0].(uintptr)
	})
	root.Method("retainCount", "Q16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return uint64(rt.RetainCount(self))
	})
	root.Method("description", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Autorelease(rt.Instantiate(rt.ClassOf(self)))
	})
}

// ClassBuilder adds methods to a class defined with DefineClass.
type ClassBuilder struct {
	rt  *Runtime
	cls *class
}

// DefineClass defines a class inheriting from super, or a root class when
// super is empty. It panics if super is unknown or name is taken.
func (r *Runtime) DefineClass(name, super string) *ClassBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[name]; ok {
		panic(fmt.Sprintf("objctest: class %s already defined", name))
	}
	var sup *class
	if super != "" {
		var ok bool
		if sup, ok = r.classes[super]; !ok {
			panic(fmt.Sprintf("objctest: unknown superclass %s", super))
		}
	}
	cls := &class{id: objc.Class(r.alloc()), name: name, super: sup, methods: make(map[objc.Sel]method)}
	meta := &class{id: objc.Class(r.alloc()), name: name, isMeta: true, methods: make(map[objc.Sel]method)}
	if sup != nil {
		meta.super = sup.meta
	} else {
		// the root metaclass inherits from the root class
		meta.super = cls
	}
	cls.meta = meta
	r.classes[name] = cls
	r.byID[cls.id] = cls
	r.byID[meta.id] = meta
	return &ClassBuilder{rt: r, cls: cls}
}

func (b *ClassBuilder) Class() objc.Class {
	return b.cls.id
}

// Method adds an instance method.
func (b *ClassBuilder) Method(sel, types string, imp Imp) *ClassBuilder {
	s := b.rt.RegisterName(sel)
	b.rt.mu.Lock()
	b.cls.methods[s] = method{types: types, imp: imp}
	b.rt.mu.Unlock()
	return b
}

// ClassMethod adds a class method.
func (b *ClassBuilder) ClassMethod(sel, types string, imp Imp) *ClassBuilder {
	s := b.rt.RegisterName(sel)
	b.rt.mu.Lock()
	b.cls.meta.methods[s] = method{types: types, imp: imp}
	b.rt.mu.Unlock()
	return b
}

// Instantiate creates an instance of cls with a retain count of one.
func (r *Runtime) Instantiate(cls objc.Class) objc.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cls]
	if !ok || c.isMeta {
		panic(fmt.Sprintf("objctest: cannot instantiate %#x", uintptr(cls)))
	}
	id := objc.ID(r.alloc())
	r.objects[id] = &object{class: c, retainCount: 1, values: make(map[string]any)}
	return id
}

// InstantiateNamed is Instantiate by class name.
func (r *Runtime) InstantiateNamed(name string) objc.ID {
	return r.Instantiate(r.GetClass(name))
}

// objectLocked returns the live object id, panicking on unknown or
// deallocated objects. Class objects return nil.
func (r *Runtime) objectLocked(op string, id objc.ID) *object {
	if _, ok := r.byID[objc.Class(id)]; ok {
		return nil
	}
	o, ok := r.objects[id]
	if !ok {
		panic(fmt.Sprintf("objctest: %s of unknown object %#x", op, uintptr(id)))
	}
	if o.dead {
		panic(fmt.Sprintf("objctest: %s of deallocated %s instance %#x", op, o.class.name, uintptr(id)))
	}
	return o
}

func (r *Runtime) classOfLocked(id objc.ID) *class {
	if c, ok := r.byID[objc.Class(id)]; ok {
		if c.isMeta {
			// every metaclass is an instance of the root metaclass
			for c.super != nil && c.super.isMeta {
				c = c.super
			}
			return c
		}
		return c.meta
	}
	if o, ok := r.objects[id]; ok {
		return o.class
	}
	return nil
}

func (r *Runtime) Invoke(m *objc.Message) {
	if m.Receiver == 0 {
		return
	}
	r.mu.Lock()
	var cls *class
	if m.Super != 0 {
		cls = r.byID[m.Super]
	} else {
		cls = r.classOfLocked(m.Receiver)
	}
	name := r.names[m.Sel]
	if cls == nil {
		r.mu.Unlock()
		panic(fmt.Sprintf("objctest: %s sent to unknown object %#x", name, uintptr(m.Receiver)))
	}
	if o, ok := r.objects[m.Receiver]; ok && o.dead {
		r.mu.Unlock()
		panic(fmt.Sprintf("objctest: %s sent to deallocated %s instance %#x", name, o.class.name, uintptr(m.Receiver)))
	}
	meth, ok := cls.lookup(m.Sel)
	r.sends++
	r.mu.Unlock()

	if !ok {
		kind := "-"
		if cls.isMeta {
			kind = "+"
		}
		panic(fmt.Sprintf("objctest: %s[%s %s]: unrecognized selector sent to %#x", kind, cls.name, name, uintptr(m.Receiver)))
	}
	args := make([]any, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.Interface()
	}
	res := meth.imp(r, m.Receiver, args)
	if m.Result.IsValid() && res != nil {
		m.Result.Set(reflect.ValueOf(res).Convert(m.Result.Type()))
	}
}

func (r *Runtime) Retain(id objc.ID) objc.ID {
	if id == 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.objectLocked("retain", id); o != nil {
		o.retainCount++
		o.retains++
	}
	return id
}

func (r *Runtime) Release(id objc.ID) {
	if id == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.objectLocked("release", id)
	if o == nil {
		return
	}
	o.retainCount--
	o.releases++
	if o.retainCount == 0 {
		o.dead = true
	}
}

func (r *Runtime) Autorelease(id objc.ID) objc.ID {
	if id == 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pools) == 0 {
		panic(fmt.Sprintf("objctest: %#x autoreleased with no pool in place", uintptr(id)))
	}
	if o := r.objectLocked("autorelease", id); o != nil {
		o.autoreleases++
		top := len(r.pools) - 1
		r.pools[top] = append(r.pools[top], id)
	}
	return id
}

func (r *Runtime) PushPool() uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools = append(r.pools, nil)
	return uintptr(len(r.pools))
}

// PopPool drains every pool pushed at or after token.
func (r *Runtime) PopPool(token uintptr) {
	r.mu.Lock()
	if token == 0 || int(token) > len(r.pools) {
		r.mu.Unlock()
		panic(fmt.Sprintf("objctest: invalid autorelease pool token %d", token))
	}
	var drained []objc.ID
	for len(r.pools) >= int(token) {
		top := len(r.pools) - 1
		drained = append(drained, r.pools[top]...)
		r.pools = r.pools[:top]
	}
	r.mu.Unlock()
	for i := len(drained) - 1; i >= 0; i-- {
		r.Release(drained[i])
	}
}

func (r *Runtime) RegisterName(name string) objc.Sel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sels[name]; ok {
		return s
	}
	s := objc.Sel(r.alloc())
	r.sels[name] = s
	r.names[s] = name
	return s
}

func (r *Runtime) SelName(sel objc.Sel) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[sel]
}

func (r *Runtime) GetClass(name string) objc.Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.classes[name]; ok {
		return c.id
	}
	return 0
}

func (r *Runtime) ClassOf(id objc.ID) objc.Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.classOfLocked(id); c != nil {
		return c.id
	}
	return 0
}

func (r *Runtime) ClassName(cls objc.Class) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[cls]; ok {
		return c.name
	}
	return ""
}

func (r *Runtime) IsMetaClass(cls objc.Class) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cls]
	return ok && c.isMeta
}

func (r *Runtime) MethodTypeEncoding(cls objc.Class, sel objc.Sel) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cls]
	if !ok {
		return "", false
	}
	m, ok := c.lookup(sel)
	return m.types, ok
}

func (r *Runtime) probe(id objc.ID) object {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[id]
	if !ok {
		return object{}
	}
	return *o
}

// RetainCount returns the current retain count of id (zero once deallocated).
func (r *Runtime) RetainCount(id objc.ID) int { return r.probe(id).retainCount }

// Retains returns how many times id was retained.
func (r *Runtime) Retains(id objc.ID) int { return r.probe(id).retains }

// Releases returns how many times id was released.
func (r *Runtime) Releases(id objc.ID) int { return r.probe(id).releases }

// Autoreleases returns how many times id was autoreleased.
func (r *Runtime) Autoreleases(id objc.ID) int { return r.probe(id).autoreleases }

// Deallocated reports whether id's retain count dropped to zero.
func (r *Runtime) Deallocated(id objc.ID) bool { return r.probe(id).dead }

// Sends returns the number of messages dispatched to non-nil receivers.
func (r *Runtime) Sends() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sends
}

// Live returns the instances that have not been deallocated, in creation
// order.
func (r *Runtime) Live() []objc.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []objc.ID
	for id, o := range r.objects {
		if !o.dead {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SetValue stores an instance variable on id.
func (r *Runtime) SetValue(id objc.ID, key string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.objectLocked("set", id); o != nil {
		o.values[key] = v
	}
}

// Value loads an instance variable stored by SetValue.
func (r *Runtime) Value(id objc.ID, key string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.objectLocked("get", id); o != nil {
		return o.values[key]
	}
	return nil
}
