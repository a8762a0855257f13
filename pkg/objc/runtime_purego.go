//go:build darwin || linux

package objc

import (
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/apex/log"
	"github.com/ebitengine/purego"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// objcSuper is struct objc_super.
type objcSuper struct {
	receiver   ID
	superClass Class
}

// stubKey identifies a Go function stub: the C entry point and the ABI
// signature it is called with.
type stubKey struct {
	fn  uintptr
	sig string
}

// nativeRuntime drives libobjc through purego. Function stubs are built once
// per entry point and signature; every send still goes through the runtime's
// trampoline.
type nativeRuntime struct {
	lib   uintptr
	stubs *lru.Cache[stubKey, reflect.Value]
	send  sender

	retain                 func(ID) ID
	release                func(ID)
	autorelease            func(ID) ID
	poolPush               func() uintptr
	poolPop                func(uintptr)
	selRegisterName        func(string) Sel
	selGetName             func(Sel) string
	getClass               func(string) Class
	objectGetClass         func(ID) Class
	classGetName           func(Class) string
	classIsMetaClass       func(Class) bool
	classGetInstanceMethod func(Class, Sel) uintptr
	methodGetTypeEncoding  func(uintptr) string
}

// sender resolves the C function a message is sent through and the first
// argument it takes.
type sender interface {
	target(rt *nativeRuntime, m *Message, ret reflect.Type) (fn uintptr, self reflect.Value, keep any)
}

func openNative(path string, opts Options, s sender) (*nativeRuntime, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	stubs, err := lru.New[stubKey, reflect.Value](opts.StubCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stub cache")
	}
	r := &nativeRuntime{lib: lib, stubs: stubs, send: s}
	for name, fptr := range map[string]any{
		"objc_retain":              &r.retain,
		"objc_release":             &r.release,
		"objc_autorelease":         &r.autorelease,
		"objc_autoreleasePoolPush": &r.poolPush,
		"objc_autoreleasePoolPop":  &r.poolPop,
		"sel_registerName":         &r.selRegisterName,
		"sel_getName":              &r.selGetName,
		"objc_getClass":            &r.getClass,
		"object_getClass":          &r.objectGetClass,
		"class_getName":            &r.classGetName,
		"class_isMetaClass":        &r.classIsMetaClass,
		"class_getInstanceMethod":  &r.classGetInstanceMethod,
		"method_getTypeEncoding":   &r.methodGetTypeEncoding,
	} {
		if _, err := purego.Dlsym(lib, name); err != nil {
			return nil, errors.Wrapf(err, "%s: missing symbol %s", path, name)
		}
		purego.RegisterLibFunc(fptr, lib, name)
	}
	log.WithField("library", path).Debug("objc: loaded runtime")
	return r, nil
}

func (r *nativeRuntime) lookup(name string) uintptr {
	addr, err := purego.Dlsym(r.lib, name)
	if err != nil {
		panic(errors.Wrapf(err, "objc: missing %s", name))
	}
	return addr
}

func signature(in []reflect.Type, out reflect.Type) string {
	var sb strings.Builder
	for _, t := range in {
		sb.WriteString(t.String())
		sb.WriteByte(',')
	}
	sb.WriteString("->")
	if out != nil {
		sb.WriteString(out.String())
	}
	return sb.String()
}

// stub returns a Go function calling fn with the given signature.
func (r *nativeRuntime) stub(fn uintptr, in []reflect.Type, out reflect.Type) reflect.Value {
	key := stubKey{fn: fn, sig: signature(in, out)}
	if v, ok := r.stubs.Get(key); ok {
		return v
	}
	var outs []reflect.Type
	if out != nil {
		outs = []reflect.Type{out}
	}
	fp := reflect.New(reflect.FuncOf(in, outs, false))
	purego.RegisterFunc(fp.Interface(), fn)
	v := fp.Elem()
	r.stubs.Add(key, v)
	return v
}

func (r *nativeRuntime) Invoke(m *Message) {
	var ret reflect.Type
	if m.Result.IsValid() {
		ret = m.Result.Type()
	}
	fn, self, keep := r.send.target(r, m, ret)
	if fn == 0 {
		return
	}
	in := make([]reflect.Type, 0, len(m.Args)+2)
	vals := make([]reflect.Value, 0, len(m.Args)+2)
	in = append(in, self.Type(), uintptrType)
	vals = append(vals, self, reflect.ValueOf(uintptr(m.Sel)))
	for _, a := range m.Args {
		in = append(in, a.Type())
		vals = append(vals, a)
	}
	res := r.stub(fn, in, ret).Call(vals)
	runtime.KeepAlive(keep)
	if ret != nil {
		m.Result.Set(res[0])
	}
}

func superValue(m *Message) (reflect.Value, *objcSuper) {
	sup := &objcSuper{receiver: m.Receiver, superClass: m.Super}
	return reflect.ValueOf(unsafe.Pointer(sup)), sup
}

func (r *nativeRuntime) Retain(id ID) ID       { return r.retain(id) }
func (r *nativeRuntime) Release(id ID)         { r.release(id) }
func (r *nativeRuntime) Autorelease(id ID) ID  { return r.autorelease(id) }
func (r *nativeRuntime) PushPool() uintptr     { return r.poolPush() }
func (r *nativeRuntime) PopPool(token uintptr) { r.poolPop(token) }

func (r *nativeRuntime) RegisterName(name string) Sel { return r.selRegisterName(name) }
func (r *nativeRuntime) SelName(sel Sel) string       { return r.selGetName(sel) }
func (r *nativeRuntime) GetClass(name string) Class   { return r.getClass(name) }
func (r *nativeRuntime) ClassOf(id ID) Class          { return r.objectGetClass(id) }
func (r *nativeRuntime) ClassName(cls Class) string   { return r.classGetName(cls) }
func (r *nativeRuntime) IsMetaClass(cls Class) bool   { return r.classIsMetaClass(cls) }

func (r *nativeRuntime) MethodTypeEncoding(cls Class, sel Sel) (string, bool) {
	m := r.classGetInstanceMethod(cls, sel)
	if m == 0 {
		return "", false
	}
	return r.methodGetTypeEncoding(m), true
}
