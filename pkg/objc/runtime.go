package objc

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/apex/log"
	"github.com/caarlos0/env/v8"
	"github.com/pkg/errors"
)

// ErrUnavailable is returned when no Objective-C runtime can be loaded.
var ErrUnavailable = errors.New("objc: runtime unavailable")

// Message is a single message send in ABI form.
//
// Args hold ABI-level values (object pointers are uintptr). Result is an
// addressable value of the ABI result type that the runtime fills in, or the
// zero Value when the method returns void.
type Message struct {
	Receiver ID
	Super    Class // non-zero for objc_msgSendSuper sends
	Sel      Sel
	Args     []reflect.Value
	Result   reflect.Value
}

// Runtime is the native Objective-C runtime the dispatch layer sits on.
type Runtime interface {
	// Invoke sends m through the runtime's trampoline. Messages to nil
	// leave the zero result.
	Invoke(m *Message)

	Retain(id ID) ID
	Release(id ID)
	Autorelease(id ID) ID
	PushPool() uintptr
	PopPool(token uintptr)

	RegisterName(name string) Sel
	SelName(sel Sel) string
	GetClass(name string) Class
	ClassOf(id ID) Class
	ClassName(cls Class) string
	IsMetaClass(cls Class) bool
	// MethodTypeEncoding returns the type encoding of the instance method sel
	// on cls (class methods live on the metaclass).
	MethodTypeEncoding(cls Class, sel Sel) (string, bool)
}

// Options are read from the environment the first time a runtime is needed.
type Options struct {
	Verify        bool   `env:"OBJC_VERIFY"`
	Library       string `env:"OBJC_LIBRARY"`
	StubCacheSize int    `env:"OBJC_STUB_CACHE_SIZE" envDefault:"256"`
}

var (
	optsOnce sync.Once
	opts     Options

	verify atomic.Bool

	rtMu     sync.RWMutex
	active   Runtime
	nativeMu sync.Mutex
	native   Runtime
	nativeEr error
)

// GetOptions returns the environment options.
func GetOptions() Options {
	optsOnce.Do(func() {
		if err := env.Parse(&opts); err != nil {
			log.WithError(err).Warn("objc: failed to parse environment options")
		}
		if opts.StubCacheSize <= 0 {
			opts.StubCacheSize = 256
		}
		verify.Store(opts.Verify)
	})
	return opts
}

// SetVerify turns send verification on or off.
func SetVerify(on bool) {
	GetOptions()
	verify.Store(on)
}

func Verifying() bool {
	GetOptions()
	return verify.Load()
}

// Native loads the platform runtime. It is loaded once; later calls return
// the same runtime or error.
func Native() (Runtime, error) {
	nativeMu.Lock()
	defer nativeMu.Unlock()
	if native == nil && nativeEr == nil {
		native, nativeEr = loadNative(GetOptions())
		if nativeEr != nil {
			nativeEr = errors.Wrap(nativeEr, ErrUnavailable.Error())
		}
	}
	return native, nativeEr
}

// SetRuntime replaces the active runtime and returns a function restoring the
// previous one.
func SetRuntime(r Runtime) (restore func()) {
	rtMu.Lock()
	prev := active
	active = r
	rtMu.Unlock()
	return func() {
		rtMu.Lock()
		active = prev
		rtMu.Unlock()
	}
}

// CurrentRuntime returns the active runtime, loading the native one on first
// use. If none can be loaded the returned runtime panics on every call.
func CurrentRuntime() Runtime {
	rtMu.RLock()
	r := active
	rtMu.RUnlock()
	if r != nil {
		return r
	}
	nr, err := Native()
	if err != nil {
		return unavailable{err: err}
	}
	rtMu.Lock()
	if active == nil {
		active = nr
	}
	r = active
	rtMu.Unlock()
	return r
}

type unavailable struct {
	err error
}

func (u unavailable) Invoke(*Message)                              { panic(u.err) }
func (u unavailable) Retain(ID) ID                                 { panic(u.err) }
func (u unavailable) Release(ID)                                   { panic(u.err) }
func (u unavailable) Autorelease(ID) ID                            { panic(u.err) }
func (u unavailable) PushPool() uintptr                            { panic(u.err) }
func (u unavailable) PopPool(uintptr)                              { panic(u.err) }
func (u unavailable) RegisterName(string) Sel                      { panic(u.err) }
func (u unavailable) SelName(Sel) string                           { panic(u.err) }
func (u unavailable) GetClass(string) Class                        { panic(u.err) }
func (u unavailable) ClassOf(ID) Class                             { panic(u.err) }
func (u unavailable) ClassName(Class) string                       { panic(u.err) }
func (u unavailable) IsMetaClass(Class) bool                       { panic(u.err) }
func (u unavailable) MethodTypeEncoding(Class, Sel) (string, bool) { panic(u.err) }
