package objc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// Library is a lazily opened shared library holding C functions that
// generated bindings call.
type Library struct {
	path string

	once   sync.Once
	handle uintptr
	err    error
}

// NewLibrary returns a library for path. Nothing is loaded until first use.
func NewLibrary(path string) *Library {
	return &Library{path: path}
}

// Framework returns the library of a system framework.
func Framework(name string) *Library {
	return NewLibrary(FrameworkPath(name))
}

// FrameworkPath returns the binary path of a system framework.
func FrameworkPath(name string) string {
	return fmt.Sprintf("/System/Library/Frameworks/%[1]s.framework/%[1]s", name)
}

func (l *Library) Path() string {
	return l.path
}

// Open loads the library. It is safe to call repeatedly.
func (l *Library) Open() error {
	l.once.Do(func() {
		l.handle, l.err = dlopen(l.path)
		if l.err != nil {
			l.err = errors.Wrapf(l.err, "failed to load %s", l.path)
		}
	})
	return l.err
}

// Lookup returns the address of symbol name.
func (l *Library) Lookup(name string) (uintptr, error) {
	if err := l.Open(); err != nil {
		return 0, err
	}
	addr, err := dlsym(l.handle, name)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: symbol %s not found", l.path, name)
	}
	return addr, nil
}

// Bind points the function pointed to by fptr at the C function name.
func (l *Library) Bind(fptr any, name string) error {
	addr, err := l.Lookup(name)
	if err != nil {
		return err
	}
	return bindFunc(fptr, addr)
}

// MustBind is Bind for symbols that are known to exist.
func (l *Library) MustBind(fptr any, name string) {
	if err := l.Bind(fptr, name); err != nil {
		panic(err)
	}
}

// Func returns a function bound to the C function name, panicking if it is
// missing. Generated bindings wrap it in sync.OnceValue.
func Func[F any](l *Library, name string) F {
	var fn F
	l.MustBind(&fn, name)
	return fn
}

// Static returns a pointer to the exported variable name, panicking if it is
// missing.
func Static[T any](l *Library, name string) *T {
	addr, err := l.Lookup(name)
	if err != nil {
		panic(err)
	}
	return (*T)(unsafe.Pointer(addr))
}
