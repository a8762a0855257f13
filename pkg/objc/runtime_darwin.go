//go:build darwin

package objc

import (
	"reflect"
	"runtime"
)

const libobjcPath = "/usr/lib/libobjc.A.dylib"

type msgSender struct {
	msgSend           uintptr
	msgSendSuper      uintptr
	msgSendStret      uintptr
	msgSendSuperStret uintptr
}

func loadNative(opts Options) (Runtime, error) {
	path := libobjcPath
	if opts.Library != "" {
		path = opts.Library
	}
	s := &msgSender{}
	r, err := openNative(path, opts, s)
	if err != nil {
		return nil, err
	}
	s.msgSend = r.lookup("objc_msgSend")
	s.msgSendSuper = r.lookup("objc_msgSendSuper")
	if runtime.GOARCH == "amd64" {
		s.msgSendStret = r.lookup("objc_msgSend_stret")
		s.msgSendSuperStret = r.lookup("objc_msgSendSuper_stret")
	}
	return r, nil
}

// usesStret reports whether a result of type t is returned through memory,
// which on x86_64 requires the _stret trampolines.
func usesStret(t reflect.Type) bool {
	return runtime.GOARCH == "amd64" && t != nil && t.Kind() == reflect.Struct && t.Size() > 16
}

func (s *msgSender) target(_ *nativeRuntime, m *Message, ret reflect.Type) (uintptr, reflect.Value, any) {
	if m.Receiver == 0 {
		return 0, reflect.Value{}, nil
	}
	stret := usesStret(ret)
	if m.Super != 0 {
		v, sup := superValue(m)
		if stret {
			return s.msgSendSuperStret, v, sup
		}
		return s.msgSendSuper, v, sup
	}
	self := reflect.ValueOf(uintptr(m.Receiver))
	if stret {
		return s.msgSendStret, self, nil
	}
	return s.msgSend, self, nil
}
