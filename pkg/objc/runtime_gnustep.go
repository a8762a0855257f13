//go:build linux

package objc

import (
	"reflect"

	"github.com/ebitengine/purego"
)

// libobjc2 does not export objc_msgSend on every architecture; methods are
// looked up first and their IMP is called directly.
var gnustepLibraries = []string{"libobjc.so.4", "libobjc.so"}

type lookupSender struct {
	msgLookup      func(ID, Sel) IMP
	msgLookupSuper func(*objcSuper, Sel) IMP
}

func loadNative(opts Options) (Runtime, error) {
	paths := gnustepLibraries
	if opts.Library != "" {
		paths = []string{opts.Library}
	}
	var lastErr error
	for _, path := range paths {
		s := &lookupSender{}
		r, err := openNative(path, opts, s)
		if err != nil {
			lastErr = err
			continue
		}
		purego.RegisterLibFunc(&s.msgLookup, r.lib, "objc_msg_lookup")
		purego.RegisterLibFunc(&s.msgLookupSuper, r.lib, "objc_msg_lookup_super")
		return r, nil
	}
	return nil, lastErr
}

func (s *lookupSender) target(_ *nativeRuntime, m *Message, _ reflect.Type) (uintptr, reflect.Value, any) {
	if m.Receiver == 0 {
		return 0, reflect.Value{}, nil
	}
	self := reflect.ValueOf(uintptr(m.Receiver))
	if m.Super != 0 {
		sup := &objcSuper{receiver: m.Receiver, superClass: m.Super}
		return uintptr(s.msgLookupSuper(sup, m.Sel)), self, nil
	}
	return uintptr(s.msgLookup(m.Receiver, m.Sel)), self, nil
}
