//go:build darwin || linux

package objc

import (
	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func dlsym(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func bindFunc(fptr any, addr uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("cannot bind %T: %v", fptr, r)
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}
