//go:build !darwin && !linux

package objc

import "github.com/pkg/errors"

func dlopen(string) (uintptr, error) {
	return 0, errors.New("dynamic loading is not supported on this platform")
}

func dlsym(uintptr, string) (uintptr, error) {
	return 0, errors.New("dynamic loading is not supported on this platform")
}

func bindFunc(any, uintptr) error {
	return errors.New("dynamic loading is not supported on this platform")
}
