//go:build !darwin && !linux

package objc

import (
	"runtime"

	"github.com/pkg/errors"
)

func loadNative(Options) (Runtime, error) {
	return nil, errors.Errorf("no Objective-C runtime for %s/%s", runtime.GOOS, runtime.GOARCH)
}
