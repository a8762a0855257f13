//go:build darwin && cgo && objc

package objc

/*
#include <stdlib.h>
#include <dlfcn.h>
#include <objc/runtime.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type Image uintptr

// LoadImage dlopens an image so that its classes get registered.
func LoadImage(name string) (Image, error) {
	libname := C.CString(name)
	defer C.free(unsafe.Pointer(libname))

	lib := C.dlopen(libname, C.RTLD_NOW)
	if lib == nil {
		return 0, fmt.Errorf("unable to open a handle to the library: %s", C.GoString(C.dlerror()))
	}

	return Image(uintptr(lib)), nil
}

func (i Image) Close() {
	C.dlclose(unsafe.Pointer(uintptr(i)))
}

// ImageNames returns the paths of every image with Objective-C metadata.
func ImageNames() []string {
	var count C.uint
	list := C.objc_copyImageNames(&count)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))
	return goStrings(unsafe.Slice(list, int(count)))
}

// ClassNamesForImage returns the names of the classes image defines.
func ClassNamesForImage(image string) []string {
	cimage := C.CString(image)
	defer C.free(unsafe.Pointer(cimage))

	var count C.uint
	list := C.objc_copyClassNamesForImage(cimage, &count)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))
	return goStrings(unsafe.Slice(list, int(count)))
}

func goStrings(list []*C.char) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = C.GoString(s)
	}
	return out
}
