//go:build darwin && cgo && objc

/*
Package objc introspects the Objective-C runtime of the running process:
the images it loaded, their classes and the methods those classes
implement.
*/
package objc

// #cgo CFLAGS: -W -Wall -Wno-unused-parameter -Wno-unused-function -O3
// #cgo LDFLAGS: -lobjc
import "C"
