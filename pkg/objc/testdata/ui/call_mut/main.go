package main

import (
	"github.com/blacktop/go-objc/pkg/objc"
)

type Widget struct{ objc.Object }

func main() {
	sel := objc.RegisterName("test")
	r := objc.Adopt[Widget](0)
	objc.Call(r.Mut(), sel) // ERROR `Mut\[.*Widget\]` `missing method messageTarget`
}
