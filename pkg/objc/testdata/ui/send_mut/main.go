package main

import (
	"github.com/blacktop/go-objc/pkg/objc"
)

type Widget struct{ objc.Object }

func main() {
	sel := objc.RegisterName("test")
	m := objc.NewMut(objc.Wrap[Widget](0))
	_ = objc.Send[int](m, sel) // ERROR `Mut\[.*Widget\]` `does not satisfy .*MessageReceiver`
}
