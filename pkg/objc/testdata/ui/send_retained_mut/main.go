package main

import (
	"github.com/blacktop/go-objc/pkg/objc"
)

type Widget struct{ objc.Object }

func main() {
	sel := objc.RegisterName("copy")
	m := objc.NewMut(objc.Wrap[Widget](0))
	r := objc.SendRetained[Widget](m, sel) // ERROR `Mut\[.*Widget\]` `does not satisfy .*MessageReceiver`
	r.Release()
}
