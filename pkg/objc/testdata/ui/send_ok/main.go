package main

import (
	"github.com/blacktop/go-objc/pkg/objc"
)

type Widget struct{ objc.Object }

func main() {
	sel := objc.RegisterName("test")
	var id objc.ID
	w := objc.Wrap[Widget](id)

	_ = objc.Send[int](w, sel)
	_ = objc.Send[int](w.Object, sel)
	_ = objc.Send[int](id, sel)
	_ = objc.Send[int](objc.ConstPtr(id), sel)
	_ = objc.Send[int](objc.AnyMutFrom(id), sel)
	if nn, ok := objc.NewNonNull[Widget](id); ok {
		_ = objc.Send[int](nn, sel)
	}
	_ = objc.Send[int](objc.GetClass("Widget"), sel)
	_ = objc.Send[int](objc.ClassNamed("Widget"), sel)

	m := objc.NewMut(w)
	_ = objc.Send[int](m.Ref(), sel)
	_ = objc.Send[int](m.Any(), sel)
	objc.Call(m.Any(), sel, m)

	_ = objc.Send[int](&w, sel)

	r := objc.SendRetained[Widget](w, sel)
	_ = objc.Send[int](r, sel)
	objc.SendRetained[Widget](&w, sel).Release()
	objc.SendRetained[Widget](w.Object, sel).Release()
	objc.SendRetained[Widget](id, sel).Release()
	objc.SendRetained[Widget](objc.ConstPtr(id), sel).Release()
	objc.SendRetained[Widget](objc.AnyMutFrom(id), sel).Release()
	if nn, ok := objc.NewNonNull[Widget](id); ok {
		objc.SendRetained[Widget](nn, sel).Release()
	}
	objc.SendRetained[Widget](objc.GetClass("Widget"), sel).Release()
	objc.SendRetained[Widget](objc.ClassNamed("Widget"), sel).Release()
	objc.SendRetained[Widget](m.Ref(), sel).Release()
	objc.SendRetained[Widget](m.Any(), sel).Release()
	objc.SendRetained[Widget](r, sel).Release()
	r.Release()
}
