package objctest

import (
	"unsafe"

	"github.com/blacktop/go-objc/pkg/objc"
)

// RcTestClass is the name of the class defined by DefineRcTestClass.
const RcTestClass = "RcTestObject"

func returnNil(*Runtime, objc.ID, []any) any { return nil }

// DefineRcTestClass defines RcTestObject, an NSObject subclass with a method
// per memory management convention, including variants returning NULL:
//
//	+newReturningNull +allocReturningNull -initReturningNull
//	-copyReturningNull -mutableCopyReturningNull -methodReturningNull
//	-methodReturningAutoreleased -methodReturningRetained
//	-initWithValue: -value -setValue: -addValue:scaledBy: -frame
//
// and methods reporting failures through an NSError ** parameter. They fail
// for values below one, writing an autoreleased RcTestObject holding the
// value:
//
//	-checkValue:error: -objectWithValue:error: -initWithValue:error:
//	-failWithoutError:
func (r *Runtime) DefineRcTestClass() objc.Class {
	b := r.DefineClass(RcTestClass, "NSObject")
	b.ClassMethod("newReturningNull", "@16@0:8", returnNil)
	b.ClassMethod("allocReturningNull", "@16@0:8", returnNil)
	b.Method("initReturningNull", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		// initialisers that fail release the allocation they consumed
		rt.Release(self)
		return nil
	})
	b.Method("copyReturningNull", "@16@0:8", returnNil)
	b.Method("mutableCopyReturningNull", "@16@0:8", returnNil)
	b.Method("methodReturningNull", "@16@0:8", returnNil)
	b.Method("methodReturningAutoreleased", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Autorelease(rt.Instantiate(rt.ClassOf(self)))
	})
	b.Method("methodReturningRetained", "@16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		return rt.Instantiate(rt.ClassOf(self))
	})
	b.Method("initWithValue:", "@24@0:8q16", func(rt *Runtime, self objc.ID, args []any) any {
		rt.SetValue(self, "value", args[0].(int64))
		return self
	})
	b.Method("value", "q16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		v, _ := rt.Value(self, "value").(int64)
		return v
	})
	b.Method("setValue:", "v24@0:8q16", func(rt *Runtime, self objc.ID, args []any) any {
		rt.SetValue(self, "value", args[0].(int64))
		return nil
	})
	b.Method("addValue:scaledBy:", "q32@0:8q16d24", func(rt *Runtime, self objc.ID, args []any) any {
		v, _ := rt.Value(self, "value").(int64)
		return v + int64(float64(args[0].(int64))*args[1].(float64))
	})
	b.Method("frame", "{CGRect={CGPoint=dd}{CGSize=dd}}16@0:8", func(rt *Runtime, self objc.ID, _ []any) any {
		v, _ := rt.Value(self, "value").(int64)
		return Rect{Origin: Point{X: 1, Y: 2}, Size: Size{Width: float64(v), Height: float64(v)}}
	})
	b.Method("checkValue:error:", "c32@0:8q16^@24", func(rt *Runtime, self objc.ID, args []any) any {
		if v := args[0].(int64); v < 1 {
			writeError(rt, rt.ClassOf(self), args[1], v)
			return false
		}
		return true
	})
	b.Method("objectWithValue:error:", "@32@0:8q16^@24", func(rt *Runtime, self objc.ID, args []any) any {
		v := args[0].(int64)
		if v < 1 {
			writeError(rt, rt.ClassOf(self), args[1], v)
			return nil
		}
		obj := rt.Instantiate(rt.ClassOf(self))
		rt.SetValue(obj, "value", v)
		return rt.Autorelease(obj)
	})
	b.Method("initWithValue:error:", "@32@0:8q16^@24", func(rt *Runtime, self objc.ID, args []any) any {
		v := args[0].(int64)
		if v < 1 {
			writeError(rt, rt.ClassOf(self), args[1], v)
			rt.Release(self)
			return nil
		}
		rt.SetValue(self, "value", v)
		return self
	})
	b.Method("failWithoutError:", "c24@0:8^@16", func(*Runtime, objc.ID, []any) any {
		return false
	})
	return b.Class()
}

// writeError stores a new autoreleased instance of cls through the
// NSError ** argument out, unless the caller passed NULL.
func writeError(rt *Runtime, cls objc.Class, out any, value int64) {
	p, _ := out.(unsafe.Pointer)
	if p == nil {
		return
	}
	e := rt.Instantiate(cls)
	rt.SetValue(e, "value", value)
	*(*objc.ID)(p) = rt.Autorelease(e)
}

// Point, Size and Rect mirror the CoreGraphics geometry structs.
type Point struct{ X, Y float64 }

type Size struct{ Width, Height float64 }

type Rect struct {
	Origin Point
	Size   Size
}
