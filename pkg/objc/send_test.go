package objc_test

import (
	"testing"

	"github.com/blacktop/go-objc/pkg/objc"
	"github.com/blacktop/go-objc/pkg/objc/objctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Widget struct{ objc.Object }

func sel(name string) objc.Sel {
	return objc.RegisterName(name)
}

func newTestObject(t *testing.T, rt *objctest.Runtime, value int64) *objc.Retained[Widget] {
	t.Helper()
	cls := rt.GetClass(objctest.RcTestClass)
	if cls == 0 {
		cls = rt.DefineRcTestClass()
	}
	obj := objc.Init(objc.Alloc[Widget](cls), sel("initWithValue:"), value)
	require.NotNil(t, obj)
	t.Cleanup(obj.Release)
	return obj
}

func TestSend(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 7)

	assert.Equal(t, int64(7), objc.Send[int64](obj, sel("value")))

	objc.Call(obj, sel("setValue:"), 10)
	assert.Equal(t, int64(10), objc.Send[int64](obj, sel("value")))
	assert.Equal(t, 25, objc.Send[int](obj, sel("addValue:scaledBy:"), 5, 3.0))

	frame := objc.Send[objctest.Rect](obj, sel("frame"))
	assert.Equal(t, objctest.Rect{
		Origin: objctest.Point{X: 1, Y: 2},
		Size:   objctest.Size{Width: 10, Height: 10},
	}, frame)

	assert.True(t, objc.Send[bool](obj, sel("isEqual:"), obj))
	assert.False(t, objc.Send[bool](obj, sel("isEqual:"), nil))
	assert.Equal(t, rt.GetClass(objctest.RcTestClass), objc.Send[objc.Class](obj, sel("class")))

	self := objc.Send[Widget](obj, sel("self"))
	assert.Equal(t, obj.ID(), self.ID())
	assert.Equal(t, 1, rt.RetainCount(obj.ID()), "plain sends must not change ownership")
}

func TestSendReceivers(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)
	id := obj.ID()
	w := obj.Get()
	m := obj.Mut()
	nn, ok := objc.NewNonNull[Widget](id)
	require.True(t, ok)
	cls := rt.GetClass(objctest.RcTestClass)

	tcs := []struct {
		name   string
		recv   objc.MessageReceiver
		target objc.ID
		access objc.Access
	}{
		{"wrapper", w, id, objc.Immutable},
		{"object", w.Object, id, objc.Immutable},
		{"wrapper pointer", &w, id, objc.Immutable},
		{"const pointer", objc.ConstPtr(id), id, objc.Immutable},
		{"mutable pointer", id, id, objc.Mutable},
		{"non-null", nn, id, objc.Immutable},
		{"any mutable", objc.AnyMutFrom(id), id, objc.Mutable},
		{"reborrowed mut", m.Ref(), id, objc.Immutable},
		{"widened mut", m.Any(), id, objc.Mutable},
		{"retained", obj, id, objc.Immutable},
		{"class", cls, objc.ID(cls), objc.Immutable},
		{"class by name", objc.ClassNamed(objctest.RcTestClass), objc.ID(cls), objc.Immutable},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.target, objc.IDOf(tc.recv))
			assert.Equal(t, tc.access, objc.AccessOf(tc.recv))
			assert.Equal(t, tc.target, objc.Send[objc.ID](tc.recv, sel("self")))
		})
	}
}

func TestSendToNil(t *testing.T) {
	rt := objctest.Install(t)
	rt.DefineRcTestClass()
	before := rt.Sends()

	assert.Equal(t, int64(0), objc.Send[int64](objc.ID(0), sel("value")))
	assert.Equal(t, objctest.Rect{}, objc.Send[objctest.Rect](objc.Wrap[Widget](0), sel("frame")))
	assert.Nil(t, objc.SendRetained[Widget](objc.ID(0), sel("copy")))
	assert.Equal(t, before, rt.Sends())
}

func TestSendSuper(t *testing.T) {
	rt := objctest.Install(t)
	base := rt.DefineRcTestClass()
	rt.DefineClass("RcTestSubclass", objctest.RcTestClass).
		Method("value", "q16@0:8", func(*objctest.Runtime, objc.ID, []any) any { return int64(99) })

	sub := objc.Init(objc.Alloc[Widget](objc.ClassNamed("RcTestSubclass")), sel("initWithValue:"), 3)
	require.NotNil(t, sub)
	defer sub.Release()

	assert.Equal(t, int64(99), objc.Send[int64](sub, sel("value")))
	assert.Equal(t, int64(3), objc.SendSuper[int64](sub, base, sel("value")))
}

func TestSendRejectsUnsupportedArguments(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)

	assert.PanicsWithValue(t, "objc: argument 0: cannot pass string to Objective-C", func() {
		objc.Call(obj, sel("setValue:"), "ten")
	})
	assert.PanicsWithValue(t, "objc: argument 1: cannot pass []int to Objective-C", func() {
		objc.Call(obj, sel("addValue:scaledBy:"), 1, []int{2})
	})
	assert.PanicsWithValue(t, "objc: cannot return string from Objective-C", func() {
		objc.Send[string](obj, sel("value"))
	})
}

func TestSendUnrecognizedSelector(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)
	assert.Panics(t, func() {
		objc.Call(obj, sel("doesNotExist"))
	})
}
