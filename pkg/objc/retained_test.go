package objc_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/blacktop/go-objc/pkg/objc"
	"github.com/blacktop/go-objc/pkg/objc/objctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRetainedNull(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)

	r := objc.SendRetained[Widget](obj, sel("methodReturningNull"))
	assert.Nil(t, r)
	r.Release()
	assert.Equal(t, objc.ID(0), r.IntoRaw())
}

func TestSendRetainedNonNilErrors(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)
	cls := rt.GetClass(objctest.RcTestClass)

	_, err := objc.SendRetainedNonNil[Widget](obj, sel("methodReturningNull"))
	assert.EqualError(t, err, "unexpected NULL returned from -[RcTestObject methodReturningNull]")

	_, err = objc.SendRetainedNonNil[Widget](cls, sel("newReturningNull"))
	assert.EqualError(t, err, "failed creating new instance using +[RcTestObject newReturningNull]")

	_, err = objc.SendRetainedNonNil[Widget](obj, sel("copyReturningNull"))
	assert.EqualError(t, err, "failed copying object")

	_, err = objc.SendRetainedNonNil[Widget](obj, sel("mutableCopyReturningNull"))
	assert.EqualError(t, err, "failed copying object")

	var nilErr *objc.NilResultError
	require.ErrorAs(t, err, &nilErr)
	assert.Equal(t, objc.FamilyMutableCopy, nilErr.Family)
	assert.Panics(t, func() {
		objc.Must(objc.SendRetainedNonNil[Widget](obj, sel("methodReturningNull")))
	})
}

func TestAllocInitNull(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()

	assert.Nil(t, objc.SendAlloc[Widget](cls, sel("allocReturningNull")))
	_, err := objc.InitNonNil(objc.SendAlloc[Widget](cls, sel("allocReturningNull")), sel("init"))
	assert.EqualError(t, err, "failed allocating with +alloc")

	a := objc.Alloc[Widget](cls)
	require.NotNil(t, a)
	id := a.ID()
	_, err = objc.InitNonNil(a, sel("initReturningNull"))
	assert.EqualError(t, err, "failed initializing object with -initReturningNull")
	assert.True(t, rt.Deallocated(id))
	assert.Equal(t, 1, rt.Releases(id))
}

func TestInitConsumesAllocation(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()

	a := objc.Alloc[Widget](cls)
	obj := objc.Init(a, sel("initWithValue:"), 42)
	require.NotNil(t, obj)
	defer obj.Release()

	assert.Equal(t, a.ID(), obj.ID())
	assert.Equal(t, 1, rt.RetainCount(obj.ID()))
	assert.Equal(t, int64(42), objc.Send[int64](obj, sel("value")))
	assert.Panics(t, func() { objc.Init(a, sel("init")) })

	// an allocation that is never initialised is released once
	b := objc.Alloc[Widget](cls)
	b.Release()
	b.Release()
	assert.True(t, rt.Deallocated(b.ID()))
	assert.Equal(t, 1, rt.Releases(b.ID()))
}

func TestSendRetainedOwnership(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)

	tcs := []struct {
		name     string
		send     func() *objc.Retained[Widget]
		retains  int
		releases int
	}{
		{
			name:     "copy returns +1",
			send:     func() *objc.Retained[Widget] { return objc.SendRetained[Widget](obj, sel("copy")) },
			retains:  0,
			releases: 1,
		},
		{
			name:     "mutableCopy returns +1",
			send:     func() *objc.Retained[Widget] { return objc.SendRetained[Widget](obj, sel("mutableCopy")) },
			retains:  0,
			releases: 1,
		},
		{
			name: "new returns +1",
			send: func() *objc.Retained[Widget] {
				return objc.New[Widget](objc.ClassNamed(objctest.RcTestClass))
			},
			retains:  0,
			releases: 1,
		},
		{
			name: "annotated retained result",
			send: func() *objc.Retained[Widget] {
				return objc.SendRetainedWith[Widget](objc.FamilyRetained, obj, sel("methodReturningRetained"))
			},
			retains:  0,
			releases: 1,
		},
		{
			name: "autoreleased result is retained",
			send: func() *objc.Retained[Widget] {
				var r *objc.Retained[Widget]
				objc.AutoreleasePool(func() {
					r = objc.SendRetained[Widget](obj, sel("methodReturningAutoreleased"))
				})
				return r
			},
			retains:  1,
			releases: 2,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.send()
			require.NotNil(t, r)
			id := r.ID()
			assert.Equal(t, 1, rt.RetainCount(id))

			r.Release()
			r.Release()
			assert.True(t, rt.Deallocated(id))
			assert.Equal(t, tc.retains, rt.Retains(id))
			assert.Equal(t, tc.releases, rt.Releases(id))
		})
	}
}

func TestSendRetainedRejectsAllocAndInit(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 1)
	cls := rt.GetClass(objctest.RcTestClass)

	assert.PanicsWithValue(t, "objc: init is an init method, use Init", func() {
		objc.SendRetained[Widget](obj, sel("init"))
	})
	assert.PanicsWithValue(t, "objc: alloc is an alloc method, use SendAlloc", func() {
		objc.SendRetained[Widget](cls, sel("alloc"))
	})
}

func TestRetainedClone(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()
	obj := objc.New[Widget](cls)
	require.NotNil(t, obj)
	id := obj.ID()

	before := rt.RetainCount(id)
	clone := obj.Clone()
	assert.Equal(t, before+1, rt.RetainCount(id))
	assert.Equal(t, id, clone.ID())

	clone.Release()
	assert.Equal(t, before, rt.RetainCount(id))
	obj.Release()
	assert.True(t, rt.Deallocated(id))
	assert.Equal(t, 1, rt.Retains(id))
	assert.Equal(t, 2, rt.Releases(id))
}

func TestRetainedHandOff(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()

	obj := objc.New[Widget](cls)
	raw := obj.IntoRaw()
	obj.Release()
	assert.Equal(t, 1, rt.RetainCount(raw))
	assert.Panics(t, func() { obj.Get() })
	assert.Panics(t, func() { obj.IntoRaw() })

	again := objc.Adopt[Widget](raw)
	again.Release()
	assert.True(t, rt.Deallocated(raw))

	var id objc.ID
	objc.AutoreleasePool(func() {
		w := objc.New[Widget](cls).Autorelease()
		id = w.ID()
		assert.Equal(t, 1, rt.RetainCount(id))
		assert.Equal(t, 1, rt.Autoreleases(id))
	})
	assert.True(t, rt.Deallocated(id))
}

func TestRetainID(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()
	raw := rt.Instantiate(cls)

	r := objc.RetainID[Widget](raw)
	assert.Equal(t, 2, rt.RetainCount(raw))
	r.Release()
	assert.Equal(t, 1, rt.RetainCount(raw))
	assert.Nil(t, objc.RetainID[Widget](0))
	assert.Nil(t, objc.Adopt[Widget](0))
}

func TestRetainedReleasedWhenUnreachable(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()

	id := func() objc.ID {
		return objc.New[Widget](cls).ID()
	}()
	assert.Eventually(t, func() bool {
		runtime.GC()
		return rt.Deallocated(id)
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, rt.Releases(id))
}

func defineCollector(rt *objctest.Runtime) objc.Class {
	survives := func(rt *objctest.Runtime, id objc.ID) bool {
		for range 10 {
			runtime.GC()
			time.Sleep(time.Millisecond)
		}
		return !rt.Deallocated(id)
	}
	return rt.DefineClass("GCTestObject", "NSObject").
		Method("survivesCollection", "c16@0:8", func(rt *objctest.Runtime, self objc.ID, _ []any) any {
			return survives(rt, self)
		}).
		Method("argumentSurvivesCollection:", "c24@0:8@16", func(rt *objctest.Runtime, _ objc.ID, args []any) any {
			return survives(rt, objc.ID(args[0].(uintptr)))
		}).
		Class()
}

func TestSendKeepsHandlesAlive(t *testing.T) {
	rt := objctest.Install(t)
	cls := defineCollector(rt)

	// the handles below are unreachable from the test once the send starts
	assert.True(t, objc.Send[bool](objc.New[Widget](cls), sel("survivesCollection")))

	holder := objc.New[Widget](cls)
	require.NotNil(t, holder)
	defer holder.Release()
	assert.True(t, objc.Send[bool](holder, sel("argumentSurvivesCollection:"), objc.New[Widget](cls)))
}

func TestNilHandleMessagesNil(t *testing.T) {
	rt := objctest.Install(t)
	obj := newTestObject(t, rt, 5)
	var none *objc.Retained[Widget]
	before := rt.Sends()

	assert.Equal(t, objc.ID(0), none.ID())
	assert.Equal(t, objc.ID(0), objc.IDOf(none))
	assert.Equal(t, int64(0), objc.Send[int64](none, sel("value")))
	assert.Nil(t, objc.SendRetained[Widget](none, sel("copy")))
	assert.Equal(t, before, rt.Sends())

	assert.False(t, objc.Send[bool](obj, sel("isEqual:"), none))
}

func TestSendAllocNonNil(t *testing.T) {
	rt := objctest.Install(t)
	cls := rt.DefineRcTestClass()

	_, err := objc.SendAllocNonNil[Widget](cls, sel("allocReturningNull"))
	assert.EqualError(t, err, "failed allocating with +[RcTestObject allocReturningNull]")
	var nilErr *objc.NilResultError
	require.ErrorAs(t, err, &nilErr)
	assert.Equal(t, objc.FamilyAlloc, nilErr.Family)

	a, err := objc.SendAllocNonNil[Widget](cls, sel("alloc"))
	require.NoError(t, err)
	obj := objc.Init(a, sel("init"))
	require.NotNil(t, obj)
	obj.Release()
	assert.True(t, rt.Deallocated(obj.ID()))
}
