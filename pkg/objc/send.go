package objc

import (
	"reflect"
	"runtime"
)

// Send sends sel to recv and returns the result reinterpreted as R. Object
// results are not retained; use SendRetained to take ownership.
//
// The argument and return types must match the method's signature. Checking
// that is left to the caller unless verification is enabled.
func Send[R any, Recv MessageReceiver](recv Recv, sel Sel, args ...any) R {
	var ret R
	dispatch(CurrentRuntime(), recv, 0, sel, args, reflectOf(&ret))
	return ret
}

// Call sends sel to recv, ignoring any result.
func Call[Recv MessageReceiver](recv Recv, sel Sel, args ...any) {
	dispatch(CurrentRuntime(), recv, 0, sel, args, reflect.Value{})
}

// SendSuper sends sel to recv, starting the method lookup at super.
func SendSuper[R any, Recv MessageReceiver](recv Recv, super Class, sel Sel, args ...any) R {
	var ret R
	dispatch(CurrentRuntime(), recv, super, sel, args, reflectOf(&ret))
	return ret
}

func reflectOf[T any](p *T) reflect.Value {
	return reflect.ValueOf(p).Elem()
}

func dispatch(rt Runtime, recv MessageReceiver, super Class, sel Sel, args []any, out reflect.Value) {
	id, _ := recv.messageTarget()
	vals, types := marshalArgs(args)
	m := &Message{
		Receiver: id,
		Super:    super,
		Sel:      sel,
		Args:     vals,
	}
	var retType reflect.Type
	if out.IsValid() {
		retType = out.Type()
		if abi := abiResultType(retType); abi != nil {
			m.Result = reflect.New(abi).Elem()
		}
	}
	if Verifying() {
		if err := verifyMessage(rt, m, types, retType); err != nil {
			panic(err)
		}
	}
	rt.Invoke(m)
	// a *Retained receiver or argument must outlive the call, or its
	// cleanup could release the object mid-send
	runtime.KeepAlive(recv)
	runtime.KeepAlive(args)
	if m.Result.IsValid() {
		storeResult(out, m.Result)
	}
}
