package objc

import (
	"fmt"
	"reflect"
)

// VerificationError describes a message send whose types do not match the
// method it resolves to.
type VerificationError struct {
	Method string // -[Class selector]
	Reason string
}

func (e *VerificationError) Error() string {
	if e.Method == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid message send to %s: %s", e.Method, e.Reason)
}

// verifyMessage checks m against the type encoding of the method it will
// reach. args and ret are the Go types of the arguments and result (nil for
// void).
func verifyMessage(rt Runtime, m *Message, args []reflect.Type, ret reflect.Type) error {
	selName := rt.SelName(m.Sel)
	if m.Receiver == 0 {
		return &VerificationError{Reason: fmt.Sprintf("messaging %s to nil", selName)}
	}
	cls := m.Super
	if cls == 0 {
		cls = rt.ClassOf(m.Receiver)
	}
	kind := "-"
	if rt.IsMetaClass(cls) {
		kind = "+"
	}
	method := fmt.Sprintf("%s[%s %s]", kind, rt.ClassName(cls), selName)

	enc, ok := rt.MethodTypeEncoding(cls, m.Sel)
	if !ok {
		return &VerificationError{Method: method, Reason: "method not found"}
	}
	types, err := SplitMethodEncoding(enc)
	if err != nil || len(types) < 3 {
		return &VerificationError{Method: method, Reason: fmt.Sprintf("invalid method encoding %q", enc)}
	}

	if found := EncodingOf(ret); !EncodingsEquivalent(types[0], found) {
		return &VerificationError{
			Method: method,
			Reason: fmt.Sprintf("expected return to have type code '%s', but found '%s'", types[0], found),
		}
	}
	params := types[3:]
	if len(params) != len(args) {
		return &VerificationError{
			Method: method,
			Reason: fmt.Sprintf("expected %d arguments, but %d were given", len(params), len(args)),
		}
	}
	for i, want := range params {
		if found := EncodingOf(args[i]); !EncodingsEquivalent(want, found) {
			return &VerificationError{
				Method: method,
				Reason: fmt.Sprintf("expected argument at index %d to have type code '%s', but found '%s'", i, want, found),
			}
		}
	}
	return nil
}
