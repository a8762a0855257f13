/*
Package objc implements typed Objective-C message dispatch for Go.

A message send goes through three steps:

  - the receiver is classified by the type checker: only types carrying the
    MessageReceiver capability may be messaged. Exclusive typed references
    (Mut) deliberately lack it and must be reborrowed with Mut.Ref or widened
    with Mut.Any first.
  - Send marshals the arguments into their C ABI representation, calls the
    objc_msgSend trampoline of the active Runtime and reinterprets the raw
    result as the requested Go type.
  - SendRetained wraps object results into a *Retained handle owning exactly
    one reference, which is released once by Retained.Release (or by the
    garbage collector if the handle is dropped).

Calling a method with the wrong argument or return types is undefined
behaviour, exactly as in C. Set OBJC_VERIFY=1 (or call SetVerify) to check
every send against the method's type encoding before dispatching it.
*/
package objc
