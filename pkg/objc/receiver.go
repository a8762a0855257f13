package objc

// Access describes what a receiver lets the callee do to the object.
type Access uint8

const (
	Immutable Access = iota
	Mutable
)

func (a Access) String() string {
	switch a {
	case Immutable:
		return "immutable"
	case Mutable:
		return "mutable"
	default:
		return "unknown"
	}
}

// MessageReceiver is the capability of being the target of a message send.
//
// The set of receivers is closed: Object (and every type embedding it), ID,
// ConstPtr, NonNull, AnyMut, Class, ClassRef and *Retained. A pointer to a
// wrapper such as *Widget is a receiver too, through the promoted
// Object.messageTarget; it grants shared access like the wrapper itself.
// The exclusive reference is Mut, which is not a receiver; use Mut.Ref or
// Mut.Any to send through it.
type MessageReceiver interface {
	messageTarget() (ID, Access)
}

// IDOf returns the object pointer a receiver resolves to.
func IDOf(r MessageReceiver) ID {
	id, _ := r.messageTarget()
	return id
}

// AccessOf reports whether r grants mutable access to its object.
func AccessOf(r MessageReceiver) Access {
	_, a := r.messageTarget()
	return a
}

func (id ID) messageTarget() (ID, Access) { return id, Mutable }

func (p ConstPtr) messageTarget() (ID, Access) { return ID(p), Immutable }

func (c Class) messageTarget() (ID, Access) { return ID(c), Immutable }

func (o Object) messageTarget() (ID, Access) { return o.id, Immutable }

// NonNull is a pointer that is known not to be nil.
type NonNull[T ObjectType] struct {
	id ID
}

// NewNonNull returns a NonNull for id and false if id is nil.
func NewNonNull[T ObjectType](id ID) (NonNull[T], bool) {
	if id == 0 {
		return NonNull[T]{}, false
	}
	return NonNull[T]{id: id}, true
}

func (n NonNull[T]) Get() T { return Wrap[T](n.id) }

func (n NonNull[T]) ID() ID { return n.id }

func (n NonNull[T]) messageTarget() (ID, Access) { return n.id, Immutable }

func (n *NonNull[T]) setID(id ID) { n.id = id }

// AnyMut is a mutable reference to an object of unknown class.
type AnyMut struct {
	id ID
}

// AnyMutFrom wraps id as a mutable reference. The caller asserts exclusive
// access to the object.
func AnyMutFrom(id ID) AnyMut {
	return AnyMut{id: id}
}

func (a AnyMut) ID() ID { return a.id }

func (a AnyMut) messageTarget() (ID, Access) { return a.id, Mutable }

func (a *AnyMut) setID(id ID) { a.id = id }

// Mut is an exclusive, mutable typed reference. It cannot be messaged
// directly.
type Mut[T ObjectType] struct {
	obj T
}

// NewMut asserts exclusive access to obj.
func NewMut[T ObjectType](obj T) Mut[T] {
	return Mut[T]{obj: obj}
}

// Ref reborrows the reference immutably.
func (m Mut[T]) Ref() T { return m.obj }

// Any widens the reference to an AnyMut, which may be messaged.
func (m Mut[T]) Any() AnyMut { return AnyMut{id: m.obj.ID()} }

func (m Mut[T]) ID() ID { return m.obj.ID() }

// ClassRef is a class looked up by name on every send. Generated bindings
// use it for class objects so that nothing is resolved at init time.
type ClassRef struct {
	name string
}

func ClassNamed(name string) ClassRef {
	return ClassRef{name: name}
}

func (c ClassRef) Name() string { return c.name }

// Class resolves the class, returning 0 when it is not loaded.
func (c ClassRef) Class() Class {
	return CurrentRuntime().GetClass(c.name)
}

func (c ClassRef) messageTarget() (ID, Access) { return ID(c.Class()), Immutable }
