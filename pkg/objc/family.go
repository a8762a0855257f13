package objc

import "strings"

// Family is the memory-management method family of a selector.
type Family uint8

const (
	// FamilyNone methods return +0 (autoreleased or borrowed) results.
	FamilyNone Family = iota
	FamilyAlloc
	FamilyNew
	FamilyInit
	FamilyCopy
	FamilyMutableCopy
	// FamilyRetained is an explicit ns_returns_retained annotation on a
	// method outside the other families.
	FamilyRetained
)

var familyNames = [...]string{
	FamilyNone:        "none",
	FamilyAlloc:       "alloc",
	FamilyNew:         "new",
	FamilyInit:        "init",
	FamilyCopy:        "copy",
	FamilyMutableCopy: "mutableCopy",
	FamilyRetained:    "retained",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "unknown"
}

// ReturnsRetained reports whether methods of the family return +1 results.
func (f Family) ReturnsRetained() bool {
	return f != FamilyNone
}

// ParseFamily parses a family name as printed by String.
func ParseFamily(s string) (Family, bool) {
	for f, name := range familyNames {
		if strings.EqualFold(name, s) {
			return Family(f), true
		}
	}
	return FamilyNone, false
}

// FamilyOf returns the method family of a selector following the Clang ARC
// naming rule: after skipping leading underscores, the selector must either
// equal the family name or continue with a character that is not a lowercase
// letter.
func FamilyOf(selector string) Family {
	name := strings.TrimLeft(selector, "_")
	for _, f := range []Family{FamilyAlloc, FamilyNew, FamilyInit, FamilyCopy, FamilyMutableCopy} {
		prefix := familyNames[f]
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if rest == "" || rest[0] < 'a' || rest[0] > 'z' {
			return f
		}
	}
	return FamilyNone
}
