package bindgen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MethodName turns a selector into a Go identifier by capitalising and
// joining its components: "initWithBytes:length:" becomes
// "InitWithBytesLength". Leading underscores are dropped.
func MethodName(selector string) string {
	var sb strings.Builder
	for _, part := range strings.Split(selector, ":") {
		sb.WriteString(Exported(strings.TrimLeft(part, "_")))
	}
	return sb.String()
}

// Exported upper-cases the first letter of name.
func Exported(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	if n == 0 || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[n:]
}

// paramName makes a C parameter name usable in Go.
func paramName(name string, i int) string {
	switch {
	case name == "" || !token.IsIdentifier(name):
		return "arg" + strconv.Itoa(i)
	case token.IsKeyword(name), reserved[name]:
		return name + "_"
	}
	return name
}

// reserved are identifiers generated code uses for its own purposes.
var reserved = map[string]bool{
	"self":   true,
	"alloc":  true,
	"objc":   true,
	"lib":    true,
	"sync":   true,
	"unsafe": true,
}

// names tracks the identifiers of one namespace so that generated
// declarations never collide.
type names map[string]string

// claim reserves name for owner, returning the previous owner if it is
// already taken.
func (n names) claim(name, owner string) (string, bool) {
	if prev, ok := n[name]; ok {
		return prev, false
	}
	n[name] = owner
	return "", true
}
