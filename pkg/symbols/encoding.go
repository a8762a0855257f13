package symbols

import (
	"strconv"
	"strings"

	"github.com/blacktop/go-objc/pkg/objc"
	"github.com/pkg/errors"
)

var encodedTypes = map[byte]string{
	'c': "char",
	'i': "int",
	's': "short",
	'l': "long",
	'q': "long long",
	'C': "unsigned char",
	'I': "unsigned int",
	'S': "unsigned short",
	'L': "unsigned long",
	'Q': "unsigned long long",
	'f': "float",
	'd': "double",
	'B': "bool",
	'v': "void",
	'*': "char *",
	'@': "id",
	'#': "Class",
	':': "SEL",
	'?': "void *",
}

// DecodeType turns a single Objective-C type encoding into the C spelling
// the generator resolves. Type qualifiers must already be stripped.
func DecodeType(enc string) string {
	if enc == "" {
		return "void"
	}
	switch enc[0] {
	case '@':
		switch {
		case enc == "@?":
			// blocks are passed as objects
			return "id"
		case len(enc) > 3 && enc[1] == '"':
			name := strings.Trim(enc[1:], `"`)
			if strings.HasPrefix(name, "<") {
				return "id"
			}
			if i := strings.IndexByte(name, '<'); i > 0 {
				name = name[:i]
			}
			return name + " *"
		}
		return "id"
	case '^':
		if enc == "^?" {
			return "void *"
		}
		inner := DecodeType(enc[1:])
		if inner == "void" {
			return "void *"
		}
		return inner + " *"
	case 'r':
		return "const " + DecodeType(enc[1:])
	case '{', '(':
		end := strings.IndexAny(enc, "=}")
		if end < 0 {
			end = len(enc)
		}
		name := enc[1:end]
		if name == "" || name == "?" {
			return "void *"
		}
		if enc[0] == '(' {
			return "union " + name
		}
		return "struct " + name
	case '[':
		i := 1
		for i < len(enc) && enc[i] >= '0' && enc[i] <= '9' {
			i++
		}
		n, _ := strconv.Atoi(enc[1:i])
		return DecodeType(strings.TrimSuffix(enc[i:], "]")) + "[" + strconv.Itoa(n) + "]"
	case 'b':
		return "unsigned int"
	}
	if t, ok := encodedTypes[enc[0]]; ok {
		return t
	}
	return "void *"
}

// MethodFromEncoding builds a method declaration from a selector and its
// runtime type encoding. Parameters are named arg0, arg1 and so on.
func MethodFromEncoding(selector string, class bool, enc string) (Method, error) {
	types, err := objc.SplitMethodEncoding(enc)
	if err != nil {
		return Method{}, err
	}
	if len(types) < 3 {
		return Method{}, errors.Errorf("method encoding %q of %s is missing self and _cmd", enc, selector)
	}
	m := Method{
		Selector: selector,
		Class:    class,
		Returns:  DecodeType(types[0]),
		Encoding: enc,
	}
	if m.Returns == "void" {
		m.Returns = ""
	}
	args := types[3:]
	if len(args) != m.Arity() {
		return Method{}, errors.Errorf("method encoding %q has %d arguments but %s takes %d", enc, len(args), selector, m.Arity())
	}
	for i, arg := range args {
		m.Params = append(m.Params, Param{
			Name: "arg" + strconv.Itoa(i),
			Type: DecodeType(arg),
		})
	}
	return m, nil
}
