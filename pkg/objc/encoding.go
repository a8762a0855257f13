package objc

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EncodingOf returns the Objective-C type encoding of a Go type as it is
// passed through a message send. A nil type or struct{} encodes as void.
func EncodingOf(t reflect.Type) string {
	if t == nil || t == voidType {
		return "v"
	}
	switch t {
	case selType:
		return ":"
	case classType, classRefType:
		return "#"
	case impType:
		return "^?"
	}
	if isObjectType(t) {
		return "@"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "B"
	case reflect.Int8:
		return "c"
	case reflect.Int16:
		return "s"
	case reflect.Int32:
		return "i"
	case reflect.Int, reflect.Int64:
		return "q"
	case reflect.Uint8:
		return "C"
	case reflect.Uint16:
		return "S"
	case reflect.Uint32:
		return "I"
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return "Q"
	case reflect.Float32:
		return "f"
	case reflect.Float64:
		return "d"
	case reflect.UnsafePointer:
		return "^v"
	case reflect.Pointer:
		return "^" + EncodingOf(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + EncodingOf(t.Elem()) + "]"
	case reflect.Struct:
		var sb strings.Builder
		sb.WriteString("{?=")
		for i := range t.NumField() {
			sb.WriteString(EncodingOf(t.Field(i).Type))
		}
		sb.WriteString("}")
		return sb.String()
	}
	return "?"
}

// qualifiers are the method type qualifiers (const, in, inout, out, bycopy,
// byref, oneway) plus the atomic and complex markers.
const qualifiers = "rnNoORVAj"

// SplitMethodEncoding splits a method type encoding such as
// "@24@0:8^v16" into its element types with qualifiers and frame offsets
// removed: the return type, self, _cmd and then the arguments.
func SplitMethodEncoding(enc string) ([]string, error) {
	var types []string
	for i := 0; i < len(enc); {
		start := i
		for i < len(enc) && strings.IndexByte(qualifiers, enc[i]) >= 0 {
			i++
		}
		typeStart := i
		end, err := skipType(enc, i)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid method encoding %q at %d", enc, start)
		}
		types = append(types, enc[typeStart:end])
		i = end
		for i < len(enc) && (enc[i] == '-' || enc[i] == '+' || isDigit(enc[i])) {
			i++
		}
	}
	return types, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// skipType returns the index just past the single type starting at i.
func skipType(enc string, i int) (int, error) {
	if i >= len(enc) {
		return i, errors.New("unexpected end of encoding")
	}
	switch c := enc[i]; c {
	case '{', '(', '[':
		return skipBracketed(enc, i)
	case '^':
		return skipType(enc, i+1)
	case '@':
		i++
		if i < len(enc) && enc[i] == '"' {
			end := strings.IndexByte(enc[i+1:], '"')
			if end < 0 {
				return i, errors.New("unterminated class name")
			}
			return i + end + 2, nil
		}
		if i < len(enc) && enc[i] == '?' {
			i++
			if i < len(enc) && enc[i] == '<' {
				end := strings.IndexByte(enc[i:], '>')
				if end < 0 {
					return i, errors.New("unterminated block signature")
				}
				return i + end + 1, nil
			}
		}
		return i, nil
	case 'b':
		i++
		for i < len(enc) && isDigit(enc[i]) {
			i++
		}
		return i, nil
	default:
		if strings.IndexByte(qualifiers, c) >= 0 {
			return skipType(enc, i+1)
		}
		return i + 1, nil
	}
}

func skipBracketed(enc string, i int) (int, error) {
	depth := 0
	for ; i < len(enc); i++ {
		switch enc[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		case '"':
			end := strings.IndexByte(enc[i+1:], '"')
			if end < 0 {
				return i, errors.New("unterminated field name")
			}
			i += end + 1
		}
	}
	return i, errors.Errorf("unbalanced %q", enc)
}

// EncodingsEquivalent reports whether a value encoded as found may be passed
// where expected is declared.
func EncodingsEquivalent(expected, found string) bool {
	return normalizeEncoding(expected) == normalizeEncoding(found)
}

func normalizeEncoding(enc string) string {
	enc = strings.TrimLeft(enc, qualifiers)
	if enc == "" {
		return enc
	}
	switch enc[0] {
	case '@':
		return "@"
	case '^', '*':
		return "^"
	case 'c', 'B':
		return "B"
	case 'l':
		return "q"
	case 'L':
		return "Q"
	case '{', '(':
		return normalizeAggregate(enc)
	case '[':
		n := 1
		for n < len(enc) && isDigit(enc[n]) {
			n++
		}
		return enc[:n] + normalizeEncoding(enc[n:len(enc)-1]) + "]"
	}
	return enc
}

// normalizeAggregate drops the tag name of a struct or union and normalises
// its fields. Aggregates spelled without fields keep their name.
func normalizeAggregate(enc string) string {
	opening, closing := enc[:1], enc[len(enc)-1:]
	body := enc[1 : len(enc)-1]
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		return enc
	}
	fields := body[eq+1:]
	var sb strings.Builder
	sb.WriteString(opening)
	for i := 0; i < len(fields); {
		if fields[i] == '"' {
			end := strings.IndexByte(fields[i+1:], '"')
			if end < 0 {
				break
			}
			i += end + 2
			continue
		}
		end, err := skipType(fields, i)
		if err != nil {
			return enc
		}
		sb.WriteString(normalizeEncoding(fields[i:end]))
		i = end
	}
	sb.WriteString(closing)
	return sb.String()
}
