package bindgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/pkg/errors"
)

// goType is a C type spelling resolved to Go.
type goType struct {
	expr string
	// import path of the package expr refers to, if not the current one
	pkg string
	// object is an Objective-C object wrapper type.
	object bool
	// any is the untyped id.
	any bool
	// raw pointers make call sites carry caller preconditions.
	raw  bool
	void bool
	// named marks typedef names, which already include any pointer.
	named bool
}

// param is the type of a method parameter: untyped ids accept any receiver.
func (t goType) param() string {
	if t.any {
		return "objc.MessageReceiver"
	}
	return t.expr
}

// cABI is the type used across a C function call, where objects travel as
// ids.
func (t goType) cABI() goType {
	if t.object {
		return goType{expr: "objc.ID"}
	}
	return t
}

// skipError explains why a declaration cannot be generated.
type skipError struct {
	reason  string
	unknown bool
}

func (e *skipError) Error() string { return e.reason }

func skipf(format string, args ...any) *skipError {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

var primitives = map[string]string{
	"bool":               "bool",
	"_Bool":              "bool",
	"BOOL":               "bool",
	"char":               "int8",
	"signed char":        "int8",
	"unsigned char":      "uint8",
	"short":              "int16",
	"unsigned short":     "uint16",
	"int":                "int32",
	"signed":             "int32",
	"unsigned":           "uint32",
	"unsigned int":       "uint32",
	"long":               "int",
	"unsigned long":      "uint",
	"long long":          "int64",
	"unsigned long long": "uint64",
	"float":              "float32",
	"double":             "float64",
	"int8_t":             "int8",
	"int16_t":            "int16",
	"int32_t":            "int32",
	"int64_t":            "int64",
	"uint8_t":            "uint8",
	"uint16_t":           "uint16",
	"uint32_t":           "uint32",
	"uint64_t":           "uint64",
	"size_t":             "uint",
	"ssize_t":            "int",
	"intptr_t":           "int",
	"uintptr_t":          "uintptr",
}

// qualifiers carry no meaning for the Go rendering of a type.
var qualifiers = map[string]bool{
	"const":               true,
	"volatile":            true,
	"restrict":            true,
	"_Nonnull":            true,
	"_Nullable":           true,
	"_Null_unspecified":   true,
	"__kindof":            true,
	"__strong":            true,
	"__weak":              true,
	"__unsafe_unretained": true,
	"__autoreleasing":     true,
	"NS_NOESCAPE":         true,
}

// spelling is a C type split into its base name, pointer depth and array
// length.
type spelling struct {
	tag   string // struct, union or enum
	base  string
	depth int
	array int
	// block and function pointer types
	block, fnptr bool
}

func parseSpelling(s string) spelling {
	var sp spelling
	if strings.Contains(s, "(^") {
		sp.block = true
		return sp
	}
	if strings.Contains(s, "(*") {
		sp.fnptr = true
		return sp
	}
	s = stripAngles(s)
	if i := strings.IndexByte(s, '['); i >= 0 {
		sp.array, _ = strconv.Atoi(strings.TrimSpace(strings.Trim(s[i:], "[]")))
		if sp.array == 0 {
			// T[] decays to a pointer
			sp.depth++
		}
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "*", " * ")
	var words []string
	for _, w := range strings.Fields(s) {
		switch {
		case qualifiers[w]:
		case w == "*":
			sp.depth++
		case len(words) == 0 && sp.tag == "" && (w == "struct" || w == "union" || w == "enum"):
			sp.tag = w
		default:
			words = append(words, w)
		}
	}
	sp.base = strings.Join(words, " ")
	return sp
}

// stripAngles removes protocol qualifiers and generic arguments.
func stripAngles(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// resolve turns a C type spelling used inside s into a Go type. owner is the
// class instancetype refers to.
func (s *scope) resolve(spell string, owner *decl) (goType, error) {
	sp := parseSpelling(spell)
	switch {
	case sp.block:
		return goType{expr: "objc.AnyObject", object: true, any: true}, nil
	case sp.fnptr:
		return goType{expr: "unsafe.Pointer", raw: true}, nil
	}
	t, err := s.resolvePointer(sp, owner)
	if err != nil {
		return goType{}, err
	}
	if sp.array > 0 {
		if t.void {
			return goType{}, skipf("array of void")
		}
		t.expr = "[" + strconv.Itoa(sp.array) + "]" + t.expr
		t.object, t.any = false, false
	}
	return t, nil
}

func (s *scope) resolvePointer(sp spelling, owner *decl) (goType, error) {
	if sp.depth == 0 {
		return s.resolveBase(sp, owner)
	}
	switch sp.base {
	case "void":
		return goType{expr: strings.Repeat("*", sp.depth-1) + "unsafe.Pointer", raw: true}, nil
	case "char", "unsigned char":
		if sp.tag == "" {
			return goType{expr: strings.Repeat("*", sp.depth) + "byte", raw: true}, nil
		}
	case "id", "instancetype", "Class":
		// out-parameters such as NSError **
		return goType{expr: strings.Repeat("*", sp.depth) + "objc.ID", raw: true}, nil
	}

	base, err := s.resolveBase(spelling{tag: sp.tag, base: sp.base}, owner)
	if err != nil {
		var serr *skipError
		if errors.As(err, &serr) && serr.unknown && (sp.tag != "" || strings.HasPrefix(sp.base, "__")) {
			// opaque record
			return goType{expr: "unsafe.Pointer", raw: true}, nil
		}
		return goType{}, err
	}
	depth := sp.depth
	if base.object && !base.named {
		if depth == 1 {
			return base, nil
		}
		depth--
	}
	return goType{expr: strings.Repeat("*", depth) + base.expr, pkg: base.pkg, raw: true}, nil
}

// errorOut returns the class of an NSError ** out-parameter.
func (s *scope) errorOut(spell string, owner *decl) (goType, bool) {
	sp := parseSpelling(spell)
	if sp.depth != 2 || sp.tag != "" || sp.array != 0 || sp.block || sp.fnptr || sp.base != "NSError" {
		return goType{}, false
	}
	t, err := s.resolveBase(spelling{base: sp.base}, owner)
	if err != nil || !t.object || t.named {
		return goType{}, false
	}
	return t, true
}

func (s *scope) resolveBase(sp spelling, owner *decl) (goType, error) {
	switch sp.base {
	case "", "void":
		return goType{void: true}, nil
	case "id":
		return goType{expr: "objc.AnyObject", object: true, any: true}, nil
	case "instancetype":
		if owner == nil || owner.kind != translation.KindClass {
			return goType{expr: "objc.AnyObject", object: true, any: true}, nil
		}
		return s.reference(owner)
	case "SEL":
		return goType{expr: "objc.Sel"}, nil
	case "Class":
		return goType{expr: "objc.Class"}, nil
	case "IMP":
		return goType{expr: "objc.IMP", raw: true}, nil
	}
	if sp.tag == "" {
		if p, ok := primitives[sp.base]; ok {
			return goType{expr: p}, nil
		}
	}
	d, err := s.lookup(sp.tag, sp.base)
	if err != nil {
		return goType{}, err
	}
	return s.reference(d)
}

// reference returns the Go type naming d, failing if d is skipped.
func (s *scope) reference(d *decl) (goType, error) {
	if err := d.scope.check(d); err != nil {
		return goType{}, skipf("depends on skipped %s %s", d.kind, d.name)
	}
	t := goType{expr: d.goName}
	if d.scope != s {
		t.expr = d.scope.cfg.Module + "." + d.goName
		t.pkg = d.scope.importPath()
	}
	switch d.kind {
	case translation.KindClass, translation.KindProtocol:
		t.object = true
	case translation.KindTypedef:
		u := d.underlying
		t.object, t.any, t.raw = u.object, u.any, u.raw
		t.named = true
	}
	return t, nil
}
