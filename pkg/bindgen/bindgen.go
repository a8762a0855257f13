// Package bindgen generates Go bindings from a framework's symbol model and
// translation config.
//
// Overrides are applied as follows: skipped declarations get no binding and
// neither does anything whose signature mentions them; renamed declarations
// are referenced by their new name everywhere; call sites taking or
// returning raw pointers get an Unsafe name prefix unless the config sets
// unsafe = false; module redirects resolve a name in another generated
// package.
package bindgen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/pkg/objc"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// DefaultImportPrefix is where generated framework packages live.
const DefaultImportPrefix = "github.com/blacktop/go-objc/frameworks"

const objcImportPath = "github.com/blacktop/go-objc/pkg/objc"

// Module pairs a framework's translation config with its symbol model.
type Module struct {
	Config  *translation.Config
	Symbols *symbols.Module
}

type Options struct {
	// ImportPrefix is the import path under which each module's package
	// lives, one directory per module.
	ImportPrefix string
	// Targets gates declarations by availability. Nil generates everything.
	Targets translation.Targets
}

// Skip records a declaration that got no binding.
type Skip struct {
	Kind   translation.Kind `json:"kind"`
	Name   string           `json:"name"`
	Reason string           `json:"reason"`
}

func (s Skip) String() string {
	return fmt.Sprintf("%s %s: %s", s.Kind, s.Name, s.Reason)
}

// Result is the generated binding of one module.
type Result struct {
	Module  string
	Source  []byte
	Skipped []Skip
}

// Generator generates the bindings of a set of modules. Modules may refer to
// the declarations of the modules they depend on.
type Generator struct {
	opts    Options
	modules map[string]*Module
	scopes  map[string]*scope
}

// New returns a generator for modules.
func New(opts Options, modules ...*Module) (*Generator, error) {
	if opts.ImportPrefix == "" {
		opts.ImportPrefix = DefaultImportPrefix
	}
	g := &Generator{
		opts:    opts,
		modules: make(map[string]*Module, len(modules)),
		scopes:  make(map[string]*scope, len(modules)),
	}
	for _, m := range modules {
		if m.Config == nil || m.Symbols == nil {
			return nil, errors.New("module needs both a translation config and a symbol model")
		}
		if _, ok := g.modules[m.Config.Module]; ok {
			return nil, errors.Errorf("module %s given twice", m.Config.Module)
		}
		if m.Symbols.Framework != m.Config.Framework {
			return nil, errors.Errorf("symbol model of %s describes framework %s", m.Config.Framework, m.Symbols.Framework)
		}
		g.modules[m.Config.Module] = m
	}
	return g, nil
}

func (g *Generator) scope(module string) (*scope, error) {
	if s, ok := g.scopes[module]; ok {
		return s, nil
	}
	m, ok := g.modules[module]
	if !ok {
		return nil, errors.Errorf("module %s not loaded", module)
	}
	s := newScope(g, m)
	g.scopes[module] = s
	return s, nil
}

// Generate returns the gofmt'd binding of module.
func (g *Generator) Generate(module string) (*Result, error) {
	s, err := g.scope(module)
	if err != nil {
		return nil, err
	}
	b := &builder{
		s:    s,
		pkg:  make(names),
		deps: make(map[string]bool),
		res:  &Result{Module: module},
		file: &file{
			Package:   s.cfg.Module,
			Framework: s.cfg.Framework,
			IsLibrary: s.cfg.IsLibrary,
		},
	}
	b.build()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, b.file); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	src, err := imports.Process(module+".go", buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to format generated %s", module)
	}
	b.res.Source = src
	log.WithFields(log.Fields{
		"module":  module,
		"skipped": len(b.res.Skipped),
	}).Debug("Generated bindings")
	return b.res, nil
}

var tmpl = template.Must(template.New("binding").Parse(bindingTemplate))

type declState uint8

const (
	unchecked declState = iota
	checking
	checked
	skipped
)

// decl is a named declaration of a module that types can refer to.
type decl struct {
	kind     translation.Kind
	name     string
	goName   string
	scope    *scope
	override translation.Override
	avail    symbols.Availability

	state declState
	err   error

	typedef *symbols.Typedef
	strct   *symbols.Struct
	enum    *symbols.Enum
	class   *symbols.Class
	proto   *symbols.Protocol

	underlying goType
}

// scope resolves names within one module and the modules it depends on.
type scope struct {
	g   *Generator
	mod *Module
	cfg *translation.Config

	typedefs  map[string]*decl
	structs   map[string]*decl
	enums     map[string]*decl
	classes   map[string]*decl
	protocols map[string]*decl
}

func newScope(g *Generator, m *Module) *scope {
	s := &scope{
		g:         g,
		mod:       m,
		cfg:       m.Config,
		typedefs:  make(map[string]*decl),
		structs:   make(map[string]*decl),
		enums:     make(map[string]*decl),
		classes:   make(map[string]*decl),
		protocols: make(map[string]*decl),
	}
	add := func(into map[string]*decl, d *decl) {
		d.scope = s
		d.override = s.cfg.Override(d.kind, d.name)
		d.goName = Exported(d.name)
		if d.override.Renamed != "" {
			d.goName = d.override.Renamed
		}
		into[d.name] = d
	}
	sym := m.Symbols
	for i := range sym.Typedefs {
		t := &sym.Typedefs[i]
		add(s.typedefs, &decl{kind: translation.KindTypedef, name: t.Name, avail: t.Available, typedef: t})
	}
	for i := range sym.Structs {
		st := &sym.Structs[i]
		add(s.structs, &decl{kind: translation.KindStruct, name: st.Name, avail: st.Available, strct: st})
	}
	for i := range sym.Enums {
		e := &sym.Enums[i]
		add(s.enums, &decl{kind: translation.KindEnum, name: e.Name, avail: e.Available, enum: e})
	}
	for i := range sym.Classes {
		c := &sym.Classes[i]
		add(s.classes, &decl{kind: translation.KindClass, name: c.Name, avail: c.Available, class: c})
	}
	for i := range sym.Protocols {
		p := &sym.Protocols[i]
		d := &decl{kind: translation.KindProtocol, name: p.Name, avail: p.Available, proto: p}
		add(s.protocols, d)
		if _, ok := s.classes[p.Name]; ok && d.override.Renamed == "" {
			// NSObject is both a class and a protocol
			d.goName += "Protocol"
		}
	}
	return s
}

func (s *scope) importPath() string {
	return s.g.opts.ImportPrefix + "/" + s.cfg.Module
}

// local finds a declaration of this module. A struct, union or enum tag
// restricts the search to that kind.
func (s *scope) local(tag, name string) *decl {
	switch tag {
	case "struct", "union":
		return s.structs[name]
	case "enum":
		return s.enums[name]
	}
	for _, m := range []map[string]*decl{s.typedefs, s.structs, s.enums, s.classes, s.protocols} {
		if d, ok := m[name]; ok {
			return d
		}
	}
	return nil
}

// redirect returns the module an override sends references to name to.
func (s *scope) redirect(name string) string {
	for _, kind := range []translation.Kind{
		translation.KindExternal,
		translation.KindTypedef,
		translation.KindStruct,
		translation.KindEnum,
		translation.KindClass,
		translation.KindProtocol,
	} {
		if m := s.cfg.Override(kind, name).Module; m != "" && m != s.cfg.Module {
			return m
		}
	}
	return ""
}

// lookup finds the declaration a type name refers to: locally, in the
// module an override redirects it to, or in a (transitive) dependency.
func (s *scope) lookup(tag, name string) (*decl, error) {
	if mod := s.redirect(name); mod != "" {
		other, err := s.g.scope(mod)
		if err != nil {
			return nil, skipf("%s is in module %s, which is not loaded", name, mod)
		}
		if d := other.local(tag, name); d != nil {
			return d, nil
		}
		return nil, &skipError{reason: fmt.Sprintf("unknown type %q in module %s", name, mod), unknown: true}
	}
	if d := s.local(tag, name); d != nil {
		return d, nil
	}
	seen := map[string]bool{s.cfg.Module: true}
	queue := s.cfg.Dependencies()
	for len(queue) > 0 {
		mod := queue[0]
		queue = queue[1:]
		if seen[mod] {
			continue
		}
		seen[mod] = true
		other, err := s.g.scope(mod)
		if err != nil {
			continue
		}
		if d := other.local(tag, name); d != nil {
			return d, nil
		}
		queue = append(queue, other.cfg.Dependencies()...)
	}
	return nil, &skipError{reason: fmt.Sprintf("unknown type %q", name), unknown: true}
}

// unavailable explains why a declaration with availability a is not
// generated for the configured targets, or returns "".
func (s *scope) unavailable(a symbols.Availability) string {
	if s.g.opts.Targets == nil || len(a) == 0 {
		return ""
	}
	avail := make(translation.Availability, len(a))
	for name, v := range a {
		p, err := translation.ParsePlatform(name)
		if err != nil {
			return err.Error()
		}
		if p == translation.GNUstep {
			avail[p] = nil
			continue
		}
		ver, err := version.NewVersion(v)
		if err != nil {
			return fmt.Sprintf("invalid %s availability %q", p, v)
		}
		avail[p] = ver
	}
	if ok, _ := avail.Supports(s.g.opts.Targets); ok {
		return ""
	}
	return avail.Unavailable(s.g.opts.Targets)
}

// check decides whether d can be generated, caching the outcome.
func (s *scope) check(d *decl) error {
	switch d.state {
	case checked:
		return nil
	case skipped:
		return d.err
	case checking:
		if d.kind == translation.KindTypedef {
			return skipf("typedef %s refers to itself", d.name)
		}
		// records may point to themselves
		return nil
	}
	d.state = checking
	if err := s.validate(d); err != nil {
		d.state, d.err = skipped, err
		return err
	}
	d.state = checked
	return nil
}

func (s *scope) validate(d *decl) error {
	if d.override.Skipped {
		return skipf("skipped in %s", translation.FileName)
	}
	if reason := s.unavailable(d.avail); reason != "" {
		return skipf("%s", reason)
	}
	switch d.kind {
	case translation.KindTypedef:
		u, err := s.resolve(d.typedef.Type, nil)
		if err != nil {
			return err
		}
		if u.void {
			return skipf("typedef of void")
		}
		d.underlying = u
	case translation.KindStruct:
		for _, f := range d.strct.Fields {
			t, err := s.resolve(f.Type, nil)
			if err != nil {
				return skipf("field %s: %s", f.Name, err)
			}
			if t.void {
				return skipf("field %s is void", f.Name)
			}
		}
	case translation.KindEnum:
		t, err := s.resolve(enumType(d.enum), nil)
		if err != nil {
			return err
		}
		if t.object || t.raw || t.void {
			return skipf("enum type %s is not an integer", enumType(d.enum))
		}
	case translation.KindClass:
		if d.class.Super != "" {
			if sd, err := s.lookup("", d.class.Super); err == nil && sd.kind == translation.KindClass {
				if _, err := s.reference(sd); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func enumType(e *symbols.Enum) string {
	if e.Type == "" {
		return "int"
	}
	return e.Type
}

// file is the data the binding template renders.
type file struct {
	Package   string
	Framework string
	IsLibrary bool
	Imports   []string
	Library   string
	Typedefs  []typedefDecl
	Structs   []structDecl
	Enums     []enumDecl
	Objects   []objectDecl
	Functions []funcDecl
	Statics   []staticDecl
}

type typedefDecl struct {
	Name string
	Type string
}

type fieldDecl struct {
	Name string
	Type string
}

type structDecl struct {
	Name   string
	Fields []fieldDecl
}

type enumValue struct {
	Name  string
	Value string
}

type enumDecl struct {
	Name   string
	Type   string
	Values []enumValue
}

type conversion struct {
	Name string
	Type string
}

type methodDecl struct {
	Name     string
	Doc      string
	Instance bool
	Params   string
	Result   string
	Body     string
}

type objectDecl struct {
	Name        string
	ObjCName    string
	Protocol    bool
	Define      bool
	ClassVar    string
	Conversions []conversion
	Methods     []methodDecl
}

type funcDecl struct {
	Name     string
	Symbol   string
	Var      string
	FuncType string
	Params   string
	Args     string
	Result   string
}

type staticDecl struct {
	Name   string
	Symbol string
	Type   string
}

// builder fills in a file from a scope.
type builder struct {
	s    *scope
	pkg  names
	deps map[string]bool
	res  *Result
	file *file
}

func (b *builder) skip(kind translation.Kind, name string, err error) {
	b.res.Skipped = append(b.res.Skipped, Skip{Kind: kind, Name: name, Reason: err.Error()})
}

// use notes the package a type lives in.
func (b *builder) use(t goType) goType {
	if t.pkg != "" {
		b.deps[t.pkg] = true
	}
	return t
}

// declare claims the package-level name of d, skipping d on collision.
func (b *builder) declare(d *decl) bool {
	if err := b.s.check(d); err != nil {
		b.skip(d.kind, d.name, err)
		return false
	}
	if d.override.DefinitionSkipped {
		b.skip(d.kind, d.name, skipf("definition skipped"))
		return false
	}
	if prev, ok := b.pkg.claim(d.goName, string(d.kind)+" "+d.name); !ok {
		b.skip(d.kind, d.name, skipf("name %s already used by %s", d.goName, prev))
		return false
	}
	return true
}

func (b *builder) build() {
	sym := b.s.mod.Symbols
	for i := range sym.Typedefs {
		b.typedef(b.s.typedefs[sym.Typedefs[i].Name])
	}
	for i := range sym.Structs {
		b.structure(b.s.structs[sym.Structs[i].Name])
	}
	for i := range sym.Enums {
		b.enumeration(b.s.enums[sym.Enums[i].Name])
	}
	for i := range sym.Classes {
		b.object(b.s.classes[sym.Classes[i].Name])
	}
	for i := range sym.Protocols {
		b.object(b.s.protocols[sym.Protocols[i].Name])
	}
	for _, fn := range sym.Functions {
		b.function(fn)
	}
	for _, st := range sym.Statics {
		b.static(st)
	}

	if len(b.file.Functions) > 0 || len(b.file.Statics) > 0 {
		if b.s.cfg.IsLibrary {
			b.file.Library = fmt.Sprintf("objc.NewLibrary(%q)", "/usr/lib/lib"+strings.ToLower(b.s.cfg.Framework)+".dylib")
		} else {
			b.file.Library = fmt.Sprintf("objc.Framework(%q)", b.s.cfg.Framework)
		}
	}
	b.file.Imports = []string{"sync", "unsafe", objcImportPath}
	for pkg := range b.deps {
		b.file.Imports = append(b.file.Imports, pkg)
	}
	sort.Strings(b.file.Imports[3:])
}

func (b *builder) typedef(d *decl) {
	if !b.declare(d) {
		return
	}
	b.use(d.underlying)
	b.file.Typedefs = append(b.file.Typedefs, typedefDecl{Name: d.goName, Type: d.underlying.expr})
}

func (b *builder) structure(d *decl) {
	if !b.declare(d) {
		return
	}
	sd := structDecl{Name: d.goName}
	for i, f := range d.strct.Fields {
		// validated by check
		t, _ := b.s.resolve(f.Type, nil)
		name := Exported(f.Name)
		if name == "" || name == "_" {
			name = fmt.Sprintf("Field%d", i)
		}
		sd.Fields = append(sd.Fields, fieldDecl{Name: name, Type: b.use(t.cABI()).expr})
	}
	b.file.Structs = append(b.file.Structs, sd)
}

func (b *builder) enumeration(d *decl) {
	if !b.declare(d) {
		return
	}
	t, _ := b.s.resolve(enumType(d.enum), nil)
	ed := enumDecl{Name: d.goName, Type: b.use(t).expr}
	for _, v := range d.enum.Values {
		name := Exported(v.Name)
		if prev, ok := b.pkg.claim(name, "enum value "+v.Name); !ok {
			b.skip(translation.KindEnum, d.name+"."+v.Name, skipf("name %s already used by %s", name, prev))
			continue
		}
		ed.Values = append(ed.Values, enumValue{Name: name, Value: fmt.Sprint(v.Value)})
	}
	b.file.Enums = append(b.file.Enums, ed)
}

func (b *builder) object(d *decl) {
	if err := b.s.check(d); err != nil {
		b.skip(d.kind, d.name, err)
		return
	}
	if d.override.DefinitionSkipped {
		b.skip(d.kind, d.name, skipf("definition skipped"))
	}
	od := objectDecl{
		Name:     d.goName,
		ObjCName: d.name,
		Protocol: d.kind == translation.KindProtocol,
		Define:   !d.override.DefinitionSkipped,
	}
	if od.Define {
		if prev, ok := b.pkg.claim(d.goName, string(d.kind)+" "+d.name); !ok {
			b.skip(d.kind, d.name, skipf("name %s already used by %s", d.goName, prev))
			return
		}
	}
	recv := fmt.Sprintf("objc.ClassNamed(%q)", d.name)
	if d.kind == translation.KindClass && od.Define {
		od.ClassVar = d.goName + "Class"
		if _, ok := b.pkg.claim(od.ClassVar, "class object "+d.name); ok {
			recv = od.ClassVar
		} else {
			od.ClassVar = ""
		}
	}

	members := names{"ID": "objc.Object", "IsNil": "objc.Object"}
	var supers, protocols []string
	if d.class != nil {
		if d.class.Super != "" {
			supers = append(supers, d.class.Super)
		}
		protocols = d.class.Protocols
	} else {
		protocols = d.proto.Protocols
	}
	for _, name := range supers {
		b.conversion(&od, members, "", name)
	}
	for _, name := range protocols {
		b.conversion(&od, members, "protocol", name)
	}

	var methods []symbols.Method
	if d.class != nil {
		methods = d.class.Methods
	} else {
		methods = d.proto.Methods
	}
	for _, m := range methods {
		md, err := b.method(d, m, recv, members)
		if err != nil {
			b.skip(d.kind, fmt.Sprintf("%s[%s %s]", m.String()[:1], d.name, m.Selector), err)
			continue
		}
		od.Methods = append(od.Methods, md)
	}
	b.file.Objects = append(b.file.Objects, od)
}

// conversion adds an As<Name> method converting to a superclass or adopted
// protocol, when that type is generated.
func (b *builder) conversion(od *objectDecl, members names, tag, name string) {
	var target *decl
	if tag == "protocol" {
		if d, err := b.s.lookupProtocol(name); err == nil {
			target = d
		}
	} else if d, err := b.s.lookup("", name); err == nil && d.kind == translation.KindClass {
		target = d
	}
	if target == nil {
		return
	}
	t, err := b.s.reference(target)
	if err != nil {
		return
	}
	method := "As" + target.goName
	if _, ok := members.claim(method, "conversion"); !ok {
		return
	}
	od.Conversions = append(od.Conversions, conversion{Name: method, Type: b.use(t).expr})
}

// lookupProtocol finds a protocol by name here or in a dependency.
func (s *scope) lookupProtocol(name string) (*decl, error) {
	if d, ok := s.protocols[name]; ok {
		return d, nil
	}
	d, err := s.lookup("", name)
	if err != nil {
		return nil, err
	}
	if d.kind != translation.KindProtocol {
		if p, ok := d.scope.protocols[name]; ok {
			return p, nil
		}
		return nil, skipf("%s is not a protocol", name)
	}
	return d, nil
}

var familyConsts = map[objc.Family]string{
	objc.FamilyNone:        "objc.FamilyNone",
	objc.FamilyAlloc:       "objc.FamilyAlloc",
	objc.FamilyNew:         "objc.FamilyNew",
	objc.FamilyInit:        "objc.FamilyInit",
	objc.FamilyCopy:        "objc.FamilyCopy",
	objc.FamilyMutableCopy: "objc.FamilyMutableCopy",
	objc.FamilyRetained:    "objc.FamilyRetained",
}

func (b *builder) method(d *decl, m symbols.Method, recv string, members names) (methodDecl, error) {
	ov := b.s.cfg.MethodOverride(d.kind, d.name, m.Selector)
	if ov.Skipped {
		return methodDecl{}, skipf("skipped in %s", translation.FileName)
	}
	if reason := b.s.unavailable(m.Available); reason != "" {
		return methodDecl{}, skipf("%s", reason)
	}
	if d.kind == translation.KindProtocol && m.Class {
		return methodDecl{}, skipf("class methods of protocols are not bound")
	}

	ret, err := b.s.resolve(m.Returns, d)
	if err != nil {
		return methodDecl{}, skipf("result: %s", err)
	}
	b.use(ret)

	family := m.Family()
	switch {
	case !ret.object && family != objc.FamilyNone:
		// only object results follow the ownership conventions
		family = objc.FamilyNone
	case m.Class && family == objc.FamilyInit, !m.Class && family == objc.FamilyAlloc:
		family = objc.FamilyRetained
	case d.kind == translation.KindProtocol && family == objc.FamilyInit:
		return methodDecl{}, skipf("init methods of protocols are not bound")
	}

	in := m.Params
	var errType string
	if n := len(in); n > 0 && strings.HasSuffix(m.Selector, "error:") && reportsError(m, ret, family) {
		if t, ok := b.s.errorOut(in[n-1].Type, d); ok {
			errType = b.use(t).expr
			in = in[:n-1]
		}
	}

	unsafe := ret.raw
	var params, args []string
	if !m.Class && family == objc.FamilyInit {
		params = append(params, "alloc *objc.Allocated["+d.goName+"]")
	}
	for i, p := range in {
		t, err := b.s.resolve(p.Type, d)
		if err != nil {
			return methodDecl{}, skipf("param %s: %s", p.Name, err)
		}
		if t.void {
			return methodDecl{}, skipf("param %s is void", p.Name)
		}
		b.use(t)
		unsafe = unsafe || t.raw
		name := paramName(p.Name, i)
		params = append(params, name+" "+t.param())
		args = append(args, name)
	}
	if ov.Unsafe != nil {
		unsafe = *ov.Unsafe
	}

	md := methodDecl{
		Instance: !m.Class && family != objc.FamilyInit,
		Doc:      fmt.Sprintf("%s[%s %s]", m.String()[:1], d.name, m.Selector),
		Params:   strings.Join(params, ", "),
	}
	name := ov.Renamed
	if name == "" {
		name = MethodName(m.Selector)
	}
	if unsafe {
		name = "Unsafe" + name
	}
	if md.Instance {
		if prev, ok := members.claim(name, md.Doc); !ok {
			return methodDecl{}, skipf("name %s already used by %s", name, prev)
		}
		md.Name = name
		recv = "self"
	} else {
		md.Name = d.goName + name
		if prev, ok := b.pkg.claim(md.Name, md.Doc); !ok {
			return methodDecl{}, skipf("name %s already used by %s", md.Name, prev)
		}
	}

	sel := fmt.Sprintf("objc.RegisterName(%q)", m.Selector)
	callArgs := sel
	if len(args) > 0 {
		callArgs += ", " + strings.Join(args, ", ")
	}
	if errType != "" {
		switch {
		case family == objc.FamilyInit:
			md.Result = "(*objc.Retained[" + d.goName + "], error)"
			md.Body = fmt.Sprintf("return objc.InitWithError[%s, %s](alloc, %s)", d.goName, errType, callArgs)
		case ret.object:
			md.Result = "(*objc.Retained[" + ret.expr + "], error)"
			md.Body = fmt.Sprintf("return objc.SendRetainedWithError[%s, %s](%s, %s)", ret.expr, errType, recv, callArgs)
		default:
			md.Result = "error"
			md.Body = fmt.Sprintf("return objc.SendWithError[%s](%s, %s)", errType, recv, callArgs)
		}
		return md, nil
	}
	switch {
	case ret.void:
		md.Body = fmt.Sprintf("objc.Call(%s, %s)", recv, callArgs)
	case family == objc.FamilyNone:
		md.Result = ret.expr
		md.Body = fmt.Sprintf("return objc.Send[%s](%s, %s)", ret.expr, recv, callArgs)
	case family == objc.FamilyAlloc:
		md.Result = "*objc.Allocated[" + d.goName + "]"
		md.Body = fmt.Sprintf("return objc.SendAlloc[%s](%s, %s)", d.goName, recv, callArgs)
	case family == objc.FamilyInit:
		md.Result = "*objc.Retained[" + d.goName + "]"
		if m.Nullability == symbols.Nonnull {
			md.Body = fmt.Sprintf("return objc.Must(objc.InitNonNil(alloc, %s))", callArgs)
		} else {
			md.Body = fmt.Sprintf("return objc.Init(alloc, %s)", callArgs)
		}
	default:
		md.Result = "*objc.Retained[" + ret.expr + "]"
		md.Body = fmt.Sprintf("return objc.SendRetainedWith[%s](%s, %s, %s)", ret.expr, familyConsts[family], recv, callArgs)
	}
	return md, nil
}

// reportsError reports whether a method ending in an NSError ** parameter
// signals failure the Cocoa way: NO, or a NULL object whose ownership
// follows from the selector.
func reportsError(m symbols.Method, ret goType, family objc.Family) bool {
	switch {
	case family == objc.FamilyInit:
		return !m.Class
	case ret.object:
		return family != objc.FamilyAlloc && family == objc.FamilyOf(m.Selector)
	}
	return ret.expr == "bool" && !ret.named
}

func (b *builder) function(fn symbols.Function) {
	ov := b.s.cfg.Override(translation.KindFn, fn.Name)
	switch {
	case ov.Skipped:
		b.skip(translation.KindFn, fn.Name, skipf("skipped in %s", translation.FileName))
		return
	case ov.DefinitionSkipped:
		b.skip(translation.KindFn, fn.Name, skipf("definition skipped"))
		return
	}
	if reason := b.s.unavailable(fn.Available); reason != "" {
		b.skip(translation.KindFn, fn.Name, skipf("%s", reason))
		return
	}

	unsafe := false
	var params, types, args []string
	for i, p := range fn.Params {
		t, err := b.s.resolve(p.Type, nil)
		if err == nil && t.void {
			err = skipf("is void")
		}
		if err != nil {
			b.skip(translation.KindFn, fn.Name, skipf("param %s: %s", p.Name, err))
			return
		}
		t = b.use(t.cABI())
		unsafe = unsafe || t.raw
		name := paramName(p.Name, i)
		params = append(params, name+" "+t.expr)
		types = append(types, t.expr)
		args = append(args, name)
	}
	ret, err := b.s.resolve(fn.Returns, nil)
	if err != nil {
		b.skip(translation.KindFn, fn.Name, skipf("result: %s", err))
		return
	}
	ret = b.use(ret.cABI())
	unsafe = unsafe || ret.raw
	if ov.Unsafe != nil {
		unsafe = *ov.Unsafe
	}

	fd := funcDecl{
		Name:   Exported(fn.Name),
		Symbol: fn.Name,
		Var:    "fn" + fn.Name,
		Params: strings.Join(params, ", "),
		Args:   strings.Join(args, ", "),
	}
	if ov.Renamed != "" {
		fd.Name = ov.Renamed
	}
	if unsafe {
		fd.Name = "Unsafe" + fd.Name
	}
	fd.FuncType = "func(" + strings.Join(types, ", ") + ")"
	if !ret.void {
		fd.Result = ret.expr
		fd.FuncType += " " + ret.expr
	}
	for _, n := range []string{fd.Name, fd.Var} {
		if prev, ok := b.pkg.claim(n, "fn "+fn.Name); !ok {
			b.skip(translation.KindFn, fn.Name, skipf("name %s already used by %s", n, prev))
			return
		}
	}
	b.file.Functions = append(b.file.Functions, fd)
}

func (b *builder) static(st symbols.Static) {
	ov := b.s.cfg.Override(translation.KindStatic, st.Name)
	switch {
	case ov.Skipped:
		b.skip(translation.KindStatic, st.Name, skipf("skipped in %s", translation.FileName))
		return
	case ov.DefinitionSkipped:
		b.skip(translation.KindStatic, st.Name, skipf("definition skipped"))
		return
	}
	if reason := b.s.unavailable(st.Available); reason != "" {
		b.skip(translation.KindStatic, st.Name, skipf("%s", reason))
		return
	}
	t, err := b.s.resolve(st.Type, nil)
	if err == nil && t.void {
		err = skipf("static of type void")
	}
	if err != nil {
		b.skip(translation.KindStatic, st.Name, err)
		return
	}
	sd := staticDecl{Name: Exported(st.Name), Symbol: st.Name, Type: b.use(t).expr}
	if ov.Renamed != "" {
		sd.Name = ov.Renamed
	}
	if prev, ok := b.pkg.claim(sd.Name, "static "+st.Name); !ok {
		b.skip(translation.KindStatic, st.Name, skipf("name %s already used by %s", sd.Name, prev))
		return
	}
	b.file.Statics = append(b.file.Statics, sd)
}
