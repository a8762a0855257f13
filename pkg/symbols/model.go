// Package symbols is the declarative description of a framework's API that
// the generator turns into bindings. A model is usually written as YAML next
// to the framework's translation config:
//
//	framework: CoreGraphics
//	typedefs:
//	  - name: CGFloat
//	    type: double
//	structs:
//	  - name: CGPoint
//	    fields:
//	      - {name: x, type: CGFloat}
//	      - {name: y, type: CGFloat}
//	functions:
//	  - name: CGMainDisplayID
//	    returns: uint32_t
//
// Class and protocol declarations can also be imported from the Objective-C
// metadata of a Mach-O with FromMachO.
package symbols

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/pkg/objc"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the name of a framework's symbol model inside its directory.
const FileName = "symbols.yaml"

// Nullability of a pointer parameter or result.
type Nullability string

const (
	Unspecified Nullability = ""
	Nonnull     Nullability = "nonnull"
	Nullable    Nullability = "nullable"
)

// Ownership is the retain convention annotated on a method result.
type Ownership string

const (
	// Inferred ownership follows the method family of the selector.
	Inferred    Ownership = ""
	Retained    Ownership = "retained"
	NotRetained Ownership = "not-retained"
)

// Availability maps platform names to the version a declaration was
// introduced in. An empty map means the declaration follows its framework.
type Availability map[string]string

// Module is the symbol model of one framework.
type Module struct {
	Framework string       `yaml:"framework" json:"framework"`
	Version   string       `yaml:"version,omitempty" json:"version,omitempty"`
	Functions []Function   `yaml:"functions,omitempty" json:"functions,omitempty"`
	Structs   []Struct     `yaml:"structs,omitempty" json:"structs,omitempty"`
	Typedefs  []Typedef    `yaml:"typedefs,omitempty" json:"typedefs,omitempty"`
	Enums     []Enum       `yaml:"enums,omitempty" json:"enums,omitempty"`
	Classes   []Class      `yaml:"classes,omitempty" json:"classes,omitempty"`
	Protocols []Protocol   `yaml:"protocols,omitempty" json:"protocols,omitempty"`
	Statics   []Static     `yaml:"statics,omitempty" json:"statics,omitempty"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

type Param struct {
	Name        string      `yaml:"name" json:"name"`
	Type        string      `yaml:"type" json:"type"`
	Nullability Nullability `yaml:"nullability,omitempty" json:"nullability,omitempty" jsonschema:"enum=,enum=nonnull,enum=nullable"`
}

// Function is a C function exported by the framework's binary.
type Function struct {
	Name      string       `yaml:"name" json:"name"`
	Params    []Param      `yaml:"params,omitempty" json:"params,omitempty"`
	Returns   string       `yaml:"returns,omitempty" json:"returns,omitempty"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

type Struct struct {
	Name      string       `yaml:"name" json:"name"`
	Fields    []Field      `yaml:"fields" json:"fields"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

type Typedef struct {
	Name      string       `yaml:"name" json:"name"`
	Type      string       `yaml:"type" json:"type"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

type EnumValue struct {
	Name  string `yaml:"name" json:"name"`
	Value int64  `yaml:"value" json:"value"`
}

type Enum struct {
	Name      string       `yaml:"name" json:"name"`
	Type      string       `yaml:"type" json:"type"`
	Values    []EnumValue  `yaml:"values" json:"values"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

// Method is an Objective-C method of a class or protocol.
type Method struct {
	Selector string `yaml:"selector" json:"selector"`
	// Class methods are sent to the class object.
	Class       bool        `yaml:"class,omitempty" json:"class,omitempty"`
	Params      []Param     `yaml:"params,omitempty" json:"params,omitempty"`
	Returns     string      `yaml:"returns,omitempty" json:"returns,omitempty"`
	Nullability Nullability `yaml:"nullability,omitempty" json:"nullability,omitempty" jsonschema:"enum=,enum=nonnull,enum=nullable"`
	Ownership   Ownership   `yaml:"ownership,omitempty" json:"ownership,omitempty" jsonschema:"enum=,enum=retained,enum=not-retained"`
	// Encoding is the runtime type encoding, when known.
	Encoding  string       `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Optional  bool         `yaml:"optional,omitempty" json:"optional,omitempty"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

// Family returns the memory-management family of the method's result:
// the annotated ownership if any, else the family of its selector.
func (m Method) Family() objc.Family {
	switch m.Ownership {
	case Retained:
		if f := objc.FamilyOf(m.Selector); f != objc.FamilyNone {
			return f
		}
		return objc.FamilyRetained
	case NotRetained:
		return objc.FamilyNone
	}
	return objc.FamilyOf(m.Selector)
}

// Arity is the number of arguments the selector takes.
func (m Method) Arity() int {
	return strings.Count(m.Selector, ":")
}

func (m Method) String() string {
	if m.Class {
		return "+" + m.Selector
	}
	return "-" + m.Selector
}

type Class struct {
	Name      string       `yaml:"name" json:"name"`
	Super     string       `yaml:"super,omitempty" json:"super,omitempty"`
	Protocols []string     `yaml:"protocols,omitempty" json:"protocols,omitempty"`
	Methods   []Method     `yaml:"methods,omitempty" json:"methods,omitempty"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

type Protocol struct {
	Name      string       `yaml:"name" json:"name"`
	Protocols []string     `yaml:"protocols,omitempty" json:"protocols,omitempty"`
	Methods   []Method     `yaml:"methods,omitempty" json:"methods,omitempty"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

// Static is an exported global variable.
type Static struct {
	Name      string       `yaml:"name" json:"name"`
	Type      string       `yaml:"type" json:"type"`
	Available Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

// Load reads a symbol model file.
func Load(path string) (*Module, error) {
	f, err := os.Open(path) // #nosec
	if err != nil {
		return nil, err
	}
	defer f.Close()
	log.WithField("file", path).Debug("Loading symbol model")
	m, err := LoadReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return m, nil
}

// LoadReader decodes a symbol model. Unknown fields are errors.
func LoadReader(r io.Reader) (*Module, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	m := &Module{}
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty symbol model")
		}
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Write encodes m as YAML.
func (m *Module) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks that names are present and unique per kind and that
// selectors match their parameter lists.
func (m *Module) Validate() error {
	if m.Framework == "" {
		return errors.New("missing framework name")
	}
	seen := make(map[string]string)
	declare := func(kind, name string) error {
		if name == "" {
			return errors.Errorf("%s without a name", kind)
		}
		if prev, ok := seen[kind+" "+name]; ok {
			return errors.Errorf("duplicate %s %s (already declared as %s)", kind, name, prev)
		}
		seen[kind+" "+name] = kind
		return nil
	}
	for _, fn := range m.Functions {
		if err := declare("function", fn.Name); err != nil {
			return err
		}
	}
	for _, s := range m.Structs {
		if err := declare("struct", s.Name); err != nil {
			return err
		}
	}
	for _, t := range m.Typedefs {
		if err := declare("typedef", t.Name); err != nil {
			return err
		}
		if t.Type == "" {
			return errors.Errorf("typedef %s has no type", t.Name)
		}
	}
	for _, e := range m.Enums {
		if err := declare("enum", e.Name); err != nil {
			return err
		}
	}
	for _, s := range m.Statics {
		if err := declare("static", s.Name); err != nil {
			return err
		}
	}
	for _, c := range m.Classes {
		if err := declare("class", c.Name); err != nil {
			return err
		}
		if err := validateMethods("class "+c.Name, c.Methods); err != nil {
			return err
		}
	}
	for _, p := range m.Protocols {
		if err := declare("protocol", p.Name); err != nil {
			return err
		}
		if err := validateMethods("protocol "+p.Name, p.Methods); err != nil {
			return err
		}
	}
	return nil
}

func validateMethods(owner string, methods []Method) error {
	seen := make(map[string]bool)
	for _, meth := range methods {
		if meth.Selector == "" {
			return errors.Errorf("%s: method without a selector", owner)
		}
		if seen[meth.String()] {
			return errors.Errorf("%s: duplicate method %s", owner, meth)
		}
		seen[meth.String()] = true
		if meth.Arity() != len(meth.Params) {
			return errors.Errorf("%s: %s takes %d arguments but declares %d params", owner, meth, meth.Arity(), len(meth.Params))
		}
		switch meth.Ownership {
		case Inferred, Retained, NotRetained:
		default:
			return errors.Errorf("%s: %s has unknown ownership %q", owner, meth, meth.Ownership)
		}
	}
	return nil
}

// Class returns the class named name.
func (m *Module) Class(name string) (*Class, bool) {
	for i := range m.Classes {
		if m.Classes[i].Name == name {
			return &m.Classes[i], true
		}
	}
	return nil, false
}

// Merge adds the classes and protocols of other that m does not declare yet,
// and the methods m's existing classes and protocols lack.
func (m *Module) Merge(other *Module) {
	for _, c := range other.Classes {
		if have, ok := m.Class(c.Name); ok {
			have.Methods = mergeMethods(have.Methods, c.Methods)
			if have.Super == "" {
				have.Super = c.Super
			}
			continue
		}
		m.Classes = append(m.Classes, c)
	}
	for _, p := range other.Protocols {
		found := false
		for i := range m.Protocols {
			if m.Protocols[i].Name == p.Name {
				m.Protocols[i].Methods = mergeMethods(m.Protocols[i].Methods, p.Methods)
				found = true
				break
			}
		}
		if !found {
			m.Protocols = append(m.Protocols, p)
		}
	}
	m.Sort()
}

func mergeMethods(have, add []Method) []Method {
	seen := make(map[string]bool, len(have))
	for _, meth := range have {
		seen[meth.String()] = true
	}
	for _, meth := range add {
		if !seen[meth.String()] {
			have = append(have, meth)
		}
	}
	return have
}

// Sort orders classes, protocols and their methods by name so that
// generated output is stable.
func (m *Module) Sort() {
	sort.SliceStable(m.Classes, func(i, j int) bool { return m.Classes[i].Name < m.Classes[j].Name })
	sort.SliceStable(m.Protocols, func(i, j int) bool { return m.Protocols[i].Name < m.Protocols[j].Name })
	for i := range m.Classes {
		sortMethods(m.Classes[i].Methods)
	}
	for i := range m.Protocols {
		sortMethods(m.Protocols[i].Methods)
	}
}

func sortMethods(methods []Method) {
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].Class != methods[j].Class {
			return methods[i].Class
		}
		return methods[i].Selector < methods[j].Selector
	})
}
