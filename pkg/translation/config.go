// Package translation loads the per-framework translation-config.toml files
// that drive binding generation.
//
// A config names the framework and the Go package generated for it, the
// minimum platform versions the framework is available on, and overrides
// for individual symbols:
//
//	framework = "CoreGraphics"
//	module = "coregraphics"
//	required-modules = ["corefoundation"]
//	macos = "10.8"
//	ios = "2.0"
//
//	fn.CGDisplayCreateUUIDFromDisplayID.skipped = true
//	typedef.CGFloat.renamed = "Float"
//	class.NSData.methods."bytes".unsafe = false
package translation

import (
	"fmt"
	"go/token"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// FileName is the name of a framework's config file.
const FileName = "translation-config.toml"

// Kind is the kind of symbol an override applies to.
type Kind string

const (
	KindFn       Kind = "fn"
	KindStruct   Kind = "struct"
	KindTypedef  Kind = "typedef"
	KindEnum     Kind = "enum"
	KindClass    Kind = "class"
	KindProtocol Kind = "protocol"
	KindStatic   Kind = "static"
	KindExternal Kind = "external"
)

// Kinds lists every override kind in config order.
var Kinds = []Kind{KindFn, KindStruct, KindTypedef, KindEnum, KindClass, KindProtocol, KindStatic, KindExternal}

// Attributes lists the attributes an override may set.
var Attributes = []string{"skipped", "renamed", "definition-skipped", "unsafe", "module"}

// Override adjusts how one symbol is translated.
type Override struct {
	// Skipped symbols get no binding, and neither does anything using them.
	Skipped bool `toml:"skipped,omitempty" json:"skipped,omitempty"`
	// Renamed replaces the symbol's Go name everywhere it is referenced.
	Renamed string `toml:"renamed,omitempty" json:"renamed,omitempty"`
	// DefinitionSkipped keeps references to the symbol but emits no
	// definition for it, for definitions written by hand.
	DefinitionSkipped bool `toml:"definition-skipped,omitempty" json:"definition-skipped,omitempty"`
	// Unsafe overrides whether the binding is marked unsafe. Bindings
	// taking raw pointers are unsafe unless this is set to false.
	Unsafe *bool `toml:"unsafe,omitempty" json:"unsafe,omitempty"`
	// Module redirects references to a declaration generated in another
	// module.
	Module string `toml:"module,omitempty" json:"module,omitempty"`
}

// IsZero reports whether the override changes nothing.
func (o Override) IsZero() bool {
	return o == Override{}
}

// ClassOverride is an Override for a class or protocol plus per-method
// overrides keyed by selector.
type ClassOverride struct {
	Override
	Methods map[string]Override `toml:"methods,omitempty" json:"methods,omitempty"`
}

// Config is a framework's translation config.
type Config struct {
	Framework       string   `toml:"framework" json:"framework"`
	Module          string   `toml:"module,omitempty" json:"module,omitempty"`
	Crate           string   `toml:"crate,omitempty" json:"crate,omitempty" jsonschema:"description=Alias of module"`
	RequiredModules []string `toml:"required-modules,omitempty" json:"required-modules,omitempty"`
	RequiredCrates  []string `toml:"required-crates,omitempty" json:"required-crates,omitempty" jsonschema:"description=Alias of required-modules"`
	// IsLibrary marks a plain C library rather than a framework bundle.
	IsLibrary bool `toml:"is-library,omitempty" json:"is-library,omitempty"`

	MacOS       string `toml:"macos,omitempty" json:"macos,omitempty"`
	MacCatalyst string `toml:"maccatalyst,omitempty" json:"maccatalyst,omitempty"`
	IOS         string `toml:"ios,omitempty" json:"ios,omitempty"`
	TVOS        string `toml:"tvos,omitempty" json:"tvos,omitempty"`
	WatchOS     string `toml:"watchos,omitempty" json:"watchos,omitempty"`
	VisionOS    string `toml:"visionos,omitempty" json:"visionos,omitempty"`
	GNUstep     bool   `toml:"gnustep,omitempty" json:"gnustep,omitempty"`

	Fns       map[string]Override      `toml:"fn,omitempty" json:"fn,omitempty"`
	Structs   map[string]Override      `toml:"struct,omitempty" json:"struct,omitempty"`
	Typedefs  map[string]Override      `toml:"typedef,omitempty" json:"typedef,omitempty"`
	Enums     map[string]Override      `toml:"enum,omitempty" json:"enum,omitempty"`
	Classes   map[string]ClassOverride `toml:"class,omitempty" json:"class,omitempty"`
	Protocols map[string]ClassOverride `toml:"protocol,omitempty" json:"protocol,omitempty"`
	Statics   map[string]Override      `toml:"static,omitempty" json:"static,omitempty"`
	Externals map[string]Override      `toml:"external,omitempty" json:"external,omitempty"`

	// File is the path the config was loaded from.
	File string `toml:"-" json:"-"`

	availability Availability
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return Parse(path, data)
}

// Parse decodes and validates config data; file is only used in errors.
func Parse(file string, data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", file)
	}
	c.File = file
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		// report the most specific key below the first unknown one
		key := undecoded[0]
		for _, k := range undecoded[1:] {
			if k[0] == key[0] && len(k) > len(key) {
				key = k
			}
		}
		return nil, unknownKey(file, key)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func unknownKey(file string, key toml.Key) *KeyError {
	e := &KeyError{File: file, Key: key.String()}
	kind := Kind(key[0])
	known := false
	for _, k := range Kinds {
		if k == kind {
			known = true
			break
		}
	}
	switch {
	case !known:
		e.Reason = "unknown key"
		if len(key) > 1 {
			e.Reason = fmt.Sprintf("unknown override kind %q", key[0])
		}
	case len(key) == 3:
		e.Reason = fmt.Sprintf("unknown %s attribute %q", kind, key[2])
	case len(key) == 5 && key[2] == "methods":
		e.Reason = fmt.Sprintf("unknown method attribute %q", key[4])
	default:
		e.Reason = "unexpected key"
	}
	return e
}

func (c *Config) validate() error {
	if c.Framework == "" {
		return &KeyError{File: c.File, Key: "framework", Reason: "missing framework name"}
	}
	switch {
	case c.Module == "" && c.Crate == "":
		return &KeyError{File: c.File, Key: "module", Reason: "missing module name"}
	case c.Module == "":
		c.Module = c.Crate
	case c.Crate != "" && c.Crate != c.Module:
		return &KeyError{File: c.File, Key: "crate", Reason: fmt.Sprintf("conflicts with module %q", c.Module)}
	}
	c.RequiredModules = append(c.RequiredModules, c.RequiredCrates...)
	c.RequiredCrates = nil
	sort.Strings(c.RequiredModules)
	c.RequiredModules = compact(c.RequiredModules)

	c.availability = make(Availability)
	for _, p := range applePlatforms {
		s := c.platformVersion(p)
		if s == "" {
			continue
		}
		v, err := version.NewVersion(s)
		if err != nil {
			return &KeyError{File: c.File, Key: string(p), Reason: fmt.Sprintf("invalid version %q", s)}
		}
		c.availability[p] = v
	}

	for _, kind := range Kinds {
		for _, name := range c.names(kind) {
			o, methods := c.lookup(kind, name)
			if err := o.validate(c.File, fmt.Sprintf("%s.%s", kind, name)); err != nil {
				return err
			}
			for sel, mo := range methods {
				if err := mo.validate(c.File, fmt.Sprintf("%s.%s.methods.%q", kind, name, sel)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func compact(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func (o Override) validate(file, key string) error {
	if o.Renamed != "" && !token.IsIdentifier(o.Renamed) {
		return &KeyError{File: file, Key: key + ".renamed", Reason: fmt.Sprintf("%q is not a valid identifier", o.Renamed)}
	}
	if o.Skipped && o.Renamed != "" {
		return &KeyError{File: file, Key: key, Reason: "skipped and renamed are mutually exclusive"}
	}
	if o.Skipped && o.DefinitionSkipped {
		return &KeyError{File: file, Key: key, Reason: "skipped and definition-skipped are mutually exclusive"}
	}
	return nil
}

func (c *Config) platformVersion(p Platform) string {
	switch p {
	case MacOS:
		return c.MacOS
	case MacCatalyst:
		return c.MacCatalyst
	case IOS:
		return c.IOS
	case TVOS:
		return c.TVOS
	case WatchOS:
		return c.WatchOS
	case VisionOS:
		return c.VisionOS
	}
	return ""
}

func (c *Config) overrides(kind Kind) map[string]Override {
	switch kind {
	case KindFn:
		return c.Fns
	case KindStruct:
		return c.Structs
	case KindTypedef:
		return c.Typedefs
	case KindEnum:
		return c.Enums
	case KindStatic:
		return c.Statics
	case KindExternal:
		return c.Externals
	}
	return nil
}

func (c *Config) classOverrides(kind Kind) map[string]ClassOverride {
	switch kind {
	case KindClass:
		return c.Classes
	case KindProtocol:
		return c.Protocols
	}
	return nil
}

func (c *Config) lookup(kind Kind, name string) (Override, map[string]Override) {
	if m := c.classOverrides(kind); m != nil {
		co := m[name]
		return co.Override, co.Methods
	}
	return c.overrides(kind)[name], nil
}

// names returns the overridden names of kind, sorted.
func (c *Config) names(kind Kind) []string {
	var names []string
	if m := c.classOverrides(kind); m != nil {
		for name := range m {
			names = append(names, name)
		}
	} else {
		for name := range c.overrides(kind) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns the names with an override of the given kind, sorted.
func (c *Config) Names(kind Kind) []string {
	return c.names(kind)
}

// Override returns the override for a symbol, or the zero Override.
func (c *Config) Override(kind Kind, name string) Override {
	o, _ := c.lookup(kind, name)
	return o
}

// MethodOverride returns the override for a method of a class or protocol.
// A skipped class skips all of its methods.
func (c *Config) MethodOverride(kind Kind, class, selector string) Override {
	o, methods := c.lookup(kind, class)
	m := methods[selector]
	if o.Skipped {
		m.Skipped = true
		m.Renamed = ""
	}
	if m.Unsafe == nil {
		m.Unsafe = o.Unsafe
	}
	return m
}

// Skipped reports whether a symbol is skipped.
func (c *Config) Skipped(kind Kind, name string) bool {
	return c.Override(kind, name).Skipped
}

// Rename returns the Go name of a symbol: the renamed name if set,
// otherwise name.
func (c *Config) Rename(kind Kind, name string) string {
	if r := c.Override(kind, name).Renamed; r != "" {
		return r
	}
	return name
}

// Dependencies returns the modules this config depends on: the required
// modules plus every module overrides redirect to.
func (c *Config) Dependencies() []string {
	deps := append([]string(nil), c.RequiredModules...)
	for _, kind := range Kinds {
		for _, name := range c.names(kind) {
			o, methods := c.lookup(kind, name)
			if o.Module != "" {
				deps = append(deps, o.Module)
			}
			for _, m := range methods {
				if m.Module != "" {
					deps = append(deps, m.Module)
				}
			}
		}
	}
	sort.Strings(deps)
	deps = compact(deps)
	out := deps[:0]
	for _, d := range deps {
		if d != c.Module {
			out = append(out, d)
		}
	}
	return out
}

func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)", c.Framework, c.Module)
	if a := c.Availability().String(); a != "" {
		fmt.Fprintf(&sb, " %s", a)
	}
	return sb.String()
}
