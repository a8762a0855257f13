package symbols

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/go-macho"
	mobjc "github.com/blacktop/go-macho/types/objc"
	"github.com/blacktop/go-plist"
	"github.com/pkg/errors"
)

// FromMachO imports the classes and protocols of the Mach-O at path. For
// universal binaries arch selects the slice (e.g. "arm64e"); an empty arch
// takes the first one.
func FromMachO(path, arch string) (*Module, error) {
	var m *macho.File

	fat, err := macho.OpenFat(path)
	if err != nil {
		if err != macho.ErrNotFat {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		m, err = macho.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		defer m.Close()
	} else {
		defer fat.Close()
		if len(fat.Arches) == 0 {
			return nil, errors.Errorf("%s: universal binary has no slices", path)
		}
		for _, farch := range fat.Arches {
			if arch == "" || strings.EqualFold(farch.SubCPU.String(farch.CPU), arch) {
				m = farch.File
				break
			}
		}
		if m == nil {
			return nil, errors.Errorf("%s: no %s slice in universal binary", path, arch)
		}
	}

	mod, err := FromFile(m, frameworkName(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import %s", path)
	}
	return mod, nil
}

// frameworkName guesses the framework of a binary path such as
// /System/Library/Frameworks/Foundation.framework/Versions/C/Foundation.
func frameworkName(path string) string {
	for dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if name, ok := strings.CutSuffix(filepath.Base(dir), ".framework"); ok {
			return name
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// FromFile imports the Objective-C classes and protocols of m. Binaries
// without Objective-C metadata give an empty module.
func FromFile(m *macho.File, framework string) (*Module, error) {
	mod := &Module{Framework: framework}
	if !m.HasObjC() {
		log.WithField("framework", framework).Debug("No Objective-C metadata")
		return mod, nil
	}

	if protos, err := m.GetObjCProtocols(); err == nil {
		for _, proto := range protos {
			p := Protocol{Name: proto.Name}
			for _, sub := range proto.Prots {
				p.Protocols = append(p.Protocols, sub.Name)
			}
			p.Methods = append(p.Methods, importMethods(proto.Name, proto.ClassMethods, true, false)...)
			p.Methods = append(p.Methods, importMethods(proto.Name, proto.InstanceMethods, false, false)...)
			p.Methods = append(p.Methods, importMethods(proto.Name, proto.OptionalClassMethods, true, true)...)
			p.Methods = append(p.Methods, importMethods(proto.Name, proto.OptionalInstanceMethods, false, true)...)
			mod.Protocols = append(mod.Protocols, p)
		}
	} else if !errors.Is(err, macho.ErrObjcSectionNotFound) {
		return nil, errors.Wrap(err, "failed to read protocols")
	}

	if classes, err := m.GetObjCClasses(); err == nil {
		for _, class := range classes {
			c := Class{Name: class.Name, Super: class.SuperClass}
			for _, prot := range class.Protocols {
				c.Protocols = append(c.Protocols, prot.Name)
			}
			c.Methods = append(c.Methods, importMethods(class.Name, class.ClassMethods, true, false)...)
			c.Methods = append(c.Methods, importMethods(class.Name, class.InstanceMethods, false, false)...)
			mod.Classes = append(mod.Classes, c)
		}
	} else if !errors.Is(err, macho.ErrObjcSectionNotFound) {
		return nil, errors.Wrap(err, "failed to read classes")
	}

	dedupe(mod)
	mod.Sort()
	return mod, nil
}

func importMethods(owner string, methods []mobjc.Method, class, optional bool) []Method {
	var out []Method
	for _, meth := range methods {
		if strings.HasPrefix(meth.Name, ".cxx_") {
			continue
		}
		decl, err := MethodFromEncoding(meth.Name, class, meth.Types)
		if err != nil {
			log.WithFields(log.Fields{
				"owner":    owner,
				"selector": meth.Name,
			}).WithError(err).Debug("Skipping method with undecodable types")
			continue
		}
		decl.Optional = optional
		out = append(out, decl)
	}
	return out
}

// dedupe drops repeated declarations, which categories and duplicate
// protocol records produce.
func dedupe(mod *Module) {
	seen := make(map[string]bool)
	classes := mod.Classes[:0]
	for _, c := range mod.Classes {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		c.Methods = mergeMethods(nil, c.Methods)
		classes = append(classes, c)
	}
	mod.Classes = classes

	seen = make(map[string]bool)
	protos := mod.Protocols[:0]
	for _, p := range mod.Protocols {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		p.Methods = mergeMethods(nil, p.Methods)
		protos = append(protos, p)
	}
	mod.Protocols = protos
}

// BundleInfo is the part of a framework's Info.plist the generator records.
type BundleInfo struct {
	CFBundleIdentifier         string `plist:"CFBundleIdentifier,omitempty"`
	CFBundleName               string `plist:"CFBundleName,omitempty"`
	CFBundleShortVersionString string `plist:"CFBundleShortVersionString,omitempty"`
	CFBundleVersion            string `plist:"CFBundleVersion,omitempty"`
}

// ParseBundleInfo parses an Info.plist.
func ParseBundleInfo(data []byte) (*BundleInfo, error) {
	i := &BundleInfo{}
	if err := plist.NewDecoder(bytes.NewReader(data)).Decode(i); err != nil {
		return nil, errors.Wrap(err, "failed to parse Info.plist")
	}
	return i, nil
}

// BundleVersion returns the short version string of the framework bundle at
// dir, looking in Resources/ (macOS layout) and then the bundle root.
func BundleVersion(dir string) (string, error) {
	for _, p := range []string{
		filepath.Join(dir, "Resources", "Info.plist"),
		filepath.Join(dir, "Info.plist"),
	} {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		info, err := ParseBundleInfo(data)
		if err != nil {
			return "", errors.Wrap(err, p)
		}
		if info.CFBundleShortVersionString != "" {
			return info.CFBundleShortVersionString, nil
		}
		return info.CFBundleVersion, nil
	}
	return "", errors.Errorf("no Info.plist in %s", dir)
}
