//go:build darwin && cgo && objc

package objc

import (
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/pkg/errors"
)

// Describe returns the declaration of a loaded class as the runtime sees
// it. Methods whose type encoding cannot be decoded are left out.
func Describe(name string) (*symbols.Class, error) {
	cls := GetClass(name)
	if cls == 0 {
		return nil, errors.Errorf("class %s is not loaded", name)
	}
	c := &symbols.Class{
		Name:      cls.Name(),
		Protocols: cls.Protocols(),
	}
	if super := cls.Super(); super != 0 {
		c.Super = super.Name()
	}
	for _, meta := range []bool{true, false} {
		owner := cls
		if meta {
			owner = cls.Meta()
		}
		for _, m := range owner.Methods() {
			sel := m.Name()
			if strings.HasPrefix(sel, ".cxx_") {
				continue
			}
			method, err := symbols.MethodFromEncoding(sel, meta, m.TypeEncoding())
			if err != nil {
				log.WithError(err).Debugf("skipping %s", sel)
				continue
			}
			c.Methods = append(c.Methods, method)
		}
	}
	return c, nil
}

// DescribeImage loads the image at path and describes every class it
// defines.
func DescribeImage(path string) (*symbols.Module, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	name := filepath.Base(path)
	mod := &symbols.Module{Framework: strings.TrimSuffix(name, filepath.Ext(name))}
	for _, cn := range ClassNamesForImage(path) {
		c, err := Describe(cn)
		if err != nil {
			return nil, err
		}
		mod.Classes = append(mod.Classes, *c)
	}
	mod.Sort()
	return mod, nil
}
