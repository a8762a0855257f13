// Package magic sniffs the inputs objcgen is handed.
package magic

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
)

type Magic uint32

const (
	Magic32    Magic = 0xfeedface
	Magic64    Magic = 0xfeedfacf
	MagicFatBE Magic = 0xcafebabe
	MagicFatLE Magic = 0xbebafeca
)

// Kind is what an input turned out to be.
type Kind int

const (
	Unknown Kind = iota
	MachO
	Fat
	Bundle
	SymbolModel
	TranslationConfig
)

func (k Kind) String() string {
	switch k {
	case MachO:
		return "Mach-O"
	case Fat:
		return "universal Mach-O"
	case Bundle:
		return "framework bundle"
	case SymbolModel:
		return "symbol model"
	case TranslationConfig:
		return "translation config"
	}
	return "unknown"
}

// Detect classifies the file or directory at path.
func Detect(path string) (Kind, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Unknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if fi.IsDir() {
		if strings.HasSuffix(filepath.Clean(path), ".framework") {
			return Bundle, nil
		}
		return Unknown, fmt.Errorf("%s is a directory", path)
	}
	switch base := filepath.Base(path); {
	case base == translation.FileName || filepath.Ext(base) == ".toml":
		return TranslationConfig, nil
	case base == symbols.FileName || filepath.Ext(base) == ".yaml" || filepath.Ext(base) == ".yml":
		return SymbolModel, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err = f.Read(magic[:]); err != nil {
		return Unknown, fmt.Errorf("failed to read magic: %w", err)
	}

	switch Magic(binary.LittleEndian.Uint32(magic[:])) {
	case Magic32, Magic64:
		return MachO, nil
	case MagicFatBE, MagicFatLE:
		return Fat, nil
	}
	return Unknown, nil
}

// IsMachO reports whether path is a thin or universal Mach-O.
func IsMachO(path string) (bool, error) {
	k, err := Detect(path)
	if err != nil {
		return false, err
	}
	switch k {
	case MachO, Fat:
		return true, nil
	default:
		return false, fmt.Errorf("not a macho file")
	}
}

// BundleBinary returns the Mach-O inside a .framework bundle.
func BundleBinary(bundle string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(filepath.Clean(bundle)), ".framework")
	for _, p := range []string{
		filepath.Join(bundle, name),
		filepath.Join(bundle, "Versions", "Current", name),
		filepath.Join(bundle, "Versions", "A", name),
	} {
		if ok, _ := IsMachO(p); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s binary in %s", name, bundle)
}
