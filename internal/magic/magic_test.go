package magic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want Kind
	}{
		{"thin", writeFile(t, filepath.Join(dir, "thin"), []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07}), MachO},
		{"fat", writeFile(t, filepath.Join(dir, "fat"), []byte{0xca, 0xfe, 0xba, 0xbe, 0x00}), Fat},
		{"model", writeFile(t, filepath.Join(dir, "symbols.yaml"), []byte("framework: Foundation\n")), SymbolModel},
		{"config", writeFile(t, filepath.Join(dir, "translation-config.toml"), []byte("framework = \"Foundation\"\n")), TranslationConfig},
		{"text", writeFile(t, filepath.Join(dir, "README"), []byte("hello")), Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Detect(filepath.Join(dir, "missing"))
	assert.Error(t, err)
	_, err = Detect(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestBundleBinary(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Foundation.framework")
	bin := writeFile(t, filepath.Join(bundle, "Versions", "A", "Foundation"), []byte{0xcf, 0xfa, 0xed, 0xfe})

	k, err := Detect(bundle)
	require.NoError(t, err)
	assert.Equal(t, Bundle, k)

	got, err := BundleBinary(bundle)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = BundleBinary(t.TempDir())
	assert.Error(t, err)
}
