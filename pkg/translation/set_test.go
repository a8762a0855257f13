package translation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, config string) *Config {
	t.Helper()
	c, err := Parse("test.toml", []byte(config))
	require.NoError(t, err)
	return c
}

func TestLoadDir(t *testing.T) {
	s, err := LoadDir(filepath.Join("testdata", "frameworks"))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"corefoundation", "coregraphics", "foundation"}, s.Modules())

	c, ok := s.Framework("CoreGraphics")
	require.True(t, ok)
	assert.Equal(t, "coregraphics", c.Module)
	_, ok = s.Lookup("foundation")
	assert.True(t, ok)

	order, err := s.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"corefoundation", "coregraphics", "foundation"}, order)

	closure, err := s.Closure("CoreGraphics")
	require.NoError(t, err)
	assert.Equal(t, []string{"corefoundation", "coregraphics"}, closure)

	path, err := s.DependencyPath("foundation", "corefoundation")
	require.NoError(t, err)
	assert.Equal(t, []string{"foundation", "corefoundation"}, path)
	path, err = s.DependencyPath("corefoundation", "foundation")
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestLoadDirModuleMismatch(t *testing.T) {
	_, err := LoadDir(filepath.Join("testdata", "mismatch"))
	var kerr *KeyError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "module", kerr.Key)
	assert.Equal(t, `module "cf" does not match directory "corefoundation"`, kerr.Reason)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestSetErrors(t *testing.T) {
	a := mustParse(t, "framework = \"A\"\nmodule = \"a\"\nrequired-modules = [\"b\"]\n")
	b := mustParse(t, "framework = \"B\"\nmodule = \"b\"\nrequired-modules = [\"a\"]\n")
	c := mustParse(t, "framework = \"C\"\nmodule = \"c\"\nexternal.Foo.module = \"zz\"\n")
	dup := mustParse(t, "framework = \"A2\"\nmodule = \"a\"\n")

	_, err := NewSet(a, dup)
	assert.ErrorContains(t, err, `module "a" already defined`)

	s, err := NewSet(a, b)
	require.NoError(t, err)
	_, err = s.Order()
	assert.ErrorContains(t, err, "dependency cycle")

	s, err = NewSet(c)
	require.NoError(t, err)
	_, err = s.Graph()
	var kerr *KeyError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, `unknown module "zz"`, kerr.Reason)
}

func TestSetAvailable(t *testing.T) {
	s, err := LoadDir(filepath.Join("testdata", "frameworks"))
	require.NoError(t, err)

	targets, err := ParseTargets("gnustep")
	require.NoError(t, err)
	ok, skipped, err := s.Available(targets)
	require.NoError(t, err)
	assert.Equal(t, []string{"foundation"}, ok)
	assert.Equal(t, map[string]string{
		"corefoundation": "not available on gnustep",
		"coregraphics":   "not available on gnustep",
	}, skipped)

	targets, err = ParseTargets("macos=10.6")
	require.NoError(t, err)
	ok, skipped, err = s.Available(targets)
	require.NoError(t, err)
	assert.Equal(t, []string{"corefoundation", "foundation"}, ok)
	assert.Equal(t, "requires macos 10.8.0 (targeting 10.6.0)", skipped["coregraphics"])
}
