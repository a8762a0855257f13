package config

import (
	"runtime"
	"testing"

	"github.com/blacktop/go-objc/pkg/bindgen"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	viper.Set("verbose", true)
	viper.Set("generate.frameworks", "testdata/frameworks")
	viper.Set("generate.targets", "macos=11.0,gnustep")
	viper.Set("generate.parallel", 2)

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, c.Verbose)
	assert.Equal(t, "testdata/frameworks", c.Generate.Frameworks)
	assert.Equal(t, "testdata/frameworks", c.Generate.Output)
	assert.Equal(t, bindgen.DefaultImportPrefix, c.Generate.ImportPrefix)
	assert.Equal(t, 2, c.Generate.Parallel)
	require.Len(t, c.Generate.Targets, 2)
	assert.Equal(t, "11.0.0", c.Generate.Targets[translation.MacOS].String())
	assert.Contains(t, c.Generate.Targets, translation.GNUstep)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "frameworks", c.Generate.Frameworks)
	assert.Equal(t, runtime.NumCPU(), c.Generate.Parallel)
	assert.Nil(t, c.Generate.Targets)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	viper.Set("generate.targets", "amiga=1.0")
	_, err := LoadConfig()
	assert.Error(t, err)

	viper.Reset()
	viper.Set("generate.parallel", -1)
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "parallel must not be negative")
}
