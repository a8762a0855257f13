package pipe

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkip(t *testing.T) {
	assert.EqualError(t, Skip("no deployment target"), "no deployment target")
	assert.EqualError(t, SkipModulef("uikit", "has no %s", "symbols.json"), "uikit: has no symbols.json")
	assert.True(t, IsSkip(SkipModule("uikit", "unavailable")))
	assert.True(t, IsSkip(errors.Wrap(Skip("nothing to do"), "loading frameworks")))
	assert.False(t, IsSkip(errors.New("boom")))
	assert.False(t, IsSkip(nil))
}

func TestModuleSkips(t *testing.T) {
	var skips ModuleSkips
	require.NoError(t, skips.Err())

	var wg sync.WaitGroup
	for _, m := range []string{"uikit", "appkit", "uikit"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			skips.Add(m, "has no symbols.json")
		}()
	}
	wg.Wait()
	skips.Add("appkit", "unavailable on ios")

	err := skips.Err()
	assert.EqualError(t, err, "appkit: has no symbols.json, uikit: has no symbols.json")
	got, ok := SkipsOf(errors.Wrap(err, "loading frameworks"))
	require.True(t, ok)
	want := []ErrSkip{
		{Module: "appkit", Reason: "has no symbols.json"},
		{Module: "uikit", Reason: "has no symbols.json"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SkipsOf() mismatch (-want +got):\n%s", diff)
	}
}
