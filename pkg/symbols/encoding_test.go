package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeType(t *testing.T) {
	tcs := []struct{ enc, want string }{
		{"", "void"},
		{"v", "void"},
		{"q", "long long"},
		{"Q", "unsigned long long"},
		{"B", "bool"},
		{"c", "char"},
		{"@", "id"},
		{"@?", "id"},
		{`@"NSString"`, "NSString *"},
		{`@"NSArray<NSCopying>"`, "NSArray *"},
		{`@"<NSCopying>"`, "id"},
		{"#", "Class"},
		{":", "SEL"},
		{"^v", "void *"},
		{"^?", "void *"},
		{"^{__CFData=}", "struct __CFData *"},
		{"{CGRect={CGPoint=dd}{CGSize=dd}}", "struct CGRect"},
		{"{?=dd}", "void *"},
		{"[4i]", "int[4]"},
		{"*", "char *"},
		{"^^c", "char * *"},
		{"(?=iq)", "void *"},
		{"(Value=iq)", "union Value"},
	}
	for _, tc := range tcs {
		assert.Equal(t, tc.want, DecodeType(tc.enc), tc.enc)
	}
}

func TestMethodFromEncoding(t *testing.T) {
	m, err := MethodFromEncoding("initWithBytes:length:", false, "@32@0:8r^v16Q24")
	require.NoError(t, err)
	want := Method{
		Selector: "initWithBytes:length:",
		Returns:  "id",
		Encoding: "@32@0:8r^v16Q24",
		Params: []Param{
			{Name: "arg0", Type: "void *"},
			{Name: "arg1", Type: "unsigned long long"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("MethodFromEncoding() mismatch (-want +got):\n%s", diff)
	}

	m, err = MethodFromEncoding("removeAllObjects", false, "v16@0:8")
	require.NoError(t, err)
	assert.Empty(t, m.Returns)
	assert.Empty(t, m.Params)

	_, err = MethodFromEncoding("setValue:", false, "v16@0:8")
	assert.ErrorContains(t, err, "has 0 arguments but setValue: takes 1")
	_, err = MethodFromEncoding("value", false, "q")
	assert.ErrorContains(t, err, "missing self and _cmd")
	_, err = MethodFromEncoding("frame", false, "{CGRect=dd16@0:8")
	assert.Error(t, err)
}

func TestFrameworkName(t *testing.T) {
	assert.Equal(t, "Foundation", frameworkName("/System/Library/Frameworks/Foundation.framework/Versions/C/Foundation"))
	assert.Equal(t, "libobjc", frameworkName("/usr/lib/libobjc.dylib"))
}

func TestFromMachOMissing(t *testing.T) {
	_, err := FromMachO(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.apple.Foundation</string>
	<key>CFBundleShortVersionString</key>
	<string>6.9</string>
	<key>CFBundleVersion</key>
	<string>2503.1</string>
</dict>
</plist>
`

func TestBundleVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Resources"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Resources", "Info.plist"), []byte(infoPlist), 0o644))

	v, err := BundleVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, "6.9", v)

	info, err := ParseBundleInfo([]byte(infoPlist))
	require.NoError(t, err)
	assert.Equal(t, "com.apple.Foundation", info.CFBundleIdentifier)

	_, err = BundleVersion(t.TempDir())
	assert.ErrorContains(t, err, "no Info.plist")
}
