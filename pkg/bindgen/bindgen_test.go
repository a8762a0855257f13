package bindgen

import (
	"strings"
	"testing"

	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadModule(t *testing.T, config, model string) *Module {
	t.Helper()
	cfg, err := translation.Parse(translation.FileName, []byte(config))
	require.NoError(t, err)
	sym, err := symbols.LoadReader(strings.NewReader(model))
	require.NoError(t, err)
	return &Module{Config: cfg, Symbols: sym}
}

func generate(t *testing.T, opts Options, module string, mods ...*Module) *Result {
	t.Helper()
	g, err := New(opts, mods...)
	require.NoError(t, err)
	res, err := g.Generate(module)
	require.NoError(t, err)
	return res
}

func skipReason(res *Result, name string) string {
	for _, s := range res.Skipped {
		if s.Name == name {
			return s.Reason
		}
	}
	return ""
}

const foundationConfig = `framework = "Foundation"
module = "foundation"
macos = "10.0"
`

const foundationModel = `framework: Foundation
typedefs:
  - {name: NSInteger, type: long}
  - {name: NSUInteger, type: unsigned long}
enums:
  - name: NSStringEncoding
    type: NSUInteger
    values:
      - {name: NSASCIIStringEncoding, value: 1}
      - {name: NSUTF8StringEncoding, value: 4}
statics:
  - {name: NSFoundationVersionNumber, type: double}
functions:
  - name: NSLog
    params:
      - {name: format, type: "NSString *"}
  - name: NSStringFromClass
    params:
      - {name: aClass, type: Class}
    returns: "NSString *"
classes:
  - name: NSObject
    methods:
      - {selector: alloc, class: true, returns: instancetype}
      - {selector: new, class: true, returns: instancetype}
      - {selector: init, returns: instancetype}
      - {selector: copy, returns: id}
      - {selector: hash, returns: NSUInteger}
  - name: NSString
    super: NSObject
    protocols: [NSCopying]
    methods:
      - {selector: length, returns: NSUInteger}
      - {selector: description, returns: "NSString *"}
  - name: NSData
    super: NSObject
    protocols: [NSCopying, NSSecureCoding]
    methods:
      - {selector: length, returns: NSUInteger}
      - {selector: bytes, returns: "const void *"}
      - selector: initWithBytes:length:
        params:
          - {name: bytes, type: "const void *"}
          - {name: length, type: NSUInteger}
        returns: instancetype
        nullability: nonnull
      - {selector: data, class: true, returns: instancetype}
      - selector: subdataWithRange:
        params:
          - {name: range, type: NSRange}
        returns: "NSData *"
      - selector: getBytes:length:
        params:
          - {name: buffer, type: "void *"}
          - {name: length, type: NSUInteger}
protocols:
  - name: NSCopying
    methods:
      - selector: copyWithZone:
        params:
          - {name: zone, type: "struct _NSZone *"}
        returns: id
        ownership: retained
  - name: NSObject
    methods:
      - {selector: isProxy, returns: BOOL}
`

func TestGenerateFoundation(t *testing.T) {
	res := generate(t, Options{}, "foundation", loadModule(t, foundationConfig, foundationModel))
	src := string(res.Source)

	for _, want := range []string{
		"// Code generated by objcgen from Foundation. DO NOT EDIT.",
		"package foundation",
		`var lib = objc.Framework("Foundation")`,
		"type NSInteger = int",
		"type NSUInteger = uint",
		"type NSStringEncoding NSUInteger",
		"NSASCIIStringEncoding NSStringEncoding = 1",
		"type NSData struct{ objc.Object }",
		`var NSDataClass = objc.ClassNamed("NSData")`,
		"func (self NSData) AsNSObject() NSObject {",
		"func (self NSData) AsNSCopying() NSCopying {",
		"func (self NSData) Length() NSUInteger {",
		`return objc.Send[NSUInteger](self, objc.RegisterName("length"))`,
		"func (self NSData) UnsafeBytes() unsafe.Pointer {",
		`return objc.Send[NSData](NSDataClass, objc.RegisterName("data"))`,
		"func NSDataUnsafeInitWithBytesLength(alloc *objc.Allocated[NSData], bytes unsafe.Pointer, length NSUInteger) *objc.Retained[NSData] {",
		`return objc.Must(objc.InitNonNil(alloc, objc.RegisterName("initWithBytes:length:"), bytes, length))`,
		`objc.Call(self, objc.RegisterName("getBytes:length:"), buffer, length)`,
		"func (self NSString) Description() NSString {",
		"func NSFoundationVersionNumber() float64 {",
		`return *objc.Static[float64](lib, "NSFoundationVersionNumber")`,
		"func NSStringFromClass(aClass objc.Class) objc.ID {",
		"type NSObjectProtocol struct{ objc.Object }",
		"func (self NSObjectProtocol) IsProxy() bool {",
		"func (self NSCopying) UnsafeCopyWithZone(zone unsafe.Pointer) *objc.Retained[objc.AnyObject] {",
	} {
		assert.Contains(t, src, want)
	}

	// NSRange is not declared anywhere
	assert.Equal(t, `param range: unknown type "NSRange"`, skipReason(res, "-[NSData subdataWithRange:]"))
	assert.NotContains(t, src, "SubdataWithRange")
	assert.Contains(t, src, "func NSLog(format objc.ID) {")
	assert.Contains(t, src, "fnNSLog()(format)")
	assert.NotContains(t, src, "NSSecureCoding")
}

func TestGenerateFamilies(t *testing.T) {
	res := generate(t, Options{}, "foundation", loadModule(t, foundationConfig, foundationModel))
	src := string(res.Source)

	for _, want := range []string{
		"func NSObjectAlloc() *objc.Allocated[NSObject] {",
		`return objc.SendAlloc[NSObject](NSObjectClass, objc.RegisterName("alloc"))`,
		"func NSObjectNew() *objc.Retained[NSObject] {",
		`return objc.SendRetainedWith[NSObject](objc.FamilyNew, NSObjectClass, objc.RegisterName("new"))`,
		"func NSObjectInit(alloc *objc.Allocated[NSObject]) *objc.Retained[NSObject] {",
		`return objc.Init(alloc, objc.RegisterName("init"))`,
		"func (self NSObject) Copy() *objc.Retained[objc.AnyObject] {",
		`return objc.SendRetainedWith[objc.AnyObject](objc.FamilyCopy, self, objc.RegisterName("copy"))`,
		"func (self NSObject) Hash() NSUInteger {",
	} {
		assert.Contains(t, src, want)
	}
}

func TestSkippedPropagates(t *testing.T) {
	config := `framework = "Foundation"
module = "foundation"

[typedef.NSZonePtr]
skipped = true

[fn.NSAllocateMemoryPages]
skipped = true

[class.NSArray]
skipped = true
`
	model := `framework: Foundation
typedefs:
  - {name: NSZonePtr, type: "void *"}
  - {name: NSZoneAlias, type: NSZonePtr}
structs:
  - name: NSZoneInfo
    fields:
      - {name: zone, type: NSZonePtr}
      - {name: size, type: unsigned long}
functions:
  - name: NSAllocateMemoryPages
    params:
      - {name: bytes, type: unsigned long}
    returns: "void *"
classes:
  - name: NSArray
    methods:
      - {selector: count, returns: unsigned long}
  - name: NSMutableArray
    super: NSArray
  - name: NSObject
    methods:
      - selector: zone
        returns: NSZonePtr
`
	res := generate(t, Options{}, "foundation", loadModule(t, config, model))
	src := string(res.Source)

	assert.NotContains(t, src, "NSZonePtr")
	assert.NotContains(t, src, "NSAllocateMemoryPages")
	assert.NotContains(t, src, "NSArray")
	assert.Contains(t, src, "type NSObject struct{ objc.Object }")

	assert.Equal(t, "skipped in translation-config.toml", skipReason(res, "NSZonePtr"))
	assert.Equal(t, "depends on skipped typedef NSZonePtr", skipReason(res, "NSZoneAlias"))
	assert.Equal(t, "field zone: depends on skipped typedef NSZonePtr", skipReason(res, "NSZoneInfo"))
	assert.Equal(t, "skipped in translation-config.toml", skipReason(res, "NSAllocateMemoryPages"))
	assert.Equal(t, "depends on skipped class NSArray", skipReason(res, "NSMutableArray"))
	assert.Equal(t, "result: depends on skipped typedef NSZonePtr", skipReason(res, "-[NSObject zone]"))
}

func TestRenamed(t *testing.T) {
	config := `framework = "CoreGraphics"
module = "coregraphics"

[typedef.CGFloat]
renamed = "Float"

[struct.CGPoint]
renamed = "Point"

[fn.CGPointEqualToPoint]
renamed = "PointsEqual"
`
	model := `framework: CoreGraphics
typedefs:
  - {name: CGFloat, type: double}
structs:
  - name: CGPoint
    fields:
      - {name: x, type: CGFloat}
      - {name: y, type: CGFloat}
functions:
  - name: CGPointEqualToPoint
    params:
      - {name: point1, type: CGPoint}
      - {name: point2, type: struct CGPoint}
    returns: bool
`
	res := generate(t, Options{}, "coregraphics", loadModule(t, config, model))
	src := string(res.Source)

	assert.Contains(t, src, "type Float = float64")
	assert.Contains(t, src, "type Point struct {")
	assert.Contains(t, src, "func PointsEqual(point1 Point, point2 Point) bool {")
	assert.Contains(t, src, `return objc.Func[func(Point, Point) bool](lib, "CGPointEqualToPoint")`)
	assert.NotContains(t, src, "CGFloat")
	assert.Empty(t, res.Skipped)
}

func TestUnsafe(t *testing.T) {
	config := `framework = "Foundation"
module = "foundation"

[class.NSData.methods]
"bytes" = { unsafe = false }

[class.NSString]
unsafe = false

[class.NSString.methods]
"UTF8String" = { unsafe = true }

[fn.NSZoneName]
renamed = "ZoneName"
`
	model := `framework: Foundation
functions:
  - name: NSZoneName
    params:
      - {name: zone, type: "struct _NSZone *"}
    returns: "char *"
classes:
  - name: NSData
    methods:
      - {selector: bytes, returns: "const void *"}
      - selector: getBytes:
        params:
          - {name: buffer, type: "void *"}
  - name: NSString
    methods:
      - selector: getCharacters:
        params:
          - {name: buffer, type: "unsigned short *"}
      - {selector: UTF8String, returns: "const char *"}
`
	res := generate(t, Options{}, "foundation", loadModule(t, config, model))
	src := string(res.Source)

	assert.Contains(t, src, "func (self NSData) Bytes() unsafe.Pointer {")
	assert.Contains(t, src, "func (self NSData) UnsafeGetBytes(buffer unsafe.Pointer) {")
	assert.Contains(t, src, "func (self NSString) GetCharacters(buffer *uint16) {")
	assert.Contains(t, src, "func (self NSString) UnsafeUTF8String() *byte {")
	assert.Contains(t, src, "func UnsafeZoneName(zone unsafe.Pointer) *byte {")
}

func TestDefinitionSkipped(t *testing.T) {
	config := `framework = "Foundation"
module = "foundation"

[class.NSString]
definition-skipped = true
`
	model := `framework: Foundation
classes:
  - name: NSString
    methods:
      - {selector: length, returns: unsigned long}
      - {selector: string, class: true, returns: instancetype}
  - name: NSMutableString
    super: NSString
`
	res := generate(t, Options{}, "foundation", loadModule(t, config, model))
	src := string(res.Source)

	assert.NotContains(t, src, "type NSString struct")
	assert.NotContains(t, src, "NSStringClass")
	assert.Contains(t, src, "func (self NSString) Length() uint {")
	assert.Contains(t, src, `return objc.Send[NSString](objc.ClassNamed("NSString"), objc.RegisterName("string"))`)
	assert.Contains(t, src, "func (self NSMutableString) AsNSString() NSString {")
	assert.Equal(t, "definition skipped", skipReason(res, "NSString"))
}

func TestCrossModule(t *testing.T) {
	appkitConfig := `framework = "AppKit"
module = "appkit"
required-modules = ["foundation"]

[external.CGFloat]
module = "coregraphics"
`
	appkitModel := `framework: AppKit
classes:
  - name: NSView
    super: NSResponder
    methods:
      - {selector: toolTip, returns: "NSString *"}
      - {selector: alphaValue, returns: CGFloat}
      - {selector: layer, returns: "CALayer *"}
  - name: NSResponder
    super: NSObject
`
	cgConfig := "framework = \"CoreGraphics\"\nmodule = \"coregraphics\"\n"
	cgModel := "framework: CoreGraphics\ntypedefs:\n  - {name: CGFloat, type: double}\n"

	mods := []*Module{
		loadModule(t, appkitConfig, appkitModel),
		loadModule(t, foundationConfig, foundationModel),
		loadModule(t, cgConfig, cgModel),
	}
	res := generate(t, Options{ImportPrefix: "example.com/bindings"}, "appkit", mods...)
	src := string(res.Source)

	assert.Contains(t, src, `"example.com/bindings/foundation"`)
	assert.Contains(t, src, `"example.com/bindings/coregraphics"`)
	assert.Contains(t, src, "func (self NSView) ToolTip() foundation.NSString {")
	assert.Contains(t, src, "func (self NSView) AlphaValue() coregraphics.CGFloat {")
	assert.Contains(t, src, "func (self NSResponder) AsNSObject() foundation.NSObject {")
	assert.Equal(t, `result: unknown type "CALayer"`, skipReason(res, "-[NSView layer]"))
}

func TestAvailabilityTargets(t *testing.T) {
	model := `framework: Foundation
classes:
  - name: NSObject
    availability: {macos: "10.0", ios: "2.0"}
    methods:
      - {selector: hash, returns: unsigned long}
      - selector: newerThing
        returns: unsigned long
        availability: {macos: "14.0"}
  - name: UIOnly
    availability: {ios: "13.0"}
`
	targets, err := translation.ParseTargets("macos=11.0")
	require.NoError(t, err)
	res := generate(t, Options{Targets: targets}, "foundation", loadModule(t, foundationConfig, model))
	src := string(res.Source)

	assert.Contains(t, src, "func (self NSObject) Hash() uint {")
	assert.NotContains(t, src, "NewerThing")
	assert.NotContains(t, src, "UIOnly")
	assert.Contains(t, skipReason(res, "-[NSObject newerThing]"), "requires macos 14.0")
	assert.Contains(t, skipReason(res, "-[NSObject newerThing]"), "targeting 11.0")
	assert.Equal(t, "not available on macos", skipReason(res, "UIOnly"))

	// without targets everything is generated
	res = generate(t, Options{}, "foundation", loadModule(t, foundationConfig, model))
	assert.Contains(t, string(res.Source), "func (self NSObject) NewerThing() uint {")
}

func TestNew(t *testing.T) {
	mod := loadModule(t, foundationConfig, foundationModel)
	_, err := New(Options{}, mod, mod)
	assert.ErrorContains(t, err, "given twice")

	other := loadModule(t, foundationConfig, "framework: AppKit\n")
	_, err = New(Options{}, other)
	assert.ErrorContains(t, err, "describes framework AppKit")

	g, err := New(Options{}, mod)
	require.NoError(t, err)
	_, err = g.Generate("appkit")
	assert.ErrorContains(t, err, "not loaded")
}

func TestErrorOutParameter(t *testing.T) {
	model := `framework: Foundation
classes:
  - name: NSError
  - name: NSString
    methods:
      - selector: initWithContentsOfFile:error:
        params:
          - {name: path, type: "NSString *"}
          - {name: error, type: "NSError * _Nullable * _Nullable"}
        returns: instancetype
  - name: NSFileManager
    methods:
      - selector: removeItemAtPath:error:
        params:
          - {name: path, type: "NSString *"}
          - {name: error, type: "NSError **"}
        returns: BOOL
      - selector: contentsOfDirectoryAtPath:error:
        params:
          - {name: path, type: "NSString *"}
          - {name: error, type: "NSError **"}
        returns: "NSString *"
      - selector: setAttributes:error:
        params:
          - {name: attributes, type: "NSString *"}
          - {name: error, type: "NSError **"}
`
	res := generate(t, Options{}, "foundation", loadModule(t, foundationConfig, model))
	src := string(res.Source)

	for _, want := range []string{
		"func (self NSFileManager) RemoveItemAtPathError(path NSString) error {",
		`return objc.SendWithError[NSError](self, objc.RegisterName("removeItemAtPath:error:"), path)`,
		"func (self NSFileManager) ContentsOfDirectoryAtPathError(path NSString) (*objc.Retained[NSString], error) {",
		`return objc.SendRetainedWithError[NSString, NSError](self, objc.RegisterName("contentsOfDirectoryAtPath:error:"), path)`,
		"func NSStringInitWithContentsOfFileError(alloc *objc.Allocated[NSString], path NSString) (*objc.Retained[NSString], error) {",
		`return objc.InitWithError[NSString, NSError](alloc, objc.RegisterName("initWithContentsOfFile:error:"), path)`,
	} {
		assert.Contains(t, src, want)
	}
	// a void method cannot report failure, so the out-parameter stays raw
	assert.Contains(t, src, "func (self NSFileManager) UnsafeSetAttributesError(attributes NSString, ")
}
