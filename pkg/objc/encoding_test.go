package objc

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
)

type point struct{ X, Y float64 }

type rect struct {
	Origin point
	Size   point
}

type widget struct{ Object }

func TestEncodingOf(t *testing.T) {
	tcs := []struct {
		typ  reflect.Type
		want string
	}{
		{nil, "v"},
		{reflect.TypeFor[struct{}](), "v"},
		{reflect.TypeFor[bool](), "B"},
		{reflect.TypeFor[int8](), "c"},
		{reflect.TypeFor[int32](), "i"},
		{reflect.TypeFor[int](), "q"},
		{reflect.TypeFor[uint16](), "S"},
		{reflect.TypeFor[uint](), "Q"},
		{reflect.TypeFor[float32](), "f"},
		{reflect.TypeFor[float64](), "d"},
		{reflect.TypeFor[ID](), "@"},
		{reflect.TypeFor[ConstPtr](), "@"},
		{reflect.TypeFor[Object](), "@"},
		{reflect.TypeFor[widget](), "@"},
		{reflect.TypeFor[AnyMut](), "@"},
		{reflect.TypeFor[NonNull[widget]](), "@"},
		{reflect.TypeFor[*Retained[widget]](), "@"},
		{reflect.TypeFor[Class](), "#"},
		{reflect.TypeFor[ClassRef](), "#"},
		{reflect.TypeFor[Sel](), ":"},
		{reflect.TypeFor[unsafe.Pointer](), "^v"},
		{reflect.TypeFor[*int32](), "^i"},
		{reflect.TypeFor[[4]uint8](), "[4C]"},
		{reflect.TypeFor[rect](), "{?={?=dd}{?=dd}}"},
	}
	for _, tc := range tcs {
		if got := EncodingOf(tc.typ); got != tc.want {
			t.Errorf("EncodingOf(%v) = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestSplitMethodEncoding(t *testing.T) {
	tcs := []struct {
		enc  string
		want []string
	}{
		{"v16@0:8", []string{"v", "@", ":"}},
		{"@24@0:8@16", []string{"@", "@", ":", "@"}},
		{"@32@0:8r^v16Q24", []string{"@", "@", ":", "^v", "Q"}},
		{"{CGRect={CGPoint=dd}{CGSize=dd}}16@0:8", []string{"{CGRect={CGPoint=dd}{CGSize=dd}}", "@", ":"}},
		{"B40@0:8@\"NSString\"16^@24@?32", []string{"B", "@", ":", "@\"NSString\"", "^@", "@?"}},
		{"Vv16@0:8", []string{"v", "@", ":"}},
		{"(?=iq)16@0:8", []string{"(?=iq)", "@", ":"}},
		{"[16C]16@0:8", []string{"[16C]", "@", ":"}},
		{"v24@0:8{_NSRange=\"location\"Q\"length\"Q}16", []string{"v", "@", ":", "{_NSRange=\"location\"Q\"length\"Q}"}},
		{"v20@0:8b4i16", []string{"v", "@", ":", "b4", "i"}},
		{"q", []string{"q"}},
	}
	for _, tc := range tcs {
		got, err := SplitMethodEncoding(tc.enc)
		if err != nil {
			t.Errorf("SplitMethodEncoding(%q): %v", tc.enc, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("SplitMethodEncoding(%q) mismatch (-want +got):\n%s", tc.enc, diff)
		}
	}
}

func TestSplitMethodEncodingErrors(t *testing.T) {
	for _, enc := range []string{"{CGPoint=dd", "@\"NSString", "v16^"} {
		if _, err := SplitMethodEncoding(enc); err == nil {
			t.Errorf("SplitMethodEncoding(%q) succeeded", enc)
		}
	}
}

func TestEncodingsEquivalent(t *testing.T) {
	tcs := []struct {
		expected, found string
		want            bool
	}{
		{"@", "@", true},
		{"@\"NSString\"", "@", true},
		{"@?", "@", true},
		{"c", "B", true},
		{"B", "c", true},
		{"q", "q", true},
		{"l", "q", true},
		{"L", "Q", true},
		{"^v", "^i", true},
		{"*", "^v", true},
		{"r^v", "^v", true},
		{"{CGPoint=dd}", "{?=dd}", true},
		{"{CGRect={CGPoint=dd}{CGSize=dd}}", "{?={?=dd}{?=dd}}", true},
		{"{_NSRange=\"location\"Q\"length\"Q}", "{?=QQ}", true},
		{"[4C]", "[4C]", true},
		{"@", "v", false},
		{"Q", "@", false},
		{"d", "f", false},
		{"q", "i", false},
		{"{CGPoint=dd}", "{?=ff}", false},
		{"#", "@", false},
	}
	for _, tc := range tcs {
		if got := EncodingsEquivalent(tc.expected, tc.found); got != tc.want {
			t.Errorf("EncodingsEquivalent(%q, %q) = %v, want %v", tc.expected, tc.found, got, tc.want)
		}
	}
}
