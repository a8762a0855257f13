package objc

import "testing"

func TestFrameworkPath(t *testing.T) {
	if got, want := FrameworkPath("CoreGraphics"), "/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics"; got != want {
		t.Errorf("FrameworkPath() = %q, want %q", got, want)
	}
}

func TestLibraryMissing(t *testing.T) {
	l := NewLibrary("/nonexistent/libobjcgen-test.dylib")
	if err := l.Open(); err == nil {
		t.Fatal("Open() succeeded for a missing library")
	}
	var fn func() int32
	if err := l.Bind(&fn, "CGMainDisplayID"); err == nil {
		t.Error("Bind() succeeded for a missing library")
	}
	if fn != nil {
		t.Error("Bind() set the function of a missing library")
	}
}
