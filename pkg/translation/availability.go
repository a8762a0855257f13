package translation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// Platform is a deployment platform.
type Platform string

const (
	MacOS       Platform = "macos"
	MacCatalyst Platform = "maccatalyst"
	IOS         Platform = "ios"
	TVOS        Platform = "tvos"
	WatchOS     Platform = "watchos"
	VisionOS    Platform = "visionos"
	GNUstep     Platform = "gnustep"
)

var applePlatforms = []Platform{MacOS, MacCatalyst, IOS, TVOS, WatchOS, VisionOS}

// Platforms lists every platform, Apple platforms first.
func Platforms() []Platform {
	return append(append([]Platform(nil), applePlatforms...), GNUstep)
}

// ParsePlatform parses a platform name.
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Platforms() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown platform %q", s)
}

// Availability maps platforms to the minimum version a framework or symbol
// is available on. Platforms missing from the map are unavailable. GNUstep
// has no versions and maps to nil.
type Availability map[Platform]*version.Version

// Availability returns the platforms the framework is available on.
func (c *Config) Availability() Availability {
	a := make(Availability, len(c.availability)+1)
	for p, v := range c.availability {
		a[p] = v
	}
	if c.GNUstep {
		a[GNUstep] = nil
	}
	return a
}

func (a Availability) String() string {
	var parts []string
	for _, p := range Platforms() {
		v, ok := a[p]
		if !ok {
			continue
		}
		if v == nil {
			parts = append(parts, string(p))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", p, v))
		}
	}
	return strings.Join(parts, ", ")
}

// Targets are the deployment targets bindings are generated for: a minimum
// version per targeted platform (nil for GNUstep).
type Targets map[Platform]*version.Version

// ParseTargets parses targets such as "macos=11.0,ios=14" or
// "macos=11,gnustep".
func ParseTargets(s string) (Targets, error) {
	t := make(Targets)
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, ver, _ := strings.Cut(field, "=")
		p, err := ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		if p == GNUstep {
			if ver != "" {
				return nil, errors.New("gnustep targets take no version")
			}
			t[p] = nil
			continue
		}
		if ver == "" {
			return nil, errors.Errorf("missing %s deployment target version", p)
		}
		v, err := version.NewVersion(ver)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s deployment target", p)
		}
		t[p] = v
	}
	return t, nil
}

func (t Targets) String() string {
	return Availability(t).String()
}

// Platforms returns the targeted platforms in canonical order.
func (t Targets) Platforms() []Platform {
	var ps []Platform
	for _, p := range Platforms() {
		if _, ok := t[p]; ok {
			ps = append(ps, p)
		}
	}
	return ps
}

// AvailableOn reports whether something with availability a can be used
// when deploying to platform p at version v: it must exist on p and have
// been introduced at or before v.
func (a Availability) AvailableOn(p Platform, v *version.Version) bool {
	since, ok := a[p]
	if !ok {
		return false
	}
	if since == nil || v == nil {
		return true
	}
	return since.LessThanOrEqual(v)
}

// Supports reports whether a is available on at least one target, and
// returns the targeted platforms it is available on.
func (a Availability) Supports(t Targets) (bool, []Platform) {
	var ok []Platform
	for _, p := range t.Platforms() {
		if a.AvailableOn(p, t[p]) {
			ok = append(ok, p)
		}
	}
	return len(ok) > 0, ok
}

// Unavailable explains why a is not supported on t.
func (a Availability) Unavailable(t Targets) string {
	var reasons []string
	for _, p := range t.Platforms() {
		since, ok := a[p]
		switch {
		case !ok:
			reasons = append(reasons, fmt.Sprintf("not available on %s", p))
		case since != nil && t[p] != nil && since.GreaterThan(t[p]):
			reasons = append(reasons, fmt.Sprintf("requires %s %s (targeting %s)", p, since, t[p]))
		}
	}
	sort.Strings(reasons)
	return strings.Join(reasons, "; ")
}
