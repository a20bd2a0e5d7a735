// Package version provides protocol version parsing, comparison, and
// the embedded kind manifests.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this library.
const Current = "1.0"

// SpecVersion is a parsed "major.minor" protocol version. Versions
// with the same major are wire-compatible.
type SpecVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (SpecVersion, error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return SpecVersion{}, fmt.Errorf("version %q: want major.minor", s)
	}

	major, err := strconv.ParseUint(majorStr, 10, 16)
	if err != nil {
		return SpecVersion{}, fmt.Errorf("version %q: major component: %w", s, err)
	}

	minor, err := strconv.ParseUint(minorStr, 10, 16)
	if err != nil {
		return SpecVersion{}, fmt.Errorf("version %q: minor component: %w", s, err)
	}

	return SpecVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether both versions share a major version.
func (v SpecVersion) Compatible(other SpecVersion) bool {
	return v.Major == other.Major
}

// CompatibleWithCurrent reports whether the given version string names
// a protocol this library can interoperate with. Unparseable strings
// are not compatible.
func CompatibleWithCurrent(s string) bool {
	v, err := Parse(s)
	if err != nil {
		return false
	}
	current, err := Parse(Current)
	if err != nil {
		return false
	}
	return current.Compatible(v)
}
