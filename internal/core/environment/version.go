package environment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidateVersion checks that raw is a plain version number such as "8.3",
// "20" or "18.17.1". The value ends up in image tags and download URLs, so a
// "v" prefix, pre-release and build metadata are rejected.
func ValidateVersion(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("parse version %q: %w", raw, err)
	}
	if strings.HasPrefix(raw, "v") || v.Prerelease() != "" || v.Metadata() != "" {
		return fmt.Errorf("version %q: want digits and dots only", raw)
	}
	return nil
}

// NodeMajor returns the major component of NodeVersion ("18.17.0" -> "18"),
// which is what the NodeSource setup scripts are keyed by. It returns an
// empty string when no Node.js toolchain is required.
func (e Environment) NodeMajor() string {
	if !e.NeedsNode() {
		return ""
	}
	if v, err := semver.NewVersion(e.NodeVersion); err == nil {
		return strconv.FormatUint(v.Major(), 10)
	}
	// Not semver-shaped after stripping (e.g. "18..2"); take the leading run.
	major, _, _ := strings.Cut(e.NodeVersion, ".")
	if major == "" {
		return DefaultNodeVersion
	}
	return major
}
