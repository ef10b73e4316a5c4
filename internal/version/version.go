package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build fingerprints, overridable with
// -ldflags "-X kernelsym/internal/version.Version=...".
var (
	Version   = "0.3.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Fingerprint is the trimmed build metadata of the running binary.
type Fingerprint struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the fingerprint, substituting "dev" for an empty version.
func Current() Fingerprint {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Fingerprint{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

// Styled colours the major, minor and patch components of v. Anything
// after the patch number ("-dev", "+meta") is left plain. Versions that
// are not dotted triples are returned unchanged.
func Styled(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return v
	}
	patch, rest := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, rest = patch[:i], patch[i:]
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(patch) + rest
}
