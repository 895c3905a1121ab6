package version

// Build variables set via ldflags:
// -X 'github.com/compozy/pdftab/pkg/version.Version=v0.1.0'
// -X 'github.com/compozy/pdftab/pkg/version.CommitHash=abc123'
// -X 'github.com/compozy/pdftab/pkg/version.BuildDate=2026-01-01T00:00:00Z'
var (
	// Version is the semantic version of the binary
	Version = Unknown
	// CommitHash is the git commit the binary was built from
	CommitHash = Unknown
	// BuildDate is the RFC3339 build timestamp
	BuildDate = Unknown
)

// Unknown marks a build variable that was not injected.
const Unknown = "unknown"

// Info is the build information reported by `pdftab --version` and the health endpoint.
type Info struct {
	Version    string `json:"version"    yaml:"version"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildDate  string `json:"build_date" yaml:"build_date"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

// String renders the info on one line.
func (i Info) String() string {
	return i.Version + " (commit " + i.CommitHash + ", built " + i.BuildDate + ")"
}
