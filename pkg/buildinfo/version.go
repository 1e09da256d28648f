// Package buildinfo exposes version information injected at build time:
//
//	go build -ldflags "-X github.com/evotree/evotree/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/evotree/evotree/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/evotree/evotree/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/evotree
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies evotree to remote services.
func UserAgent() string {
	return "evotree/" + Version + " (+https://github.com/evotree/evotree)"
}
