// Package version reports build metadata for the sink and collector
// binaries. Both are stamped from the same ldflags, so a sink and the
// collectors feeding it can be matched by the strings printed here.
//
//	go build -ldflags "-X github.com/HerbHall/metricrelay/internal/version.Version=0.2.0" ./cmd/...
package version

import (
	"fmt"
	"runtime"
)

// Product prefixes every version line.
const Product = "metricrelay"

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the -version line for component ("sink" or "collector").
func Info(component string) string {
	return fmt.Sprintf("%s %s %s (commit: %s, built: %s, go: %s, %s/%s)",
		Product, component, Version, GitCommit, BuildDate,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns the bare version, e.g. "0.2.0" or "dev".
func Short() string {
	return Version
}

// Map returns the build metadata served by the /healthz endpoint.
func Map() map[string]string {
	return map[string]string{
		"product":    Product,
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}
