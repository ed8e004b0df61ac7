package weave

import "fmt"

// Release of this module, reported by the node in Info and by the version
// command.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "" // -dev, -rc1, ... for builds that are not a tagged release
)

// GitCommit is set at build time with
//   -ldflags "-X github.com/fymoney/weave.GitCommit=<hash>"
var GitCommit = ""

// Version returns the release, followed by the commit if known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
