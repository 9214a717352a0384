package version

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built software's version.
	Version = LCSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

// LCSemVer is the current semantic version of the light client.
const LCSemVer = "0.1.0"
