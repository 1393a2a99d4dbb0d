package version

import "fmt"

var (
	Version   string // bumped by hand at each release, SemVer
	GitCommit string // overwritten by the build system
	GitState  string // "clean" or "dirty", overwritten by the build system
	BuildDate string // overwritten by the build system
)

func ToDetailVersion() string {
	git := GitCommit
	if GitState != "" {
		git = fmt.Sprintf("%s(%s)", GitCommit, GitState)
	}
	return fmt.Sprintf("version=%s git=%s build=%s", Version, git, BuildDate)
}
