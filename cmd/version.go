package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/xms"
)

var (
	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion sets the build version and time shown by the version command.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

// currentVersion parses the build version. Development builds have none.
func currentVersion() (semver.Version, bool) {
	v, err := semver.ParseTolerant(strings.TrimSpace(appVersion))
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if v, ok := currentVersion(); ok {
			fmt.Fprintf(out, "xmsctl %s\n", v)
		} else {
			fmt.Fprintf(out, "xmsctl %s (development build)\n", appVersion)
		}
		fmt.Fprintf(out, "Built:       %s\n", appBuildTime)
		fmt.Fprintf(out, "API client:  %s\n", xms.Version)
		fmt.Fprintf(out, "Go:          %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
