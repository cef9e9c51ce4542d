package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags "-X github.com/abhisek/stepwise/cmd.version=v1.2.3".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		v, rev := buildVersion()
		fmt.Fprintf(cmd.OutOrStdout(), "stepwise %s (%s, %s/%s)\n", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if rev != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "revision %s\n", rev)
		}
	},
}

// buildVersion prefers the ldflags version and falls back to the module
// version recorded by `go install`.
func buildVersion() (v, revision string) {
	v = version
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v, ""
	}
	if v == "(devel)" && info.Main.Version != "" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			revision = s.Value[:12]
		}
	}
	return v, revision
}
