package main

import (
	"fmt"
	"io"
	"runtime"

	"buildlight/internal/light"

	"github.com/spf13/cobra"
)

var (
	// These will be set during build with -ldflags
	gitCommit = "unknown"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version, build information, and runtime details for buildlight.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "buildlight version %s\n", version)
	fmt.Fprintf(w, "  Git commit:     %s\n", gitCommit)
	fmt.Fprintf(w, "  Build date:     %s\n", buildDate)
	fmt.Fprintf(w, "  Go version:     %s\n", runtime.Version())
	fmt.Fprintf(w, "  OS/Arch:        %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  Default device: %s\n", light.DefaultDeviceURL)
}
