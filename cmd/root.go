package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
)

const usage = `videogen-gateway turns text prompts into short videos.

Usage:
  videogen-gateway [serve] [flags]
  videogen-gateway version

Commands:
  serve    Start the HTTP server (default)
  version  Print build information

Run "videogen-gateway serve -h" for server flags.`

// BuildInfo describes the running binary. Empty fields are filled from the
// module build information embedded by the Go toolchain.
type BuildInfo struct {
	Version string
	Commit  string
}

func (b BuildInfo) resolve() BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if b.Version == "" && info.Main.Version != "" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && b.Commit == "" {
			b.Commit = s.Value
		}
	}
	return b
}

func (b BuildInfo) String() string {
	v := b.Version
	if v == "" {
		v = "(devel)"
	}
	if len(b.Commit) > 12 {
		v += " " + b.Commit[:12]
	} else if b.Commit != "" {
		v += " " + b.Commit
	}
	return fmt.Sprintf("videogen-gateway %s %s/%s %s", v, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Execute runs the CLI dispatcher. No arguments, or a leading flag, starts
// the server.
func Execute(ctx context.Context, args []string, build BuildInfo) error {
	if len(args) == 0 {
		return serve(ctx, nil)
	}

	switch args[0] {
	case "serve":
		return serve(ctx, args[1:])
	case "version", "--version":
		_, err := fmt.Fprintln(os.Stdout, build.resolve())
		return err
	case "help", "-h", "--help":
		return printUsage(os.Stdout)
	}

	if strings.HasPrefix(args[0], "-") {
		return serve(ctx, args)
	}
	return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
}

func printUsage(w io.Writer) error {
	_, err := fmt.Fprintln(w, usage)
	return err
}
