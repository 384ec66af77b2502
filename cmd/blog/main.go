package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/config"
)

var CLI struct {
	Config    string `short:"c" help:"Site configuration file path" default:"config.yaml"`
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text"`

	Build struct {
		Output      string `short:"o" help:"Output directory for the generated site"`
		SkipRender  bool   `help:"Stop after staging the resolved tree; do not run the renderer"`
		Renderer    string `help:"External renderer binary" default:"hugo"`
		Incremental bool   `short:"i" help:"Skip the build when configuration and content are unchanged"`
	} `cmd:"" help:"Build the site from configuration and content"`

	Check struct {
		Rendered string `help:"Also verify internal references in a rendered output directory"`
	} `cmd:"" help:"Validate configuration, content, links, and aliases without building"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new site configuration file"`

	New struct {
		Slug string `arg:"" help:"Slug for the new post, e.g. my-first-post"`
	} `cmd:"" help:"Scaffold a new draft post"`

	Serve struct {
		Addr            string        `help:"Listen address" default:":1313"`
		Output          string        `short:"o" help:"Output directory for the generated site"`
		SkipRender      bool          `help:"Serve the resolved tree without running the renderer"`
		Renderer        string        `help:"External renderer binary" default:"hugo"`
		RebuildInterval time.Duration `help:"Periodic rebuild interval, 0 disables" default:"0"`
	} `cmd:"" help:"Serve the site locally and rebuild on change"`
}

func main() {
	ctx := kong.Parse(&CLI)
	setupLogging()

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "check":
		err = runCheck()
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "new <slug>":
		err = runNew(CLI.New.Slug)
	case "serve":
		err = runServe()
	}
	if err != nil {
		fatal(err)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if CLI.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// fatal prints the failing path (when known) and reason to stderr and exits
// non-zero. All load-time failures are fatal; a site with silently missing
// pages is worse than a failed build.
func fatal(err error) {
	var be *blogerr.Error
	if errors.As(err, &be) && be.Path() != "" {
		fmt.Fprintf(os.Stderr, "%s: %v\n", be.Path(), err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}
