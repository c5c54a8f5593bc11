package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"golang.org/x/term"

	"github.com/Alia5/padmap/internal/cmd"
	"github.com/Alia5/padmap/internal/config"
	"github.com/Alia5/padmap/internal/configpaths"
	"github.com/Alia5/padmap/internal/log"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("padmap"),
		kong.Description(Description()),
		kong.UsageOnError(),
		kong.Help(helpWithBanner),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logger:", err)
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()
	slog.SetDefault(logger)

	rawLogger := setupRawLogger(&cli, logger, &closeFiles)

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))
	ctx.Bind(cmd.Version(Version))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i, a := range args {
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("PADMAP_CONFIG")
}

func setupRawLogger(cli *config.CLI, logger *slog.Logger, closeFiles *[]io.Closer) log.RawLogger {
	if cli.Log.RawFile != "" {
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
			return log.NewRaw(nil)
		}
		*closeFiles = append(*closeFiles, f)
		return log.NewRaw(f)
	}
	if cli.Log.Level == "trace" {
		return log.NewRaw(os.Stdout)
	}
	return log.NewRaw(nil)
}

// helpWithBanner prints the banner above kong's default help on terminals
// wide enough to hold it.
func helpWithBanner(options kong.HelpOptions, ctx *kong.Context) error {
	fd := int(os.Stdout.Fd())
	tty := term.IsTerminal(fd) && os.Getenv("TERM") != "dumb"
	width := 0
	if tty {
		width, _, _ = term.GetSize(fd)
	}
	if bannerWanted(os.Getenv("PADMAP_HELP_STYLE"), tty, width) {
		fmt.Fprintf(ctx.Stdout, "%s\n\n", banner)
	}
	return kong.DefaultHelpPrinter(options, ctx)
}

// bannerWanted applies PADMAP_HELP_STYLE ("plain" or "banner"), falling back
// to a terminal at least bannerWidth columns wide.
func bannerWanted(style string, tty bool, width int) bool {
	switch strings.ToLower(style) {
	case "plain":
		return false
	case "banner":
		return true
	}
	return tty && width >= bannerWidth
}
