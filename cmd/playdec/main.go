// SPDX-License-Identifier: EPL-2.0

// Command playdec inspects, decodes and plays audio files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set via ldflags at build time
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel  string           `help:"Log level." default:"warn" enum:"debug,info,warn,error"`
	LogFormat string           `help:"Log encoding." default:"console" enum:"console,json"`
	Version   kong.VersionFlag `help:"Show version information."`
}

// CLI is the command tree parsed by kong.
type CLI struct {
	Globals

	Codecs CodecsCmd `cmd:"" help:"List the registered codecs."`
	Info   InfoCmd   `cmd:"" help:"Show the track parameters and tags of a file."`
	Decode DecodeCmd `cmd:"" help:"Decode a file to 16-bit WAV."`
	Play   PlayCmd   `cmd:"" help:"Play a file through the default output device."`
}

// newLogger builds a zap logger writing to stderr.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

// output returns w, or stdout when w is nil.
func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("playdec"),
		kong.Description("Decode WAV, AIFF, FLAC, MP3, Ogg Vorbis and Ogg Opus files to 16-bit PCM."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	logger, err := newLogger(cli.LogLevel, cli.LogFormat)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals, logger))
}
