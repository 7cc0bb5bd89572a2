// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program extjsonfmt validates and reformats extended JSON text.
//
// It reads a sequence of values from a file or standard input and writes
// them back in a uniform layout, one value per line, in Relaxed or Strict
// output mode. With --check it only reports whether the input is valid.
//
// Settings are read from a YAML file named by --config, or else from the
// first .extjsonfmt.yml (or similar) found in the working directory or one
// of its parents. Flags take precedence over the file.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/creachadair/extjson"
	"github.com/creachadair/extjson/ast"
	"github.com/creachadair/extjson/internal/config"
	"github.com/tailscale/hujson"
)

// CLI defines the command-line interface.
type CLI struct {
	Input         string `arg:"" optional:"" help:"Input file. If omitted or -, read from stdin." type:"path"`
	Output        string `short:"o" help:"Output file. If not specified, write to stdout." type:"path"`
	Indent        bool   `short:"i" help:"Indent document fields, one per line."`
	Mode          string `short:"m" help:"Output mode, relaxed or strict (default from config)."`
	AllowComments bool   `short:"c" help:"Accept a single value with comments and trailing commas."`
	Check         bool   `help:"Check that the input is valid, and write no output."`
	Plain         bool   `short:"p" help:"Read wrapper documents such as $oid and $date as ordinary documents."`
	Config        string `help:"Path of a YAML settings file." type:"path"`
	Debug         bool   `short:"d" help:"Enable debug logging."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("extjsonfmt"),
		kong.Description("Validate and reformat MongoDB extended JSON."),
		kong.UsageOnError(),
	)
	if err := cli.run(os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(exitCode(err))
	}
}

// run processes the input selected by c, reading stdin and writing stdout
// if no files are named. Log output goes to stderr.
func (c *CLI) run(stdin io.Reader, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if c.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := c.loadConfig(log)
	if err != nil {
		return err
	}
	set, err := cfg.WriterSettings()
	if err != nil {
		return newError(kindConfig, "invalid settings", err)
	}
	log.Debug("settings",
		"indent", set.Indent, "mode", set.OutputMode, "allow_comments", cfg.AllowComments, "plain", c.Plain)

	data, err := c.readInput(stdin)
	if err != nil {
		return err
	}
	if cfg.AllowComments {
		v, err := hujson.Parse(data)
		if err != nil {
			return newError(kindSyntax, "invalid input", err)
		}
		v.Standardize()
		data = v.Pack()
	}
	log.Debug("read input", "bytes", len(data))

	var out io.Writer = io.Discard
	closeOut := func() error { return nil }
	if !c.Check {
		if c.Output == "" {
			out = stdout
		} else {
			f, err := os.Create(c.Output)
			if err != nil {
				return newError(kindOutput, "cannot create output", err)
			}
			defer f.Close()
			out, closeOut = f, f.Close
		}
	}
	bw := bufio.NewWriter(out)
	rd := extjson.NewReaderWithSettings(bytes.NewReader(data), &extjson.ReaderSettings{Extended: !c.Plain})
	n, err := reformat(rd, extjson.NewWriter(bw, set))
	log.Debug("processed values", "count", n)
	if err != nil {
		return err
	}
	if n != 0 {
		bw.WriteString(set.NewLine)
	}
	if err := bw.Flush(); err != nil {
		return newError(kindOutput, "cannot write output", err)
	}
	if err := closeOut(); err != nil {
		return newError(kindOutput, "cannot write output", err)
	}
	return nil
}

// reformat copies each value from r to w, and reports how many values were
// copied.
func reformat(r *extjson.Reader, w *extjson.Writer) (int, error) {
	var n int
	for {
		v, err := ast.Decode(r)
		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, newError(kindSyntax, "invalid input", err)
		}
		if err := ast.Encode(w, v); err != nil {
			return n, newError(kindOutput, "cannot write output", err)
		}
		n++
	}
}

func (c *CLI) loadConfig(log *slog.Logger) (*config.Config, error) {
	path := c.Config
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	cfg := config.NewConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, newError(kindConfig, "cannot load "+path, err)
		}
		log.Debug("loaded config", "path", path)
	}
	if c.Indent {
		cfg.Indent = true
	}
	if c.Mode != "" {
		cfg.OutputMode = c.Mode
	}
	if c.AllowComments {
		cfg.AllowComments = true
	}
	return cfg, nil
}

func (c *CLI) readInput(stdin io.Reader) ([]byte, error) {
	if c.Input == "" || c.Input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, newError(kindInput, "cannot read stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return nil, newError(kindInput, "cannot read "+c.Input, err)
	}
	return data, nil
}
