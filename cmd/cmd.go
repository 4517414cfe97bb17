// Package cmd provides the developer harness CLI for archmap.
//
// The engine itself is a library invoked by an external orchestrator;
// this command exists so the full pipeline can be run and inspected
// locally without one.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/Benny93/archmap-go/internal/analysis"
)

// Version is set at build time via ldflags.
var Version = "dev"

// AnalyzeCmd runs the dependency analysis pipeline over a repository and
// prints the structured result as JSON.
type AnalyzeCmd struct {
	Path    string `arg:"" optional:"" default:"." help:"Path to repository"`
	Output  string `short:"o" help:"Write JSON result to file instead of stdout"`
	Compact bool   `help:"Emit compact JSON"`
	Top     int    `default:"50" help:"Top-files list limit"`
}

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(cli *CLI) error {
	repoRoot, err := filepath.Abs(c.Path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if !cli.Quiet {
		color.Green("Analyzing %s", repoRoot)
	}

	var progress analysis.ProgressCallback
	if !cli.Quiet {
		progress = func(phase string, pct float64) {
			fmt.Fprintf(os.Stderr, "\r\033[K%s (%.0f%%)", phase, pct*100)
		}
	}

	opts := analysis.DefaultOptions()
	opts.TopFilesLimit = c.Top

	result, err := analysis.Analyze(context.Background(), repoRoot, opts, progress)
	if err != nil {
		return fmt.Errorf("analyzing repository: %w", err)
	}
	if !cli.Quiet {
		fmt.Fprintln(os.Stderr)
	}

	var out []byte
	if c.Compact {
		out, err = json.Marshal(result)
	} else {
		out, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", c.Output, err)
		}
		if !cli.Quiet {
			color.Green("Result written to %s", c.Output)
		}
		return nil
	}

	fmt.Println(string(out))
	return nil
}

// CLI is the top-level command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`
	Quiet   bool             `short:"q" help:"Suppress non-essential output"`

	Analyze AnalyzeCmd `cmd:"" default:"withargs" help:"Analyze a repository's dependency architecture"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("archmap"),
		kong.Description("Dependency resolution and architecture graph engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
		kong.Bind(c),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run()
}
