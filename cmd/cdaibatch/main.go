// Command cdaibatch fills one CDAI application per roster row and leaves
// the bundled archive in the output directory.
//
// Usage:
//
//	cdaibatch [flags] <roster-file>
//
// The roster may be a CSV or XLSX file. Flags and CDAI_* environment
// variables configure the template, placements, and output directory; see
// --help for the full list.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/batch"
	"github.com/lvillar/cdaibatch/config"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cdaibatch: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cdaibatch [flags] <roster-file>")
		os.Exit(2)
	}

	// Stdout carries the run summary, so log records go to stderr.
	level := slog.LevelInfo
	if cfg.IsDebug() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "cdaibatch: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, dataPath string) error {
	batchCfg, err := cfg.BatchConfig()
	if err != nil {
		return err
	}

	proc, err := batch.New(batchCfg)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "cdaibatch_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	res, err := proc.Run(batch.NewRunID(), dataPath, workDir, cfg.OutputDir)
	if err != nil {
		if errors.Is(err, cdaibatch.ErrEmptyBatch) {
			return fmt.Errorf("the roster contained no records; report written to %s", res.ReportPath)
		}
		return err
	}

	for _, rec := range res.Records {
		if rec.Ok() {
			fmt.Printf("row %d (%s): %s\n", rec.Row, rec.Patient, rec.Filename)
		} else {
			fmt.Printf("row %d (%s): ERROR: %v\n", rec.Row, rec.Patient, rec.Err)
		}
	}
	fmt.Printf("\n%d generated, %d failed\narchive: %s\n", res.Generated(), res.Failed(), res.ArchivePath)

	return nil
}

func printVersion() {
	fmt.Printf("CDAI batch runner\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
