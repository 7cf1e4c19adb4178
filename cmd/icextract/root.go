package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/icextract"
)

type globalFlags struct {
	version string
	verbose bool
}

type extractFlags struct {
	dumpBlocks bool
	simulate   bool
	overwrite  bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "icextract [flags] <installer> [output-dir]",
		Short: "Extract files from Clickteam Install Creator installers",
		Long: `Extracts the files stored in an installer built with Clickteam Install Creator.

Continuation files next to the installer (setup.D01, setup.D02, ...) are
picked up automatically. The record schema is detected from the file list;
use --installer-version when detection picks the wrong one.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, g, f, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.version, "installer-version", "v", "", "record schema to use (20, 30, 35 or 40) instead of detecting it")
	pf.BoolVar(&g.verbose, "verbose", false, "log decoding details")

	fl := cmd.Flags()
	fl.BoolVar(&f.dumpBlocks, "dump-blocks", false, "write every block and raw file record to the output directory")
	fl.BoolVar(&f.simulate, "simulate", false, "decode and decompress everything without writing files")
	fl.BoolVar(&f.overwrite, "overwrite", false, "overwrite existing files")

	cmd.AddCommand(newListCmd(&g))
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openOptions translates the global flags into Open options.
func openOptions(cmd *cobra.Command, g globalFlags) ([]icextract.Option, error) {
	opts := []icextract.Option{icextract.WithLogger(newLogger(cmd.ErrOrStderr(), g.verbose))}
	if g.version != "" {
		v, err := icextract.ParseVersion(g.version)
		if err != nil {
			return nil, err
		}
		opts = append(opts, icextract.WithVersion(v))
	}
	return opts, nil
}

func runExtract(cmd *cobra.Command, g globalFlags, f extractFlags, args []string) error {
	path := args[0]
	outDir := icextract.DefaultOutputDir(path)
	if len(args) > 1 {
		outDir = args[1]
	}

	opts, err := openOptions(cmd, g)
	if err != nil {
		return err
	}
	if f.dumpBlocks {
		opts = append(opts, icextract.WithBlockDump(icextract.NewFileSink(outDir, icextract.WithOverwrite(true))))
	}

	inst, err := icextract.Open(path, opts...)
	if err != nil {
		return err
	}
	defer inst.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "installer version %s, %d files\n", inst.Version(), len(inst.Records()))

	var sink icextract.Sink = icextract.DiscardSink{}
	if !f.simulate {
		sink = icextract.NewFileSink(outDir, icextract.WithOverwrite(f.overwrite))
	}
	stats, err := inst.Extract(cmd.Context(), sink)
	if err != nil {
		return err
	}

	verb := "extracted to " + outDir
	if f.simulate {
		verb = "decoded (simulation)"
	}
	fmt.Fprintf(out, "%d files %s, %s\n", stats.Extracted, verb, humanize.Bytes(stats.TotalBytes))
	if stats.Skipped > 0 {
		fmt.Fprintf(out, "%d existing files skipped, use --overwrite to replace them\n", stats.Skipped)
	}
	if stats.Failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d of %d files failed, the installer might be corrupt or encrypted\n",
			stats.Failed, len(inst.Records()))
	}
	return nil
}
