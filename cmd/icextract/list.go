package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/icextract"
)

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [flags] <installer>",
		Short: "List the files of an installer without extracting them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, *g, args[0])
		},
	}
}

func runList(cmd *cobra.Command, g globalFlags, path string) error {
	opts, err := openOptions(cmd, g)
	if err != nil {
		return err
	}
	inst, err := icextract.Open(path, opts...)
	if err != nil {
		return err
	}
	defer inst.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "installer version %s, %d nodes, %d files, payload %s in %d part(s)\n",
		inst.Version(), inst.NodeCount(), len(inst.Records()), humanize.Bytes(uint64(inst.DataSize())), len(inst.Parts()))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "INDEX\tOFFSET\tPACKED\tSIZE\tMODIFIED\t PATH")
	for _, rec := range inst.Records() {
		modified := "-"
		if !rec.Modified.IsZero() {
			modified = rec.Modified.UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t %s\n",
			rec.Index, rec.Offset, rec.CompressedSize, rec.UncompressedSize, modified, rec.Path)
	}
	return tw.Flush()
}
