package main

import (
	"encoding/json"

	"github.com/moby/tmpfs/oci"
	"github.com/spf13/cobra"
)

func newSpecCommand() *cobra.Command {
	var options inputOptions

	cmd := &cobra.Command{
		Use:   "spec [FILE]",
		Short: "Print the OCI runtime mounts for engine API tmpfs JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpfs, err := readTmpfs(cmd, args, options)
			if err != nil {
				return err
			}
			mounts, err := oci.TmpfsMounts(cmd.Context(), tmpfs)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(mounts)
		},
	}
	options.install(cmd)
	return cmd
}
