package main

import (
	"encoding/json"
	"fmt"

	"github.com/containerd/log"
	"github.com/moby/tmpfs/api/types/container"
	"github.com/moby/tmpfs/opts"
	"github.com/spf13/cobra"
)

type encodeOptions struct {
	tmpfs          *opts.TmpfsOpt
	hostConfig     bool
	readonlyRootfs bool
}

func newEncodeCommand() *cobra.Command {
	options := encodeOptions{tmpfs: opts.NewTmpfsOpt(nil)}

	cmd := &cobra.Command{
		Use:   "encode [OPTIONS]",
		Short: "Encode tmpfs mounts as engine API JSON",
		Example: `  tmpfsctl encode --tmpfs /tmp:size=64m --tmpfs /run:size=16m,mode=1777
  tmpfsctl encode --host-config --read-only --tmpfs /tmp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, options)
		},
	}

	flags := cmd.Flags()
	flags.Var(options.tmpfs, "tmpfs", "Mount a tmpfs directory (PATH[:OPTIONS])")
	flags.BoolVar(&options.hostConfig, "host-config", false, "Wrap the mounts in a host configuration")
	flags.BoolVar(&options.readonlyRootfs, "read-only", false, "Set ReadonlyRootfs in the host configuration")
	return cmd
}

func runEncode(cmd *cobra.Command, options encodeOptions) error {
	tmpfs := options.tmpfs.Value()
	if options.readonlyRootfs && !options.hostConfig {
		return fmt.Errorf("--read-only requires --host-config")
	}

	var (
		out []byte
		err error
	)
	if options.hostConfig {
		out, err = json.Marshal(&container.HostConfig{
			ReadonlyRootfs: options.readonlyRootfs,
			Tmpfs:          tmpfs,
		})
	} else {
		out, err = container.EncodeTmpfs(tmpfs)
	}
	if err != nil {
		return err
	}

	if len(tmpfs.Unique()) != tmpfs.Len() {
		log.G(cmd.Context()).WithField("mounts", tmpfs.String()).Warn("duplicate tmpfs paths, only the last options for each path are kept")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
