package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/containerd/log"
	"github.com/moby/tmpfs/api/types/container"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type inputOptions struct {
	hostConfig bool
}

func (o *inputOptions) install(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.hostConfig, "host-config", false, "Read a host configuration instead of a bare tmpfs object")
}

func newDecodeCommand() *cobra.Command {
	var options inputOptions

	cmd := &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Decode engine API tmpfs JSON and print one PATH:OPTIONS per line",
		Long:  "Decode engine API tmpfs JSON and print one PATH:OPTIONS per line. With no FILE, or when FILE is -, read standard input.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpfs, err := readTmpfs(cmd, args, options)
			if err != nil {
				return err
			}
			for _, m := range tmpfs.Mounts() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), m.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	options.install(cmd)
	return cmd
}

func readTmpfs(cmd *cobra.Command, args []string, options inputOptions) (*container.Tmpfs, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}

	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tmpfs configuration from %s", name)
	}

	if options.hostConfig {
		var hc container.HostConfig
		if err := json.Unmarshal(data, &hc); err != nil {
			return nil, errors.Wrap(err, "failed to decode host configuration")
		}
		if hc.Tmpfs == nil {
			hc.Tmpfs = container.NewTmpfs()
		}
		log.G(cmd.Context()).WithFields(log.Fields{
			"source":         name,
			"mounts":         hc.Tmpfs.Len(),
			"readonlyRootfs": hc.ReadonlyRootfs,
		}).Debug("decoded host configuration")
		return hc.Tmpfs, nil
	}

	tmpfs, err := container.DecodeTmpfs(data)
	if err != nil {
		return nil, err
	}
	log.G(cmd.Context()).WithFields(log.Fields{
		"source": name,
		"mounts": tmpfs.Len(),
	}).Debug("decoded tmpfs configuration")
	return tmpfs, nil
}
