//go:build !windows && !darwin

package oci

import (
	cerrdefs "github.com/containerd/errdefs"
	"github.com/moby/sys/mount"
	"github.com/pkg/errors"
)

func mergeTmpfsOptions(options []string) ([]string, error) {
	merged, err := mount.MergeTmpfsOptions(options)
	if err != nil {
		return nil, errors.Wrap(cerrdefs.ErrInvalidArgument, err.Error())
	}
	return merged, nil
}
