//go:build windows || darwin

package oci

import (
	"runtime"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/pkg/errors"
)

func mergeTmpfsOptions([]string) ([]string, error) {
	return nil, errors.Wrapf(cerrdefs.ErrNotImplemented, "tmpfs mounts are not supported on %s", runtime.GOOS)
}
