package oci

import (
	"context"
	"strings"

	"github.com/containerd/log"
	"github.com/moby/tmpfs/api/types/container"
	"github.com/opencontainers/runtime-spec/specs-go"
)

// DefaultTmpfsOptions are applied to every tmpfs mount before the options
// of the mount itself, which take precedence.
var DefaultTmpfsOptions = []string{"noexec", "nosuid", "nodev"}

// TmpfsMounts converts t to OCI runtime mounts. A path that occurs more
// than once yields a single mount, see [container.Tmpfs.Unique]. The
// options of each mount are merged with [DefaultTmpfsOptions].
func TmpfsMounts(ctx context.Context, t *container.Tmpfs) ([]specs.Mount, error) {
	mounts := []specs.Mount{}
	for _, m := range t.Unique() {
		options := append([]string{}, DefaultTmpfsOptions...)
		if m.Options() != "" {
			options = append(options, strings.Split(m.Options(), ",")...)
		}
		merged, err := mergeTmpfsOptions(options)
		if err != nil {
			return nil, err
		}
		log.G(ctx).WithFields(log.Fields{
			"destination": m.Path(),
			"options":     strings.Join(merged, ","),
		}).Debug("adding tmpfs mount")
		mounts = append(mounts, specs.Mount{
			Destination: m.Path(),
			Type:        "tmpfs",
			Source:      "tmpfs",
			Options:     merged,
		})
	}
	return mounts, nil
}

// WithTmpfs adds the tmpfs mounts of t to s. Existing mounts of s at the
// same destination are replaced.
func WithTmpfs(ctx context.Context, s *specs.Spec, t *container.Tmpfs) error {
	mounts, err := TmpfsMounts(ctx, t)
	if err != nil {
		return err
	}
	if len(mounts) == 0 {
		return nil
	}

	dests := make(map[string]struct{}, len(mounts))
	for _, m := range mounts {
		dests[m.Destination] = struct{}{}
	}
	kept := s.Mounts[:0]
	for _, m := range s.Mounts {
		if _, ok := dests[m.Destination]; ok {
			log.G(ctx).WithField("destination", m.Destination).Debug("replacing mount with tmpfs")
			continue
		}
		kept = append(kept, m)
	}
	s.Mounts = append(kept, mounts...)
	return nil
}
