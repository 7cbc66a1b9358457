package opts

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/moby/tmpfs/api/types/container"
)

// TmpfsOpt is a flag value collecting tmpfs mounts in PATH[:OPTIONS] form,
// for example "/run:rw,size=64m".
type TmpfsOpt struct {
	values *container.Tmpfs
}

// NewTmpfsOpt creates a TmpfsOpt adding mounts to t. If t is nil, a new
// set is allocated.
func NewTmpfsOpt(t *container.Tmpfs) *TmpfsOpt {
	if t == nil {
		t = container.NewTmpfs()
	}
	return &TmpfsOpt{values: t}
}

// Set parses and validates a tmpfs mount and adds it to the set.
func (o *TmpfsOpt) Set(value string) error {
	m, err := ParseTmpfs(value)
	if err != nil {
		return err
	}
	if o.values == nil {
		o.values = container.NewTmpfs()
	}
	o.values.Add(m)
	return nil
}

// Type returns the type of this option
func (o *TmpfsOpt) Type() string {
	return "tmpfs"
}

// Value returns the tmpfs mounts collected so far.
func (o *TmpfsOpt) Value() *container.Tmpfs {
	return o.values
}

// String returns the tmpfs mounts as a string
func (o *TmpfsOpt) String() string {
	mounts := []string{}
	for _, m := range o.values.Mounts() {
		mounts = append(mounts, m.String())
	}
	return fmt.Sprintf("%v", mounts)
}

// ParseTmpfs parses a tmpfs mount in PATH[:OPTIONS] form. The path is
// everything up to the first colon.
func ParseTmpfs(value string) (container.TmpfsMount, error) {
	dest, options, _ := strings.Cut(value, ":")
	if err := ValidateTmpfsDestination(dest); err != nil {
		return container.TmpfsMount{}, err
	}
	if err := ValidateTmpfsOptions(options); err != nil {
		return container.TmpfsMount{}, err
	}
	return container.NewTmpfsMount(dest, options), nil
}

// ValidateTmpfsDestination checks that dest is usable as the target of a
// tmpfs mount.
func ValidateTmpfsDestination(dest string) error {
	if dest == "" {
		return fmt.Errorf("invalid tmpfs mount %q: destination can't be empty", dest)
	}
	if !path.IsAbs(dest) {
		return fmt.Errorf("invalid tmpfs mount %q: destination must be an absolute path", dest)
	}
	if path.Clean(dest) == "/" {
		return fmt.Errorf("invalid tmpfs mount %q: destination can't be '/'", dest)
	}
	return nil
}

// ValidateTmpfsOptions checks the values of the comma separated tmpfs
// options that take one. Options without a value, and options this
// function does not know, are left to the kernel.
func ValidateTmpfsOptions(options string) error {
	if options == "" {
		return nil
	}
	for _, opt := range strings.Split(options, ",") {
		key, val, ok := strings.Cut(opt, "=")
		if !ok {
			if opt == "" {
				return fmt.Errorf("invalid tmpfs options %q: empty option", options)
			}
			continue
		}
		if err := validateTmpfsOption(key, val); err != nil {
			return fmt.Errorf("invalid tmpfs option %q: %w", opt, err)
		}
	}
	return nil
}

func validateTmpfsOption(key, val string) error {
	switch key {
	case "size":
		if pct, ok := strings.CutSuffix(val, "%"); ok {
			n, err := strconv.ParseUint(pct, 10, 64)
			if err != nil || n == 0 {
				return fmt.Errorf("invalid percentage")
			}
			return nil
		}
		if _, err := units.RAMInBytes(val); err != nil {
			return err
		}
	case "nr_inodes", "nr_blocks":
		if _, err := units.RAMInBytes(val); err != nil {
			return err
		}
	case "mode":
		if _, err := strconv.ParseUint(val, 8, 32); err != nil {
			return fmt.Errorf("mode must be an octal number")
		}
	case "uid", "gid":
		if _, err := strconv.ParseUint(val, 10, 32); err != nil {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
	}
	return nil
}
