package container

// HostConfig holds the tmpfs-related part of a container's host
// configuration, as sent when creating a container and returned when
// inspecting one.
type HostConfig struct {
	// ReadonlyRootfs mounts the container's root filesystem as read only.
	// Tmpfs mounts are commonly used to provide writable scratch space in
	// this case.
	ReadonlyRootfs bool `json:",omitempty"`

	// Tmpfs lists the tmpfs mounts for the container, keyed by path on
	// the wire.
	Tmpfs *Tmpfs `json:",omitempty"`
}

// TmpfsMounts returns the tmpfs mounts of the host configuration. It
// returns an empty slice if none are configured.
func (hc *HostConfig) TmpfsMounts() []TmpfsMount {
	if hc == nil {
		return []TmpfsMount{}
	}
	return hc.Tmpfs.Mounts()
}
