package container

import (
	"fmt"
	"sort"
)

// TmpfsMount represents a directory that is mounted with tmpfs inside a
// container. It is characterized by the path of the directory and the mount
// options passed to the tmpfs filesystem (for example "size=100m,mode=1777").
//
// A TmpfsMount is immutable; use [NewTmpfsMount] or [BindTmpfs] to create one.
// TmpfsMount is comparable, and two mounts are equal if both their path and
// their options are equal.
type TmpfsMount struct {
	path    string
	options string
}

// NewTmpfsMount creates a TmpfsMount for the given path and mount options.
// Neither value is validated or normalized.
func NewTmpfsMount(path, options string) TmpfsMount {
	return TmpfsMount{path: path, options: options}
}

// BindTmpfs is an alias for [NewTmpfsMount].
func BindTmpfs(path, options string) TmpfsMount {
	return NewTmpfsMount(path, options)
}

// Path returns the path of the directory to be mounted with tmpfs.
func (m TmpfsMount) Path() string {
	return m.path
}

// Options returns the mount options for the tmpfs mount.
func (m TmpfsMount) Options() string {
	return m.options
}

// String returns the mount in "<path>:<options>" form. The colon is not
// escaped, so the result is ambiguous if either part contains one.
func (m TmpfsMount) String() string {
	return m.path + ":" + m.options
}

// Equal reports whether m and other have the same path and options.
func (m TmpfsMount) Equal(other TmpfsMount) bool {
	return m == other
}

// Hash returns a hash code for the mount, combining the hashes of the
// path and the options as 31*hash(path) + hash(options), where each string
// hash is computed over its UTF-8 bytes. Equal mounts produce equal hashes.
func (m TmpfsMount) Hash() uint32 {
	return 31*hashString(m.path) + hashString(m.options)
}

func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = 31*h + uint32(s[i])
	}
	return h
}

// Tmpfs is an ordered collection of tmpfs mounts, as used in the "Tmpfs"
// field of a container's host configuration. Mounts keep their insertion
// order and duplicate paths are permitted in memory; see [EncodeTmpfs] for
// how duplicates are written.
//
// The zero value is an empty set, ready to use. A Tmpfs is not safe for
// concurrent use when one of the goroutines calls Add.
type Tmpfs struct {
	mounts []TmpfsMount
}

// NewTmpfs creates a Tmpfs holding the given mounts, in order. The slice is
// copied.
func NewTmpfs(mounts ...TmpfsMount) *Tmpfs {
	t := &Tmpfs{}
	t.Add(mounts...)
	return t
}

// TmpfsFromMap creates a Tmpfs from a path to options map. Maps are
// unordered, so the mounts are sorted by path.
func TmpfsFromMap(m map[string]string) *Tmpfs {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	t := &Tmpfs{mounts: make([]TmpfsMount, 0, len(paths))}
	for _, p := range paths {
		t.mounts = append(t.mounts, NewTmpfsMount(p, m[p]))
	}
	return t
}

// Add appends the given mounts, in argument order.
func (t *Tmpfs) Add(mounts ...TmpfsMount) {
	t.mounts = append(t.mounts, mounts...)
}

// Mounts returns a copy of the current mounts in insertion order. Changes
// to the returned slice are not reflected in t.
func (t *Tmpfs) Mounts() []TmpfsMount {
	if t == nil || len(t.mounts) == 0 {
		return []TmpfsMount{}
	}
	out := make([]TmpfsMount, len(t.mounts))
	copy(out, t.mounts)
	return out
}

// Len returns the number of mounts, including duplicates.
func (t *Tmpfs) Len() int {
	if t == nil {
		return 0
	}
	return len(t.mounts)
}

// Map returns the mounts as a path to options map. If a path occurs more
// than once, the options of its last occurrence are used.
func (t *Tmpfs) Map() map[string]string {
	out := make(map[string]string, t.Len())
	for _, m := range t.Unique() {
		out[m.path] = m.options
	}
	return out
}

// String returns the list of mounts for diagnostics. It is not the wire
// format.
func (t *Tmpfs) String() string {
	if t == nil {
		return "[]"
	}
	return fmt.Sprint(t.mounts)
}

// Unique returns the mounts with each path occurring once: at the
// position of its first occurrence, with the options of its last. This is
// the set of mounts [EncodeTmpfs] writes.
func (t *Tmpfs) Unique() []TmpfsMount {
	if t == nil {
		return []TmpfsMount{}
	}
	index := make(map[string]int, len(t.mounts))
	out := make([]TmpfsMount, 0, len(t.mounts))
	for _, m := range t.mounts {
		if i, ok := index[m.path]; ok {
			out[i] = m
			continue
		}
		index[m.path] = len(out)
		out = append(out, m)
	}
	return out
}
