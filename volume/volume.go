// Package volume lists the storage volumes an index run walks.
package volume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// ErrVolumeList is returned when the operating system cannot enumerate volumes.
var ErrVolumeList = errors.New("listing volumes failed")

// Volume is a mounted storage partition.
type Volume struct {
	Device     string // OS device name, e.g. /dev/sda1 or C:
	Mountpoint string // Traversal root, e.g. / or C:\
	FSType     string
}

// ID returns the identifier used in logs and exclusion lists.
func (v Volume) ID() string {
	return v.Mountpoint
}

// Lister enumerates volumes.
type Lister interface {
	ListVolumes(ctx context.Context) ([]Volume, error)
}

// PartitionFunc matches disk.PartitionsWithContext so tests can substitute it.
type PartitionFunc func(ctx context.Context, all bool) ([]disk.PartitionStat, error)

// SystemLister lists the fixed and removable partitions reported by the OS.
type SystemLister struct {
	Partitions PartitionFunc // nil uses disk.PartitionsWithContext
}

// ListVolumes returns every physical partition in OS order. Network shares
// and pseudo filesystems are left out unless the OS reports them as devices.
// Duplicate mountpoints collapse to the first entry.
func (l SystemLister) ListVolumes(ctx context.Context) ([]Volume, error) {
	partitions := l.Partitions
	if partitions == nil {
		partitions = disk.PartitionsWithContext
	}

	stats, err := partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVolumeList, err)
	}

	seen := make(map[string]bool, len(stats))
	volumes := make([]Volume, 0, len(stats))
	for _, stat := range stats {
		if stat.Mountpoint == "" || seen[stat.Mountpoint] {
			continue
		}
		seen[stat.Mountpoint] = true
		volumes = append(volumes, Volume{
			Device:     stat.Device,
			Mountpoint: stat.Mountpoint,
			FSType:     stat.Fstype,
		})
	}
	return volumes, nil
}

// ExclusionSet holds the volumes the operator chose to skip for one index
// run. Entries may name either a device or a mountpoint.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from identifiers, ignoring blanks.
func NewExclusionSet(ids ...string) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Excludes reports whether v is in the set.
func (s ExclusionSet) Excludes(v Volume) bool {
	if _, ok := s[v.Mountpoint]; ok {
		return true
	}
	_, ok := s[v.Device]
	return ok
}

// Filter returns the volumes not in the set, preserving order.
func (s ExclusionSet) Filter(volumes []Volume) []Volume {
	kept := make([]Volume, 0, len(volumes))
	for _, v := range volumes {
		if !s.Excludes(v) {
			kept = append(kept, v)
		}
	}
	return kept
}
