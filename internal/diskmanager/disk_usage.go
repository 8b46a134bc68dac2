// disk_usage.go - live volume usage for capacity projections
package diskmanager

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/logger"
	"github.com/tphakala/dasdcalc/internal/observability/metrics"
)

// DiskSpaceInfo holds detailed disk space information.
type DiskSpaceInfo struct {
	TotalBytes uint64 `json:"total_bytes"`
	UsedBytes  uint64 `json:"used_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
}

// VolumeInfo describes a mounted volume and its usage.
type VolumeInfo struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	UsagePerc  float64 `json:"usage_percent"`
}

// Indirection points for tests
var (
	usageFunc      = disk.Usage
	partitionsFunc = disk.Partitions
)

var (
	diskMetrics   *metrics.VolumeMetrics
	diskMetricsMu sync.RWMutex
)

// SetMetrics installs the collector updated on every usage query.
func SetMetrics(m *metrics.VolumeMetrics) {
	diskMetricsMu.Lock()
	defer diskMetricsMu.Unlock()
	diskMetrics = m
}

func getMetrics() *metrics.VolumeMetrics {
	diskMetricsMu.RLock()
	defer diskMetricsMu.RUnlock()
	return diskMetrics
}

func getLogger() logger.Logger {
	return logger.Global().Module("diskmanager")
}

// GetDetailedDiskUsage returns the total, used and free bytes of the
// filesystem containing path. Free is the space available to unprivileged
// users, so used is total minus that.
func GetDetailedDiskUsage(path string) (DiskSpaceInfo, error) {
	start := time.Now()

	stat, err := usageFunc(path)
	if err != nil {
		if m := getMetrics(); m != nil {
			m.RecordUsageCheckError()
		}
		return DiskSpaceInfo{}, errors.New(err).
			Component("diskmanager").
			Category(errors.CategoryDiskUsage).
			Context("path", path).
			Timing("disk-usage", time.Since(start)).
			Build()
	}

	info := DiskSpaceInfo{
		TotalBytes: stat.Total,
		FreeBytes:  stat.Free,
	}
	if stat.Total > stat.Free {
		info.UsedBytes = stat.Total - stat.Free
	}

	if m := getMetrics(); m != nil {
		m.UpdateVolumeUsage(path, info.UsedBytes, info.TotalBytes)
		m.RecordUsageCheckDuration(time.Since(start).Seconds())
	}

	getLogger().Debug("Volume usage read",
		logger.String("path", path),
		logger.Uint64("total_bytes", info.TotalBytes),
		logger.Uint64("used_bytes", info.UsedBytes))

	return info, nil
}

// GetDiskUsage returns the usage percentage of the filesystem containing path.
func GetDiskUsage(path string) (float64, error) {
	info, err := GetDetailedDiskUsage(path)
	if err != nil {
		return 0, err
	}
	return capacity.UsagePercent(float64(info.UsedBytes), float64(info.TotalBytes)), nil
}

// StateForPath returns the capacity state of the filesystem containing path.
func StateForPath(path string) (capacity.State, error) {
	info, err := GetDetailedDiskUsage(path)
	if err != nil {
		return capacity.State{}, err
	}
	return info.State(), nil
}

// State converts the byte counts to a capacity state.
func (i DiskSpaceInfo) State() capacity.State {
	return capacity.NewState(float64(i.TotalBytes), float64(i.UsedBytes))
}

// ListVolumes returns usage for every physical mounted filesystem, sorted by
// mountpoint. Volumes whose usage cannot be read are skipped.
func ListVolumes() ([]VolumeInfo, error) {
	partitions, err := partitionsFunc(false)
	if err != nil {
		return nil, errors.New(err).
			Component("diskmanager").
			Category(errors.CategorySystem).
			Build()
	}

	volumes := []VolumeInfo{}
	for _, p := range partitions {
		if skipFilesystem(p.Fstype) {
			continue
		}

		info, err := GetDetailedDiskUsage(p.Mountpoint)
		if err != nil {
			getLogger().Debug("Skipping volume",
				logger.String("mountpoint", p.Mountpoint),
				logger.Error(err))
			continue
		}

		volumes = append(volumes, VolumeInfo{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			Total:      info.TotalBytes,
			Used:       info.UsedBytes,
			Free:       info.FreeBytes,
			UsagePerc:  capacity.UsagePercent(float64(info.UsedBytes), float64(info.TotalBytes)),
		})
	}

	sort.Slice(volumes, func(i, j int) bool {
		return volumes[i].Mountpoint < volumes[j].Mountpoint
	})

	return volumes, nil
}

// pseudoFilesystems are virtual filesystems with no meaningful capacity.
var pseudoFilesystems = map[string]bool{
	"tmpfs":      true,
	"devtmpfs":   true,
	"squashfs":   true,
	"overlay":    true,
	"autofs":     true,
	"mqueue":     true,
	"debugfs":    true,
	"tracefs":    true,
	"securityfs": true,
	"pstore":     true,
	"bpf":        true,
	"configfs":   true,
	"hugetlbfs":  true,
	"nsfs":       true,
	"ramfs":      true,
}

func skipFilesystem(fstype string) bool {
	if pseudoFilesystems[fstype] {
		return true
	}
	for _, prefix := range []string{"fuse", "cgroup", "proc", "sys", "dev"} {
		if strings.HasPrefix(fstype, prefix) {
			return true
		}
	}
	return false
}
