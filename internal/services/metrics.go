package services

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemSample is the admin dashboard's view of the host the site runs on.
type SystemSample struct {
	CapturedAt        time.Time `json:"capturedAt"`
	ProcessRSSBytes   int64     `json:"processRssBytes"`
	HeapUsedBytes     int64     `json:"heapUsedBytes"`
	Goroutines        int       `json:"goroutines"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `json:"diskTotalBytes"`
	DiskUsedBytes     int64     `json:"diskUsedBytes"`
	UploadsBytes      int64     `json:"uploadsBytes"`
	ContentStore      string    `json:"contentStore"`
	StartedAt         time.Time `json:"startedAt"`
}

// CaptureSystem samples memory and the disk holding the uploads directory.
// Probes that fail leave their fields at zero.
func CaptureSystem(uploads *Uploads, storeKind string, startedAt time.Time) SystemSample {
	sample := SystemSample{
		CapturedAt:   time.Now().UTC(),
		Goroutines:   runtime.NumGoroutine(),
		ContentStore: storeKind,
		StartedAt:    startedAt.UTC(),
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	sample.HeapUsedBytes = int64(ms.HeapAlloc)

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			sample.ProcessRSSBytes = int64(info.RSS)
		}
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	diskPath := "/"
	if uploads != nil {
		diskPath = uploads.Dir
		sample.UploadsBytes = uploads.Size()
	}
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		diskStat, err = disk.Usage("/")
	}
	if err == nil && diskStat != nil {
		sample.DiskTotalBytes = int64(diskStat.Total)
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	return sample
}
