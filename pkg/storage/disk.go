package storage

import (
	"golang.org/x/sys/unix"

	errs "wikifauna/pkg/errors"
	"wikifauna/pkg/logger"
)

const (
	// DiskWarnThreshold is the free-space level below which a warning is
	// logged but the run proceeds
	DiskWarnThreshold = 100 * 1024 * 1024

	// DiskAbortThreshold is the free-space level below which the whole
	// batch is refused. A partially downloaded image set under severe disk
	// pressure is worse than no set.
	DiskAbortThreshold = 10 * 1024 * 1024
)

// FreeSpace reports the free bytes available to unprivileged writes on the
// volume holding path
func FreeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// FreeSpaceFunc is the check CheckDiskSpace consults. It is a package
// variable so tests can simulate disk pressure without filling a volume.
var FreeSpaceFunc = FreeSpace

// CheckDiskSpace verifies the destination volume before a download batch
// starts. Below the warn threshold the run proceeds with a warning; below
// the abort threshold it returns a disk_space error and nothing is
// downloaded.
func CheckDiskSpace(path string, log logger.Logger) error {
	if log == nil {
		log = logger.GetLogger()
	}

	free, err := FreeSpaceFunc(path)
	if err != nil {
		// Statfs can fail on exotic filesystems; a skipped check should
		// not block the run
		log.WarnWithFields("could not check disk space", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	freeMB := free / (1024 * 1024)

	if free < DiskAbortThreshold {
		log.ErrorWithFields("critical disk space shortage, aborting", map[string]interface{}{
			"path":    path,
			"free_mb": freeMB,
		})
		return errs.Newf(errs.ErrorTypeDiskSpace,
			"insufficient disk space: %d MiB free", freeMB)
	}

	if free < DiskWarnThreshold {
		log.WarnWithFields("low disk space", map[string]interface{}{
			"path":    path,
			"free_mb": freeMB,
		})
	}

	return nil
}
