package cdrom

import (
	"context"
	"fmt"
	"time"

	"platter/internal/fault"
)

// DriveStatus represents the result of a CDROM_DRIVE_STATUS ioctl call.
type DriveStatus int

const (
	DriveStatusNoInfo   DriveStatus = 0
	DriveStatusNoDisc   DriveStatus = 1
	DriveStatusTrayOpen DriveStatus = 2
	DriveStatusNotReady DriveStatus = 3
	DriveStatusDiscOK   DriveStatus = 4
)

// String returns a human-readable label for the drive status.
func (s DriveStatus) String() string {
	switch s {
	case DriveStatusNoInfo:
		return "no_info"
	case DriveStatusNoDisc:
		return "no_disc"
	case DriveStatusTrayOpen:
		return "tray_open"
	case DriveStatusNotReady:
		return "not_ready"
	case DriveStatusDiscOK:
		return "disc_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

const (
	maxPolls     = 30
	pollInterval = time.Second
)

// StatusFunc reports the state of device.
type StatusFunc func(device string) (DriveStatus, error)

// WaitForReady polls the drive until it reports a disc or ctx ends.
func WaitForReady(ctx context.Context, device string) (DriveStatus, error) {
	return WaitForReadyWith(ctx, device, CheckDriveStatus, pollInterval)
}

// WaitForReadyWith polls status every interval, at most 30 times, until it
// reports DriveStatusDiscOK.
func WaitForReadyWith(ctx context.Context, device string, status StatusFunc, interval time.Duration) (DriveStatus, error) {
	var last DriveStatus
	for i := 0; i < maxPolls; i++ {
		st, err := status(device)
		if err != nil {
			return st, err
		}
		last = st
		if st == DriveStatusDiscOK {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}
	return last, fault.Wrap(fault.ErrDevice, "cdrom", "wait",
		fmt.Sprintf("%s not ready after %d polls (last status: %s)", device, maxPolls, last), nil)
}
