//go:build !linux

package cdrom

import "platter/internal/fault"

// CheckDriveStatus is unavailable off Linux.
func CheckDriveStatus(device string) (DriveStatus, error) {
	return DriveStatusNoInfo, fault.Wrap(fault.ErrDevice, "cdrom", "drive status", device, ErrUnsupported)
}

// ReadTOC is unavailable off Linux.
func ReadTOC(device string) (TOC, error) {
	return TOC{}, fault.Wrap(fault.ErrDevice, "cdrom", "read toc", device, ErrUnsupported)
}
