//go:build linux

package cdrom

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"platter/internal/fault"
)

const (
	ioctlReadTOCHeader = 0x5305
	ioctlReadTOCEntry  = 0x5306
	ioctlDriveStatus   = 0x5326

	formatLBA     = 0x01
	trackLeadOut  = 0xAA
	ctrlDataTrack = 0x04
)

type tocHeader struct {
	First uint8
	Last  uint8
}

// tocEntry mirrors struct cdrom_tocentry; the address union is 4-byte aligned.
type tocEntry struct {
	Track    uint8
	AdrCtrl  uint8
	Format   uint8
	_        uint8
	Addr     int32
	Datamode uint8
	_        [3]uint8
}

func openDevice(device string) (int, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return -1, fault.Invalid("cdrom", "open", "empty device path")
	}
	fd, err := unix.Open(device, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return -1, fault.Wrap(fault.ErrDevice, "cdrom", "open", device, err)
	}
	return fd, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) (uintptr, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return r1, nil
}

// CheckDriveStatus queries the drive state using the CDROM_DRIVE_STATUS ioctl.
func CheckDriveStatus(device string) (DriveStatus, error) {
	fd, err := openDevice(device)
	if err != nil {
		return DriveStatusNoInfo, err
	}
	defer unix.Close(fd) //nolint:errcheck

	r1, err := ioctl(fd, ioctlDriveStatus, nil)
	if err != nil {
		return DriveStatusNoInfo, fault.Wrap(fault.ErrDevice, "cdrom", "drive status", device, err)
	}
	return DriveStatus(r1), nil
}

// ReadTOC reads the table of contents from device.
func ReadTOC(device string) (TOC, error) {
	fd, err := openDevice(device)
	if err != nil {
		return TOC{}, err
	}
	defer unix.Close(fd) //nolint:errcheck

	var hdr tocHeader
	if _, err := ioctl(fd, ioctlReadTOCHeader, unsafe.Pointer(&hdr)); err != nil {
		return TOC{}, fault.Wrap(fault.ErrDevice, "cdrom", "read toc header", device, err)
	}
	if hdr.First == 0 || hdr.Last < hdr.First {
		return TOC{}, fault.Wrap(fault.ErrDevice, "cdrom", "read toc header", "no tracks reported by "+device, nil)
	}

	toc := TOC{First: hdr.First, Last: hdr.Last}
	for track := int(hdr.First); track <= int(hdr.Last); track++ {
		entry, err := readEntry(fd, uint8(track))
		if err != nil {
			return TOC{}, fault.Wrap(fault.ErrDevice, "cdrom", "read toc entry", device, err)
		}
		toc.Entries = append(toc.Entries, Entry{
			Track: uint8(track),
			LBA:   uint32(entry.Addr),
			Data:  (entry.AdrCtrl>>4)&ctrlDataTrack != 0,
		})
	}

	leadOut, err := readEntry(fd, trackLeadOut)
	if err != nil {
		return TOC{}, fault.Wrap(fault.ErrDevice, "cdrom", "read lead-out", device, err)
	}
	toc.LeadOut = uint32(leadOut.Addr)

	if err := toc.Validate(); err != nil {
		return TOC{}, err
	}
	return toc, nil
}

func readEntry(fd int, track uint8) (tocEntry, error) {
	entry := tocEntry{Track: track, Format: formatLBA}
	if _, err := ioctl(fd, ioctlReadTOCEntry, unsafe.Pointer(&entry)); err != nil {
		return tocEntry{}, err
	}
	if entry.Addr < 0 {
		return tocEntry{}, unix.EINVAL
	}
	return entry, nil
}
