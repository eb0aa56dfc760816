package discid

import (
	"fmt"
	"strconv"
	"strings"

	"platter/internal/fault"
)

const (
	// FramesPerSecond is the number of CD sectors (frames) in one second of audio.
	FramesPerSecond = 75
	// DefaultLeadIn is the sector offset of the first track on a standard disc.
	DefaultLeadIn = 2 * FramesPerSecond
	// MaxTracks is the largest track count a Red Book disc can carry.
	MaxTracks = 99
)

// ID is a freedb disc identifier.
type ID uint32

// Hex renders the identifier as 8 lowercase hex digits, the form used on the wire.
func (id ID) Hex() string {
	return fmt.Sprintf("%08x", uint32(id))
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Hex()
}

// Checksum returns the digit-sum byte.
func (id ID) Checksum() uint8 {
	return uint8(id >> 24)
}

// Seconds returns the 16-bit playing time field.
func (id ID) Seconds() uint16 {
	return uint16(id >> 8)
}

// Tracks returns the track count byte.
func (id ID) Tracks() uint8 {
	return uint8(id)
}

// ParseID parses an 8 digit hex identifier, with or without a 0x prefix.
func ParseID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if len(trimmed) != 8 {
		return 0, fault.Invalid("discid", "parse", fmt.Sprintf("disc id %q must have 8 hex digits", value))
	}
	parsed, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fault.Wrap(fault.ErrInvalidInput, "discid", "parse", fmt.Sprintf("disc id %q", value), err)
	}
	return ID(parsed), nil
}

// DigitSum returns the sum of the decimal digits of n.
func DigitSum(n int) (int, error) {
	if n < 0 {
		return 0, fault.Invalid("discid", "digit sum", fmt.Sprintf("n must not be negative, got %d", n))
	}
	total := 0
	for n > 0 {
		total += n % 10
		n /= 10
	}
	return total, nil
}

// Compute derives the disc identifier from sector offsets: one start sector
// per track followed by the lead-out sector.
func Compute(offsets []uint32) (ID, error) {
	if len(offsets) < 2 {
		return 0, fault.Invalid("discid", "compute", "offsets must hold at least one track and the lead-out")
	}
	tracks := len(offsets) - 1

	var n, t uint32
	for i := 0; i < tracks; i++ {
		start := offsets[i] / FramesPerSecond
		sum, err := DigitSum(int(start))
		if err != nil {
			return 0, err
		}
		n += uint32(sum)
		// Summed per track so out-of-order offsets wrap the same way servers do.
		t += offsets[i+1]/FramesPerSecond - start
	}

	return ID((n%0xff)<<24 | t<<8 | uint32(tracks)), nil
}

// MarshalText encodes the identifier in its wire form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText accepts the forms ParseID accepts.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
