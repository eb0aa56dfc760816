package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	"github.com/go-flac/go-flac"

	"platter/internal/album"
	"platter/internal/discid"
	"platter/internal/fault"
)

// ErrUnsupported marks files whose container cannot be probed or tagged.
var ErrUnsupported = errors.New("unsupported audio format")

// Format identifies a container by extension.
type Format string

const (
	FormatFLAC Format = "flac"
	FormatMP4  Format = "mp4"
	FormatMP3  Format = "mp3"
)

// FormatOf maps a file extension to a Format.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return FormatFLAC, true
	case ".m4a", ".mp4", ".alac":
		return FormatMP4, true
	case ".mp3":
		return FormatMP3, true
	default:
		return "", false
	}
}

// Info describes one probed file.
type Info struct {
	Path     string        `json:"path"`
	Format   Format        `json:"format"`
	Sectors  uint32        `json:"sectors"`
	Duration time.Duration `json:"duration"`
}

// Probe reads the duration of one file.
func Probe(path string) (Info, error) {
	format, ok := FormatOf(path)
	if !ok {
		return Info{}, fault.Wrap(fault.ErrInvalidInput, "audiofile", "probe", path, ErrUnsupported)
	}
	var (
		units, rate uint64
		err         error
	)
	switch format {
	case FormatFLAC:
		units, rate, err = probeFLAC(path)
	case FormatMP4:
		units, rate, err = probeMP4(path)
	default:
		err = fmt.Errorf("%s has no length header: %w", format, ErrUnsupported)
	}
	if err != nil {
		return Info{}, fault.Wrap(fault.ErrInvalidInput, "audiofile", "probe", path, err)
	}
	if rate == 0 {
		return Info{}, fault.Invalid("audiofile", "probe", path+": zero sample rate")
	}
	return Info{
		Path:     path,
		Format:   format,
		Sectors:  toSectors(units, rate),
		Duration: time.Duration(units * uint64(time.Second) / rate),
	}, nil
}

func probeFLAC(path string) (uint64, uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	meta, err := flac.ParseMetadata(file)
	if err != nil {
		return 0, 0, err
	}
	info, err := meta.GetStreamInfo()
	if err != nil {
		return 0, 0, err
	}
	if info.SampleCount <= 0 {
		return 0, 0, errors.New("stream length unknown")
	}
	return uint64(info.SampleCount), uint64(info.SampleRate), nil
}

func probeMP4(path string) (uint64, uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	info, err := mp4.Probe(file)
	if err != nil {
		return 0, 0, err
	}
	return info.Duration, uint64(info.Timescale), nil
}

// toSectors converts a length in units of 1/rate seconds to CD sectors,
// rounding to the nearest sector.
func toSectors(units, rate uint64) uint32 {
	return uint32((units*discid.FramesPerSecond + rate/2) / rate)
}

// ScanDir lists supported files in dir in name order. Name order is track
// order for the usual "01 - Title.flac" naming.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fault.Wrap(fault.ErrInvalidInput, "audiofile", "scan", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatOf(entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// AlbumFromDir probes every supported file in dir and returns the album they
// form. MP3 files are skipped because they carry no exact length.
func AlbumFromDir(dir string) (album.Album, []Info, error) {
	paths, err := ScanDir(dir)
	if err != nil {
		return album.Album{}, nil, err
	}
	var infos []Info
	for _, path := range paths {
		if format, _ := FormatOf(path); format == FormatMP3 {
			continue
		}
		info, err := Probe(path)
		if err != nil {
			return album.Album{}, nil, err
		}
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return album.Album{}, nil, fault.Invalid("audiofile", "scan", "no flac or mp4 files in "+dir)
	}
	sectors := make([]uint32, len(infos))
	for i, info := range infos {
		sectors[i] = info.Sectors
	}
	return album.FromSectors(sectors), infos, nil
}
