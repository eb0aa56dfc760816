package audiofile

import (
	"fmt"
	"strconv"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"platter/internal/album"
	"platter/internal/fault"
)

const vendor = "platter"

// Tags are the values written for one track.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Year        string
	Genre       string
	Track       int
	TrackTotal  int
}

// TagsFor returns the tags of track index (zero-based) of a. A track without
// its own artist inherits the album artist.
func TagsFor(a album.Album, index int) (Tags, error) {
	if index < 0 || index >= len(a.Tracks) {
		return Tags{}, fault.Invalid("audiofile", "tags", fmt.Sprintf("track %d out of range", index+1))
	}
	track := a.Tracks[index]
	artist := track.Artist
	if artist == "" {
		artist = a.Artist
	}
	return Tags{
		Title:       track.Title,
		Artist:      artist,
		Album:       a.Title,
		AlbumArtist: a.Artist,
		Year:        a.Year,
		Genre:       a.Genre,
		Track:       index + 1,
		TrackTotal:  len(a.Tracks),
	}, nil
}

// Write stores tags in the file at path, replacing existing ones.
func Write(path string, tags Tags) error {
	format, _ := FormatOf(path)
	var err error
	switch format {
	case FormatFLAC:
		err = writeFLAC(path, tags)
	case FormatMP3:
		err = writeID3(path, tags)
	default:
		err = ErrUnsupported
	}
	if err != nil {
		return fault.Wrap(fault.ErrInvalidInput, "audiofile", "tag", path, err)
	}
	return nil
}

// TagDir writes a's metadata into the supported files of dir, in name order.
// The file count must match the track count.
func TagDir(dir string, a album.Album) ([]string, error) {
	paths, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) != len(a.Tracks) {
		return nil, fault.Invalid("audiofile", "tag", fmt.Sprintf("%s has %d files for %d tracks", dir, len(paths), len(a.Tracks)))
	}
	for i, path := range paths {
		tags, err := TagsFor(a, i)
		if err != nil {
			return nil, err
		}
		if err := Write(path, tags); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func vorbisComment(tags Tags) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	comment := flacvorbis.New()
	comment.Vendor = vendor
	fields := []struct {
		key   string
		value string
	}{
		{"TITLE", tags.Title},
		{"ARTIST", tags.Artist},
		{"ALBUM", tags.Album},
		{"ALBUMARTIST", tags.AlbumArtist},
		{"DATE", tags.Year},
		{"GENRE", tags.Genre},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := comment.Add(f.key, f.value); err != nil {
			return nil, err
		}
	}
	if tags.Track > 0 {
		if err := comment.Add("TRACKNUMBER", strconv.Itoa(tags.Track)); err != nil {
			return nil, err
		}
	}
	if tags.TrackTotal > 0 {
		if err := comment.Add("TRACKTOTAL", strconv.Itoa(tags.TrackTotal)); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

func writeFLAC(path string, tags Tags) error {
	file, err := flac.ParseFile(path)
	if err != nil {
		return err
	}
	comment, err := vorbisComment(tags)
	if err != nil {
		return err
	}

	blocks := make([]*flac.MetaDataBlock, 0, len(file.Meta)+1)
	for _, block := range file.Meta {
		if block.Type != flac.VorbisComment {
			blocks = append(blocks, block)
		}
	}
	block := comment.Marshal()
	file.Meta = append(blocks, &block)
	return file.Save(path)
}

func writeID3(path string, tags Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetVersion(4)
	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)
	tag.SetYear(tags.Year)
	tag.SetGenre(tags.Genre)
	if tags.AlbumArtist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, tags.AlbumArtist)
	}
	if tags.Track > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d/%d", tags.Track, tags.TrackTotal))
	}
	return tag.Save()
}

// ReadFLACComments returns the Vorbis comments of a FLAC file keyed by
// upper-case field name.
func ReadFLACComments(path string) (map[string][]string, error) {
	file, err := flac.ParseFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.ErrInvalidInput, "audiofile", "read tags", path, err)
	}
	out := map[string][]string{}
	for _, block := range file.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fault.Wrap(fault.ErrInvalidInput, "audiofile", "read tags", path, err)
		}
		for _, key := range []string{"TITLE", "ARTIST", "ALBUM", "ALBUMARTIST", "DATE", "GENRE", "TRACKNUMBER", "TRACKTOTAL"} {
			values, err := comment.Get(key)
			if err != nil {
				return nil, fault.Wrap(fault.ErrInvalidInput, "audiofile", "read tags", path, err)
			}
			if len(values) > 0 {
				out[key] = values
			}
		}
	}
	return out, nil
}
