package lookup

import "platter/internal/album"

const multiMatch = "210 Found exact matches, list follows (until terminating `.')\r\n" +
	"rock 0d023e02 Some Band / Live at Home\r\n" +
	"misc 0d023e02 Some Band / Live at Home (bootleg)\r\n" +
	".\r\n"

const readResponse = "210 rock 0d023e02 CD database entry follows (until terminating `.')\n" +
	"# xmcd\n" +
	"DISCID=0d023e02\n" +
	"DTITLE=Some Band / Live at Home\n" +
	"DYEAR=1999\n" +
	"DGENRE=Rock\n" +
	"TTITLE0=Guest / Opening\n" +
	"TTITLE1=Closing\n" +
	".\n"

func canonicalAlbum() album.Album {
	return album.FromSectors([]uint32{21664, 21405})
}
