package midi

import (
	"encoding/binary"

	"github.com/jsphweid/pianolyze/constants"
)

const headerLen = 14 // "MThd" + length + format + ntracks + division

// header is the decoded MThd chunk.
type header struct {
	Format    uint16
	NumTracks uint16
	Division  uint16
}

// trackChunk is one MTrk payload plus the absolute offset of its first
// byte, so event-level errors can report file positions.
type trackChunk struct {
	Index  int
	Offset int
	Data   []byte
}

// readHeader validates the fixed 14-byte MThd chunk.
func readHeader(data []byte) (header, *ParseError) {
	var h header
	if len(data) < headerLen {
		return h, errHeader(0, "file too short for MThd header (%d bytes)", len(data))
	}
	if string(data[0:4]) != "MThd" {
		return h, errHeader(0, "bad magic %q", data[0:4])
	}
	if n := binary.BigEndian.Uint32(data[4:8]); n != 6 {
		return h, errHeader(4, "MThd declares length %d, want 6", n)
	}
	h.Format = binary.BigEndian.Uint16(data[8:10])
	if h.Format > 2 {
		return h, errHeader(8, "unknown SMF format %d", h.Format)
	}
	h.NumTracks = binary.BigEndian.Uint16(data[10:12])
	if int(h.NumTracks) > constants.MaxTracks {
		return h, errHeader(10, "track count %d exceeds limit %d", h.NumTracks, constants.MaxTracks)
	}
	h.Division = binary.BigEndian.Uint16(data[12:14])
	if h.Division&0x8000 != 0 {
		return h, errHeader(12, "SMPTE time division is not supported")
	}
	if h.Division == 0 {
		return h, errHeader(12, "zero time division")
	}
	return h, nil
}

// readTracks slices out one MTrk chunk per declared track.
func readTracks(data []byte, h header) ([]trackChunk, *ParseError) {
	tracks := make([]trackChunk, 0, h.NumTracks)
	pos := headerLen
	for i := 0; i < int(h.NumTracks); i++ {
		if len(data)-pos < 8 {
			return nil, errChunk(pos, "track %d: input ended before MTrk header", i)
		}
		if string(data[pos:pos+4]) != "MTrk" {
			return nil, errChunk(pos, "track %d: bad chunk type %q", i, data[pos:pos+4])
		}
		n := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		if int(n) > constants.MaxTrackBytes {
			return nil, errChunk(pos+4, "track %d: declared length %d exceeds limit %d", i, n, constants.MaxTrackBytes)
		}
		if int(n) > len(data)-pos-8 {
			return nil, errChunk(pos+4, "track %d: declared length %d exceeds remaining %d bytes", i, n, len(data)-pos-8)
		}
		tracks = append(tracks, trackChunk{
			Index:  i,
			Offset: pos + 8,
			Data:   data[pos+8 : pos+8+int(n)],
		})
		pos += 8 + int(n)
	}
	return tracks, nil
}
