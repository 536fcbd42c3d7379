package midi

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	gm "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/pianolyze/model"
)

// writeSMF serializes tracks with the gomidi writer, so the hand-written
// decoder is exercised against independently produced SMF bytes.
func writeSMF(t *testing.T, division uint16, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(division)
	s.Tracks = tracks
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return buf.Bytes()
}

// buildFile lays out a file byte by byte, for inputs the gomidi writer
// refuses to produce.
func buildFile(format uint16, numTracks uint16, division uint16, tracks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("MThd")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, format)
	binary.Write(&buf, binary.BigEndian, numTracks)
	binary.Write(&buf, binary.BigEndian, division)
	for _, tr := range tracks {
		buf.WriteString("MTrk")
		binary.Write(&buf, binary.BigEndian, uint32(len(tr)))
		buf.Write(tr)
	}
	return buf.Bytes()
}

func TestParseSingleNoteTiming(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(480, gm.NoteOff(0, 60))
	tr.Close(0)
	data := writeSMF(t, 480, tr)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(res.Diagnostics)
	if assert.Equal(1, len(res.Notes)) {
		n := res.Notes[0]
		assert.Equal(uint8(60), n.Pitch)
		assert.Equal(uint8(100), n.Velocity)
		assert.Equal(uint32(0), n.StartTicks)
		assert.Equal(uint32(480), n.DurationTicks)
		// 480 ticks at division 480 is one quarter note: half a second
		// at the default 120 BPM.
		assert.InDelta(0.0, n.StartSeconds, 1e-6)
		assert.InDelta(0.5, n.DurationSeconds, 1e-6)
		assert.InDelta(1.0, n.DurationQuarters, 1e-6)
	}
}

func TestParseTempoChangeAffectsDuration(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(480, smf.MetaTempo(240))
	tr.Add(480, gm.NoteOff(0, 60))
	tr.Close(0)
	data := writeSMF(t, 480, tr)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Equal(1, len(res.Notes)) {
		// First quarter at 120 BPM (0.5s) plus one at 240 BPM (0.25s).
		assert.InDelta(0.75, res.Notes[0].DurationSeconds, 1e-6)
	}
	assert.Equal(2, len(res.TempoMap))
}

func TestParseIsDeterministic(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(0, gm.NoteOn(0, 64, 100))
	tr.Add(0, gm.NoteOn(0, 67, 100))
	tr.Add(240, gm.NoteOff(0, 64))
	tr.Add(0, gm.NoteOff(0, 60))
	tr.Add(120, gm.NoteOff(0, 67))
	tr.Add(0, gm.NoteOn(0, 72, 80)) // left open on purpose
	tr.Close(0)
	data := writeSMF(t, 480, tr)

	first, err1 := Parse(data)
	second, err2 := Parse(data)

	assert := assert.New(t)
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(first.Notes, second.Notes)
	assert.Equal(first.Diagnostics, second.Diagnostics)
}

func TestParseMergeAcrossTracks(t *testing.T) {
	var right smf.Track
	right.Add(0, gm.NoteOn(0, 72, 100))
	right.Add(480, gm.NoteOff(0, 72))
	right.Close(0)

	var left smf.Track
	left.Add(0, gm.NoteOn(1, 48, 80))
	left.Add(960, gm.NoteOff(1, 48))
	left.Close(0)

	res, err := Parse(writeSMF(t, 480, right, left))

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Equal(2, len(res.Notes)) {
		// Same start tick: pitch breaks the tie.
		assert.Equal(uint8(48), res.Notes[0].Pitch)
		assert.Equal(1, res.Notes[0].Part)
		assert.Equal(uint8(72), res.Notes[1].Pitch)
		assert.Equal(0, res.Notes[1].Part)
	}
}

func TestParseChordMembership(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(0, gm.NoteOn(0, 64, 100))
	tr.Add(0, gm.NoteOn(0, 67, 100))
	tr.Add(480, gm.NoteOff(0, 60))
	tr.Add(0, gm.NoteOff(0, 64))
	tr.Add(0, gm.NoteOff(0, 67))
	tr.Add(0, gm.NoteOn(0, 72, 100))
	tr.Add(480, gm.NoteOff(0, 72))
	tr.Close(0)

	res, err := Parse(writeSMF(t, 480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Equal(4, len(res.Notes)) {
		assert.True(res.Notes[0].ChordMember)
		assert.True(res.Notes[1].ChordMember)
		assert.True(res.Notes[2].ChordMember)
		assert.False(res.Notes[3].ChordMember)
	}
}

func TestParseOverlappingRetriggersCloseFIFO(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 60, 100))
	tr.Add(120, gm.NoteOn(0, 60, 90))
	tr.Add(120, gm.NoteOff(0, 60))
	tr.Close(240)

	res, err := Parse(writeSMF(t, 480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Equal(2, len(res.Notes)) {
		// The oldest NoteOn closes on the first NoteOff.
		assert.Equal(uint32(0), res.Notes[0].StartTicks)
		assert.Equal(uint32(240), res.Notes[0].DurationTicks)
		assert.Equal(uint8(100), res.Notes[0].Velocity)
		// The second stays open and is auto-closed at the track's end.
		assert.Equal(uint32(120), res.Notes[1].StartTicks)
		assert.Equal(uint32(360), res.Notes[1].DurationTicks)
		assert.Equal(uint8(90), res.Notes[1].Velocity)
	}
	if assert.Equal(1, len(res.Diagnostics)) {
		assert.Equal(model.DanglingNoteAutoClosed, res.Diagnostics[0].Kind)
	}
}

func TestParseOrphanNoteOffIsDiagnosticNotFatal(t *testing.T) {
	track := []byte{
		0x00, 0x80, 60, 64, // NoteOff with nothing open
		0x00, 0x90, 62, 100,
		0x60, 0x80, 62, 0,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := Parse(buildFile(0, 1, 480, track))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(1, len(res.Notes))
	if assert.Equal(1, len(res.Diagnostics)) {
		assert.Equal(model.OrphanNoteOff, res.Diagnostics[0].Kind)
	}
}

func TestParseNoteOnVelocityZeroActsAsNoteOff(t *testing.T) {
	track := []byte{
		0x00, 0x90, 60, 100,
		0x60, 0x90, 60, 0, // velocity 0, closes the note
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := Parse(buildFile(0, 1, 480, track))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(res.Diagnostics)
	if assert.Equal(1, len(res.Notes)) {
		assert.Equal(uint32(0x60), res.Notes[0].DurationTicks)
	}
}

func TestParseNoteInvariants(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gm.NoteOn(0, 55, 90))
	tr.Add(0, gm.NoteOff(0, 55)) // zero-length on the wire
	tr.Add(13, gm.NoteOn(2, 61, 1))
	tr.Add(7, gm.NoteOn(2, 61, 2))
	tr.Add(0, gm.NoteOff(2, 61))
	tr.Close(100)

	res, err := Parse(writeSMF(t, 96, tr))

	assert := assert.New(t)
	assert.NoError(err)
	for _, n := range res.Notes {
		assert.True(n.DurationTicks > 0, "durationTicks must stay positive")
		assert.True(n.DurationSeconds >= 0)
	}
}

func TestParseEmptyFileIsValid(t *testing.T) {
	res, err := Parse(buildFile(0, 0, 480))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(res.Notes)
	assert.Empty(res.Diagnostics)
}

func TestParseHeaderErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		kind ErrorKind
	}{
		{"empty input", nil, MalformedHeader},
		{"bad magic", append([]byte("RIFF"), buildFile(0, 0, 480)[4:]...), MalformedHeader},
		{"bad declared length", []byte("MThd\x00\x00\x00\x07\x00\x00\x00\x00\x01\xe0"), MalformedHeader},
		{"unknown format", buildFile(3, 0, 480), MalformedHeader},
		{"smpte division", buildFile(0, 0, 0x8000|0xE728), MalformedHeader},
		{"zero division", buildFile(0, 0, 0), MalformedHeader},
		{"track count over limit", buildFile(1, 2000, 480), MalformedHeader},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.data)
			perr, ok := err.(*ParseError)
			if assert.True(t, ok, "want *ParseError, got %v", err) {
				assert.Equal(t, c.kind, perr.Kind)
			}
		})
	}
}

func TestParseChunkErrors(t *testing.T) {
	goodTrack := []byte{0x00, 0xFF, 0x2F, 0x00}

	missingTrack := buildFile(1, 2, 480, goodTrack)
	badType := buildFile(0, 1, 480, goodTrack)
	copy(badType[headerLen:], "MUSH")

	// Declared track length runs past the end of the file.
	truncated := buildFile(0, 1, 480, goodTrack)
	binary.BigEndian.PutUint32(truncated[headerLen+4:], 1000)

	cases := []struct {
		name string
		data []byte
	}{
		{"fewer tracks than declared", missingTrack},
		{"bad chunk type", badType},
		{"declared length exceeds file", truncated},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.data)
			perr, ok := err.(*ParseError)
			if assert.True(t, ok, "want *ParseError, got %v", err) {
				assert.Equal(t, MalformedChunk, perr.Kind)
			}
		})
	}
}

func TestParseFatalErrorReturnsNoNotes(t *testing.T) {
	// A valid note followed by garbage: no partial output may escape.
	track := []byte{
		0x00, 0x90, 60, 100,
		0x60, 0x80, 60, 0,
		0x00, 0xF2, 0x00, // unsupported system common status
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := Parse(buildFile(0, 1, 480, track))

	assert := assert.New(t)
	assert.Error(err)
	assert.Nil(res)
}

func TestNoteName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C4", NoteName(60))
	assert.Equal("A4", NoteName(69))
	assert.Equal("C-1", NoteName(0))
	assert.Equal("F#3", NoteName(54))
	assert.Equal("G9", NoteName(127))
}
