package midi

import (
	"fmt"

	"github.com/jsphweid/pianolyze/model"
)

// Channel voice message families (high nibble of the status byte).
const (
	noteOff       = 0x8
	noteOn        = 0x9
	polyTouch     = 0xA
	controller    = 0xB
	programChange = 0xC
	channelTouch  = 0xD
	pitchBend     = 0xE
	system        = 0xF
)

const (
	statusMeta   = 0xFF
	statusSysEx  = 0xF0
	statusEscape = 0xF7
)

// Meta event types the pipeline acts on.
const (
	metaEndOfTrack = 0x2F
	metaSetTempo   = 0x51
)

// rawEvent is one decoded track event. Transient: the tempo builder and the
// note reconstructor consume these immediately, nothing retains them.
type rawEvent struct {
	Delta   uint32
	Tick    uint32
	Status  byte // full status byte; 0xFF for meta, 0xF0/0xF7 for sysex
	Channel uint8
	Data1   uint8
	Data2   uint8
	Meta    byte   // meta type when Status == 0xFF
	Payload []byte // meta/sysex payload, aliased into the input buffer
	Track   int
}

// dataLen returns how many data bytes a channel voice message carries.
func dataLen(status byte) int {
	switch status >> 4 {
	case programChange, channelTouch:
		return 1
	default:
		return 2
	}
}

// metaKnown lists the meta types we understand well enough to skip without
// flagging. Anything else is still skipped by declared length but recorded
// as an UnknownEvent diagnostic.
func metaKnown(metaType byte) bool {
	switch {
	case metaType <= 0x07: // sequence number + the text family
		return true
	case metaType == 0x20 || metaType == 0x21: // channel/port prefix
		return true
	case metaType == metaEndOfTrack || metaType == metaSetTempo:
		return true
	case metaType == 0x54 || metaType == 0x58 || metaType == 0x59: // SMPTE offset, time sig, key sig
		return true
	case metaType == 0x7F: // sequencer specific
		return true
	}
	return false
}

// decodeTrack walks one MTrk payload and returns its events in order,
// tracking running status along the way. finalTick is the absolute tick
// of the last event (used to auto-close dangling notes).
func decodeTrack(tc trackChunk, diags *[]model.Diagnostic) (events []rawEvent, finalTick uint32, err *ParseError) {
	var (
		pos     int
		tick    uint32
		running byte
	)
	data := tc.Data
	for pos < len(data) {
		delta, n, verr := decodeVLQ(data, pos, tc.Offset)
		if verr != nil {
			return nil, 0, verr
		}
		pos += n
		tick += delta
		if pos >= len(data) {
			return nil, 0, errChunk(tc.Offset+pos, "track %d: input ended after delta time", tc.Index)
		}

		status := data[pos]
		if status&0x80 == 0 {
			// High bit clear: this is a data byte, reuse the running status.
			if running == 0 {
				return nil, 0, errChunk(tc.Offset+pos, "track %d: data byte %#02x with no running status", tc.Index, status)
			}
			status = running
		} else {
			pos++
		}

		if status>>4 != system {
			elen := dataLen(status)
			if len(data)-pos < elen {
				return nil, 0, errChunk(tc.Offset+pos, "track %d: input ended inside a %#02x event", tc.Index, status)
			}
			ev := rawEvent{
				Delta:   delta,
				Tick:    tick,
				Status:  status,
				Channel: status & 0x0F,
				Data1:   data[pos],
				Track:   tc.Index,
			}
			if elen == 2 {
				ev.Data2 = data[pos+1]
			}
			pos += elen
			running = status
			events = append(events, ev)
			continue
		}

		// System messages clear running status.
		running = 0
		switch status {
		case statusMeta:
			if pos >= len(data) {
				return nil, 0, errChunk(tc.Offset+pos, "track %d: input ended before meta type", tc.Index)
			}
			metaType := data[pos]
			pos++
			length, n, verr := decodeVLQ(data, pos, tc.Offset)
			if verr != nil {
				return nil, 0, verr
			}
			pos += n
			if int(length) > len(data)-pos {
				return nil, 0, errChunk(tc.Offset+pos, "track %d: meta %#02x declares %d bytes, %d remain", tc.Index, metaType, length, len(data)-pos)
			}
			payload := data[pos : pos+int(length)]
			pos += int(length)
			if !metaKnown(metaType) {
				*diags = append(*diags, model.Diagnostic{
					Kind:    model.UnknownEvent,
					Track:   tc.Index,
					Tick:    tick,
					Message: fmt.Sprintf("skipped unrecognized meta event %#02x (%d bytes)", metaType, length),
				})
			}
			events = append(events, rawEvent{
				Delta:   delta,
				Tick:    tick,
				Status:  statusMeta,
				Meta:    metaType,
				Payload: payload,
				Track:   tc.Index,
			})
			if metaType == metaEndOfTrack {
				return events, tick, nil
			}
		case statusSysEx, statusEscape:
			length, n, verr := decodeVLQ(data, pos, tc.Offset)
			if verr != nil {
				return nil, 0, verr
			}
			pos += n
			if int(length) > len(data)-pos {
				return nil, 0, errChunk(tc.Offset+pos, "track %d: sysex declares %d bytes, %d remain", tc.Index, length, len(data)-pos)
			}
			events = append(events, rawEvent{
				Delta:   delta,
				Tick:    tick,
				Status:  status,
				Payload: data[pos : pos+int(length)],
				Track:   tc.Index,
			})
			pos += int(length)
		default:
			// System common/realtime bytes carry no length prefix, so there
			// is no safe way to resynchronize past them.
			return nil, 0, errChunk(tc.Offset+pos-1, "track %d: unsupported status byte %#02x", tc.Index, status)
		}
	}
	return events, tick, nil
}
