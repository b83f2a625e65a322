// Package model defines the flat event the compiler emits: an immutable,
// time-stamped record carrying a channel identifier, an opaque opcode, and
// a shared payload handle.
package model

import "github.com/hirobumii/catseq/core"

// Event is one entry in a compiled event stream. Events are immutable after
// emission and are totally ordered by Time, with ties broken by Channel and
// then by insertion order within the subtree that produced them.
type Event struct {
	Time    uint64
	Channel core.ChannelID
	Opcode  uint16
	Payload *core.Payload
}

// Tuple is the external wire shape of an Event: (time, channel, opcode,
// payload bytes), matching the builder-facing output format.
type Tuple struct {
	Time    uint64
	Channel uint32
	Opcode  uint16
	Payload []byte
}

// AsTuple converts e to its external tuple representation.
func (e Event) AsTuple() Tuple {
	return Tuple{
		Time:    e.Time,
		Channel: uint32(e.Channel),
		Opcode:  e.Opcode,
		Payload: e.Payload.Bytes(),
	}
}

// Stream is a time-sorted sequence of events.
type Stream []Event

// AsTuples converts every event in s to its external tuple form.
func (s Stream) AsTuples() []Tuple {
	out := make([]Tuple, len(s))
	for i, e := range s {
		out[i] = e.AsTuple()
	}
	return out
}

// ByBoard buckets s by the high 16 bits of each event's channel, preserving
// within-bucket ordering. It carries no invariant beyond that projection.
func (s Stream) ByBoard() map[uint16]Stream {
	out := make(map[uint16]Stream)
	for _, e := range s {
		board := e.Channel.Board()
		out[board] = append(out[board], e)
	}
	return out
}
