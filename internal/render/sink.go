package render

import (
	"context"
	"sync"
)

// DmxSink is the abstract contract for a DMX universe transport (serial,
// sACN, ...). Real transports live outside the core; this package only
// defines the shape and a couple of in-memory stand-ins for tests and the
// halo-dump CLI.
type DmxSink interface {
	Send(ctx context.Context, universeID uint32, universe [UniverseSize]byte) error
}

// WledSink is the abstract contract for a WLED segment transport (HTTP
// POST /json/state, or UDP on port 65506 — the sink's choice).
type WledSink interface {
	Send(ctx context.Context, segments []SegmentPayload) error
}

// MemoryDmxSink records the last universe sent per universe id. It never
// fails, which makes it useful both for tests and for a dump tool that
// wants to inspect what the compositor produced without real hardware.
type MemoryDmxSink struct {
	mu        sync.Mutex
	universes map[uint32][UniverseSize]byte
	sendCount int
}

// NewMemoryDmxSink constructs an empty MemoryDmxSink.
func NewMemoryDmxSink() *MemoryDmxSink {
	return &MemoryDmxSink{universes: make(map[uint32][UniverseSize]byte)}
}

// Send stores the universe under its id.
func (m *MemoryDmxSink) Send(_ context.Context, universeID uint32, universe [UniverseSize]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.universes[universeID] = universe
	m.sendCount++
	return nil
}

// Last returns the most recently sent universe for the given id.
func (m *MemoryDmxSink) Last(universeID uint32) ([UniverseSize]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.universes[universeID]
	return u, ok
}

// SendCount returns how many frames have been sent, across all universes.
func (m *MemoryDmxSink) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendCount
}

// MemoryWledSink records the last segment payload sent.
type MemoryWledSink struct {
	mu        sync.Mutex
	last      []SegmentPayload
	sendCount int
}

// NewMemoryWledSink constructs an empty MemoryWledSink.
func NewMemoryWledSink() *MemoryWledSink {
	return &MemoryWledSink{}
}

// Send stores the segment payload.
func (m *MemoryWledSink) Send(_ context.Context, segments []SegmentPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append([]SegmentPayload(nil), segments...)
	m.sendCount++
	return nil
}

// Last returns the most recently sent segment payload.
func (m *MemoryWledSink) Last() []SegmentPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// SendCount returns how many frames have been sent.
func (m *MemoryWledSink) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendCount
}
