package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDmxSinkRecordsLastPerUniverse(t *testing.T) {
	t.Parallel()

	sink := NewMemoryDmxSink()
	var u1, u2 [UniverseSize]byte
	u1[0] = 10
	u2[0] = 20

	require.NoError(t, sink.Send(context.Background(), 1, u1))
	require.NoError(t, sink.Send(context.Background(), 2, u2))

	got1, ok := sink.Last(1)
	require.True(t, ok)
	assert.Equal(t, byte(10), got1[0])

	got2, ok := sink.Last(2)
	require.True(t, ok)
	assert.Equal(t, byte(20), got2[0])

	assert.Equal(t, 2, sink.SendCount())
}

func TestMemoryWledSinkRecordsLast(t *testing.T) {
	t.Parallel()

	sink := NewMemoryWledSink()
	payload := []SegmentPayload{{ID: 1, Red: 255}}

	require.NoError(t, sink.Send(context.Background(), payload))
	assert.Equal(t, payload, sink.Last())
	assert.Equal(t, 1, sink.SendCount())
}
