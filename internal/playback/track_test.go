package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrack(t *testing.T) {
	s := New(nil)
	assert.Equal(t, uint32(0), s.TrackLength())

	src := map[string]any{TrackTitle: "Song", TrackArtist: "Band", TrackDuration: uint32(180_000), TrackNumber: uint32(3)}
	s.SetTrack(src)
	src[TrackTitle] = "mutated"

	assert.Equal(t, "Song", s.TrackString(TrackTitle))
	assert.Equal(t, "", s.TrackString(TrackAlbum))
	assert.Equal(t, uint32(180_000), s.TrackLength())
	n, ok := s.TrackUint(TrackNumber)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), n)

	snap := s.Snapshot()
	assert.Equal(t, "Song", snap.Title)
	assert.Equal(t, "Band", snap.Artist)
	assert.Equal(t, uint32(180_000), snap.LengthMs)
}

func TestToUint32(t *testing.T) {
	tests := []struct {
		in   any
		want uint32
		ok   bool
	}{
		{uint32(5), 5, true},
		{uint8(5), 5, true},
		{uint16(5), 5, true},
		{uint64(5), 5, true},
		{int(5), 5, true},
		{int32(-1), 0, false},
		{int64(7), 7, true},
		{"5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToUint32(tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
	}
}

func TestSessionMirrors(t *testing.T) {
	s := New(nil)
	s.SetShuffle(2)
	s.SetRepeat(1)
	assert.True(t, s.SetPolling(true))
	assert.False(t, s.SetPolling(true))
	s.SetAdvancedRemote(true)
	s.SetAlias("Phone")

	snap := s.Snapshot()
	assert.Equal(t, uint8(2), snap.Shuffle)
	assert.Equal(t, uint8(1), snap.Repeat)
	assert.True(t, snap.Polling)
	assert.True(t, snap.AdvancedRemote)
	assert.Equal(t, "Phone", snap.Device)
}
