package ipod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Routes(t *testing.T) {
	a := NewAdapter()
	var air, sw []*Packet
	a.Register(ModeAir, func(p *Packet) error { air = append(air, p); return nil })
	a.Register(ModeSwitch, func(p *Packet) error { sw = append(sw, p); return nil })

	raw := append(append([]byte(nil), switchAdvancedRaw...), songStringRaw...)
	require.NoError(t, a.ProcessBytes(raw))
	assert.Len(t, sw, 1)
	assert.Len(t, air, 1)
}

func TestAdapter_UnregisteredModeAndErrors(t *testing.T) {
	a := NewAdapter()
	var decodeErrs []error
	a.OnError(func(_ []byte, err error) { decodeErrs = append(decodeErrs, err) })

	raw := append(frame(0x04, 0x00, 0x38), frame(0x03, 0x00, 0x03)...)
	require.NoError(t, a.ProcessBytes(raw), "frames of unregistered modes are skipped")
	require.Len(t, decodeErrs, 1)
	assert.True(t, IsUnknownDiscriminant(decodeErrs[0]))
}

func TestAdapter_HandlerErrorDoesNotStopStream(t *testing.T) {
	a := NewAdapter()
	boom := errors.New("boom")
	var calls int
	a.Register(ModeSwitch, func(*Packet) error { calls++; return boom })

	raw := append(append([]byte(nil), switchAdvancedRaw...), switchAdvancedRaw...)
	err := a.ProcessBytes(raw)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestAdapter_Sniff(t *testing.T) {
	a := NewAdapter()
	assert.True(t, a.Sniff(switchAdvancedRaw))
	assert.False(t, a.Sniff([]byte{0xFF}))
	assert.False(t, a.Sniff([]byte{0x55, 0xFF}))
}
