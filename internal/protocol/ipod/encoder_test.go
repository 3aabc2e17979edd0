package ipod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_WorkedExamples(t *testing.T) {
	out, err := Build(&SwitchModeCommand{ID: SwitchSetAdvancedRemote})
	require.NoError(t, err)
	assert.Equal(t, switchAdvancedRaw, out)

	out, err = Build(NewAir(0x0021, &StringParam{Text: "A SONG"}))
	require.NoError(t, err)
	assert.Equal(t, songStringRaw, out)
	assert.Equal(t, byte(0x39), out[len(out)-1])

	out, err = Build(NewAir(AirResSongAlbum, &StringParam{Text: "An Artist"}))
	require.NoError(t, err)
	assert.Equal(t, albumArtistRaw, out)

	out, err = Build(NewAir(AirResSongArtist, &StringParam{Text: "An Artist"}))
	require.NoError(t, err)
	want := append([]byte(nil), albumArtistRaw...)
	want[5] = 0x23
	want[len(want)-1] = 0x86
	assert.Equal(t, want, out)
}

func TestBuild_FrameInvariants(t *testing.T) {
	cmds := []Command{
		&SwitchModeCommand{ID: SwitchResModeAdvancedRemote},
		&VoiceRecorderCommand{ID: VoiceRecordingStopped},
		&SimpleRemoteCommand{Buttons: ButtonOKSelect},
		&ModeStatusRequest{},
		NewAir(AirGetIpodName, nil),
		NewAir(AirResIpodName, &StringParam{Text: "Blueplayer"}),
		NewAir(AirResTimeStatus, &TimeStatusResult{Length: 180000, Elapsed: 15000, Status: TimeStatusPlaying}),
		NewAir(AirResItemName, &ItemNameResult{Offset: 3, Name: "Track"}),
		NewAir(AirNCU03, &BytesParam{Data: make([]byte, 8)}),
		NewAir(AirNCU39, &ColorScreenSizeResult{}),
		Feedback(ResultSuccess, AirPlaybackControl),
	}
	for _, c := range cmds {
		out, err := Build(c)
		require.NoError(t, err, "%v", c)

		assert.Equal(t, []byte{0xFF, 0x55}, out[:2])
		assert.Equal(t, int(out[2]), len(out[3:len(out)-1]), "length byte counts mode and command")

		var sum byte
		for _, b := range out[2:] {
			sum += b
		}
		assert.Equal(t, byte(0), sum)

		p, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, c.Mode(), p.Mode())
	}
}

func TestBuild_NilParamsEncodeAsEmpty(t *testing.T) {
	out, err := Build(NewAir(AirGetTimeStatus, nil))
	require.NoError(t, err)
	assert.Equal(t, frame(0x04, 0x00, 0x1C), out)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{"nil", nil, ErrInvalidFrame},
		{"unknown air id", NewAir(AirNCU38, nil), ErrUnknownDiscriminant},
		{"mismatched params", NewAir(AirResSongTitle, &Uint32Param{Value: 1}), ErrInvalidFrame},
		{"wrong fixed length", NewAir(AirNCU03, &BytesParam{Data: []byte{0x00}}), ErrInvalidFrame},
		{"nul in string", NewAir(AirResSongTitle, &StringParam{Text: "a\x00b"}), ErrInvalidString},
		{"non ascii string", NewAir(AirResSongTitle, &StringParam{Text: "Beyoncé"}), ErrInvalidString},
		{"invalid item type", NewAir(AirSwitchItem, &ItemParam{Type: 0x09}), ErrInvalidFrame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuild_BodyTooLong(t *testing.T) {
	text := make([]byte, 260)
	for i := range text {
		text[i] = 'a'
	}
	_, err := Build(NewAir(AirResSongTitle, &StringParam{Text: string(text)}))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}
