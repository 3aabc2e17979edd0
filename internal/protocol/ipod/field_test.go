package ipod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Integers(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	v8, err := r.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), v8)

	v16, err := r.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), v32)

	v56, err := r.Uint56()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x01020304050607), v56)
	assert.Equal(t, 0, r.Len())

	_, err = r.Uint8()
	assert.ErrorIs(t, err, ErrTruncatedFrame)
}

func TestReader_CString(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    string
		rest    int
		wantErr error
	}{
		{"simple", []byte("A SONG\x00"), "A SONG", 0, nil},
		{"empty", []byte{0x00, 0x01}, "", 1, nil},
		{"missing terminator", []byte("abc"), "", 3, ErrTruncatedFrame},
		{"non ascii", []byte{0x41, 0xC3, 0xA9, 0x00}, "", 4, ErrInvalidFrame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.in)
			s, err := r.CString()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, s)
			}
			assert.Equal(t, tt.rest, r.Len())
		})
	}
}

func TestReader_SubIsBounded(t *testing.T) {
	r := NewReader([]byte{'a', 'b', 0x00, 'c'})
	sub, err := r.Sub(2)
	require.NoError(t, err)
	_, err = sub.CString()
	assert.ErrorIs(t, err, ErrTruncatedFrame, "terminator outside the region must not be found")
	assert.Equal(t, 2, r.Len())

	_, err = r.Sub(3)
	assert.ErrorIs(t, err, ErrTruncatedFrame)
}

func TestReader_Magic(t *testing.T) {
	r := NewReader([]byte{0x00, 0x03})
	assert.NoError(t, r.Magic([]byte{0x00, 0x03}))

	r = NewReader([]byte{0x00, 0x04})
	assert.ErrorIs(t, r.Magic([]byte{0x00, 0x03}), ErrInvalidFrame)
}

func TestWriter(t *testing.T) {
	w := NewWriter(0)
	w.PutUint8(0x01)
	w.PutUint16(0x0203)
	w.PutUint32(0x04050607)
	w.PutUint56(0x08090A0B0C0D0E)
	require.NoError(t, w.PutCString("hi"))
	assert.Equal(t, []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E,
		'h', 'i', 0x00,
	}, w.Bytes())
}

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("An Artist"))
	assert.NoError(t, ValidateText(""))
	assert.ErrorIs(t, ValidateText("a\x00b"), ErrInvalidString)
	assert.ErrorIs(t, ValidateText("café"), ErrInvalidString)

	w := NewWriter(0)
	assert.ErrorIs(t, w.PutCString("a\x00b"), ErrInvalidString)
}

func TestCStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "x", "A SONG", "~!@#$%^&*()_+ 0123456789", string([]byte{0x01, 0x7F})} {
		w := NewWriter(0)
		require.NoError(t, w.PutCString(s))
		got, err := NewReader(w.Bytes()).CString()
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}
