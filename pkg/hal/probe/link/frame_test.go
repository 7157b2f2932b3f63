package link

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeq(t *testing.T) {
	for s := byte(0xff); s >= byte(0xf0); s-- {
		require.False(t, Seq(s).Valid())
		require.Equal(t, Seq(1), Seq(s).Next())
	}
	for s := byte(1); s < byte(0xf0); s++ {
		require.True(t, Seq(s).Valid())
		if s+1 < 0xf0 {
			require.Equal(t, Seq(s+1), Seq(s).Next())
		} else {
			require.Equal(t, Seq(1), Seq(s).Next())
		}
	}
	require.False(t, Seq(0).Valid())
	require.True(t, NewSeq().Valid())
}

func TestFrameEncode(t *testing.T) {
	testCases := []struct {
		name   string
		frame  Frame
		expect []byte
	}{
		{"no payload", Frame{Seq: 1, Code: 4}, []byte{1, 4}},
		{"short payload", Frame{Seq: 1, Code: 4, Payload: []byte{9}}, []byte{1, 0x14, 9}},
		{"six bytes", Frame{Seq: 2, Code: 4, Payload: []byte{1, 2, 3, 4, 5, 6}}, []byte{2, 0x64, 1, 2, 3, 4, 5, 6}},
		{"extended length", Frame{Seq: 1, Code: 4, Payload: []byte{1, 2, 3, 4, 5, 6, 7}}, []byte{1, 0x74, 7, 1, 2, 3, 4, 5, 6, 7}},
		{"event", Frame{Seq: 3, Code: 0x82, Payload: []byte{1}}, []byte{3, 0x92, 1}},
		{"stray length bits", Frame{Seq: 1, Code: 0x34}, []byte{1, 4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.frame.Encode())
			var buf bytes.Buffer
			n, err := tc.frame.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, int64(len(tc.expect)), n)
			require.Equal(t, tc.expect, buf.Bytes())
		})
	}
}

func TestFrameTooLarge(t *testing.T) {
	f := &Frame{Seq: 1, Code: 2, Payload: make([]byte, MaxPayload+1)}
	_, err := f.WriteTo(&bytes.Buffer{})
	require.Equal(t, ErrPayloadTooLarge, err)
}
