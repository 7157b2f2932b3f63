package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriterFraming(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte("abc")))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c', 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Equal(t, io.EOF, err)
}

func TestReadWriterRejectsLargePacket(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(MaxPacketSize+1))
	_, err := New(&buf).ReadPacket()
	require.Error(t, err)
}

func TestReadWriterOverConn(t *testing.T) {
	c1, c2 := net.Pipe()
	a, b := New(c1), New(c2)
	defer a.Close()
	defer b.Close()

	go a.WritePacket([]byte{1, 2, 3})
	pkt, err := b.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, pkt)

	require.NoError(t, a.Close())
	_, err = b.ReadPacket()
	require.Equal(t, io.EOF, err)
}
