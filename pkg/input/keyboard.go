package input

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"
	"golang.org/x/term"

	fx "github.com/robotalks/analyzer.go/pkg/framework"
)

// DecodeKeys maps one chunk of terminal input to keys. Escape sequences
// are expected to arrive within one chunk, so a trailing lone ESC is the
// Esc key.
func DecodeKeys(p []byte) []Key {
	var keys []Key
	for i := 0; i < len(p); i++ {
		switch b := p[i]; b {
		case 0x1b:
			if i+2 < len(p) && (p[i+1] == '[' || p[i+1] == 'O') {
				switch p[i+2] {
				case 'D':
					keys = append(keys, KeyLeft)
				case 'C':
					keys = append(keys, KeyRight)
				}
				i += 2
				continue
			}
			keys = append(keys, KeyBack)
		case 'h', 'H':
			keys = append(keys, KeyLeft)
		case 'l', 'L':
			keys = append(keys, KeyRight)
		case '\r', '\n', ' ':
			keys = append(keys, KeyOk)
		case 'q', 'Q', 0x7f, 0x08, 0x03:
			keys = append(keys, KeyBack)
		default:
			glog.V(4).Infof("key %#x ignored", b)
		}
	}
	return keys
}

// Keyboard posts key events read from a terminal.
type Keyboard struct {
	In io.Reader

	fd    int
	state *term.State
}

// NewKeyboard creates a Keyboard reading from in as is.
func NewKeyboard(in io.Reader) *Keyboard {
	return &Keyboard{In: in, fd: -1}
}

// OpenKeyboard puts f into raw mode when it is a terminal.
func OpenKeyboard(f *os.File) (*Keyboard, error) {
	k := NewKeyboard(f)
	if fd := int(f.Fd()); term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, err
		}
		k.fd, k.state = fd, state
	}
	return k, nil
}

// Close restores the terminal.
func (k *Keyboard) Close() error {
	if k.state == nil {
		return nil
	}
	state := k.state
	k.state = nil
	return term.Restore(k.fd, state)
}

// Run implements Runnable. A blocked read outlives Run when ctx is done,
// the reader goroutine exits with the next input or at process exit.
func (k *Keyboard) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	go k.readLoop(ctx, chunkCh, errCh)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err == io.EOF {
				glog.V(2).Info("keyboard closed")
				return nil
			}
			return err
		case p := <-chunkCh:
			for _, key := range DecodeKeys(p) {
				Press(loopCtl, key)
			}
		}
	}
}

func (k *Keyboard) readLoop(ctx context.Context, chunkCh chan<- []byte, errCh chan<- error) {
	buf := make([]byte, 16)
	for {
		n, err := k.In.Read(buf)
		if n > 0 {
			p := append([]byte(nil), buf[:n]...)
			select {
			case chunkCh <- p:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
