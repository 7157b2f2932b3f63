//go:build !linux

package joystick

// Open is not supported off Linux.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// Detect is not supported off Linux.
func Detect(start int) (Device, error) {
	return nil, ErrUnsupported
}
