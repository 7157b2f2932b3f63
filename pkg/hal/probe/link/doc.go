// Package link implements the framed serial protocol spoken between the
// analyzer host and a probe microcontroller.
//
// Both peers start by exchanging sync requests carrying their next frame
// sequence number. Once synchronized, frames are sent back to back and
// each receiver checks that sequence numbers arrive in order. Any
// violation, or a stall in the middle of a frame, makes the receiver
// request a resync. There is no checksum; enable parity on the serial
// port if bit errors matter.
//
// The host issues commands and the probe replies with a frame carrying
// the same code and the command sequence number as first payload byte.
// Frames with EventBit set in their code are unsolicited events.
package link
