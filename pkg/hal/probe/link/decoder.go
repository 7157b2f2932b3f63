package link

// State is the synchronization state of a link.
type State int

// States are bit flags.
const (
	// StateSyncing means the peers are not synchronized.
	StateSyncing State = 0
	// StateReady means frames can be exchanged.
	StateReady State = 0x01
	// StateReceiving means a sync or a frame is partially received.
	StateReceiving State = 0x02
)

// IsReady reports whether frames can be exchanged.
func (s State) IsReady() bool {
	return s&StateReady != 0
}

// IsReceiving reports whether a sync or frame is in flight.
func (s State) IsReceiving() bool {
	return s&StateReceiving != 0
}

// TimerAction tells the link what to do with its stall timer.
type TimerAction int

// Timer actions.
const (
	TimerKeep TimerAction = iota
	TimerRestart
	TimerStop
)

// Step is the outcome of feeding the decoder.
type Step struct {
	// Sync is the sync byte to send back, 0 for none.
	Sync  byte
	State State
	Frame *Frame
}

// Timer decides what to do with the stall timer after this step.
func (s Step) Timer() TimerAction {
	if s.State.IsReceiving() || s.Sync == syncREQ {
		return TimerRestart
	}
	if s.State.IsReady() {
		return TimerStop
	}
	return TimerKeep
}

const (
	syncREQ byte = 0xff
	syncACK byte = 0xfe
)

type decodeState int

const (
	awaitSync      decodeState = iota // sync request sent
	awaitReqSeq                       // peer sync request seen, seq follows
	awaitAckSeq                       // peer sync ack seen, seq follows
	awaitSeq                          // idle between frames
	awaitResyncSeq                    // ack seen while idle, seq must match
	awaitHead
	awaitLen
	awaitPayload
)

// Decoder consumes received bytes one at a time.
type Decoder struct {
	peerSeq Seq
	state   decodeState
	frame   *Frame
	got     int
}

// State returns the current sync state.
func (d *Decoder) State() State {
	switch {
	case d.state == awaitSync:
		return StateSyncing
	case d.state == awaitSeq:
		return StateReady
	case d.state > awaitSeq:
		return StateReady | StateReceiving
	}
	return StateSyncing | StateReceiving
}

// Reset drops any partial frame and requests a resync.
func (d *Decoder) Reset() (s Step) {
	d.frame = nil
	s.Sync, s.Frame = d.resync()
	s.State = d.State()
	return
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) (s Step) {
	s.Sync, s.Frame = d.feed(b)
	s.State = d.State()
	return
}

// Stalled tells the decoder the stall timer expired.
func (d *Decoder) Stalled() (s Step) {
	if d.state != awaitSeq {
		s.Sync, s.Frame = d.resync()
	}
	s.State = d.State()
	return
}

func (d *Decoder) feed(b byte) (byte, *Frame) {
	switch d.state {
	case awaitSync:
		switch b {
		case syncREQ:
			d.state = awaitReqSeq
		case syncACK:
			d.state = awaitAckSeq
		}
	case awaitReqSeq:
		if seq := Seq(b); seq.Valid() {
			d.peerSeq, d.state = seq, awaitSeq
			return syncACK, nil
		}
		return d.resync()
	case awaitAckSeq:
		if seq := Seq(b); seq.Valid() {
			d.peerSeq, d.state = seq, awaitSeq
			return 0, nil
		}
		return d.resync()
	case awaitSeq:
		switch {
		case b == syncREQ:
			d.state = awaitReqSeq
		case b == syncACK:
			d.state = awaitResyncSeq
		case b != byte(d.peerSeq):
			return d.resync()
		default:
			d.frame = &Frame{Seq: d.peerSeq}
			d.peerSeq = d.peerSeq.Next()
			d.state = awaitHead
		}
	case awaitResyncSeq:
		if b != byte(d.peerSeq) {
			return d.resync()
		}
		d.state = awaitSeq
	case awaitHead:
		d.frame.Code = b & codeMask
		switch n := (b & lenMask) >> lenShift; n {
		case 0:
			return d.complete()
		case lenExtend:
			d.state = awaitLen
		default:
			d.expect(int(n))
		}
	case awaitLen:
		if b > MaxPayload {
			return d.resync()
		}
		if b == 0 {
			return d.complete()
		}
		d.expect(int(b))
	case awaitPayload:
		d.frame.Payload[d.got] = b
		if d.got++; d.got >= len(d.frame.Payload) {
			return d.complete()
		}
	}
	return 0, nil
}

func (d *Decoder) expect(n int) {
	d.frame.Payload, d.got = make([]byte, n), 0
	d.state = awaitPayload
}

func (d *Decoder) resync() (byte, *Frame) {
	d.state = awaitSync
	return syncREQ, nil
}

func (d *Decoder) complete() (byte, *Frame) {
	d.state = awaitSeq
	f := d.frame
	d.frame = nil
	return 0, f
}
