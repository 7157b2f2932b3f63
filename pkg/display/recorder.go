package display

import "fmt"

// OpKind is the kind of a recorded primitive.
type OpKind int

// Primitive kinds.
const (
	OpClear OpKind = iota
	OpSetFont
	OpDrawStr
	OpDrawLine
)

// Op is one recorded primitive call.
type Op struct {
	Kind OpKind
	Font Font
	X, Y int
	// X1, Y1 is the end point of a line.
	X1, Y1 int
	Text   string
}

func (o Op) String() string {
	switch o.Kind {
	case OpClear:
		return "clear"
	case OpSetFont:
		return "font " + o.Font.String()
	case OpDrawStr:
		return fmt.Sprintf("str %d,%d %q", o.X, o.Y, o.Text)
	case OpDrawLine:
		return fmt.Sprintf("line %d,%d-%d,%d", o.X, o.Y, o.X1, o.Y1)
	}
	return "?"
}

// Recorder is a Canvas keeping the primitive calls.
type Recorder struct {
	W, H int
	Ops  []Op
}

// NewRecorder creates a Recorder of the default screen size.
func NewRecorder() *Recorder {
	return &Recorder{W: DefaultWidth, H: DefaultHeight}
}

// Width implements Canvas.
func (r *Recorder) Width() int { return r.W }

// Height implements Canvas.
func (r *Recorder) Height() int { return r.H }

// Clear implements Canvas.
func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: OpClear})
}

// SetFont implements Canvas.
func (r *Recorder) SetFont(f Font) {
	r.Ops = append(r.Ops, Op{Kind: OpSetFont, Font: f})
}

// DrawStr implements Canvas.
func (r *Recorder) DrawStr(x, y int, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawStr, X: x, Y: y, Text: s})
}

// DrawLine implements Canvas.
func (r *Recorder) DrawLine(x0, y0, x1, y1 int) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawLine, X: x0, Y: y0, X1: x1, Y1: y1})
}

// Texts returns the drawn strings in order.
func (r *Recorder) Texts() []string {
	var texts []string
	for _, op := range r.Ops {
		if op.Kind == OpDrawStr {
			texts = append(texts, op.Text)
		}
	}
	return texts
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.Ops = nil
}
