// Package input tracks keyboard and mouse state between frames.
package input

// Key is an engine key code. Backends map their own codes onto it.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	KeyF1
	KeyF2
	KeyR
	keyCount
)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyW:       "w",
	KeyA:       "a",
	KeyS:       "s",
	KeyD:       "d",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeySpace:   "space",
	KeyEscape:  "escape",
	KeyF1:      "f1",
	KeyF2:      "f2",
	KeyR:       "r",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "invalid"
	}
	return keyNames[k]
}

// Keys lists every key a Source is polled for.
func Keys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyUnknown + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Source reports the raw device state for the current frame.
type Source interface {
	KeyDown(k Key) bool
	Cursor() (x, y float64)
}

// State is the per-frame input snapshot. Poll once per frame, then query.
type State struct {
	down    [keyCount]bool
	prev    [keyCount]bool
	cursorX float64
	cursorY float64
	dx, dy  float64
	polled  bool
}

// Poll reads src and keeps last frame's keys for edge detection.
func (s *State) Poll(src Source) {
	if src == nil {
		return
	}
	s.prev = s.down
	for k := KeyUnknown + 1; k < keyCount; k++ {
		s.down[k] = src.KeyDown(k)
	}
	x, y := src.Cursor()
	if s.polled {
		s.dx, s.dy = x-s.cursorX, y-s.cursorY
	}
	s.cursorX, s.cursorY = x, y
	s.polled = true
}

func (s *State) valid(k Key) bool {
	return k > KeyUnknown && k < keyCount
}

func (s *State) Down(k Key) bool {
	return s.valid(k) && s.down[k]
}

// Pressed is true only on the frame k went down.
func (s *State) Pressed(k Key) bool {
	return s.valid(k) && s.down[k] && !s.prev[k]
}

// Released is true only on the frame k went up.
func (s *State) Released(k Key) bool {
	return s.valid(k) && !s.down[k] && s.prev[k]
}

func (s *State) Cursor() (float64, float64) {
	return s.cursorX, s.cursorY
}

// CursorDelta is the cursor movement since the previous Poll.
func (s *State) CursorDelta() (float64, float64) {
	return s.dx, s.dy
}

// Axis returns -1, 0 or 1 from a negative and positive key pair.
func (s *State) Axis(neg, pos Key) float32 {
	var v float32
	if s.Down(neg) {
		v--
	}
	if s.Down(pos) {
		v++
	}
	return v
}

// MapSource is a Source backed by plain values, used headless and in tests.
type MapSource struct {
	Keys map[Key]bool
	X, Y float64
}

func (m *MapSource) KeyDown(k Key) bool {
	return m.Keys[k]
}

func (m *MapSource) Cursor() (float64, float64) {
	return m.X, m.Y
}
