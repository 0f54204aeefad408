package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeDetection(t *testing.T) {
	src := &MapSource{Keys: map[Key]bool{}}
	var s State

	frames := []struct {
		name                    string
		space                   bool
		down, pressed, released bool
	}{
		{"idle", false, false, false, false},
		{"press", true, true, true, false},
		{"hold", true, true, false, false},
		{"release", false, false, false, true},
		{"idle_again", false, false, false, false},
	}
	for _, f := range frames {
		t.Run(f.name, func(t *testing.T) {
			src.Keys[KeySpace] = f.space
			s.Poll(src)
			assert.Equal(t, f.down, s.Down(KeySpace))
			assert.Equal(t, f.pressed, s.Pressed(KeySpace))
			assert.Equal(t, f.released, s.Released(KeySpace))
		})
	}
}

func TestAxisAndCursor(t *testing.T) {
	src := &MapSource{Keys: map[Key]bool{KeyA: true}, X: 10, Y: 20}
	var s State
	s.Poll(src)
	assert.Equal(t, float32(-1), s.Axis(KeyA, KeyD))
	dx, dy := s.CursorDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	src.Keys[KeyD] = true
	src.X, src.Y = 13, 16
	s.Poll(src)
	assert.Zero(t, s.Axis(KeyA, KeyD))
	dx, dy = s.CursorDelta()
	assert.Equal(t, 3.0, dx)
	assert.Equal(t, -4.0, dy)
}

func TestInvalidKeys(t *testing.T) {
	var s State
	s.Poll(&MapSource{})
	assert.False(t, s.Down(KeyUnknown))
	assert.False(t, s.Pressed(Key(-3)))
	assert.False(t, s.Released(Key(999)))
	assert.Equal(t, "invalid", Key(999).String())
	assert.Equal(t, "space", KeySpace.String())
	assert.Len(t, Keys(), int(keyCount)-1)
}
