package event

import "fmt"

// Event is anything that can travel through the Bus or the layer stack.
type Event interface {
	Name() string
	Handled() bool
	SetHandled(bool)
}

// Base carries the handled flag. Event types embed it.
type Base struct {
	handled bool
}

func (b *Base) Handled() bool     { return b.handled }
func (b *Base) SetHandled(v bool) { b.handled = v }

// Dispatch calls fn when e is a T. The handled flag is set to fn's result.
// It reports whether e matched T.
func Dispatch[T Event](e Event, fn func(T) bool) bool {
	typed, ok := e.(T)
	if !ok {
		return false
	}
	if fn(typed) {
		e.SetHandled(true)
	}
	return true
}

type WindowResize struct {
	Base
	Width, Height int
}

func (*WindowResize) Name() string { return "WindowResize" }

func (e *WindowResize) String() string {
	return fmt.Sprintf("WindowResize: %d, %d", e.Width, e.Height)
}

type WindowClose struct {
	Base
}

func (*WindowClose) Name() string { return "WindowClose" }

type KeyPressed struct {
	Base
	Key    int
	Repeat bool
}

func (*KeyPressed) Name() string { return "KeyPressed" }

type KeyReleased struct {
	Base
	Key int
}

func (*KeyReleased) Name() string { return "KeyReleased" }

type MouseMoved struct {
	Base
	X, Y float64
}

func (*MouseMoved) Name() string { return "MouseMoved" }
