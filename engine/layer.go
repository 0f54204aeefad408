package engine

import (
	"github.com/milk9111/alphaengine/common"
	"github.com/milk9111/alphaengine/event"
)

// Layer is a slice of the application that gets its own update, render and
// event hooks. Layers pushed later sit on top and see events first.
type Layer interface {
	Name() string
	OnAttach(ctx *Context)
	OnDetach()
	OnUpdate(dt float32)
	OnRender()
	OnEvent(e event.Event)
}

type LayerID uint32

func LayerTypeID[T Layer]() LayerID {
	return LayerID(common.TypeID[T](common.LayerTypes))
}

// LayerStack keeps layers in push order.
type LayerStack struct {
	layers []Layer
}

func (s *LayerStack) Push(l Layer) {
	s.layers = append(s.layers, l)
}

// Remove drops l and reports whether it was present.
func (s *LayerStack) Remove(l Layer) bool {
	for i, existing := range s.layers {
		if existing == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *LayerStack) Len() int {
	return len(s.layers)
}

func (s *LayerStack) Layers() []Layer {
	return s.layers
}

// GetLayer returns the first layer of type T.
func GetLayer[T Layer](s *LayerStack) (T, bool) {
	for _, l := range s.layers {
		if typed, ok := l.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}
