package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/alphaengine/input"
)

var ebitenKeys = map[input.Key]ebiten.Key{
	input.KeyW:      ebiten.KeyW,
	input.KeyA:      ebiten.KeyA,
	input.KeyS:      ebiten.KeyS,
	input.KeyD:      ebiten.KeyD,
	input.KeyUp:     ebiten.KeyArrowUp,
	input.KeyDown:   ebiten.KeyArrowDown,
	input.KeyLeft:   ebiten.KeyArrowLeft,
	input.KeyRight:  ebiten.KeyArrowRight,
	input.KeySpace:  ebiten.KeySpace,
	input.KeyEscape: ebiten.KeyEscape,
	input.KeyF1:     ebiten.KeyF1,
	input.KeyF2:     ebiten.KeyF2,
	input.KeyR:      ebiten.KeyR,
}

// ebitenSource reads the keyboard and cursor through ebiten.
type ebitenSource struct{}

func (ebitenSource) KeyDown(k input.Key) bool {
	ek, ok := ebitenKeys[k]
	return ok && ebiten.IsKeyPressed(ek)
}

func (ebitenSource) Cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}
