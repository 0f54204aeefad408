package component

type PlayerController struct {
	MoveSpeed float32
	JumpForce float32
}

// Input stores per-frame input state for an entity.
type Input struct {
	MoveX       float32
	MoveZ       float32
	Jump        bool
	JumpPressed bool
}
