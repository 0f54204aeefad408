package ecs

import "strconv"

// Entity is a 16-bit identity. It carries no data of its own; components are
// attached through the Orchestrator.
type Entity uint16

// NullEntity is the sentinel "no entity" value. It is never handed out.
const NullEntity Entity = 0xFFFF

// MaxEntities is the number of ids available before NullEntity.
const MaxEntities = int(NullEntity)

func (e Entity) ID() uint16 {
	return uint16(e)
}

func (e Entity) Valid() bool {
	return e != NullEntity
}

func (e Entity) String() string {
	if !e.Valid() {
		return "null"
	}
	return strconv.FormatUint(uint64(e), 10)
}
