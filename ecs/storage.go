package ecs

// entityStore hands out entity ids: a fresh counter until the first id is
// freed, then the most recently freed id first. gens counts how many times
// each id has been released.
type entityStore struct {
	nextID int
	alive  []bool
	gens   []uint32
	free   []Entity
}

func (s *entityStore) create() (Entity, bool) {
	if s == nil {
		return NullEntity, false
	}
	var e Entity
	if len(s.free) > 0 {
		e = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		if s.nextID >= MaxEntities {
			return NullEntity, false
		}
		e = Entity(s.nextID)
		s.nextID++
	}
	for int(e) >= len(s.alive) {
		s.alive = append(s.alive, false)
		s.gens = append(s.gens, 0)
	}
	s.alive[e] = true
	return e, true
}

// destroy releases e. Releasing an id that is not alive is ignored so the
// free list never holds an id twice.
func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	s.alive[e] = false
	s.gens[e]++
	s.free = append(s.free, e)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || !e.Valid() || int(e) >= len(s.alive) {
		return false
	}
	return s.alive[e]
}

func (s *entityStore) generation(e Entity) uint32 {
	if s == nil || !e.Valid() || int(e) >= len(s.gens) {
		return 0
	}
	return s.gens[e]
}

func (s *entityStore) count() int {
	if s == nil {
		return 0
	}
	return s.nextID - len(s.free)
}
