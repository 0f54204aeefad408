package ecs

// Updater is a system that advances once per frame.
type Updater interface {
	Update(o *Orchestrator, dt float32)
}

// Scheduler runs updaters in the order they were added.
type Scheduler struct {
	systems []Updater
}

func NewScheduler(systems ...Updater) *Scheduler {
	copied := append([]Updater(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system Updater) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(o *Orchestrator, dt float32) {
	for _, system := range s.systems {
		system.Update(o, dt)
	}
}

func (s *Scheduler) Systems() []Updater {
	systems := make([]Updater, 0, len(s.systems))
	return append(systems, s.systems...)
}
