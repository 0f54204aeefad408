package ecs

// Each2 calls fn for every entity holding both A and B, walking the smaller
// pool. fn must not add or remove A or B.
func Each2[A, B any](o *Orchestrator, fn func(e Entity, a *A, b *B)) {
	pa := poolFor[A](o, false)
	pb := poolFor[B](o, false)
	if pa == nil || pb == nil {
		return
	}
	if pa.Len() <= pb.Len() {
		data := pa.GetAllData()
		for i, e := range pa.Entities() {
			if b, ok := pb.Get(e); ok {
				fn(e, &data[i], b)
			}
		}
		return
	}
	data := pb.GetAllData()
	for i, e := range pb.Entities() {
		if a, ok := pa.Get(e); ok {
			fn(e, a, &data[i])
		}
	}
}
