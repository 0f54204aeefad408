package component

// Script attaches a tengo program to an entity. Source wins over Path when
// both are set.
type Script struct {
	Path   string
	Source string
}
