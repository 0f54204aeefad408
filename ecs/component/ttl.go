package component

// TTL destroys its entity once Seconds has run out. Stress scenes use it to
// churn entity ids.
type TTL struct {
	Seconds float32
}
