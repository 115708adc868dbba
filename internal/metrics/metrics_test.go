package metrics

import "testing"

func TestNoopIsSafe(t *testing.T) {
	var m Metrics = Noop{}
	m.IncSubmitted("ok")
	m.IncFetched("not_found")
	m.IncLatestQueried("none")
	m.IncJobsPublished()
}

func TestPromCounters(t *testing.T) {
	p := NewProm("imgvault_test")
	p.IncSubmitted("ok")
	p.IncSubmitted("error")
	p.IncFetched("ok")
	p.IncLatestQueried("none")
	p.IncJobsPublished()
	// Registering the same namespace twice must not panic via the once guard.
	p.register()
}
