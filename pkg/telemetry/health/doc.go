// Package health provides liveness and readiness probes for long-running
// watch sessions.
//
// Watch mode registers a readiness check that fails while the most recent
// analysis of any watched file could not be completed, and serves the
// probes next to the metrics endpoint:
//
//	checker := health.New(0)
//	checker.RegisterCheck("analysis", session.Ready)
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildTime)
//	mux.Handle("/metrics", collector.Handler())
package health
