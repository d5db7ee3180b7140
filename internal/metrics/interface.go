package metrics

// Metrics is the instrumentation surface of the application.
type Metrics interface {
	IncScoresSubmitted()
	IncScoresRejected()
	AddScoresDeleted(count int)
	IncRecomputeRuns()
	IncRecomputeFailures()
	ObserveRecomputeDuration(seconds float64)
	SetStartupTime(seconds float64)
}
