package pipeline

import "time"

// Reporter is told how long each completed run took.
type Reporter interface {
	Report(elapsed time.Duration)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(elapsed time.Duration)

func (f ReporterFunc) Report(elapsed time.Duration) { f(elapsed) }

type nopReporter struct{}

func (nopReporter) Report(time.Duration) {}
