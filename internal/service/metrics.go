package service

import "time"

// MetricsRecorder receives service level measurements. metrics.Manager
// implements it.
type MetricsRecorder interface {
	ObserveIdentification(outcome string, score float64)
	ObserveProfileOperation(operation string, err error)
	ObserveClockEvent(action string)
	ObserveExtraction(elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveIdentification(string, float64) {}
func (noopRecorder) ObserveProfileOperation(string, error) {}
func (noopRecorder) ObserveClockEvent(string)              {}
func (noopRecorder) ObserveExtraction(time.Duration)       {}
