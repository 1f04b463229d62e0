package events

import (
	"time"
)

const (
	CalculationStartedEvent  = "calculation.started"
	CalculationRejectedEvent = "calculation.rejected"
	StepCompletedEvent       = "calculation.step.completed"
	CalculationFinishedEvent = "calculation.finished"
	CalculationFailedEvent   = "calculation.failed"
)

type CalculationStarted struct {
	Assemblies     int     `json:"assemblies"`
	Items          int     `json:"items"`
	TargetQuantity float64 `json:"targetQuantity"`
}

type CalculationRejected struct {
	Problems []string `json:"problems"`
}

type StepCompleted struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"durationNanos"`
}

type CalculationFinished struct {
	TotalCost   float64       `json:"totalCost"`
	CostPerUnit float64       `json:"costPerUnit"`
	Duration    time.Duration `json:"durationNanos"`
}

type CalculationFailed struct {
	Step  string `json:"step"`
	Error string `json:"error"`
}

func NewCalculationStartedEvent(runID string, data CalculationStarted, at time.Time) Event {
	return NewEventAt(CalculationStartedEvent, runID, data, at)
}

func NewCalculationRejectedEvent(runID string, problems []string, at time.Time) Event {
	return NewEventAt(CalculationRejectedEvent, runID, CalculationRejected{Problems: problems}, at)
}

func NewStepCompletedEvent(runID, step string, duration time.Duration, at time.Time) Event {
	return NewEventAt(StepCompletedEvent, runID, StepCompleted{Step: step, Duration: duration}, at)
}

func NewCalculationFinishedEvent(runID string, data CalculationFinished, at time.Time) Event {
	return NewEventAt(CalculationFinishedEvent, runID, data, at)
}

func NewCalculationFailedEvent(runID, step string, err error, at time.Time) Event {
	return NewEventAt(CalculationFailedEvent, runID, CalculationFailed{Step: step, Error: err.Error()}, at)
}
