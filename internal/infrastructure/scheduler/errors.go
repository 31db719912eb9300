package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when stopping or triggering a stopped job
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
