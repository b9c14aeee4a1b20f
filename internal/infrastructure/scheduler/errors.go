package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when a manual trigger hits a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)
