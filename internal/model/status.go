package model

// TaskStatus represents the status of a conversion item or a whole job
type TaskStatus string

const (
	// TaskStatusPending means the item is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusRunning means the encoder or extractor is working on it
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusCompleted means the item finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusFailed means the item failed and aborted the batch
	TaskStatusFailed TaskStatus = "Failed"

	// TaskStatusSkipped means the item was never reached because the batch aborted
	TaskStatusSkipped TaskStatus = "Skipped"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusRunning
}

// IsFinished returns true if the task is in a terminal state
func (ts TaskStatus) IsFinished() bool {
	switch ts {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped:
		return true
	}
	return false
}
