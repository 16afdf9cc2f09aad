package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskState string

const (
	TaskWaitingForPrecondition TaskState = "waitingForPrecondition"
	TaskQueued                 TaskState = "queued"
	TaskRunning                TaskState = "running"
	TaskFinished               TaskState = "finished"
	TaskFailed                 TaskState = "failed"
)

// Terminal reports whether the server will not change the state anymore.
func (s TaskState) Terminal() bool {
	return s == TaskFinished || s == TaskFailed
}

type TaskTrait string

const (
	TaskTraitCanBeStarted     TaskTrait = "canBeStarted"
	TaskTraitCanBeCancelled   TaskTrait = "canBeCancelled"
	TaskTraitNeedsToBeStopped TaskTrait = "needsToBeStopped"
)

// TaskResult is either a file produced by the task or a textual result.
type TaskResult struct {
	File *ServerFile `json:"file,omitempty"`
	Text *string     `json:"text,omitempty"`
}

// TaskStatus describes one long-running server operation.
type TaskStatus struct {
	TaskID      uuid.UUID          `json:"taskId"`
	TaskTypes   []string           `json:"taskTypes"`
	TaskName    string             `json:"taskName"`
	CatalogName *string            `json:"catalogName,omitempty"`
	Created     time.Time          `json:"created"`
	Issued      *time.Time         `json:"issued,omitempty"`
	Started     *time.Time         `json:"started,omitempty"`
	Finished    *time.Time         `json:"finished,omitempty"`
	Progress    int32              `json:"progress"`
	Settings    *string            `json:"settings,omitempty"`
	Result      *TaskResult        `json:"result,omitempty"`
	Exception   *string            `json:"exception,omitempty"`
	State       TaskState          `json:"state"`
	Traits      map[TaskTrait]bool `json:"traits"`

	// CancelRequested is tracked locally only.
	CancelRequested bool `json:"cancelRequested"`
}

func (t *TaskStatus) HasTrait(trait TaskTrait) bool {
	return t.Traits[trait]
}

// MergeTaskStatus combines a freshly polled status with the previously known one.
// The local cancel flag survives until the server reports a terminal state.
func MergeTaskStatus(previous, fresh *TaskStatus) *TaskStatus {
	if fresh == nil {
		return previous
	}
	merged := *fresh
	if previous != nil && previous.CancelRequested && !fresh.State.Terminal() {
		merged.CancelRequested = true
	}
	return &merged
}
