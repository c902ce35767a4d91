package server

import (
	"sync"

	"github.com/google/uuid"
)

// TaskStatus defines the possible states of a background task.
type TaskStatus string

const (
	TaskStatusStarted   TaskStatus = "started"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task represents one fire-and-forget unit of work, today always a
// document ingest. The upload response carries the task id so clients can
// poll completion instead of blocking on processing.
type Task struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	DocumentID string     `json:"document_id,omitempty"`
	Status     TaskStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	mu         sync.RWMutex
}

// TaskManager tracks all running asynchronous tasks.
type TaskManager struct {
	tasks map[string]*Task
	mu    sync.RWMutex
}

func NewTaskManager() *TaskManager {
	return &TaskManager{
		tasks: make(map[string]*Task),
	}
}

// NewTask creates a task, registers it, and returns it.
func (tm *TaskManager) NewTask(kind, documentID string) *Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	task := &Task{
		ID:         uuid.New().String(),
		Kind:       kind,
		DocumentID: documentID,
		Status:     TaskStatusStarted,
	}
	tm.tasks[task.ID] = task
	return task
}

// GetTask safely retrieves a task by its ID.
func (tm *TaskManager) GetTask(id string) (*Task, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	task, found := tm.tasks[id]
	return task, found
}

// --- Methods for updating a Task ---

// SetStatus updates the status of the task.
func (t *Task) SetStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = status
}

// SetError marks the task as failed and records the error message.
func (t *Task) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusFailed
	t.Error = err.Error()
}

// Snapshot returns a copy safe to marshal while the task keeps mutating.
func (t *Task) Snapshot() Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Task{
		ID:         t.ID,
		Kind:       t.Kind,
		DocumentID: t.DocumentID,
		Status:     t.Status,
		Error:      t.Error,
	}
}
