package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// TaskService lists and controls long running server tasks. Cancellation is
// cooperative: the request is sent and remembered locally until the server
// reports a terminal state.
type TaskService struct {
	connections *ConnectionService
	logger      logger.Logger

	mu    sync.Mutex
	known map[string]map[uuid.UUID]*models.TaskStatus
}

func NewTaskService(connections *ConnectionService, log logger.Logger) *TaskService {
	return &TaskService{
		connections: connections,
		logger:      log,
		known:       make(map[string]map[uuid.UUID]*models.TaskStatus),
	}
}

// ListTasks polls the server and merges the local cancel flags into the result.
func (s *TaskService) ListTasks(ctx context.Context, conn *models.Connection, pageNumber, pageSize int32, states []models.TaskState) (*models.PaginatedList[*models.TaskStatus], error) {
	d, err := s.connections.ResolveDriver(ctx, conn)
	if err != nil {
		return nil, err
	}
	page, err := d.GetTaskStatuses(ctx, conn, pageNumber, pageSize, states)
	if err != nil {
		return nil, err
	}
	for i, fresh := range page.Data {
		page.Data[i] = s.remember(conn.ID, fresh)
	}
	return page, nil
}

// CancelTask asks the server to cancel a task and flags it locally when the
// request was accepted.
func (s *TaskService) CancelTask(ctx context.Context, conn *models.Connection, taskID uuid.UUID) (bool, error) {
	d, err := s.connections.ResolveDriver(ctx, conn)
	if err != nil {
		return false, err
	}
	accepted, err := d.CancelTask(ctx, conn, taskID)
	if err != nil {
		return false, err
	}
	if accepted {
		s.markCancelRequested(conn.ID, taskID)
		s.logger.Info("task cancellation requested", "connection", conn.Name, "task_id", taskID.String())
	}
	return accepted, nil
}

func (s *TaskService) BackupCatalog(ctx context.Context, conn *models.Connection, catalogName string, includingWAL bool, pastMoment *time.Time) (*models.TaskStatus, error) {
	d, err := s.connections.ResolveDriver(ctx, conn)
	if err != nil {
		return nil, err
	}
	status, err := d.BackupCatalog(ctx, conn, catalogName, includingWAL, pastMoment)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog backup started", "connection", conn.Name, "catalog", catalogName, "task_id", status.TaskID.String())
	return s.remember(conn.ID, status), nil
}

// RestoreCatalog restores a backup file as a new catalog. The restored catalog
// has no cached schema yet, so nothing needs evicting.
func (s *TaskService) RestoreCatalog(ctx context.Context, conn *models.Connection, fileID uuid.UUID, catalogName string) (*models.TaskStatus, error) {
	d, err := s.connections.ResolveDriver(ctx, conn)
	if err != nil {
		return nil, err
	}
	status, err := d.RestoreCatalog(ctx, conn, fileID, catalogName)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog restore started", "connection", conn.Name, "catalog", catalogName, "task_id", status.TaskID.String())
	return s.remember(conn.ID, status), nil
}

// Forget drops the local task state of a removed connection.
func (s *TaskService) Forget(connectionID string) {
	s.mu.Lock()
	delete(s.known, connectionID)
	s.mu.Unlock()
}

func (s *TaskService) remember(connectionID string, fresh *models.TaskStatus) *models.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, ok := s.known[connectionID]
	if !ok {
		tasks = make(map[uuid.UUID]*models.TaskStatus)
		s.known[connectionID] = tasks
	}
	merged := models.MergeTaskStatus(tasks[fresh.TaskID], fresh)
	if merged.State.Terminal() {
		delete(tasks, fresh.TaskID)
	} else {
		tasks[fresh.TaskID] = merged
	}
	return merged
}

func (s *TaskService) markCancelRequested(connectionID string, taskID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, ok := s.known[connectionID]
	if !ok {
		tasks = make(map[uuid.UUID]*models.TaskStatus)
		s.known[connectionID] = tasks
	}
	if t, ok := tasks[taskID]; ok {
		flagged := *t
		flagged.CancelRequested = true
		tasks[taskID] = &flagged
		return
	}
	tasks[taskID] = &models.TaskStatus{TaskID: taskID, State: models.TaskRunning, CancelRequested: true}
}
