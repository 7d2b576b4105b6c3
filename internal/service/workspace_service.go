// FILE: internal/service/workspace_service.go
package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/entity"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/internal/repository/contract"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/workspace"

	"github.com/google/uuid"
)

type IWorkspaceService interface {
	Browse(ctx context.Context, sessionId uuid.UUID, path string) (*dto.BrowseDirectoryResponse, error)
	ClearCache(ctx context.Context, sessionId uuid.UUID, req *dto.ClearCacheRequest) error
	ScheduleDeletion(ctx context.Context, sessionId uuid.UUID, req *dto.ScheduleDeletionRequest) (*dto.ScheduledJobResponse, error)
	CancelDeletion(ctx context.Context, sessionId uuid.UUID, path string) error
	ListJobs(ctx context.Context, sessionId uuid.UUID) ([]dto.ScheduledJobResponse, error)
	PruneSubdirectories(ctx context.Context, sessionId uuid.UUID, req *dto.PruneSubdirectoriesRequest) error
	CreateTempDir(ctx context.Context, sessionId uuid.UUID, req *dto.CreateTempDirRequest) (*dto.TempDirResponse, error)
	DeleteTempDir(ctx context.Context, sessionId uuid.UUID, req *dto.DeleteTempDirRequest) error
}

type workspaceService struct {
	repo             contract.SessionRepository
	ops              *workspace.Ops
	janitor          *workspace.Janitor
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewWorkspaceService(
	repo contract.SessionRepository,
	ops *workspace.Ops,
	janitor *workspace.Janitor,
	publisherService IPublisherService,
	log logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		repo:             repo,
		ops:              ops,
		janitor:          janitor,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *workspaceService) Browse(ctx context.Context, sessionId uuid.UUID, path string) (*dto.BrowseDirectoryResponse, error) {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	// Anything outside the cache root falls back to the root itself, so a
	// stale or hand-edited path never exposes the rest of the filesystem.
	if path == "" || !workspace.PathIsContained(path, session.CacheDir) {
		path = session.CacheDir
	}

	subdirs, files, err := workspace.ListDirectory(path)
	if err != nil {
		// A missing directory browses as empty rather than failing; the
		// session may not have produced anything yet.
		subdirs, files = []string{}, []string{}
	}

	resp := &dto.BrowseDirectoryResponse{
		Path:           path,
		Subdirectories: subdirs,
		Files:          files,
	}
	if len(subdirs) == 0 && len(files) == 0 {
		resp.Message = "No files found"
	}
	return resp, nil
}

func (s *workspaceService) ClearCache(ctx context.Context, sessionId uuid.UUID, req *dto.ClearCacheRequest) error {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return err
	}

	s.ops.ClearCache(session.CacheDir, req.DeleteRoot, req.Verbose)

	s.publishEvent(ctx, events.CacheCleared(sessionId.String(), session.CacheDir, req.DeleteRoot))
	return nil
}

func (s *workspaceService) ScheduleDeletion(ctx context.Context, sessionId uuid.UUID, req *dto.ScheduleDeletionRequest) (*dto.ScheduledJobResponse, error) {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	path := req.Path
	if path == "" {
		path = session.CacheDir
	}
	if !workspace.PathIsContained(path, session.CacheDir) {
		return nil, ErrPathOutsideCache
	}

	delay := time.Duration(req.DelayMinutes) * time.Minute
	info, created := s.janitor.Schedule(path, delay)

	if created {
		s.publishEvent(ctx, events.DeletionScheduled(sessionId.String(), info.Path, info.FireAt))
	}

	return &dto.ScheduledJobResponse{
		Path:    info.Path,
		FireAt:  info.FireAt,
		State:   string(info.State),
		Created: created,
	}, nil
}

func (s *workspaceService) CancelDeletion(ctx context.Context, sessionId uuid.UUID, path string) error {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return err
	}
	if !workspace.PathIsContained(path, session.CacheDir) {
		return ErrPathOutsideCache
	}

	if !s.janitor.Cancel(path) {
		return ErrJobNotFound
	}

	s.publishEvent(ctx, events.DeletionCanceled(sessionId.String(), filepath.Clean(path)))
	return nil
}

func (s *workspaceService) ListJobs(ctx context.Context, sessionId uuid.UUID) ([]dto.ScheduledJobResponse, error) {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	jobs := []dto.ScheduledJobResponse{}
	for _, info := range s.janitor.Jobs() {
		if !workspace.PathIsContained(info.Path, session.CacheDir) {
			continue
		}
		jobs = append(jobs, dto.ScheduledJobResponse{
			Path:   info.Path,
			FireAt: info.FireAt,
			State:  string(info.State),
		})
	}
	return jobs, nil
}

func (s *workspaceService) PruneSubdirectories(ctx context.Context, sessionId uuid.UUID, req *dto.PruneSubdirectoriesRequest) error {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return err
	}

	for _, excluded := range req.Exclude {
		if !workspace.PathIsContained(excluded, session.CacheDir) {
			return ErrPathOutsideCache
		}
	}

	s.ops.DeleteAllSubdirectories(session.CacheDir, req.Exclude, req.Verbose)
	return nil
}

func (s *workspaceService) CreateTempDir(ctx context.Context, sessionId uuid.UUID, req *dto.CreateTempDirRequest) (*dto.TempDirResponse, error) {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(session.CacheDir, req.Name)
	if !workspace.PathIsContained(dir, session.CacheDir) {
		return nil, ErrPathOutsideCache
	}

	subdirs := make([]string, 0, len(req.Subdirs))
	for _, sub := range req.Subdirs {
		subdirs = append(subdirs, filepath.Join(dir, sub))
	}
	if err := workspace.CreateDirWithSubdirs(dir, subdirs); err != nil {
		return nil, err
	}

	return &dto.TempDirResponse{Path: dir}, nil
}

func (s *workspaceService) DeleteTempDir(ctx context.Context, sessionId uuid.UUID, req *dto.DeleteTempDirRequest) error {
	session, err := s.session(ctx, sessionId)
	if err != nil {
		return err
	}

	// An empty name would resolve to the root itself; removing that is
	// clear-cache's job, not this endpoint's.
	dir := filepath.Join(session.CacheDir, req.Name)
	if dir == filepath.Clean(session.CacheDir) || !workspace.PathIsContained(dir, session.CacheDir) {
		return ErrPathOutsideCache
	}

	s.ops.DeleteTempDir(dir, req.Verbose)
	return nil
}

func (s *workspaceService) session(ctx context.Context, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *workspaceService) publishEvent(ctx context.Context, event events.BaseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("WorkspaceService", "Failed to marshal workspace event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("WorkspaceService", "Failed to publish workspace event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
}
