// FILE: internal/service/session_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"financial-assistant-be/internal/config"
	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/entity"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/internal/pkg/serverutils"
	"financial-assistant-be/internal/repository/contract"
	"financial-assistant-be/pkg/analytics"
	"financial-assistant-be/pkg/edgar"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/workspace"

	"github.com/google/uuid"
)

type ISessionService interface {
	// Initialize creates a session, or returns the stored one when the
	// caller already holds a valid token. Paths are never recomputed for a
	// live session.
	Initialize(ctx context.Context, existingId *uuid.UUID, req *dto.InitializeSessionRequest) (*dto.SessionResponse, error)
	Show(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
	SubmitEdgarDetails(ctx context.Context, sessionId uuid.UUID, req *dto.SubmitEdgarDetailsRequest) (*dto.EdgarDetailsResponse, error)
	Close(ctx context.Context, sessionId uuid.UUID, deleteRoot bool) error
}

type sessionService struct {
	cfg              *config.Config
	repo             contract.SessionRepository
	ops              *workspace.Ops
	tracker          *analytics.Tracker
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSessionService(
	cfg *config.Config,
	repo contract.SessionRepository,
	ops *workspace.Ops,
	tracker *analytics.Tracker,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		cfg:              cfg,
		repo:             repo,
		ops:              ops,
		tracker:          tracker,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *sessionService) Initialize(ctx context.Context, existingId *uuid.UUID, req *dto.InitializeSessionRequest) (*dto.SessionResponse, error) {
	ttl := time.Duration(s.cfg.Session.TTLMinutes) * time.Minute

	if existingId != nil {
		existing, err := s.repo.FindById(ctx, *existingId)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			existing.LastSeenAt = time.Now()
			if err := s.repo.Save(ctx, existing); err != nil {
				return nil, err
			}
			token, err := serverutils.GenerateSessionToken(existing.Id, ttl)
			if err != nil {
				return nil, err
			}
			return sessionResponse(existing, token), nil
		}
		// Token was valid but the session expired from the store; fall
		// through and mint a fresh one.
	}

	id := uuid.New()
	prodMode := req.ProdMode || s.cfg.Workspace.ProdMode

	cacheDir := req.CacheDir
	if cacheDir == "" {
		if prodMode {
			cacheDir = workspace.ProdRoot(s.cfg.Workspace.ScratchDir, id.String())
		} else {
			cacheDir = s.cfg.Workspace.CacheDir
		}
	}

	now := time.Now()
	session := &entity.Session{
		Id:         id,
		CacheDir:   cacheDir,
		ProdMode:   prodMode,
		Layout:     workspace.NewLayout(id.String(), cacheDir),
		LaunchTime: now,
		LastSeenAt: now,
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	// Credentials for the filing retrieval collaborator come from the
	// environment; an incomplete identity only blocks filings, not the
	// session itself.
	if !edgar.FromEnv().Complete() {
		s.logger.Warn("SessionService", "SEC EDGAR identity is incomplete", map[string]interface{}{
			"session_id": id.String(),
		})
	}

	// Clear any analysis-library cache left over from a previous process.
	s.ops.DeleteTempDir(s.cfg.Workspace.AnalysisCacheDir, false)

	if err := s.tracker.DemoLaunch(ctx, id.String()); err != nil {
		s.logger.Warn("SessionService", "Failed to track demo launch", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}

	s.publishEvent(ctx, events.SessionInitialized(id.String(), cacheDir, prodMode))

	token, err := serverutils.GenerateSessionToken(id, ttl)
	if err != nil {
		return nil, err
	}
	return sessionResponse(session, token), nil
}

func (s *sessionService) Show(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return sessionResponse(session, ""), nil
}

func (s *sessionService) SubmitEdgarDetails(ctx context.Context, sessionId uuid.UUID, req *dto.SubmitEdgarDetailsRequest) (*dto.EdgarDetailsResponse, error) {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	identity := edgar.Identity{
		Organization: req.Organization,
		Email:        req.Email,
	}
	if err := identity.Store(); err != nil {
		return nil, err
	}

	session.EdgarOrganization = req.Organization
	session.EdgarEmail = req.Email
	session.LastSeenAt = time.Now()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EdgarDetailsSaved(sessionId.String(), req.Organization))
	return &dto.EdgarDetailsResponse{UserAgent: identity.UserAgent()}, nil
}

func (s *sessionService) Close(ctx context.Context, sessionId uuid.UUID, deleteRoot bool) error {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	s.ops.ClearCache(session.CacheDir, deleteRoot, true)

	if err := s.repo.Delete(ctx, sessionId); err != nil {
		return err
	}

	s.publishEvent(ctx, events.CacheCleared(sessionId.String(), session.CacheDir, deleteRoot))
	return nil
}

func (s *sessionService) publishEvent(ctx context.Context, event events.BaseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("SessionService", "Failed to marshal workspace event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
		return
	}
	// Events are auxiliary; a publish failure never fails the request.
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("SessionService", "Failed to publish workspace event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
}

func sessionResponse(session *entity.Session, token string) *dto.SessionResponse {
	return &dto.SessionResponse{
		SessionId:  session.Id,
		Token:      token,
		CacheDir:   session.CacheDir,
		ProdMode:   session.ProdMode,
		LaunchTime: session.LaunchTime,
		Paths:      session.Layout,
	}
}
