// FILE: internal/service/export_service.go
package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/internal/repository/contract"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/exports"
	"financial-assistant-be/pkg/workspace"

	"github.com/google/uuid"
)

type IExportService interface {
	SaveOutput(ctx context.Context, sessionId uuid.UUID, req *dto.SaveOutputRequest) (*dto.SaveOutputResponse, error)
	SaveHistoricalPrice(ctx context.Context, sessionId uuid.UUID, req *dto.SaveHistoricalPriceRequest) (*dto.SaveHistoricalPriceResponse, error)
	// Download returns the file bytes, the content type, and the base name.
	Download(ctx context.Context, sessionId uuid.UUID, relPath string) ([]byte, string, string, error)
}

type exportService struct {
	repo             contract.SessionRepository
	writer           *exports.Writer
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewExportService(
	repo contract.SessionRepository,
	writer *exports.Writer,
	publisherService IPublisherService,
	log logger.ILogger,
) IExportService {
	return &exportService{
		repo:             repo,
		writer:           writer,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *exportService) SaveOutput(ctx context.Context, sessionId uuid.UUID, req *dto.SaveOutputRequest) (*dto.SaveOutputResponse, error) {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	path, ok := session.Layout.TargetPath(req.Target)
	if !ok {
		return nil, ErrUnknownTarget
	}

	if err := s.writer.AppendOutput(path, normalizeResponse(req.Response), req.UserRequest); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.OutputSaved(sessionId.String(), req.Target, path))
	return &dto.SaveOutputResponse{Path: path}, nil
}

func (s *exportService) SaveHistoricalPrice(ctx context.Context, sessionId uuid.UUID, req *dto.SaveHistoricalPriceRequest) (*dto.SaveHistoricalPriceResponse, error) {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	csvPath, pngPath, err := s.writer.SaveHistoricalPrice(
		session.Layout.HistoryFiguresDir,
		req.UserQuery,
		req.Symbols,
		req.StartDate,
		req.EndDate,
		req.CSVData,
		req.PNGData,
		session.Layout.HistoryPath,
	)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.OutputSaved(sessionId.String(), "history", pngPath))
	return &dto.SaveHistoricalPriceResponse{CSVPath: csvPath, PNGPath: pngPath}, nil
}

func (s *exportService) Download(ctx context.Context, sessionId uuid.UUID, relPath string) ([]byte, string, string, error) {
	session, err := s.repo.FindById(ctx, sessionId)
	if err != nil {
		return nil, "", "", err
	}
	if session == nil {
		return nil, "", "", ErrSessionNotFound
	}

	path := filepath.Join(session.CacheDir, relPath)
	if !workspace.PathIsContained(path, session.CacheDir) {
		return nil, "", "", ErrPathOutsideCache
	}

	mime, ok := exports.MimeFromPath(path)
	if !ok {
		return nil, "", "", ErrNotDownloadable
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Listings can outlive the files backing them; log and report
		// not-found instead of surfacing the raw FS error.
		s.logger.Warn("ExportService", "Error reading file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil, "", "", ErrFileNotFound
	}
	return data, mime, filepath.Base(path), nil
}

// normalizeResponse converts decoded JSON shapes into the forms the writer
// accepts. A list whose elements are all objects is a table; lists are left
// alone otherwise so scalar lists render as prose.
func normalizeResponse(response interface{}) interface{} {
	list, ok := response.([]interface{})
	if !ok || len(list) == 0 {
		return response
	}
	table := make(exports.Table, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]interface{})
		if !ok {
			return response
		}
		table = append(table, row)
	}
	return table
}

func (s *exportService) publishEvent(ctx context.Context, event events.BaseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("ExportService", "Failed to marshal workspace event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("ExportService", "Failed to publish workspace event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
}
