package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/client"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/export"
	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/profilesync"
	"synthdata-wizard-api/internal/response"
	"synthdata-wizard-api/internal/wizard"
)

// SessionOptions configure profile sync for new sessions
type SessionOptions struct {
	AutosaveDebounce time.Duration
	SaveTimeout      time.Duration
}

// WizardService defines the interface for wizard session business logic.
// Operations that only touch session state are called on the session
// returned by GetSession; this service owns everything that crosses a
// collaborator or a metric.
type WizardService interface {
	CreateSession(ctx context.Context, profileID string) (wizard.View, error)
	GetSession(sessionID string) (*wizard.Session, error)
	CloseSession(ctx context.Context, sessionID string) error
	EvictIdle(ctx context.Context, ttl time.Duration) int
	CloseAll(ctx context.Context) int
	ActiveSessions() int

	PatchField(ctx context.Context, sessionID, fieldID string, patch domain.FieldPatch) (wizard.FieldView, error)
	EnterMode(ctx context.Context, sessionID, fieldID string, mode domain.DistributionMode) (wizard.FieldView, error)
	SaveDistribution(ctx context.Context, sessionID, fieldID string, mode domain.DistributionMode, cfg domain.DistributionConfig) (wizard.FieldView, error)
	ApplyDependency(ctx context.Context, sessionID, fieldID string, update domain.DistributionUpdate) (wizard.DependencyResult, error)
	DetectAndApply(ctx context.Context, sessionID, fieldID, filename string, file io.Reader, column string) (wizard.FieldView, error)
	FitAndApply(ctx context.Context, sessionID, fieldID string, points []float64) (wizard.FieldView, error)

	ExportSpec(sessionID string) (*domain.ExportSpec, error)
	Export(ctx context.Context, sessionID string) (*domain.ExportResult, error)

	DetectColumns(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error)
	DetectColumn(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error)
	FitCurve(ctx context.Context, points []float64) (*domain.CurveFit, error)
}

// wizardServiceImpl is the implementation of WizardService
type wizardServiceImpl struct {
	manager   *wizard.Manager
	store     ProfileStore
	exporter  client.ExportClient
	detector  client.DetectionClient
	archive   client.ExportArchive
	publisher wizard.Publisher
	clock     clockwork.Clock
	opts      SessionOptions
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu      sync.Mutex
	syncers map[string]*profilesync.Syncer
}

// NewWizardService creates a new instance of WizardService. archive and
// publisher may be nil.
func NewWizardService(
	manager *wizard.Manager,
	store ProfileStore,
	exporter client.ExportClient,
	detector client.DetectionClient,
	archive client.ExportArchive,
	publisher wizard.Publisher,
	clock clockwork.Clock,
	opts SessionOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) WizardService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &wizardServiceImpl{
		manager:   manager,
		store:     store,
		exporter:  exporter,
		detector:  detector,
		archive:   archive,
		publisher: publisher,
		clock:     clock,
		opts:      opts,
		metrics:   m,
		logger:    logger,
		syncers:   make(map[string]*profilesync.Syncer),
	}
}

// CreateSession starts a wizard with three empty rows. With a profile id the
// profile payload is loaded and hydrated, and later changes are saved back
// after the debounce window. A profile that does not exist fails the call;
// any other load failure is logged and the session keeps its defaults.
func (s *wizardServiceImpl) CreateSession(ctx context.Context, profileID string) (wizard.View, error) {
	session := s.manager.Create(wizard.Config{
		ProfileID: profileID,
		Publisher: s.publisher,
	})

	if profileID != "" {
		if err := s.attachProfile(ctx, session); err != nil {
			s.manager.Delete(session.ID())
			return wizard.View{}, err
		}
	}

	s.metrics.IncrementSessionCreated()
	s.metrics.SetSessionsActive(s.manager.Count())
	s.logger.Info("Session created",
		zap.String("session_id", session.ID()),
		zap.String("profile_id", profileID),
	)
	return session.View(), nil
}

func (s *wizardServiceImpl) attachProfile(ctx context.Context, session *wizard.Session) error {
	sessionID := session.ID()
	syncer := profilesync.New(session.ProfileID(), s.store, profilesync.Options{
		Window:      s.opts.AutosaveDebounce,
		SaveTimeout: s.opts.SaveTimeout,
		Clock:       s.clock,
		Logger:      s.logger.With(zap.String("session_id", sessionID)),
		Hooks: profilesync.Hooks{
			OnSaved: func(profileID string, duration time.Duration) {
				s.metrics.RecordProfileSave(nil)
				session.Emit(wizard.EventProfileSaved, map[string]interface{}{
					"profileId":  profileID,
					"durationMs": duration.Milliseconds(),
				})
			},
			OnFailed: func(profileID string, err error) {
				s.metrics.RecordProfileSave(err)
				session.Emit(wizard.EventProfileSaveFailed, map[string]interface{}{
					"profileId": profileID,
					"error":     err.Error(),
				})
			},
		},
	})

	data, err := syncer.Load(ctx)
	switch {
	case err != nil && response.HasCode(err, response.ErrCodeNotFound):
		return err
	case err != nil && response.HasCode(err, response.ErrCodeValidation):
		return err
	case err != nil:
		s.logger.Warn("Profile load failed, starting with defaults",
			zap.String("session_id", sessionID),
			zap.String("profile_id", session.ProfileID()),
			zap.Error(err),
		)
	case data != nil:
		session.Hydrate(*data)
	}

	syncer.MarkSaved(session.Snapshot())
	session.SetObserver(syncer)

	s.mu.Lock()
	s.syncers[sessionID] = syncer
	s.mu.Unlock()
	return nil
}

// GetSession returns a live session
func (s *wizardServiceImpl) GetSession(sessionID string) (*wizard.Session, error) {
	session, ok := s.manager.Get(sessionID)
	if !ok {
		return nil, response.NewNotFoundError("Session not found", sessionID)
	}
	return session, nil
}

// CloseSession flushes a pending profile save and ends the session
func (s *wizardServiceImpl) CloseSession(ctx context.Context, sessionID string) error {
	session, ok := s.manager.Delete(sessionID)
	if !ok {
		return response.NewNotFoundError("Session not found", sessionID)
	}
	s.finish(ctx, session)
	s.metrics.SetSessionsActive(s.manager.Count())
	s.logger.Info("Session closed", zap.String("session_id", sessionID))
	return nil
}

// EvictIdle closes every session untouched for longer than ttl
func (s *wizardServiceImpl) EvictIdle(ctx context.Context, ttl time.Duration) int {
	evicted := s.manager.EvictIdle(ttl)
	for _, session := range evicted {
		s.finish(ctx, session)
	}
	if len(evicted) > 0 {
		s.metrics.SetSessionsActive(s.manager.Count())
		s.logger.Info("Idle sessions evicted", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// CloseAll flushes and closes every live session, used on shutdown
func (s *wizardServiceImpl) CloseAll(ctx context.Context) int {
	all := s.manager.DeleteAll()
	for _, session := range all {
		s.finish(ctx, session)
	}
	s.metrics.SetSessionsActive(0)
	return len(all)
}

// ActiveSessions returns the number of live sessions
func (s *wizardServiceImpl) ActiveSessions() int {
	return s.manager.Count()
}

// finish flushes and stops the session's syncer and notifies subscribers.
// A failed flush is reported through the syncer hooks.
func (s *wizardServiceImpl) finish(ctx context.Context, session *wizard.Session) {
	s.mu.Lock()
	syncer, ok := s.syncers[session.ID()]
	delete(s.syncers, session.ID())
	s.mu.Unlock()

	if ok {
		session.SetObserver(nil)
		if err := syncer.Flush(ctx); err != nil {
			s.logger.Warn("Final profile save failed",
				zap.String("session_id", session.ID()),
				zap.Error(err),
			)
		}
		syncer.Stop()
	}
	session.Close()
}

// PatchField applies a partial row update
func (s *wizardServiceImpl) PatchField(ctx context.Context, sessionID, fieldID string, patch domain.FieldPatch) (wizard.FieldView, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return wizard.FieldView{}, err
	}
	view, err := session.PatchField(ctx, fieldID, patch)
	return view, s.track(err)
}

// EnterMode locks a field to a distribution mode
func (s *wizardServiceImpl) EnterMode(ctx context.Context, sessionID, fieldID string, mode domain.DistributionMode) (wizard.FieldView, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return wizard.FieldView{}, err
	}
	view, err := session.EnterMode(ctx, fieldID, mode)
	return view, s.track(err)
}

// SaveDistribution stores a standard, upload or custom distribution
func (s *wizardServiceImpl) SaveDistribution(ctx context.Context, sessionID, fieldID string, mode domain.DistributionMode, cfg domain.DistributionConfig) (wizard.FieldView, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return wizard.FieldView{}, err
	}
	view, err := session.SaveDistribution(ctx, fieldID, mode, cfg)
	return view, s.track(err)
}

// ApplyDependency stores a dependency distribution on the field's target
func (s *wizardServiceImpl) ApplyDependency(ctx context.Context, sessionID, fieldID string, update domain.DistributionUpdate) (wizard.DependencyResult, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return wizard.DependencyResult{}, err
	}
	result, err := session.ApplyDependencyDistribution(ctx, fieldID, update)
	if err != nil {
		return result, s.track(err)
	}
	if result.Fallback {
		s.metrics.IncrementDependencyFallback()
		s.logger.Debug("Dependency target not found, stored on requesting field",
			zap.String("session_id", sessionID),
			zap.String("field_id", fieldID),
		)
	}
	return result, nil
}

// DetectAndApply detects the distribution of an uploaded column and stores
// it on the field in upload mode. The lock is checked before the upload is
// forwarded.
func (s *wizardServiceImpl) DetectAndApply(ctx context.Context, sessionID, fieldID, filename string, file io.Reader, column string) (wizard.FieldView, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return wizard.FieldView{}, err
	}
	if err := s.checkMode(session, fieldID, domain.ModeUpload); err != nil {
		return wizard.FieldView{}, err
	}

	detection, err := s.detector.DetectColumn(ctx, filename, file, column)
	if err != nil {
		return wizard.FieldView{}, err
	}
	view, err := session.ApplyDetection(ctx, fieldID, *detection)
	return view, s.track(err)
}

// FitAndApply fits a hand-drawn curve and stores it on the field in custom mode
func (s *wizardServiceImpl) FitAndApply(ctx context.Context, sessionID, fieldID string, points []float64) (wizard.FieldView, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return wizard.FieldView{}, err
	}
	if err := s.checkMode(session, fieldID, domain.ModeCustom); err != nil {
		return wizard.FieldView{}, err
	}

	fit, err := s.FitCurve(ctx, points)
	if err != nil {
		return wizard.FieldView{}, err
	}
	view, err := session.ApplyCurveFit(ctx, fieldID, *fit)
	return view, s.track(err)
}

func (s *wizardServiceImpl) checkMode(session *wizard.Session, fieldID string, mode domain.DistributionMode) error {
	current, availability, err := session.Availability(fieldID)
	if err != nil {
		return err
	}
	if !availability[mode] {
		return s.track(response.NewModeLockedError("Field is locked to "+string(current)+" mode", "reset the field first"))
	}
	return nil
}

// ExportSpec compiles the generator request without sending it
func (s *wizardServiceImpl) ExportSpec(sessionID string) (*domain.ExportSpec, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return compile(session)
}

// Export compiles the session and sends it to the generator. When an
// archive is configured the payload is also uploaded and a presigned
// download link is attached; archive failures do not fail the export.
func (s *wizardServiceImpl) Export(ctx context.Context, sessionID string) (*domain.ExportResult, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	spec, err := compile(session)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.exporter.Export(ctx, spec)
	s.metrics.RecordExport(spec.Format, time.Since(start), err)
	if err != nil {
		s.logger.Warn("Export failed",
			zap.String("session_id", sessionID),
			zap.String("format", spec.Format),
			zap.Error(err),
		)
		session.Emit(wizard.EventExportFailed, map[string]interface{}{
			"format": spec.Format,
			"error":  err.Error(),
		})
		return nil, err
	}

	now := s.clock.Now()
	result.Filename = export.Filename(now, spec.Format)
	if result.ContentType == "" || result.ContentType == "application/octet-stream" {
		result.ContentType = export.ContentTypeFor(spec.Format)
	}
	if s.archive != nil {
		s.archiveExport(ctx, sessionID, result, now)
	}

	s.logger.Info("Export completed",
		zap.String("session_id", sessionID),
		zap.String("format", spec.Format),
		zap.Int("rows", len(spec.Rows)),
		zap.Int("bytes", len(result.Payload)),
	)
	session.Emit(wizard.EventExportCompleted, map[string]interface{}{
		"filename":    result.Filename,
		"format":      spec.Format,
		"downloadUrl": result.DownloadURL,
	})
	return result, nil
}

func (s *wizardServiceImpl) archiveExport(ctx context.Context, sessionID string, result *domain.ExportResult, at time.Time) {
	key := s.archive.GenerateExportKey(sessionID, result.Filename, at)
	if err := s.archive.UploadExport(ctx, key, bytes.NewReader(result.Payload), result.ContentType); err != nil {
		s.logger.Warn("Failed to archive export", zap.String("key", key), zap.Error(err))
		return
	}
	result.ArchiveKey = key

	url, err := s.archive.PresignDownload(ctx, key, result.Filename)
	if err != nil {
		s.logger.Warn("Failed to presign export download", zap.String("key", key), zap.Error(err))
		// an archived export without a link is unreachable
		if delErr := s.archive.DeleteExport(ctx, key); delErr != nil {
			s.logger.Warn("Failed to delete unlinked export", zap.String("key", key), zap.Error(delErr))
		}
		result.ArchiveKey = ""
		return
	}
	result.DownloadURL = url
}

// DetectColumns lists the columns of an uploaded file
func (s *wizardServiceImpl) DetectColumns(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error) {
	return s.detector.DetectColumns(ctx, filename, file)
}

// DetectColumn detects the distribution of one uploaded column
func (s *wizardServiceImpl) DetectColumn(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error) {
	if column == "" {
		return nil, response.NewValidationError("Column is required", "")
	}
	return s.detector.DetectColumn(ctx, filename, file, column)
}

// FitCurve fits a distribution to hand-drawn points
func (s *wizardServiceImpl) FitCurve(ctx context.Context, points []float64) (*domain.CurveFit, error) {
	if len(points) == 0 {
		return nil, response.NewValidationError("Curve needs at least one point", "")
	}
	return s.detector.FitCurve(ctx, domain.CurveFitRequest{Points: points})
}

// track counts lock conflicts and passes err through
func (s *wizardServiceImpl) track(err error) error {
	if err != nil && response.HasCode(err, response.ErrCodeModeLocked) {
		s.metrics.IncrementModeLockConflict()
	}
	return err
}

func compile(session *wizard.Session) (*domain.ExportSpec, error) {
	fields, opts, sheets := session.ExportInput()
	spec, err := export.Compile(fields, opts, sheets)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to compile export", err.Error())
	}
	return spec, nil
}
