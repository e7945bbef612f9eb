package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/audit"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/matcher"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
)

type ProfileRepositoryInterface interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error
	Get(ctx context.Context, name string) (*domain.Profile, error)
	Delete(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
	All(ctx context.Context) (map[string]domain.Embedding, error)
	Ping(ctx context.Context) error
}

// ClockResult is returned by ClockIn and ClockOut.
type ClockResult struct {
	Name    string             `json:"name"`
	Action  domain.EventAction `json:"action"`
	Score   float64            `json:"score"`
	Time    string             `json:"time"`
	Message string             `json:"message"`
}

type FaceService struct {
	profiles       ProfileRepositoryInterface
	provider       provider.FaceProvider
	matcher        *matcher.Matcher
	events         audit.Logger
	logger         *slog.Logger
	metrics        MetricsRecorder
	locks          *keyedMutex
	rejectMultiple bool
	now            func() time.Time
}

func NewFaceService(
	profiles ProfileRepositoryInterface,
	faceProvider provider.FaceProvider,
	events audit.Logger,
	logger *slog.Logger,
) *FaceService {
	if events == nil {
		events = &audit.NoOpLogger{}
	}
	return &FaceService{
		profiles: profiles,
		provider: faceProvider,
		matcher:  matcher.New(matcher.DefaultThreshold),
		events:   events,
		logger:   logger.With("component", "face_service"),
		metrics:  noopRecorder{},
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

func (s *FaceService) WithThreshold(threshold float64) *FaceService {
	s.matcher = matcher.New(threshold)
	return s
}

// WithRejectMultipleFaces makes images with more than one face fail with
// ErrMultipleFaces instead of using the first face.
func (s *FaceService) WithRejectMultipleFaces(reject bool) *FaceService {
	s.rejectMultiple = reject
	return s
}

func (s *FaceService) WithMetrics(recorder MetricsRecorder) *FaceService {
	if recorder != nil {
		s.metrics = recorder
	}
	return s
}

func (s *FaceService) WithClock(now func() time.Time) *FaceService {
	s.now = now
	return s
}

// Register enrolls a new person. The name must not be taken.
func (s *FaceService) Register(ctx context.Context, rawName string, image []byte) (profile *domain.Profile, err error) {
	defer func() { s.metrics.ObserveProfileOperation("register", err) }()

	name, err := domain.NormalizeName(rawName)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	// cheap check before paying for extraction; Create still guards the race
	if _, err := s.profiles.Get(ctx, name); err == nil {
		return nil, domain.ErrProfileExists
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	embedding, err := s.extractEmbedding(ctx, image)
	if err != nil {
		return nil, err
	}
	if embedding == nil {
		return nil, domain.ErrNoFaceDetected
	}

	profile = &domain.Profile{Name: name, Embedding: embedding}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.recordProfileEvent(ctx, name, domain.ActionCreated)
	s.logger.InfoContext(ctx, "profile registered", "name", name, "dimensions", len(embedding))

	return profile, nil
}

// Update replaces the embedding of an enrolled person.
func (s *FaceService) Update(ctx context.Context, rawName string, image []byte) (profile *domain.Profile, err error) {
	defer func() { s.metrics.ObserveProfileOperation("update", err) }()

	name, err := domain.NormalizeName(rawName)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	// a corrupt record still exists and is exactly what an update repairs
	if _, err := s.profiles.Get(ctx, name); err != nil {
		if !errors.Is(err, domain.ErrCorruptProfile) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "overwriting corrupt profile", "name", name, "error", err)
	}

	embedding, err := s.extractEmbedding(ctx, image)
	if err != nil {
		return nil, err
	}
	if embedding == nil {
		return nil, domain.ErrNoFaceDetected
	}

	profile = &domain.Profile{Name: name, Embedding: embedding}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.recordProfileEvent(ctx, name, domain.ActionUpdated)
	s.logger.InfoContext(ctx, "profile updated", "name", name)

	return profile, nil
}

// Delete removes an enrolled person. Deleting an unknown name returns
// ErrProfileNotFound.
func (s *FaceService) Delete(ctx context.Context, rawName string) (err error) {
	defer func() { s.metrics.ObserveProfileOperation("delete", err) }()

	name, err := domain.NormalizeName(rawName)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	deleted, err := s.profiles.Delete(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProfileNotFound
	}

	s.recordProfileEvent(ctx, name, domain.ActionDeleted)
	s.logger.InfoContext(ctx, "profile deleted", "name", name)

	return nil
}

// Identify matches the face in image against every enrolled profile. An image
// without a face is a MatchNoFace result, not an error.
func (s *FaceService) Identify(ctx context.Context, image []byte) (domain.MatchResult, error) {
	result, err := s.identify(ctx, image)
	if err != nil {
		s.metrics.ObserveIdentification("error", 0)
		return domain.MatchResult{}, err
	}

	s.metrics.ObserveIdentification(string(result.Status), result.Score)
	s.logger.DebugContext(ctx, "identification",
		"status", result.Status,
		"name", result.Name,
		"score", result.Score,
	)
	return result, nil
}

func (s *FaceService) identify(ctx context.Context, image []byte) (domain.MatchResult, error) {
	embedding, err := s.extractEmbedding(ctx, image)
	if err != nil {
		return domain.MatchResult{}, err
	}

	stored, err := s.profiles.All(ctx)
	if err != nil {
		return domain.MatchResult{}, err
	}

	result, err := s.matcher.Match(embedding, stored)
	if err != nil {
		if errors.Is(err, matcher.ErrDimensionMismatch) {
			return domain.MatchResult{}, domain.ErrCorruptProfile.WithError(err)
		}
		return domain.MatchResult{}, fmt.Errorf("match: %w", err)
	}
	return result, nil
}

func (s *FaceService) ClockIn(ctx context.Context, image []byte) (*ClockResult, error) {
	return s.clock(ctx, image, domain.ActionClockIn)
}

func (s *FaceService) ClockOut(ctx context.Context, image []byte) (*ClockResult, error) {
	return s.clock(ctx, image, domain.ActionClockOut)
}

func (s *FaceService) clock(ctx context.Context, image []byte, action domain.EventAction) (*ClockResult, error) {
	result, err := s.Identify(ctx, image)
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case domain.MatchNoFace:
		return nil, domain.ErrNoFaceDetected
	case domain.MatchUnknown:
		return nil, domain.ErrUnknownUser
	}

	event := domain.NewEvent(result.Name, action, s.now())
	if err := s.events.Log(ctx, event); err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("record clock event: %w", err))
	}
	s.metrics.ObserveClockEvent(string(action))

	ts := event.FormattedTime()
	greeting := "Welcome"
	if action == domain.ActionClockOut {
		greeting = "Goodbye"
	}

	s.logger.InfoContext(ctx, "clock event", "name", result.Name, "action", action)

	return &ClockResult{
		Name:    result.Name,
		Action:  action,
		Score:   result.ScorePercent(),
		Time:    ts,
		Message: fmt.Sprintf("%s, %s. Time: %s", greeting, result.Name, ts),
	}, nil
}

// List returns enrolled names in lexical order.
func (s *FaceService) List(ctx context.Context) ([]string, error) {
	return s.profiles.List(ctx)
}

func (s *FaceService) Ping(ctx context.Context) error {
	return s.profiles.Ping(ctx)
}

// extractEmbedding returns the embedding of the face in image, or nil when the
// image has no usable face.
func (s *FaceService) extractEmbedding(ctx context.Context, image []byte) (domain.Embedding, error) {
	start := time.Now()
	faces, err := s.provider.ExtractFaces(ctx, image)
	s.metrics.ObserveExtraction(time.Since(start))

	if err != nil {
		var appErr *domain.AppError
		switch {
		case errors.As(err, &appErr):
			return nil, err
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			s.logger.ErrorContext(ctx, "embedding extraction failed",
				"provider", s.provider.Name(),
				"error", err,
			)
			return nil, domain.ErrExtractorUnavailable.WithError(err)
		}
	}

	if len(faces) == 0 {
		return nil, nil
	}
	if len(faces) > 1 && s.rejectMultiple {
		return nil, domain.ErrMultipleFaces
	}
	if len(faces[0].Embedding) == 0 {
		return nil, nil
	}

	return domain.Embedding(faces[0].Embedding), nil
}

// recordProfileEvent logs enrollment changes. The profile is already
// persisted, so a failing log only produces a warning.
func (s *FaceService) recordProfileEvent(ctx context.Context, name string, action domain.EventAction) {
	event := domain.NewEvent(name, action, s.now())
	if err := s.events.Log(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record profile event",
			"name", name,
			"action", action,
			"error", err,
		)
	}
}
