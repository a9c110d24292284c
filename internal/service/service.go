package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"staffing/internal/domain"
	"staffing/internal/logger"
	"staffing/internal/ports"
)

// EngineSettings bounds the inputs accepted by the computations.
type EngineSettings struct {
	DefaultForecastWeeks   int
	MaxForecastWeeks       int
	AvailabilityWindowDays int
}

func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		DefaultForecastWeeks:   domain.DefaultForecastWeeks,
		MaxForecastWeeks:       104,
		AvailabilityWindowDays: domain.DefaultAvailabilityWindowDays,
	}
}

type Service struct {
	repo      ports.SnapshotRepository
	telemetry ports.Telemetry
	importer  ports.ImportExport
	log       logger.Logger
	engine    EngineSettings
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithEngineSettings(settings EngineSettings) Option {
	return func(s *Service) {
		s.engine = settings
	}
}

// WithClock overrides the reference time used for default windows and the
// forecast anchor.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(repo ports.SnapshotRepository, telemetry ports.Telemetry, importer ports.ImportExport, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("new service: repository is nil")
	}
	if telemetry == nil {
		return nil, fmt.Errorf("new service: telemetry is nil")
	}
	if importer == nil {
		return nil, fmt.Errorf("new service: import/export is nil")
	}

	svc := &Service{
		repo:      repo,
		telemetry: telemetry,
		importer:  importer,
		log:       logger.NopLogger{},
		engine:    DefaultEngineSettings(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.engine.MaxForecastWeeks < 1 {
		return nil, fmt.Errorf("new service: max forecast weeks must be positive")
	}
	return svc, nil
}

func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// instrument records the outcome and duration of one operation.
func (s *Service) instrument(operation string, started time.Time, err error, attributes map[string]string) {
	elapsed := s.now().Sub(started)
	if attributes == nil {
		attributes = map[string]string{}
	}
	if err != nil {
		attributes["outcome"] = "error"
		if IsValidationError(err) {
			attributes["outcome"] = "invalid"
		}
		s.log.Debugw(operation+" failed", map[string]any{"error": err.Error()})
	}
	s.telemetry.Record(operation, attributes)
	s.telemetry.Observe(operation, elapsed)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}
