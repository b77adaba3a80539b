package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/repository"
)

var (
	// ErrInvalidDocument is returned for bodies that are not a non-empty JSON object.
	ErrInvalidDocument = errors.New("invalid JSON input")
)

var tracer = otel.Tracer("sitecms/internal/service")

// newSystemBody is served when nothing has been saved yet.
var newSystemBody = []byte(`{"status":"` + model.StatusNewSystem + `"}`)

// Submission is a classified POST body: exactly one of Lead or Document is set.
type Submission struct {
	Lead     *model.LeadEvent
	Document []byte
}

// ParseSubmission validates a POST body and tells a lead event apart from a document save.
// The body must be a non-empty JSON object.
func ParseSubmission(body []byte) (Submission, error) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return Submission{}, ErrInvalidDocument
	}
	if model.IsLeadEvent(obj) {
		var ev model.LeadEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return Submission{}, ErrInvalidDocument
		}
		return Submission{Lead: &ev}, nil
	}
	return Submission{Document: body}, nil
}

// ContentService defines the use cases of the persistence endpoint.
type ContentService interface {
	// Read returns the stored document verbatim, or {"status":"new_system"} when nothing is stored.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document with body, which must be a JSON object.
	Write(ctx context.Context, body []byte) error

	// RecordLead acknowledges a lead event. The main document is never touched.
	RecordLead(ctx context.Context, ev model.LeadEvent) error

	// Ping reports whether the underlying repository is reachable.
	Ping(ctx context.Context) error
}

type contentService struct {
	repo    repository.ContentRepository
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewContentService constructs a new ContentService.
func NewContentService(repo repository.ContentRepository, logger *zap.Logger, metrics *Metrics) ContentService {
	return &contentService{
		repo:    repo,
		logger:  logger.Named("content"),
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *contentService) Read(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "ContentService.Read")
	defer span.End()

	body, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.reads.WithLabelValues("new_system").Inc()
			return newSystemBody, nil
		}
		s.metrics.reads.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("load site content: %w", err)
	}
	s.metrics.reads.WithLabelValues("found").Inc()
	return body, nil
}

func (s *contentService) Write(ctx context.Context, body []byte) error {
	ctx, span := tracer.Start(ctx, "ContentService.Write")
	defer span.End()

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return ErrInvalidDocument
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "    "); err != nil {
		return ErrInvalidDocument
	}

	if dups := duplicateIDs(body); len(dups) > 0 {
		s.logger.Warn("document contains duplicate list ids", zap.Any("duplicates", dups))
	}

	if err := s.repo.Save(ctx, pretty.Bytes()); err != nil {
		s.metrics.saves.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		s.logger.Error("site content save failed", zap.Error(err))
		return fmt.Errorf("save site content: %w", err)
	}

	s.metrics.saves.WithLabelValues("success").Inc()
	s.logger.Info("site content saved", zap.Int("bytes", pretty.Len()))
	return nil
}

func (s *contentService) RecordLead(ctx context.Context, ev model.LeadEvent) error {
	_, span := tracer.Start(ctx, "ContentService.RecordLead")
	defer span.End()

	if ev.ActionType != model.LeadEventAction {
		return ErrInvalidDocument
	}
	eventTime := ev.EventTime
	if eventTime == 0 {
		eventTime = s.now().Unix()
	}

	s.metrics.leads.Inc()
	// Contact details are personal data and stay out of the logs.
	s.logger.Info("lead event logged",
		zap.Int64("event_time", eventTime),
		zap.Bool("has_email", ev.Email != ""),
	)
	return nil
}

func (s *contentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// duplicateIDs decodes body as SiteContent only to report id collisions; a body that
// does not fit the schema is stored as-is and yields no report.
func duplicateIDs(body []byte) map[string][]string {
	var doc model.SiteContent
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	return doc.DuplicateIDs()
}
