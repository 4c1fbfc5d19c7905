// Package handle orchestrates handle registration: precondition checks, registry
// submission and writing the handle back into the record.
package handle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/catalog/pidreg/internal/infrastructure/logger"
	"github.com/catalog/pidreg/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultGuardTTL bounds how long a registration guard key is held
const DefaultGuardTTL = 2 * time.Minute

// Metrics receives one call per registration attempt
type Metrics interface {
	RecordRegistration(ctx context.Context, outcome, category string)
}

// HandleService registers records on handle servers. It keeps no mutable state of its
// own; concurrent registrations of the same record are settled by the record store.
type HandleService struct {
	checker     *handle.PreconditionChecker
	client      handle.RegistryClient
	transformer handle.ContentTransformer
	records     handle.RecordRepository
	servers     handle.RegistryServerRepository
	guard       handle.RegistrationGuard
	guardTTL    time.Duration
	metrics     Metrics
	nodeURL     string
	logger      *zap.Logger
}

// Option configures a HandleService
type Option func(*HandleService)

// WithGuard narrows the double-submission window with a shared guard. Once the
// guard is held the record is read again and rechecked, so an attempt that
// completed in the meantime is reported as already registered.
func WithGuard(guard handle.RegistrationGuard, ttl time.Duration) Option {
	return func(s *HandleService) {
		s.guard = guard
		if ttl > 0 {
			s.guardTTL = ttl
		}
	}
}

// WithMetrics counts registration outcomes
func WithMetrics(m Metrics) Option {
	return func(s *HandleService) {
		s.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *HandleService) {
		s.logger = l
	}
}

// NewHandleService creates a HandleService. nodeURL is the public catalog URL used
// for landing pages when a server has no landing page template.
func NewHandleService(
	client handle.RegistryClient,
	transformer handle.ContentTransformer,
	records handle.RecordRepository,
	servers handle.RegistryServerRepository,
	nodeURL string,
	opts ...Option,
) *HandleService {
	s := &HandleService{
		checker:     handle.NewPreconditionChecker(records),
		client:      client,
		transformer: transformer,
		records:     records,
		servers:     servers,
		guardTTL:    DefaultGuardTTL,
		nodeURL:     nodeURL,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs the preconditions without registering anything
func (s *HandleService) Check(ctx context.Context, server *handle.RegistryServer, record *handle.Record) (*handle.CheckStatus, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "HandleService", "Check",
		telemetry.WithAttribute(telemetry.SpanAttrRecordUUID, record.UUID),
		telemetry.WithAttribute(telemetry.SpanAttrServerName, server.Name),
	)
	defer span.End()

	if err := s.checker.Check(ctx, server, record); err != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, errorCode(err))
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &handle.CheckStatus{Ready: true}, nil
}

// Register checks, submits and records a handle for record on server.
// The record is modified only after the registry accepted the handle; a failure after
// that point is a PartialRegistration error carrying the accepted handle URL.
func (s *HandleService) Register(ctx context.Context, server *handle.RegistryServer, record *handle.Record) (*handle.RegistrationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "HandleService", "Register",
		telemetry.WithAttribute(telemetry.SpanAttrRecordUUID, record.UUID),
		telemetry.WithAttribute(telemetry.SpanAttrServerName, server.Name),
	)
	defer span.End()

	log := logger.WithLogger(ctx, s.logger).With(
		zap.String(logger.FieldRecordUUID, record.UUID),
		zap.String(logger.FieldServer, server.Name),
	)

	var (
		result *handle.RegistrationResult
		err    error
	)
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: "handle_register",
	}, func(ctx context.Context) {
		result, err = s.register(ctx, server, record)
	})
	s.observe(ctx, err)

	if err != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, errorCode(err))
		telemetry.RecordError(span, err)
		if errors.Is(err, handle.ErrPartialRegistration) {
			log.Error("Handle registered but record not updated", zap.Error(err))
		} else {
			log.Warn("Handle registration failed", zap.Error(err))
		}
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrHandle, result.Identifier,
		telemetry.SpanAttrHandleURL, result.IdentifierURL,
	)
	telemetry.SetOK(span)
	log.Info("Handle registered",
		zap.String("handle", result.Identifier),
		zap.String("handle_url", result.IdentifierURL),
	)
	return result, nil
}

func (s *HandleService) register(ctx context.Context, server *handle.RegistryServer, record *handle.Record) (*handle.RegistrationResult, error) {
	caller := record
	if err := s.checker.Check(ctx, server, record); err != nil {
		return nil, err
	}

	identifier := handle.BuildIdentifier(server.Pattern, server.Prefix, record)
	identifierURL := handle.ResolveIdentifierURL(server, identifier)
	landingPage := handle.ResolveLandingPage(server, record.UUID, s.nodeURL)

	if !s.transformer.Supports(record.SchemaID) {
		return nil, handle.NewTransformNotFoundError(server, record)
	}

	if s.guard != nil {
		release, held, err := s.acquire(ctx, server, record)
		if err != nil {
			return nil, err
		}
		defer release()

		// an attempt that finished before the guard was taken is only visible in a
		// fresh copy of the record
		if held {
			if record, err = s.reload(ctx, server, record); err != nil {
				return nil, err
			}
		}
	}

	payload := handle.BuildPayload(server, identifierURL, landingPage)
	if err := s.client.Submit(ctx, server, identifier, payload); err != nil {
		return nil, handle.NewSubmissionFailedError(server, record, identifier, err)
	}

	content, err := s.transformer.AddIdentifier(ctx, record, handle.InsertParams{
		HandleURL: identifierURL,
		Protocol:  handle.DefaultProtocol,
		Name:      server.Name,
	})
	if err != nil {
		return nil, handle.NewPartialRegistrationError(server, record, identifierURL, err)
	}
	if err := s.records.UpdateContent(ctx, record, content, identifierURL); err != nil {
		return nil, handle.NewPartialRegistrationError(server, record, identifierURL, err)
	}
	if caller != record {
		*caller = *record
	}

	return &handle.RegistrationResult{
		Identifier:    identifier,
		IdentifierURL: identifierURL,
		LandingPage:   landingPage,
	}, nil
}

// acquire takes the registration guard and reports whether it is held. A guard
// backend failure is logged and registration continues unguarded; the record
// store version check still applies.
func (s *HandleService) acquire(ctx context.Context, server *handle.RegistryServer, record *handle.Record) (func(), bool, error) {
	key := handle.GuardKey(server.ID, record.UUID)
	noop := func() {}

	token, ok, err := s.guard.Acquire(ctx, key, s.guardTTL)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Registration guard unavailable",
			zap.String("key", key), zap.Error(err))
		return noop, false, nil
	}
	if !ok {
		return noop, false, handle.NewRegistrationInProgressError(server, record)
	}

	return func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("Failed to release registration guard", zap.String("key", key), zap.Error(err))
		}
	}, true, nil
}

// reload reads the record again under the guard and repeats the preconditions on it
func (s *HandleService) reload(ctx context.Context, server *handle.RegistryServer, record *handle.Record) (*handle.Record, error) {
	fresh, err := s.records.FindByUUID(ctx, record.UUID)
	if err != nil {
		return nil, fmt.Errorf("reload record %s: %w", record.UUID, err)
	}
	if err := s.checker.Check(ctx, server, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *HandleService) observe(ctx context.Context, err error) {
	if s.metrics == nil {
		return
	}
	if err == nil {
		s.metrics.RecordRegistration(ctx, telemetry.OutcomeRegistered, "")
		return
	}

	var herr *handle.Error
	if !errors.As(err, &herr) {
		s.metrics.RecordRegistration(ctx, telemetry.OutcomeFailed, "")
		return
	}
	switch herr.Category() {
	case handle.CategoryPersistence:
		s.metrics.RecordRegistration(ctx, telemetry.OutcomePartial, string(herr.Category()))
	case handle.CategorySubmission:
		s.metrics.RecordRegistration(ctx, telemetry.OutcomeFailed, string(herr.Category()))
	default:
		s.metrics.RecordRegistration(ctx, telemetry.OutcomeRejected, string(herr.Category()))
	}
}

// CheckByID loads the handle server and record, then runs Check
func (s *HandleService) CheckByID(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.CheckStatus, error) {
	server, record, err := s.load(ctx, serverID, recordUUID)
	if err != nil {
		return nil, err
	}
	return s.Check(ctx, server, record)
}

// RegisterByID loads the handle server and record, then runs Register
func (s *HandleService) RegisterByID(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.RegistrationResult, error) {
	server, record, err := s.load(ctx, serverID, recordUUID)
	if err != nil {
		return nil, err
	}
	return s.Register(ctx, server, record)
}

// load resolves the server and record. A server that exists but is not a handle
// server is reported as not found, like an unknown ID.
func (s *HandleService) load(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.RegistryServer, *handle.Record, error) {
	server, err := s.servers.FindByID(ctx, serverID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, errHandleServerNotFound(serverID)
		}
		return nil, nil, err
	}
	if !server.IsHandleServer() {
		return nil, nil, errHandleServerNotFound(serverID)
	}

	record, err := s.records.FindByUUID(ctx, recordUUID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("NOT_FOUND", "Record with UUID '"+recordUUID+"' not found")
		}
		return nil, nil, err
	}
	return server, record, nil
}

func errHandleServerNotFound(id uuid.UUID) error {
	return shared.NewDomainError("NOT_FOUND", "No handle server found with id '"+id.String()+"'")
}

func errorCode(err error) string {
	var herr *handle.Error
	if errors.As(err, &herr) {
		return string(herr.Code)
	}
	return ""
}
