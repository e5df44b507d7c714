package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/sifan077/slugurl/internal/app/model"
	"github.com/sifan077/slugurl/internal/app/repository"
	"github.com/sifan077/slugurl/internal/app/slug"
	"go.uber.org/zap"
)

const (
	// MaxAttempts bounds how many candidate slugs a single CreateLink tries.
	MaxAttempts = 10

	// DefaultSlugLength is used when neither the input nor the deps set a length.
	DefaultSlugLength = 6

	// maxPendingEvents bounds in-flight publishes; events beyond it are dropped.
	maxPendingEvents = 256
)

// reservedSlugs would shadow fixed routes if handed out.
var reservedSlugs = map[string]struct{}{
	"health": {},
	"api":    {},
}

// IsReserved reports whether s may never be used as a slug.
func IsReserved(s string) bool {
	_, ok := reservedSlugs[s]
	return ok
}

// LinkService defines behaviour-level operations on links.
type LinkService interface {
	CreateLink(ctx context.Context, input CreateLinkInput) (*model.ShortLink, error)
	// ResolveLink records a visit and returns the updated link.
	ResolveLink(ctx context.Context, slug string) (*model.ShortLink, error)
	// GetLink returns the link without counting a visit.
	GetLink(ctx context.Context, slug string) (*model.ShortLink, error)
	HealthCheck(ctx context.Context) error
	// Close waits for in-flight event publishes to finish.
	Close()
}

// EventPublisher receives link events after the store has committed them.
type EventPublisher interface {
	Publish(eventType string, link model.ShortLink) error
}

// Metrics records service-level counters.
type Metrics interface {
	LinkCreated(attempts int)
	SlugCollision()
	ReservedSlugSkipped()
	AttemptsExhausted()
	LinkVisited()
}

// LinkServiceDeps groups dependencies required by the link service.
type LinkServiceDeps struct {
	Repo       repository.LinkRepository
	Logger     *zap.Logger
	Generator  slug.Generator
	SlugLength int
	Publisher  EventPublisher
	Metrics    Metrics
}

// CreateLinkInput captures data required to create a link.
type CreateLinkInput struct {
	Target string
	// SlugLength overrides the configured length when positive.
	SlugLength int
}

type linkService struct {
	repo       repository.LinkRepository
	logger     *zap.Logger
	generator  slug.Generator
	slugLength int
	publisher  EventPublisher
	metrics    Metrics

	pending sync.WaitGroup
	slots   chan struct{}
}

// NewLinkService returns a service implementation backed by the given repository.
func NewLinkService(deps LinkServiceDeps) LinkService {
	s := &linkService{
		repo:       deps.Repo,
		logger:     deps.Logger,
		generator:  deps.Generator,
		slugLength: deps.SlugLength,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		slots:      make(chan struct{}, maxPendingEvents),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.generator == nil {
		s.generator = slug.NewRandom()
	}
	if s.slugLength <= 0 {
		s.slugLength = DefaultSlugLength
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

func (s *linkService) CreateLink(ctx context.Context, input CreateLinkInput) (*model.ShortLink, error) {
	if err := validateTarget(input.Target); err != nil {
		return nil, err
	}

	length := input.SlugLength
	if length <= 0 {
		length = s.slugLength
	}
	if length > slug.MaxLength {
		return nil, fmt.Errorf("%w: slug length must be at most %d, got %d", ErrValidation, slug.MaxLength, length)
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: create link: %w", ErrInternal, err)
		}

		candidate := s.generator.Generate(length)
		if IsReserved(candidate) {
			s.logger.Warn("generated reserved slug, retrying",
				zap.String("slug", candidate),
				zap.Int("attempt", attempt),
			)
			s.metrics.ReservedSlugSkipped()
			continue
		}

		link, err := s.repo.Insert(ctx, candidate, input.Target)
		if err == nil {
			s.metrics.LinkCreated(attempt)
			s.logger.Debug("link created",
				zap.String("slug", link.Slug),
				zap.String("target", link.Target),
				zap.Int("attempt", attempt),
			)
			s.publish(model.LinkEventCreated, link)
			return link, nil
		}

		if errors.Is(err, repository.ErrSlugConflict) {
			s.logger.Warn("slug collision, retrying",
				zap.String("slug", candidate),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", MaxAttempts),
			)
			s.metrics.SlugCollision()
			continue
		}

		s.logger.Error("failed to insert link",
			zap.Error(err),
			zap.String("slug", candidate),
			zap.Int("attempt", attempt),
		)
		return nil, fmt.Errorf("%w: create link: %w", ErrInternal, err)
	}

	s.logger.Error("slug attempts exhausted",
		zap.Int("attempts", MaxAttempts),
		zap.Int("slug_length", length),
	)
	s.metrics.AttemptsExhausted()
	return nil, ErrMaxAttemptsExceeded
}

func (s *linkService) ResolveLink(ctx context.Context, slug string) (*model.ShortLink, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	link, err := s.repo.IncrementVisit(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to record visit", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("%w: resolve link: %w", ErrInternal, err)
	}

	s.metrics.LinkVisited()
	s.publish(model.LinkEventVisited, link)
	return link, nil
}

func (s *linkService) GetLink(ctx context.Context, slug string) (*model.ShortLink, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	link, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to load link", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("%w: get link: %w", ErrInternal, err)
	}
	return link, nil
}

func (s *linkService) HealthCheck(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("store health check failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *linkService) Close() {
	s.pending.Wait()
}

// publish hands the event off asynchronously; the store write has already
// committed, so a failed or dropped publish is only logged.
func (s *linkService) publish(eventType string, link *model.ShortLink) {
	if s.publisher == nil {
		return
	}

	select {
	case s.slots <- struct{}{}:
	default:
		s.logger.Warn("too many pending link events, dropping",
			zap.String("type", eventType),
			zap.String("slug", link.Slug),
		)
		return
	}

	snapshot := *link
	s.pending.Add(1)
	go func() {
		defer func() {
			<-s.slots
			s.pending.Done()
		}()
		if err := s.publisher.Publish(eventType, snapshot); err != nil {
			s.logger.Error("failed to publish link event",
				zap.Error(err),
				zap.String("type", eventType),
				zap.String("slug", snapshot.Slug),
			)
		}
	}()
}

// validateTarget accepts absolute URLs only. Web URLs must also carry a host.
func validateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("%w: target is required", ErrValidation)
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: target is not a valid URL", ErrValidation)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: target must be an absolute URL", ErrValidation)
	}

	scheme := strings.ToLower(u.Scheme)
	if (scheme == "http" || scheme == "https") && u.Host == "" {
		return fmt.Errorf("%w: target is missing a host", ErrValidation)
	}
	return nil
}

type nopMetrics struct{}

func (nopMetrics) LinkCreated(int) {}
func (nopMetrics) SlugCollision() {}
func (nopMetrics) ReservedSlugSkipped() {}
func (nopMetrics) AttemptsExhausted() {}
func (nopMetrics) LinkVisited() {}
