package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"postflow/internal/content"
	"postflow/internal/domain"
	"postflow/internal/publisher"
	"postflow/internal/store"
)

var (
	ErrNotFound       = errors.New("scheduled post not found")
	ErrNotPending     = errors.New("scheduled post is not pending")
	ErrInvalidRequest = errors.New("invalid schedule request")
)

const upcomingWindow = 24 * time.Hour

// Service owns the schedule document. Every load/mutate/save sequence runs
// under one mutex: the store does whole-document replacement, so two
// interleaved writers would silently drop each other's updates.
type Service struct {
	mu      sync.Mutex
	store   store.ScheduleStore
	content content.Store
	pub     publisher.Publisher
	now     func() time.Time
}

func New(st store.ScheduleStore, ct content.Store, pub publisher.Publisher) *Service {
	return &Service{store: st, content: ct, pub: pub, now: time.Now}
}

type ScheduleRequest struct {
	GenerationID string
	Brand        string
	Platforms    []string
	ScheduledFor time.Time
}

func (r ScheduleRequest) validate() error {
	if r.GenerationID == "" {
		return fmt.Errorf("%w: generation id is required", ErrInvalidRequest)
	}
	if r.Brand == "" {
		return fmt.Errorf("%w: brand is required", ErrInvalidRequest)
	}
	if len(r.Platforms) == 0 {
		return fmt.Errorf("%w: at least one platform is required", ErrInvalidRequest)
	}
	if r.ScheduledFor.IsZero() {
		return fmt.Errorf("%w: scheduledFor is required", ErrInvalidRequest)
	}
	for _, p := range r.Platforms {
		if _, ok := domain.ParsePlatform(p); !ok {
			return fmt.Errorf("%w: unsupported platform %q", ErrInvalidRequest, p)
		}
	}
	return nil
}

// Schedule appends a pending post and returns its id. The generation id is
// not checked against the content queue here: callers may schedule ahead of
// generation, and a missing item is surfaced at dispatch time instead. Past
// scheduledFor values are accepted and become due immediately.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.store.Load()
	if err != nil {
		return "", err
	}

	targets := make([]domain.Platform, len(req.Platforms))
	for i, p := range req.Platforms {
		targets[i] = domain.Platform(p)
	}

	post := domain.ScheduledPost{
		ID:           "sp_" + uuid.NewString(),
		GenerationID: req.GenerationID,
		Brand:        req.Brand,
		Platforms:    targets,
		ScheduledFor: req.ScheduledFor,
		Status:       domain.StatusPending,
		CreatedAt:    s.now(),
	}
	posts = append(posts, post)

	if err := s.store.Save(posts); err != nil {
		return "", err
	}

	log.Info().
		Str("schedule_id", post.ID).
		Str("generation_id", post.GenerationID).
		Str("brand", post.Brand).
		Time("scheduled_for", post.ScheduledFor).
		Msg("post scheduled")
	return post.ID, nil
}

// Cancel deletes a pending post outright. Published and failed posts are
// terminal and cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.store.Load()
	if err != nil {
		return err
	}
	for i, p := range posts {
		if p.ID != id {
			continue
		}
		if p.Status != domain.StatusPending {
			return fmt.Errorf("%w: status is %s", ErrNotPending, p.Status)
		}
		posts = append(posts[:i], posts[i+1:]...)
		if err := s.store.Save(posts); err != nil {
			return err
		}
		log.Info().Str("schedule_id", id).Msg("scheduled post cancelled")
		return nil
	}
	return ErrNotFound
}

// Scheduled returns every record in store order.
func (s *Service) Scheduled(ctx context.Context) ([]domain.ScheduledPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Upcoming returns pending posts due within the next 24 hours, both window
// edges inclusive, ascending by scheduled time.
func (s *Service) Upcoming(ctx context.Context) ([]domain.ScheduledPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	now := s.now()
	end := now.Add(upcomingWindow)
	var upcoming []domain.ScheduledPost
	for _, p := range posts {
		if p.Status != domain.StatusPending {
			continue
		}
		if p.ScheduledFor.Before(now) || p.ScheduledFor.After(end) {
			continue
		}
		upcoming = append(upcoming, p)
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledFor.Before(upcoming[j].ScheduledFor)
	})
	return upcoming, nil
}

// Summary counts how many records this pass moved to published vs failed.
// Records already terminal before the pass are not counted.
type Summary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// ProcessDue runs one dispatch pass. Due-ness is judged against a single
// timestamp captured at the start, so a post becoming due mid-pass waits for
// the next one. Each due record gets exactly one publish attempt; failures
// are recorded on the record and never abort the pass. The document is saved
// once at the end — a crash mid-pass redoes the whole pass next time.
func (s *Service) ProcessDue(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.store.Load()
	if err != nil {
		return Summary{}, err
	}

	now := s.now()
	var sum Summary
	dirty := false
	for i := range posts {
		p := &posts[i]
		if p.Status != domain.StatusPending || p.ScheduledFor.After(now) {
			continue
		}

		errMsg := s.dispatch(ctx, p)
		attempted := now
		p.PublishedAt = &attempted // attempt completed, regardless of outcome
		if errMsg == "" {
			p.Status = domain.StatusPublished
			sum.Processed++
			log.Info().
				Str("schedule_id", p.ID).
				Str("brand", p.Brand).
				Msg("scheduled post published")
		} else {
			p.Status = domain.StatusFailed
			p.Error = errMsg
			sum.Errors++
			log.Error().
				Str("schedule_id", p.ID).
				Str("brand", p.Brand).
				Str("error", errMsg).
				Msg("scheduled post failed")
		}
		dirty = true
	}

	if dirty {
		if err := s.store.Save(posts); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// dispatch attempts one post and returns "" on full success or the failure
// message to record. All per-record errors are flattened here so the caller
// can keep iterating.
func (s *Service) dispatch(ctx context.Context, p *domain.ScheduledPost) string {
	c, ok, err := s.content.Lookup(ctx, p.GenerationID)
	if err != nil {
		return fmt.Sprintf("content lookup: %v", err)
	}
	if !ok {
		return "Content not found in queue"
	}

	text := c.TextFor(p.Platforms)
	if text == "" {
		return "Content has no text"
	}
	if len(c.Hashtags) > 0 {
		tags := make([]string, len(c.Hashtags))
		for i, h := range c.Hashtags {
			tags[i] = "#" + h
		}
		text = text + " " + strings.Join(tags, " ")
	}

	results, err := s.pub.Publish(ctx, domain.PublishRequest{
		Brand:     p.Brand,
		Text:      text,
		ImageURL:  c.ImageURL,
		Platforms: p.Platforms,
	})
	if err != nil {
		return fmt.Sprintf("publish: %v", err)
	}

	var failures []string
	for _, r := range results {
		if !r.Success {
			failures = append(failures, fmt.Sprintf("%s: %s", r.Platform, r.Error))
		}
	}
	if len(failures) > 0 {
		return strings.Join(failures, "; ")
	}
	return ""
}
