package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// Session errors.
var (
	ErrNoGroup            = errors.New("patient has no care group")
	ErrNoImages           = errors.New("care group has no images")
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrEmptyDescription   = errors.New("description is empty")
	ErrScoreCountMismatch = errors.New("scorer returned a different number of results")
)

// BlockedNotice is shown when today's session was already completed.
const BlockedNotice = "Ya realizaste tu sesión de hoy, vuelve mañana"

// SessionController runs daily test sessions against a store and a scorer.
type SessionController struct {
	store      contract.SessionStore
	scorer     contract.Scorer
	now        func() time.Time
	rng        *rand.Rand
	sampleSize int
	dayGuard   schema.DayGuardMode
}

// SessionOption configures a SessionController.
type SessionOption func(*SessionController)

// WithClock overrides the clock used for the day guard and report timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(c *SessionController) { c.now = now }
}

// WithRand overrides the random source used to sample images.
func WithRand(rng *rand.Rand) SessionOption {
	return func(c *SessionController) { c.rng = rng }
}

// WithSampleSize sets how many images a session shows. Non-positive values are ignored.
func WithSampleSize(n int) SessionOption {
	return func(c *SessionController) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// WithDayGuard selects how "already completed today" is decided.
func WithDayGuard(mode schema.DayGuardMode) SessionOption {
	return func(c *SessionController) { c.dayGuard = mode }
}

// NewSessionController creates a controller with a five-image sample and the calendar day guard.
func NewSessionController(store contract.SessionStore, scorer contract.Scorer, opts ...SessionOption) *SessionController {
	c := &SessionController{
		store:      store,
		scorer:     scorer,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sampleSize: contract.DefaultSampleSize,
		dayGuard:   schema.CalendarDayGuard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is the in-memory state of one test run. It is never persisted.
type Session struct {
	PatientID string
	State     schema.SessionState
	Notice    string

	images      []schema.Image
	position    int
	description string
	pairs       []schema.DescriptionPair
}

// Start opens a session for the patient. A patient who already completed today's
// session gets a Blocked session with a notice, not an error.
func (c *SessionController) Start(ctx context.Context, patientID string) (*Session, error) {
	latest, err := c.store.LatestReport(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest report: %w", err)
	}
	if latest != nil && c.completedToday(latest.CreatedAt) {
		slog.Info("daily session refused", "patient", patientID, "last_report", latest.CreatedAt)
		return &Session{PatientID: patientID, State: schema.SessionBlocked, Notice: BlockedNotice}, nil
	}

	group, err := c.store.FindGroupForUser(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve care group: %w", err)
	}
	if group == nil {
		return nil, ErrNoGroup
	}

	images, err := c.store.ListImages(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	sample := sampleImages(images, c.sampleSize, c.rng)
	slog.Debug("daily session started", "patient", patientID, "group", group.ID, "images", len(sample))
	return &Session{
		PatientID: patientID,
		State:     schema.SessionInProgress,
		images:    sample,
	}, nil
}

// completedToday applies the configured day guard to the latest report time.
func (c *SessionController) completedToday(last time.Time) bool {
	now := c.now()
	last = last.In(now.Location())
	if c.dayGuard == schema.DayOfMonthGuard {
		return last.Day() == now.Day()
	}
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	return ly == ny && lm == nm && ld == nd
}

// sampleImages draws up to n images uniformly without replacement, in random order.
func sampleImages(images []schema.Image, n int, rng *rand.Rand) []schema.Image {
	pool := make([]schema.Image, len(images))
	copy(pool, images)
	n = min(n, len(pool))
	// Partial Fisher-Yates: the first n slots end up a shuffled uniform sample
	for i := range n {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Current returns the image at the current position.
func (s *Session) Current() (schema.Image, bool) {
	if s.State != schema.SessionInProgress || s.position >= len(s.images) {
		return schema.Image{}, false
	}
	return s.images[s.position], true
}

// Position returns the zero-based index of the current image.
func (s *Session) Position() int { return s.position }

// Total returns the number of images in the session.
func (s *Session) Total() int { return len(s.images) }

// Pairs returns a copy of the collected description pairs.
func (s *Session) Pairs() []schema.DescriptionPair {
	out := make([]schema.DescriptionPair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// SetDescription stores the text typed for the current image.
func (s *Session) SetDescription(text string) error {
	if s.State != schema.SessionInProgress {
		return fmt.Errorf("%w: cannot describe in state %s", ErrInvalidTransition, s.State)
	}
	s.description = text
	return nil
}

// CanAdvance reports whether Next is allowed.
func (s *Session) CanAdvance() bool {
	return s.State == schema.SessionInProgress && strings.TrimSpace(s.description) != ""
}

// Next records the current pair and moves on. After the last image the session
// moves to Scoring.
func (s *Session) Next() error {
	if s.State != schema.SessionInProgress {
		return fmt.Errorf("%w: cannot advance in state %s", ErrInvalidTransition, s.State)
	}
	if !s.CanAdvance() {
		return ErrEmptyDescription
	}
	s.pairs = append(s.pairs, schema.DescriptionPair{
		Original: s.images[s.position].Description,
		Patient:  s.description,
	})
	s.description = ""
	if s.position == len(s.images)-1 {
		s.State = schema.SessionScoring
		return nil
	}
	s.position++
	return nil
}

// Cancel abandons the session. It is only allowed before scoring starts.
func (s *Session) Cancel() error {
	switch s.State {
	case schema.SessionInProgress, schema.SessionBlocked, schema.SessionIdle:
		s.reset()
		return nil
	default:
		return fmt.Errorf("%w: cannot cancel in state %s", ErrInvalidTransition, s.State)
	}
}

func (s *Session) reset() {
	s.State = schema.SessionIdle
	s.Notice = ""
	s.images = nil
	s.position = 0
	s.description = ""
	s.pairs = nil
}

func (s *Session) clear() {
	s.reset()
	s.State = schema.SessionDone
}

// Finish scores the collected pairs with one scorer call and persists the
// aggregate report. Any failure returns the session to Idle with nothing written.
func (c *SessionController) Finish(ctx context.Context, s *Session) (*schema.Report, error) {
	if s.State != schema.SessionScoring {
		return nil, fmt.Errorf("%w: cannot finish in state %s", ErrInvalidTransition, s.State)
	}

	pairs := s.Pairs()
	scores, err := c.scorer.Score(ctx, pairs)
	if err != nil {
		s.reset()
		return nil, fmt.Errorf("failed to score session: %w", err)
	}
	if len(scores) != len(pairs) {
		s.reset()
		return nil, fmt.Errorf("%w: got %d results for %d descriptions", ErrScoreCountMismatch, len(scores), len(pairs))
	}

	report := schema.Report{
		UserID:    s.PatientID,
		Kind:      schema.GeneralKind,
		CreatedAt: c.now(),
		Scores:    meanScores(scores),
	}

	s.State = schema.SessionPersisting
	saved, err := c.store.InsertReport(ctx, report)
	if err != nil {
		s.reset()
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	s.clear()
	slog.Info("daily session completed", "patient", saved.UserID, "report", saved.ID)
	return &saved, nil
}

// meanScores averages each criterion into its own slot.
func meanScores(scores []schema.CriterionScores) schema.CriterionScores {
	var totals [schema.NumCriteria]float64
	for _, s := range scores {
		for i, v := range s.Values() {
			totals[i] += v
		}
	}
	n := float64(len(scores))
	for i := range totals {
		totals[i] /= n
	}
	return schema.ScoresFromValues(totals)
}
