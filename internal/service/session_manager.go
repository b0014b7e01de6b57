package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sharpen/internal/catalog"
	"github.com/alexanderramin/sharpen/internal/clock"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/repository"
	"github.com/alexanderramin/sharpen/internal/scoring"
)

// timeoutPersistBudget bounds the history write made from a clock callback,
// which has no caller context.
const timeoutPersistBudget = 10 * time.Second

// liveSession pairs a session with its countdown. mu serializes caller
// operations with clock callbacks for this session only.
type liveSession struct {
	mu        sync.Mutex
	session   domain.Session
	countdown *clock.Countdown
	gone      bool
}

// closedLocked reports whether the session can no longer change.
func (ls *liveSession) closedLocked() bool {
	return ls.gone || ls.session.State.IsTerminal()
}

type sessionManager struct {
	// mu guards the indexes below. Lock order is mu then liveSession.mu.
	mu       sync.Mutex
	sessions map[string]*liveSession
	openKind map[domain.SessionKind]string
	closed   bool

	userID      string
	catalog     catalog.Catalog
	log         repository.SessionLog
	engine      *scoring.Engine
	entitled    EntitlementFunc
	clock       clock.Source
	checkpoints *checkpointWriter
	observer    UseCaseObserver
	logger      *slog.Logger
	newID       func() string
}

// SessionManagerOption customizes a session manager.
type SessionManagerOption func(*sessionManagerOptions)

type sessionManagerOptions struct {
	userID     string
	clock      clock.Source
	checkpoint CheckpointConfig
	logger     *slog.Logger
	observers  []UseCaseObserver
	newID      func() string
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(src clock.Source) SessionManagerOption {
	return func(o *sessionManagerOptions) { o.clock = src }
}

func WithUserID(id string) SessionManagerOption {
	return func(o *sessionManagerOptions) { o.userID = id }
}

func WithCheckpointConfig(cfg CheckpointConfig) SessionManagerOption {
	return func(o *sessionManagerOptions) { o.checkpoint = cfg }
}

func WithLogger(logger *slog.Logger) SessionManagerOption {
	return func(o *sessionManagerOptions) { o.logger = logger }
}

func WithObservers(observers ...UseCaseObserver) SessionManagerOption {
	return func(o *sessionManagerOptions) { o.observers = append(o.observers, observers...) }
}

// WithIDGenerator replaces the UUID session id generator.
func WithIDGenerator(fn func() string) SessionManagerOption {
	return func(o *sessionManagerOptions) { o.newID = fn }
}

// NewSessionManager wires a session manager. The caller must Close it to
// flush checkpoints.
func NewSessionManager(
	cat catalog.Catalog,
	log repository.SessionLog,
	engine *scoring.Engine,
	entitled EntitlementFunc,
	opts ...SessionManagerOption,
) SessionManager {
	o := sessionManagerOptions{
		userID:     "default",
		clock:      clock.System{},
		checkpoint: DefaultCheckpointConfig(),
		logger:     slog.Default(),
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if entitled == nil {
		entitled = StaticEntitlement(false)
	}
	return &sessionManager{
		sessions:    make(map[string]*liveSession),
		openKind:    make(map[domain.SessionKind]string),
		userID:      o.userID,
		catalog:     cat,
		log:         log,
		engine:      engine,
		entitled:    entitled,
		clock:       o.clock,
		checkpoints: newCheckpointWriter(log, o.checkpoint, o.logger),
		observer:    useCaseObserverOrNoop(o.observers),
		logger:      o.logger,
		newID:       o.newID,
	}
}

func (m *sessionManager) Start(ctx context.Context, kind domain.SessionKind, referenceID string) (_ domain.Session, err error) {
	startedAt := time.Now()
	fields := map[string]any{"kind": string(kind), "reference_id": referenceID}
	defer func() { observe(ctx, m.observer, "session-start", startedAt, err, fields) }()

	activity, err := m.catalog.Lookup(ctx, kind, referenceID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("starting session: %w", err)
	}
	if activity.IsPremium && !m.entitled(ctx, m.userID) {
		return domain.Session{}, fmt.Errorf("starting %s/%s: premium activity: %w", kind, referenceID, domain.ErrAccessDenied)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.Session{}, fmt.Errorf("starting session: manager closed: %w", domain.ErrInvalidState)
	}
	if id, ok := m.openKind[kind]; ok {
		if open := m.sessions[id]; open != nil && !m.isClosed(open) {
			return domain.Session{}, fmt.Errorf("starting %s session: session %s still open: %w", kind, id, domain.ErrConflict)
		}
	}

	now := m.clock.Now()
	ls := &liveSession{session: domain.Session{
		ID:              m.newID(),
		Kind:            kind,
		ReferenceID:     referenceID,
		Category:        activity.Category,
		TotalDurationMs: activity.TotalDuration.Milliseconds(),
		State:           domain.StateActive,
		StartedAt:       now,
	}}
	ls.mu.Lock()
	ls.countdown = clock.StartCountdown(m.clock, activity.TotalDuration,
		func(time.Duration) { m.onTick(ls) },
		func() { m.onExpire(ls) },
	)
	m.checkpoints.Enqueue(domain.NewCheckpoint(&ls.session, now))
	snap := ls.session.Snapshot()
	ls.mu.Unlock()

	m.sessions[snap.ID] = ls
	m.openKind[kind] = snap.ID
	fields["session_id"] = snap.ID
	return snap, nil
}

func (m *sessionManager) Submit(ctx context.Context, sessionID string, artifact domain.Artifact) (_ domain.ScoreResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer func() { observe(ctx, m.observer, "session-submit", startedAt, err, fields) }()

	ls, err := m.lookup(sessionID)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone {
		return domain.ScoreResult{}, notFound(sessionID)
	}
	if m.timeUpLocked(ctx, ls) {
		return domain.ScoreResult{}, fmt.Errorf("submitting to session %s: time is up: %w", sessionID, domain.ErrInvalidState)
	}
	if ls.session.State != domain.StateActive {
		return domain.ScoreResult{}, fmt.Errorf("submitting to session %s in state %s: %w", sessionID, ls.session.State, domain.ErrInvalidState)
	}

	ls.session.ElapsedMs = ls.countdown.Elapsed().Milliseconds()
	res, err := m.engine.Score(ls.session.Kind, artifact, scoring.Context{
		TotalDurationMs: ls.session.TotalDurationMs,
		ElapsedMs:       ls.session.ElapsedMs,
	})
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("submitting to session %s: %w", sessionID, err)
	}
	now := m.clock.Now()
	ls.session.Submissions = append(ls.session.Submissions, domain.Submission{
		Artifact:    artifact,
		Result:      res,
		SubmittedAt: now,
	})
	m.checkpoints.Enqueue(domain.NewCheckpoint(&ls.session, now))

	fields["kind"] = string(ls.session.Kind)
	fields["submission_score"] = res.Composite
	snap := ls.session.Snapshot()
	return snap.Submissions[len(snap.Submissions)-1].Result, nil
}

func (m *sessionManager) Pause(ctx context.Context, sessionID string) (_ domain.Session, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, m.observer, "session-pause", startedAt, err, map[string]any{"session_id": sessionID})
	}()

	ls, err := m.lookup(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone {
		return domain.Session{}, notFound(sessionID)
	}
	if m.timeUpLocked(ctx, ls) {
		return domain.Session{}, fmt.Errorf("pausing session %s: time is up: %w", sessionID, domain.ErrInvalidState)
	}
	if ls.session.State != domain.StateActive {
		return domain.Session{}, fmt.Errorf("pausing session %s in state %s: %w", sessionID, ls.session.State, domain.ErrInvalidState)
	}
	ls.countdown.Pause()
	ls.session.ElapsedMs = ls.countdown.Elapsed().Milliseconds()
	ls.session.State = domain.StatePaused
	m.checkpoints.Enqueue(domain.NewCheckpoint(&ls.session, m.clock.Now()))
	return ls.session.Snapshot(), nil
}

func (m *sessionManager) Resume(ctx context.Context, sessionID string) (_ domain.Session, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, m.observer, "session-resume", startedAt, err, map[string]any{"session_id": sessionID})
	}()

	ls, err := m.lookup(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone {
		return domain.Session{}, notFound(sessionID)
	}
	if ls.session.State != domain.StatePaused {
		return domain.Session{}, fmt.Errorf("resuming session %s in state %s: %w", sessionID, ls.session.State, domain.ErrInvalidState)
	}
	if !ls.countdown.Resume() {
		// Only reachable after a timeout whose history write failed.
		return domain.Session{}, fmt.Errorf("resuming session %s: time is up, complete it instead: %w", sessionID, domain.ErrInvalidState)
	}
	ls.session.State = domain.StateActive
	m.checkpoints.Enqueue(domain.NewCheckpoint(&ls.session, m.clock.Now()))
	return ls.session.Snapshot(), nil
}

func (m *sessionManager) Complete(ctx context.Context, sessionID string, data domain.CompletionData) (_ *domain.HistoryEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer func() { observe(ctx, m.observer, "session-complete", startedAt, err, fields) }()

	ls, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone {
		return nil, notFound(sessionID)
	}
	if ls.session.State != domain.StateActive && ls.session.State != domain.StatePaused {
		return nil, fmt.Errorf("completing session %s in state %s: %w", sessionID, ls.session.State, domain.ErrInvalidState)
	}
	entry, err := m.completeLocked(ctx, ls, data, domain.ReasonExplicit)
	if err != nil {
		return nil, err
	}
	fields["kind"] = string(entry.Kind)
	fields["reason"] = string(entry.Reason)
	fields["score"] = entry.CompositeScore
	return entry, nil
}

func (m *sessionManager) Abandon(ctx context.Context, sessionID string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, m.observer, "session-abandon", startedAt, err, map[string]any{"session_id": sessionID})
	}()

	ls, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	ls.mu.Lock()
	if ls.closedLocked() {
		gone := ls.gone
		ls.mu.Unlock()
		if gone {
			return notFound(sessionID)
		}
		return fmt.Errorf("abandoning session %s: already completed: %w", sessionID, domain.ErrInvalidState)
	}
	ls.countdown.Cancel()
	ls.gone = true
	kind := ls.session.Kind
	m.checkpoints.Forget(sessionID)
	ls.mu.Unlock()

	m.mu.Lock()
	delete(m.sessions, sessionID)
	if m.openKind[kind] == sessionID {
		delete(m.openKind, kind)
	}
	m.mu.Unlock()

	if err := m.log.DeleteCheckpoint(ctx, sessionID); err != nil {
		return fmt.Errorf("abandoning session %s: %w", sessionID, err)
	}
	return nil
}

func (m *sessionManager) Get(_ context.Context, sessionID string) (domain.Session, error) {
	ls, err := m.lookup(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone {
		return domain.Session{}, notFound(sessionID)
	}
	if ls.session.State == domain.StateActive {
		ls.session.ElapsedMs = ls.countdown.Elapsed().Milliseconds()
	}
	return ls.session.Snapshot(), nil
}

func (m *sessionManager) Active(ctx context.Context, kind domain.SessionKind) (domain.Session, error) {
	m.mu.Lock()
	id, ok := m.openKind[kind]
	m.mu.Unlock()
	if !ok {
		return domain.Session{}, fmt.Errorf("no open %s session: %w", kind, domain.ErrNotFound)
	}
	s, err := m.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if s.State.IsTerminal() {
		return domain.Session{}, fmt.Errorf("no open %s session: %w", kind, domain.ErrNotFound)
	}
	return s, nil
}

func (m *sessionManager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	live := make([]*liveSession, 0, len(m.sessions))
	for _, ls := range m.sessions {
		live = append(live, ls)
	}
	m.mu.Unlock()

	now := m.clock.Now()
	for _, ls := range live {
		ls.mu.Lock()
		if !ls.closedLocked() {
			ls.countdown.Pause()
			ls.session.ElapsedMs = ls.countdown.Elapsed().Milliseconds()
			ls.session.State = domain.StatePaused
			m.checkpoints.Enqueue(domain.NewCheckpoint(&ls.session, now))
			ls.countdown.Cancel()
		}
		ls.mu.Unlock()
	}
	if err := m.checkpoints.Close(ctx); err != nil {
		return fmt.Errorf("flushing checkpoints: %w", err)
	}
	return nil
}

func (m *sessionManager) onTick(ls *liveSession) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone || ls.session.State != domain.StateActive {
		return
	}
	ls.session.ElapsedMs = ls.countdown.Elapsed().Milliseconds()
	m.checkpoints.Enqueue(domain.NewCheckpoint(&ls.session, m.clock.Now()))
}

func (m *sessionManager) onExpire(ls *liveSession) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.gone || ls.session.State != domain.StateActive {
		return
	}
	m.timeoutLocked(context.Background(), ls)
}

// timeUpLocked records the timeout of an active session whose countdown has
// run out before its expiry callback got ls.mu. It reports whether the
// session was out of time. ls.mu must be held.
func (m *sessionManager) timeUpLocked(ctx context.Context, ls *liveSession) bool {
	if ls.session.State != domain.StateActive || ls.countdown.Remaining() > 0 {
		return false
	}
	m.timeoutLocked(context.WithoutCancel(ctx), ls)
	return true
}

// timeoutLocked completes ls with the timeout reason. A failed write is
// logged and leaves the session paused. ls.mu must be held.
func (m *sessionManager) timeoutLocked(parent context.Context, ls *liveSession) {
	ctx, cancel := context.WithTimeout(parent, timeoutPersistBudget)
	defer cancel()

	startedAt := time.Now()
	fields := map[string]any{"session_id": ls.session.ID, "kind": string(ls.session.Kind)}
	entry, err := m.completeLocked(ctx, ls, domain.CompletionData{}, domain.ReasonTimeout)
	if err != nil {
		m.logger.ErrorContext(ctx, "auto-complete failed",
			"session_id", ls.session.ID,
			"error", err,
		)
	} else {
		fields["reason"] = string(entry.Reason)
		fields["score"] = entry.CompositeScore
	}
	observe(ctx, m.observer, "session-timeout", startedAt, err, fields)
}

// completeLocked freezes the clock, scores the session and appends its
// history entry. On a failed write the session is left Paused so the caller
// can retry. ls.mu must be held.
func (m *sessionManager) completeLocked(ctx context.Context, ls *liveSession, data domain.CompletionData, reason domain.CompletionReason) (*domain.HistoryEntry, error) {
	s := &ls.session
	wasActive := s.State == domain.StateActive
	ls.countdown.Pause()
	s.ElapsedMs = ls.countdown.Elapsed().Milliseconds()

	score, err := m.completionScore(s.Kind, s.SubmissionScores(), s.SubmittedPoints(), data, scoring.Context{
		TotalDurationMs: s.TotalDurationMs,
		ElapsedMs:       s.ElapsedMs,
	})
	if err != nil {
		if wasActive {
			ls.countdown.Resume()
		}
		return nil, fmt.Errorf("completing session %s: %w", s.ID, err)
	}

	now := m.clock.Now()
	entry := &domain.HistoryEntry{
		SessionID:        s.ID,
		Kind:             s.Kind,
		ReferenceID:      s.ReferenceID,
		Category:         s.Category,
		StartedAt:        s.StartedAt,
		CompletedAt:      now,
		DurationActualMs: s.ElapsedMs,
		CompositeScore:   score,
		Subjective:       subjectiveFrom(data),
		Reason:           reason,
	}
	if s.Kind == domain.KindClarityReset {
		entry.ThinkingImpact = m.engine.ThinkingImpact(data.FogLevel)
	}

	m.checkpoints.Forget(s.ID)
	if err := m.log.AppendHistoryEntry(ctx, entry); err != nil {
		s.State = domain.StatePaused
		m.checkpoints.Enqueue(domain.NewCheckpoint(s, now))
		return nil, fmt.Errorf("completing session %s: %w", s.ID, err)
	}

	ls.countdown.Cancel()
	s.State = domain.StateCompleted
	s.CompletedAt = &now
	m.logger.InfoContext(ctx, "session completed",
		"session_id", s.ID,
		"kind", s.Kind,
		"reason", reason,
		"score", score,
		"seq", entry.Seq,
	)
	return entry, nil
}

// completionScore derives the composite recorded in history. Prompt drills
// average their submissions; the other kinds score the completion payload.
func (m *sessionManager) completionScore(kind domain.SessionKind, submissionScores []int, submittedPoints int, data domain.CompletionData, sc scoring.Context) (int, error) {
	switch kind {
	case domain.KindPromptDrill:
		return scoring.MeanComposite(submissionScores), nil
	case domain.KindClarityReset:
		res, err := m.engine.Score(kind, domain.Artifact{FogLevel: data.FogLevel, Intent: data.Intent, Note: data.Note}, sc)
		return res.Composite, err
	case domain.KindWorkout:
		points := submittedPoints
		if data.Points != nil {
			points = *data.Points
		}
		res, err := m.engine.Score(kind, domain.Artifact{Points: points}, sc)
		return res.Composite, err
	}
	return 0, fmt.Errorf("unknown session kind %q: %w", kind, domain.ErrInvalidArtifact)
}

func (m *sessionManager) lookup(sessionID string) (*liveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls, ok := m.sessions[sessionID]
	if !ok {
		return nil, notFound(sessionID)
	}
	return ls, nil
}

// isClosed locks ls briefly. Callers hold m.mu, which precedes ls.mu.
func (m *sessionManager) isClosed(ls *liveSession) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.closedLocked()
}

func notFound(sessionID string) error {
	return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
}

func subjectiveFrom(data domain.CompletionData) *domain.SubjectiveMetrics {
	if data.FogLevel == nil && data.Intent == "" && data.Note == "" {
		return nil
	}
	out := &domain.SubjectiveMetrics{Intent: data.Intent, Note: data.Note}
	if data.FogLevel != nil {
		fog := *data.FogLevel
		out.FogLevel = &fog
	}
	return out
}
