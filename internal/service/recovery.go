package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/repository"
	"github.com/alexanderramin/sharpen/internal/scoring"
)

// Interrupted lists checkpoints left behind by sessions that are not live in
// this process, typically after a crash or an unclean shutdown.
func (m *sessionManager) Interrupted(ctx context.Context) ([]domain.Checkpoint, error) {
	cps, err := m.log.ListCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing interrupted sessions: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := cps[:0]
	for _, cp := range cps {
		if _, live := m.sessions[cp.SessionID]; live {
			continue
		}
		out = append(out, cp)
	}
	return out, nil
}

// FinalizeInterrupted records an interrupted session in history from its last
// checkpoint. The entry is dated at the checkpoint so streaks land on the day
// the work was done.
func (m *sessionManager) FinalizeInterrupted(ctx context.Context, sessionID string) (_ *domain.HistoryEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer func() { observe(ctx, m.observer, "session-recover", startedAt, err, fields) }()

	cp, err := m.interruptedCheckpoint(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	elapsed := cp.ElapsedMs
	if elapsed > cp.TotalDurationMs {
		elapsed = cp.TotalDurationMs
	}
	score, err := m.completionScore(cp.Kind, cp.SubmissionScores, cp.Points, domain.CompletionData{}, scoring.Context{
		TotalDurationMs: cp.TotalDurationMs,
		ElapsedMs:       elapsed,
	})
	if err != nil {
		return nil, fmt.Errorf("recovering session %s: %w", sessionID, err)
	}
	entry := &domain.HistoryEntry{
		SessionID:        cp.SessionID,
		Kind:             cp.Kind,
		ReferenceID:      cp.ReferenceID,
		Category:         cp.Category,
		StartedAt:        cp.StartedAt,
		CompletedAt:      cp.UpdatedAt,
		DurationActualMs: elapsed,
		CompositeScore:   score,
		Reason:           domain.ReasonRecovered,
	}
	if cp.Kind == domain.KindClarityReset {
		entry.ThinkingImpact = m.engine.ThinkingImpact(nil)
	}
	if err := m.log.AppendHistoryEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			_ = m.log.DeleteCheckpoint(ctx, sessionID)
			return nil, fmt.Errorf("recovering session %s: already in history: %w", sessionID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("recovering session %s: %w", sessionID, err)
	}
	fields["kind"] = string(entry.Kind)
	fields["reason"] = string(entry.Reason)
	fields["score"] = entry.CompositeScore
	return entry, nil
}

// DiscardInterrupted drops an interrupted session without a history entry.
func (m *sessionManager) DiscardInterrupted(ctx context.Context, sessionID string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, m.observer, "session-discard", startedAt, err, map[string]any{"session_id": sessionID})
	}()

	if _, err := m.interruptedCheckpoint(ctx, sessionID); err != nil {
		return err
	}
	if err := m.log.DeleteCheckpoint(ctx, sessionID); err != nil {
		return fmt.Errorf("discarding session %s: %w", sessionID, err)
	}
	return nil
}

func (m *sessionManager) interruptedCheckpoint(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	m.mu.Lock()
	_, live := m.sessions[sessionID]
	m.mu.Unlock()
	if live {
		return nil, fmt.Errorf("session %s is live in this process: %w", sessionID, domain.ErrInvalidState)
	}
	cp, err := m.log.GetCheckpoint(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("interrupted session %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading checkpoint %s: %w", sessionID, err)
	}
	return cp, nil
}
