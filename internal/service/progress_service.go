package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/progress"
	"github.com/alexanderramin/sharpen/internal/repository"
)

// ProgressConfig carries the per-user settings of the progress service.
type ProgressConfig struct {
	UserID    string
	Location  *time.Location
	Recommend progress.RecommendConfig
}

type progressService struct {
	log      repository.SessionLog
	calc     *progress.Calculator
	gate     *progress.Gate
	entitled EntitlementFunc
	cfg      ProgressConfig
	observer UseCaseObserver
}

func NewProgressService(
	log repository.SessionLog,
	calc *progress.Calculator,
	gate *progress.Gate,
	entitled EntitlementFunc,
	cfg ProgressConfig,
	observers ...UseCaseObserver,
) ProgressService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.UserID == "" {
		cfg.UserID = "default"
	}
	if entitled == nil {
		entitled = StaticEntitlement(false)
	}
	return &progressService{
		log:      log,
		calc:     calc,
		gate:     gate,
		entitled: entitled,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *progressService) Progress(ctx context.Context, req contract.ProgressRequest) (_ *contract.ProgressResponse, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "progress", startedAt, err, nil) }()

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}
	entries, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	premium := s.entitled(ctx, s.cfg.UserID)
	profile := s.calc.ComputeProfile(entries, now)
	streak := progress.ComputeStreak(entries, now, s.cfg.Location)
	stats := progress.ComputeClarityStats(entries, now, s.cfg.Location)

	resp := &contract.ProgressResponse{
		GeneratedAt:    now,
		Premium:        premium,
		TotalSessions:  len(entries),
		Streak:         newStreakView(streak),
		Readiness:      profile,
		Clarity:        stats,
		Recommendation: progress.Recommend(s.cfg.Recommend, entries, stats, premium),
	}

	features := s.gate.Features()
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d, err := s.gate.CheckFeature(profile, name)
		if err != nil {
			return nil, fmt.Errorf("checking feature %s: %w", name, err)
		}
		resp.Features = append(resp.Features, contract.FeatureAccessView{Feature: name, Decision: d})
	}
	return resp, nil
}

func (s *progressService) History(ctx context.Context, f repository.HistoryFilter) ([]domain.HistoryEntry, error) {
	entries, err := s.log.ListHistory(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

func (s *progressService) Streak(ctx context.Context, now time.Time) (domain.StreakState, error) {
	entries, err := s.history(ctx)
	if err != nil {
		return domain.StreakState{}, err
	}
	return progress.ComputeStreak(entries, now, s.cfg.Location), nil
}

func (s *progressService) Readiness(ctx context.Context, category string, now time.Time) (int, error) {
	entries, err := s.history(ctx)
	if err != nil {
		return 0, err
	}
	return s.calc.ComputeReadiness(entries, category, now), nil
}

func (s *progressService) HasAccess(ctx context.Context, category string, requiredLevel int, now time.Time) (progress.Decision, error) {
	entries, err := s.history(ctx)
	if err != nil {
		return progress.Decision{}, err
	}
	return progress.HasAccess(s.calc.ComputeProfile(entries, now), category, requiredLevel), nil
}

func (s *progressService) CheckFeature(ctx context.Context, feature string, now time.Time) (_ progress.Decision, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "access-check", startedAt, err, map[string]any{"feature": feature})
	}()

	entries, err := s.history(ctx)
	if err != nil {
		return progress.Decision{}, err
	}
	d, err := s.gate.CheckFeature(s.calc.ComputeProfile(entries, now), feature)
	if err != nil {
		return progress.Decision{}, fmt.Errorf("feature %q: %w: %w", feature, err, domain.ErrNotFound)
	}
	return d, nil
}

func (s *progressService) Recommend(ctx context.Context, now time.Time) (progress.Recommendation, error) {
	entries, err := s.history(ctx)
	if err != nil {
		return progress.Recommendation{}, err
	}
	stats := progress.ComputeClarityStats(entries, now, s.cfg.Location)
	return progress.Recommend(s.cfg.Recommend, entries, stats, s.entitled(ctx, s.cfg.UserID)), nil
}

func (s *progressService) history(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := s.log.LoadHistory(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

func newStreakView(st domain.StreakState) contract.StreakView {
	v := contract.StreakView{CurrentDays: st.CurrentDays, LongestDays: st.LongestDays}
	if st.LastActiveDay != nil {
		day := st.LastActiveDay.Format(time.DateOnly)
		v.LastActiveDay = &day
	}
	return v
}
