package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// Catalog resolves activities sessions can be started from.
type Catalog interface {
	Lookup(ctx context.Context, kind domain.SessionKind, referenceID string) (domain.Activity, error)
	List(ctx context.Context, kind *domain.SessionKind) ([]domain.Activity, error)
}

type key struct {
	kind domain.SessionKind
	ref  string
}

// Static is an in-memory Catalog whose contents can be swapped atomically,
// which is how file reloads are applied.
type Static struct {
	mu    sync.RWMutex
	items map[key]domain.Activity
	order []key
}

// NewStatic builds a catalog from activities after validating them.
func NewStatic(activities []domain.Activity) (*Static, error) {
	s := &Static{}
	if err := s.Replace(activities); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps the catalog contents. On validation failure the previous
// contents stay in place.
func (s *Static) Replace(activities []domain.Activity) error {
	items := make(map[key]domain.Activity, len(activities))
	order := make([]key, 0, len(activities))
	for i, a := range activities {
		a = normalize(a)
		if err := validate(a); err != nil {
			return fmt.Errorf("activity %d: %w", i, err)
		}
		k := key{kind: a.Kind, ref: a.ReferenceID}
		if _, dup := items[k]; dup {
			return fmt.Errorf("activity %d: duplicate %s/%s", i, a.Kind, a.ReferenceID)
		}
		items[k] = a
		order = append(order, k)
	}

	s.mu.Lock()
	s.items = items
	s.order = order
	s.mu.Unlock()
	return nil
}

func (s *Static) Lookup(_ context.Context, kind domain.SessionKind, referenceID string) (domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[key{kind: kind, ref: referenceID}]
	if !ok {
		return domain.Activity{}, fmt.Errorf("activity %s/%s: %w", kind, referenceID, domain.ErrNotFound)
	}
	return copyActivity(a), nil
}

func (s *Static) List(_ context.Context, kind *domain.SessionKind) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Activity, 0, len(s.order))
	for _, k := range s.order {
		if kind != nil && k.kind != *kind {
			continue
		}
		out = append(out, copyActivity(s.items[k]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return kindRank(out[i].Kind) < kindRank(out[j].Kind)
	})
	return out, nil
}

// CategoryFor is the readiness category a kind contributes to when an
// activity does not name one.
func CategoryFor(kind domain.SessionKind) string {
	switch kind {
	case domain.KindClarityReset:
		return domain.CategoryMentalClarity
	case domain.KindPromptDrill:
		return domain.CategoryAITraining
	default:
		return domain.CategoryExercises
	}
}

func normalize(a domain.Activity) domain.Activity {
	if a.Category == "" {
		a.Category = CategoryFor(a.Kind)
	}
	if a.Name == "" {
		a.Name = a.ReferenceID
	}
	return a
}

func validate(a domain.Activity) error {
	if _, err := domain.ParseSessionKind(string(a.Kind)); err != nil {
		return err
	}
	if a.ReferenceID == "" {
		return fmt.Errorf("missing id")
	}
	if a.TotalDuration <= 0 {
		return fmt.Errorf("%s: duration must be positive", a.ReferenceID)
	}
	return nil
}

func copyActivity(a domain.Activity) domain.Activity {
	a.Instructions = append([]string(nil), a.Instructions...)
	return a
}

func kindRank(k domain.SessionKind) int {
	for i, kind := range domain.AllSessionKinds() {
		if kind == k {
			return i
		}
	}
	return len(domain.AllSessionKinds())
}
