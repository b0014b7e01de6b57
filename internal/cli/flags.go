package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// kindValue is a --kind flag accepting canonical kind names and their
// short aliases. An unset flag leaves Kind nil.
type kindValue struct {
	kind *domain.SessionKind
}

var _ pflag.Value = (*kindValue)(nil)

func (v *kindValue) String() string {
	if v.kind == nil {
		return ""
	}
	return string(*v.kind)
}

func (v *kindValue) Set(s string) error {
	k, err := domain.ParseSessionKind(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	v.kind = &k
	return nil
}

func (v *kindValue) Type() string { return "kind" }

func (v *kindValue) Kind() *domain.SessionKind { return v.kind }

func addKindFlag(fs *pflag.FlagSet) *kindValue {
	v := &kindValue{}
	fs.Var(v, "kind", "Session kind: workout, clarity_reset or prompt_drill")
	return v
}

// sinceValue accepts either a date (2006-01-02), an RFC 3339 timestamp or a
// relative day count such as "7d".
type sinceValue struct {
	now func() time.Time
	at  *time.Time
}

var _ pflag.Value = (*sinceValue)(nil)

func (v *sinceValue) String() string {
	if v.at == nil {
		return ""
	}
	return v.at.Format(time.RFC3339)
}

func (v *sinceValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		var n int
		if _, err := fmt.Sscanf(days, "%d", &n); err == nil && n >= 0 {
			at := v.now().AddDate(0, 0, -n)
			v.at = &at
			return nil
		}
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if at, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			v.at = &at
			return nil
		}
	}
	return fmt.Errorf("expected YYYY-MM-DD, RFC 3339 or Nd, got %q", s)
}

func (v *sinceValue) Type() string { return "since" }

func addSinceFlag(fs *pflag.FlagSet, now func() time.Time) *sinceValue {
	v := &sinceValue{now: now}
	fs.Var(v, "since", "Only entries completed after this point (YYYY-MM-DD, RFC 3339 or Nd)")
	return v
}
