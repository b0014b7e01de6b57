package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alexanderramin/sharpen/internal/progress"
	"github.com/alexanderramin/sharpen/internal/scoring"
	"github.com/alexanderramin/sharpen/internal/service"
)

// Tuning collects every engine parameter. The TOML file overlays
// DefaultTuning: keys present in the file replace defaults, maps merge.
type Tuning struct {
	Scoring    scoring.Config           `toml:"scoring"`
	Readiness  progress.ReadinessConfig `toml:"readiness"`
	Access     progress.GateConfig      `toml:"access"`
	Recommend  progress.RecommendConfig `toml:"recommend"`
	Checkpoint service.CheckpointConfig `toml:"checkpoint"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Scoring:    scoring.DefaultConfig(),
		Readiness:  progress.DefaultReadinessConfig(),
		Access:     progress.DefaultGateConfig(),
		Recommend:  progress.DefaultRecommendConfig(),
		Checkpoint: service.DefaultCheckpointConfig(),
	}
}

// LoadTuning reads a TOML tuning file. Missing file is not an error. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return Tuning{}, fmt.Errorf("failed to stat config: %w", err)
	}
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Tuning{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if t.Access.RequiredLevel < 0 || t.Access.RequiredLevel > 100 {
		return Tuning{}, fmt.Errorf("access.required_level must be within 0-100")
	}
	if t.Readiness.WindowDays <= 0 {
		return Tuning{}, fmt.Errorf("readiness.window_days must be positive")
	}
	if t.Checkpoint.PerSecond < 0 || t.Checkpoint.Burst < 0 {
		return Tuning{}, fmt.Errorf("checkpoint.per_second and checkpoint.burst must not be negative")
	}
	return t, nil
}
