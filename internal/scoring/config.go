package scoring

// PromptConfig tunes prompt drill heuristics.
type PromptConfig struct {
	ClarityBaseline     int      `toml:"clarity_baseline"`
	EfficacyBaseline    int      `toml:"efficacy_baseline"`
	ShortTokens         int      `toml:"short_tokens"`
	LongTokens          int      `toml:"long_tokens"`
	ContextTokens       int      `toml:"context_tokens"`
	DetailTokens        int      `toml:"detail_tokens"`
	ShortBonus          int      `toml:"short_bonus"`
	LongBonus           int      `toml:"long_bonus"`
	ContextBonus        int      `toml:"context_bonus"`
	SpecificityBonus    int      `toml:"specificity_bonus"`
	SpecificityEfficacy int      `toml:"specificity_efficacy"`
	QuestionBonus       int      `toml:"question_bonus"`
	DetailBonus         int      `toml:"detail_bonus"`
	ActionVerbBonus     int      `toml:"action_verb_bonus"`
	SpecificityMarkers  []string `toml:"specificity_markers"`
	ActionVerbs         []string `toml:"action_verbs"`
}

// ClarityConfig tunes clarity reset completion scoring.
type ClarityConfig struct {
	Baseline         int `toml:"baseline"`
	CompletionBonus  int `toml:"completion_bonus"`
	FogThreshold     int `toml:"fog_threshold"`
	FogBonus         int `toml:"fog_bonus"`
	DeepFogThreshold int `toml:"deep_fog_threshold"`
	DeepFogBonus     int `toml:"deep_fog_bonus"`
	IntentBonus      int `toml:"intent_bonus"`
	MinFog           int `toml:"min_fog"`
	MaxFog           int `toml:"max_fog"`
	DefaultFog       int `toml:"default_fog"`
	ImpactBase       int `toml:"impact_base"`
}

// WorkoutConfig tunes workout scoring.
type WorkoutConfig struct {
	TimeBonusPerSecond int `toml:"time_bonus_per_second"`
	TargetPoints       int `toml:"target_points"`
}

// Config holds every threshold the engine uses.
type Config struct {
	Prompt  PromptConfig  `toml:"prompt"`
	Clarity ClarityConfig `toml:"clarity"`
	Workout WorkoutConfig `toml:"workout"`
}

func DefaultConfig() Config {
	return Config{
		Prompt: PromptConfig{
			ClarityBaseline:     60,
			EfficacyBaseline:    55,
			ShortTokens:         10,
			LongTokens:          25,
			ContextTokens:       15,
			DetailTokens:        20,
			ShortBonus:          10,
			LongBonus:           10,
			ContextBonus:        5,
			SpecificityBonus:    15,
			SpecificityEfficacy: 20,
			QuestionBonus:       10,
			DetailBonus:         10,
			ActionVerbBonus:     5,
			SpecificityMarkers:  []string{"[", "specific"},
			ActionVerbs:         []string{"analyze", "strategy", "optimize"},
		},
		Clarity: ClarityConfig{
			Baseline:         70,
			CompletionBonus:  20,
			FogThreshold:     3,
			FogBonus:         10,
			DeepFogThreshold: 2,
			DeepFogBonus:     5,
			IntentBonus:      5,
			MinFog:           1,
			MaxFog:           5,
			DefaultFog:       3,
			ImpactBase:       2,
		},
		Workout: WorkoutConfig{
			TimeBonusPerSecond: 10,
			TargetPoints:       1000,
		},
	}
}
