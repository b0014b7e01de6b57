package domain

import "time"

// Activity is a catalog entry a session can be started from.
type Activity struct {
	Kind            SessionKind   `yaml:"kind" json:"kind"`
	ReferenceID     string        `yaml:"id" json:"id"`
	Name            string        `yaml:"name" json:"name"`
	Description     string        `yaml:"description" json:"description,omitempty"`
	Category        string        `yaml:"category" json:"category"`
	TotalDuration   time.Duration `yaml:"duration" json:"-"`
	IsPremium       bool          `yaml:"premium" json:"premium"`
	Instructions    []string      `yaml:"instructions" json:"instructions,omitempty"`
	SuggestedPrompt string        `yaml:"suggested_prompt" json:"suggested_prompt,omitempty"`
}
