package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionKind(t *testing.T) {
	tests := []struct {
		in   string
		want SessionKind
	}{
		{"workout", KindWorkout},
		{"clarity_reset", KindClarityReset},
		{"clarity", KindClarityReset},
		{"prompt_drill", KindPromptDrill},
		{"p", KindPromptDrill},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSessionKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSessionKind("yoga")
	assert.Error(t, err)
}

func TestSession_RemainingMs(t *testing.T) {
	s := &Session{TotalDurationMs: 60000, ElapsedMs: 15000}
	assert.Equal(t, int64(45000), s.RemainingMs())

	s.ElapsedMs = 70000
	assert.Equal(t, int64(0), s.RemainingMs())
}

func TestSession_SnapshotIsDeepCopy(t *testing.T) {
	fog := 2
	s := &Session{
		ID:    "s1",
		State: StateActive,
		Submissions: []Submission{{
			Artifact: Artifact{Points: 40, FogLevel: &fog},
			Result:   ScoreResult{Composite: 70, SubScores: []SubScore{{Name: "clarity", Value: 80}}},
		}},
	}

	snap := s.Snapshot()
	s.Submissions[0].Result.SubScores[0].Value = 1
	*s.Submissions[0].Artifact.FogLevel = 5
	s.Submissions = append(s.Submissions, Submission{})

	require.Len(t, snap.Submissions, 1)
	assert.Equal(t, 80, snap.Submissions[0].Result.SubScores[0].Value)
	assert.Equal(t, 2, *snap.Submissions[0].Artifact.FogLevel)
}

func TestNewCheckpoint(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	s := &Session{
		ID:              "s1",
		Kind:            KindWorkout,
		ReferenceID:     "memory-match",
		State:           StatePaused,
		TotalDurationMs: 60000,
		ElapsedMs:       12000,
		Submissions: []Submission{
			{Artifact: Artifact{Points: 100}, Result: ScoreResult{Composite: 10}},
			{Artifact: Artifact{Points: 250}, Result: ScoreResult{Composite: 25}},
		},
	}

	cp := NewCheckpoint(s, now)
	assert.Equal(t, "s1", cp.SessionID)
	assert.Equal(t, StatePaused, cp.State)
	assert.Equal(t, int64(12000), cp.ElapsedMs)
	assert.Equal(t, 350, cp.Points)
	assert.Equal(t, []int{10, 25}, cp.SubmissionScores)
	assert.Equal(t, now, cp.UpdatedAt)
}

func TestScoreResult_SubScore(t *testing.T) {
	r := ScoreResult{SubScores: []SubScore{{Name: "clarity", Value: 75}}}
	v, ok := r.SubScore("clarity")
	assert.True(t, ok)
	assert.Equal(t, 75, v)

	_, ok = r.SubScore("efficacy")
	assert.False(t, ok)
}

func TestSessionState_IsTerminal(t *testing.T) {
	assert.False(t, StateActive.IsTerminal())
	assert.False(t, StatePaused.IsTerminal())
	assert.True(t, StateCompleted.IsTerminal())
}
