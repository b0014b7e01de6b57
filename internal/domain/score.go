package domain

// SubScore is one named dimension of a ScoreResult.
type SubScore struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ScoreReason explains a single contribution to a sub-score.
type ScoreReason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Delta   int    `json:"delta"`
}

// ScoreResult is immutable once produced. All values are in [0,100].
type ScoreResult struct {
	SubScores []SubScore    `json:"sub_scores,omitempty"`
	Composite int           `json:"composite"`
	Feedback  string        `json:"feedback,omitempty"`
	Reasons   []ScoreReason `json:"reasons,omitempty"`
}

// SubScore returns the named sub-score value.
func (r ScoreResult) SubScore(name string) (int, bool) {
	for _, s := range r.SubScores {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

func (r ScoreResult) clone() ScoreResult {
	out := r
	out.SubScores = append([]SubScore(nil), r.SubScores...)
	out.Reasons = append([]ScoreReason(nil), r.Reasons...)
	return out
}
