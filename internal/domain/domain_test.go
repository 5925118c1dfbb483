package domain

import "testing"

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreResult
		want BucketKind
	}{
		{"exclusion", NewExclusionResult("BENEVA", "insurer: BENEVA"), BucketExcluded},
		{"official list", NewExactListResult(Classification{Type: EntityLender, Name: "MONEY MART", Official: true}), BucketConfirmed},
		{"supplementary list", NewExactListResult(Classification{Type: EntityLender, Name: "EASY LOANS"}), BucketConfirmed},
		{"probable", ScoreResult{Score: ScoreProbable, Source: SourceHeuristic}, BucketProbable},
		{"possible", ScoreResult{Score: ScorePossible, Source: SourceHeuristic}, BucketPossible},
		{"below threshold", ScoreResult{Score: ScorePossible - 1, Source: SourceHeuristic}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketFor(tt.in); got != tt.want {
				t.Errorf("BucketFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcomeTopic(t *testing.T) {
	if got := OutcomeTopic(StatusRefused); got != TopicAnalysisRefused {
		t.Errorf("refused analysis published to %q", got)
	}
	for _, status := range []string{StatusClear, StatusReview} {
		if got := OutcomeTopic(status); got != TopicAnalysisCompleted {
			t.Errorf("%s analysis published to %q", status, got)
		}
	}
}
