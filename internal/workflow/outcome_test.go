package workflow

import "testing"

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "seg.ts"
	}
	return out
}

func TestDecide(t *testing.T) {
	tests := []struct {
		missing   int
		threshold int
		want      Outcome
	}{
		{missing: 0, threshold: 10, want: OutcomeProceeded},
		{missing: 1, threshold: 10, want: OutcomeProceededWithWarnings},
		{missing: 10, threshold: 10, want: OutcomeProceededWithWarnings},
		{missing: 11, threshold: 10, want: OutcomeAbortedTooManyMissing},
		{missing: 0, threshold: 0, want: OutcomeProceeded},
		{missing: 1, threshold: 0, want: OutcomeAbortedTooManyMissing},
	}
	for _, tt := range tests {
		if got := Decide(names(tt.missing), tt.threshold); got != tt.want {
			t.Errorf("Decide(%d missing, threshold %d) = %s, want %s", tt.missing, tt.threshold, got, tt.want)
		}
	}
}

func TestOutcomeExitCode(t *testing.T) {
	for outcome, want := range map[Outcome]int{
		OutcomeProceeded:             0,
		OutcomeProceededWithWarnings: 0,
		OutcomeAbortedTooManyMissing: 2,
		OutcomeAbortedNoManifest:     2,
	} {
		if got := outcome.ExitCode(); got != want {
			t.Errorf("%s exit code = %d, want %d", outcome, got, want)
		}
	}
	if Outcome(99).String() != "unknown" {
		t.Fatalf("unexpected string for unknown outcome")
	}
}
