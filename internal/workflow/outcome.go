package workflow

// Outcome is the terminal state of a run that did not fail outright.
type Outcome int

const (
	// OutcomeProceeded means every declared segment was recovered.
	OutcomeProceeded Outcome = iota
	// OutcomeProceededWithWarnings means some segments were missing but no
	// more than the threshold allows.
	OutcomeProceededWithWarnings
	// OutcomeAbortedTooManyMissing means the remux step was skipped because
	// too many segments were missing.
	OutcomeAbortedTooManyMissing
	// OutcomeAbortedNoManifest means the archive held no manifest.
	OutcomeAbortedNoManifest
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProceeded:
		return "proceeded"
	case OutcomeProceededWithWarnings:
		return "proceeded_with_warnings"
	case OutcomeAbortedTooManyMissing:
		return "aborted_too_many_missing"
	case OutcomeAbortedNoManifest:
		return "aborted_no_manifest"
	default:
		return "unknown"
	}
}

// Proceeds reports whether the outcome leads to the remux step.
func (o Outcome) Proceeds() bool {
	return o == OutcomeProceeded || o == OutcomeProceededWithWarnings
}

// ExitCode is the process status for a run that ended with this outcome.
// Policy aborts exit with 2 so scripts can tell them from success.
func (o Outcome) ExitCode() int {
	if o.Proceeds() {
		return 0
	}
	return 2
}

// Decide applies the missing-segment policy. A threshold of zero tolerates
// no missing segments.
func Decide(missing []string, threshold int) Outcome {
	switch n := len(missing); {
	case n == 0:
		return OutcomeProceeded
	case n <= threshold:
		return OutcomeProceededWithWarnings
	default:
		return OutcomeAbortedTooManyMissing
	}
}
