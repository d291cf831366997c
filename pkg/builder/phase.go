package builder

// Phase is a step of a single build. A build moves through the phases in
// declaration order and ends in Succeeded or Failed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseAssemblingContext
	PhaseComposingScript
	PhaseInvoking
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:              "idle",
	PhaseValidating:        "validating",
	PhaseAssemblingContext: "assembling context",
	PhaseComposingScript:   "composing Dockerfile",
	PhaseInvoking:          "invoking build",
	PhaseSucceeded:         "succeeded",
	PhaseFailed:            "failed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// PhaseError is a build failure annotated with the phase it happened in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return e.Phase.String() + ": " + e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
