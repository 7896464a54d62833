package app

// Phase identifies the pipeline stage an error escaped from, so the process
// exit status can distinguish resolution, validation and rendering failures.
type Phase int

const (
	PhaseResolution Phase = iota + 1
	PhaseValidation
	PhaseRendering
)

// String returns the user-facing phase name.
func (p Phase) String() string {
	switch p {
	case PhaseResolution:
		return "resolution"
	case PhaseValidation:
		return "validation"
	case PhaseRendering:
		return "rendering"
	}
	return "unknown"
}

// ExitCode maps the phase to the process exit status used when it fails.
func (p Phase) ExitCode() int {
	switch p {
	case PhaseResolution:
		return 3
	case PhaseValidation:
		return 4
	case PhaseRendering:
		return 5
	}
	return 1
}

// PhaseError wraps a pipeline error with the phase it occurred in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return e.Phase.String() + " failed: " + e.Err.Error()
}

// Unwrap exposes the underlying error for errors.Is and errors.As.
func (e *PhaseError) Unwrap() error {
	return e.Err
}
