package domain

type OutcomeKind string

const (
	OutcomeInfo    OutcomeKind = "info"
	OutcomeSuccess OutcomeKind = "success"
	OutcomeError   OutcomeKind = "error"
)

// Outcome is the typed result of a user-facing operation. The core emits
// outcomes; a sink at the boundary decides how to render them.
type Outcome struct {
	Kind        OutcomeKind
	Title       string
	Description string
}

func InfoOutcome(title, description string) Outcome {
	return Outcome{Kind: OutcomeInfo, Title: title, Description: description}
}

func SuccessOutcome(title, description string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Title: title, Description: description}
}

func ErrorOutcome(title, description string) Outcome {
	return Outcome{Kind: OutcomeError, Title: title, Description: description}
}
