package assistant

// Severity grades a drug-drug interaction.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// InteractionDetail describes one interacting medication pair.
type InteractionDetail struct {
	Med1        string   `json:"med1"`
	Med2        string   `json:"med2"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// InteractionResult is the overall interaction analysis for a medication
// list. Session-only; never persisted.
type InteractionResult struct {
	HasInteraction bool                `json:"hasInteraction"`
	Severity       Severity            `json:"severity"`
	Summary        string              `json:"summary"`
	Recommendation string              `json:"recommendation"`
	Interactions   []InteractionDetail `json:"interactions"`
}

// ChatMessage is one turn of the assistant conversation. Session-only.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}
