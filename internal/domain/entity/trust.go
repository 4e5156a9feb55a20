package entity

// ScoreResult is the outcome of one trust evaluation. Immutable once built.
type ScoreResult struct {
	Score      int                        `json:"score"` // clamped to [0,100]
	Reasons    []string                   `json:"reasons"`
	Components map[string]ComponentResult `json:"components"`
}

// ComponentResult describes how a single rule contributed to the score.
type ComponentResult struct {
	Applied bool   `json:"applied"`
	Delta   int    `json:"delta"`
	Message string `json:"message"`
}
