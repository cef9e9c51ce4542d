package teaching

// Config holds lesson and practice generation settings.
type Config struct {
	MaxTokens           int
	Temperature         float64
	PracticeTemperature float64

	// HistoryLimit bounds how many stored messages are replayed to the
	// model. Zero replays the full history.
	HistoryLimit int

	// PracticeCount is how many practice questions are requested.
	PracticeCount int

	// OfflineFallback serves canned content when the provider fails
	// instead of returning an upstream error.
	OfflineFallback bool
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:           700,
		Temperature:         0.6,
		PracticeTemperature: 0.7,
		HistoryLimit:        20,
		PracticeCount:       5,
		OfflineFallback:     true,
	}
}
