package recommend

const (
	// defaultColdStartThreshold is how many rated books unlock the
	// personalized path. Below it users get the popularity ranking.
	defaultColdStartThreshold = 7

	// defaultMinSupport is the minimum number of static ratings a
	// book needs to enter the popularity ranking.
	defaultMinSupport = 100

	defaultTopN         = 10
	defaultSimilarK     = 5
	defaultScoreWorkers = 4
)

// Config carries the engine's ranking constants. The defaults are the
// production values; tests override them to probe the gate and the
// support filter directly.
type Config struct {
	ColdStartThreshold int
	MinSupport         int
	TopN               int
	SimilarK           int

	// ScoreWorkers bounds the goroutines scoring candidates on the
	// personalized path.
	ScoreWorkers int
}

func DefaultConfig() Config {
	return Config{
		ColdStartThreshold: defaultColdStartThreshold,
		MinSupport:         defaultMinSupport,
		TopN:               defaultTopN,
		SimilarK:           defaultSimilarK,
		ScoreWorkers:       defaultScoreWorkers,
	}
}

func (c Config) withDefaults() Config {
	if c.ColdStartThreshold <= 0 {
		c.ColdStartThreshold = defaultColdStartThreshold
	}
	if c.MinSupport <= 0 {
		c.MinSupport = defaultMinSupport
	}
	if c.TopN <= 0 {
		c.TopN = defaultTopN
	}
	if c.SimilarK <= 0 {
		c.SimilarK = defaultSimilarK
	}
	if c.ScoreWorkers <= 0 {
		c.ScoreWorkers = defaultScoreWorkers
	}
	return c
}
