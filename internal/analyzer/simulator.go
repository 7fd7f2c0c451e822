package analyzer

import (
	"math/rand"
	"sync"
)

// Simulator supplies the metrics the platform does not actually measure.
// Link health uses fixed ratios of the discovered link count; page speed is
// random within a fixed range. Isolating these behind an interface lets a
// real crawler or Lighthouse integration replace them later without
// touching the scoring aggregation.
type Simulator interface {
	// LinkHealth fabricates broken and redirect counts for a link total.
	// No request is ever made to a discovered link.
	LinkHealth(totalLinks int) (broken, redirects int)

	// PageSpeed fabricates a performance score and load time.
	PageSpeed() (score int, loadTimeSec float64)
}

// Fixed ratios applied to the discovered link count. These encode no real
// signal; they exist for output compatibility only.
const (
	brokenLinkRatio   = 0.08
	redirectLinkRatio = 0.03
)

// Page speed is drawn uniformly from these bands.
const (
	speedScoreMin = 55
	speedScoreMax = 95
	loadTimeMin   = 1.5
	loadTimeMax   = 4.5
)

type ratioSimulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates the default simulator. Tests pass a fixed seed for
// reproducible page-speed values; link health is deterministic regardless
// of seed.
func NewSimulator(seed int64) Simulator {
	return &ratioSimulator{rng: rand.New(rand.NewSource(seed))}
}

func (s *ratioSimulator) LinkHealth(totalLinks int) (broken, redirects int) {
	broken = int(brokenLinkRatio * float64(totalLinks))
	redirects = int(redirectLinkRatio * float64(totalLinks))
	return broken, redirects
}

func (s *ratioSimulator) PageSpeed() (score int, loadTimeSec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score = speedScoreMin + s.rng.Intn(speedScoreMax-speedScoreMin+1)
	loadTimeSec = loadTimeMin + s.rng.Float64()*(loadTimeMax-loadTimeMin)
	return score, loadTimeSec
}
