package collector

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Classification labels. The device treats any label other than the organic
// one as dry waste.
const (
	labelRecyclable = "Recyclable"
	labelOrganic    = "Organic/Wet"
)

const (
	scanInterval    = 5 * time.Second
	alertConfidence = 70.0
)

// Classifier produces periodic waste predictions. No trained model ships
// with the collector, so predictions are mocked with random draws and
// ml_loaded stays false.
type Classifier struct {
	store *Store
	log   *zap.SugaredLogger

	mu       sync.Mutex
	rng      *rand.Rand
	lastScan time.Time
	running  bool
	stop     chan struct{}
	done     chan struct{}
}

// NewClassifier creates a Classifier. The rng is owned by the classifier
// afterwards; pass a fixed-seed source for reproducible tests.
func NewClassifier(store *Store, log *zap.SugaredLogger, rng *rand.Rand) *Classifier {
	return &Classifier{
		store: store,
		log:   log,
		rng:   rng,
	}
}

// Start launches the scan loop. The first prediction is made immediately,
// then one every scan interval.
func (c *Classifier) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.loop()
}

// Stop halts the scan loop and waits for it to finish.
func (c *Classifier) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop, done := c.stop, c.done
	c.mu.Unlock()

	close(stop)
	<-done
}

func (c *Classifier) loop() {
	defer close(c.done)

	c.Scan(time.Now())

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.Scan(now)
		}
	}
}

// Scan runs one mock prediction and publishes it to the store.
func (c *Classifier) Scan(now time.Time) {
	c.mu.Lock()
	label := labelRecyclable
	if c.rng.Intn(2) == 1 {
		label = labelOrganic
	}
	confidence := math.Round(60 + c.rng.Float64()*35)
	c.lastScan = now
	c.mu.Unlock()

	wet := label == labelOrganic
	c.store.SetML(label, confidence, wet)

	c.log.Infow("prediction", "label", label, "confidence", confidence)
	if wet && confidence > alertConfidence {
		c.log.Infow("organic waste detected", "confidence", confidence)
	}
}

// Running reports whether the scan loop is active.
func (c *Classifier) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// TimeUntilNextScan returns the seconds remaining before the next
// prediction, floored at zero.
func (c *Classifier) TimeUntilNextScan(now time.Time) float64 {
	c.mu.Lock()
	last := c.lastScan
	c.mu.Unlock()

	remaining := scanInterval - now.Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining.Seconds()
}
