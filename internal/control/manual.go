package control

import "sync"

// Manual returns whatever intent was last set. Set may be called from
// another goroutine while a race is running.
type Manual struct {
	mu     sync.Mutex
	intent Intent
}

func NewManual(initial Intent) *Manual {
	return &Manual{intent: initial}
}

// Set replaces the current intent.
func (c *Manual) Set(in Intent) {
	c.mu.Lock()
	c.intent = in
	c.mu.Unlock()
}

func (c *Manual) Decide(Observation) Intent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent
}

func (c *Manual) Reset()       {}
func (c *Manual) Name() string { return "manual" }

func (c *Manual) GetParams() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]float64{
		"turn":   c.intent.Turn,
		"brake":  boolParam(c.intent.Brake),
		"paddle": boolParam(c.intent.Paddle),
	}
}

func (c *Manual) SetParam(name string, value float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "turn":
		c.intent.Turn = value
	case "brake":
		c.intent.Brake = value != 0
	case "paddle":
		c.intent.Paddle = value != 0
	default:
		return false
	}
	return true
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
