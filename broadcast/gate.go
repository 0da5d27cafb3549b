package broadcast

import "sync"

// Gate is a broadcast edge for any number of readers. Readers grab the
// current channel with Wait and block on it; Open closes that channel,
// releasing every reader at once, and installs a fresh one for the next
// round. Once Shut, Wait always returns a closed channel.
type Gate struct {
	mu   sync.Mutex
	ch   chan struct{}
	shut bool
}

func NewGate() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Wait returns a channel that is closed on the next Open or Shut.
func (g *Gate) Wait() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ch
}

// Open releases everybody currently waiting.
func (g *Gate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.shut {
		return
	}
	close(g.ch)
	g.ch = make(chan struct{})
}

// Shut releases everybody and keeps the gate open forever.
func (g *Gate) Shut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.shut {
		return
	}
	g.shut = true
	close(g.ch)
}

func (g *Gate) IsShut() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shut
}
