package net

import (
	"log"
	"sync"
)

// Peer is a browser connected to the canvas.
type Peer struct {
	ID   string
	Addr string
}

// PeerManager admits at most one controlling peer at a time: the canvas has a
// single pointer and a single tool state.
type PeerManager struct {
	active *Peer
	mu     sync.Mutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{}
}

// Claim makes peer the controller. It returns false when another peer holds it.
func (pm *PeerManager) Claim(peer *Peer) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.active != nil {
		log.Printf("[NET] rejected %s (%s): canvas controlled by %s", peer.ID, peer.Addr, pm.active.ID)
		return false
	}
	pm.active = peer
	log.Printf("[NET] controller %s connected from %s", peer.ID, peer.Addr)
	return true
}

// Release gives up control if peer holds it.
func (pm *PeerManager) Release(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.active == peer {
		pm.active = nil
		log.Printf("[NET] controller %s disconnected", peer.ID)
	}
}

// Active returns the current controller, nil if none.
func (pm *PeerManager) Active() *Peer {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.active
}
