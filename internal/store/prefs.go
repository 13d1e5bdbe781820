package store

import (
	"context"
	"sync"
)

// Preferences is the subset of fyne.Preferences the store needs.
type Preferences interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

// Prefs stores values in the desktop application's preferences, the way the
// browser build keeps them in localStorage. An empty string reads as absent.
type Prefs struct {
	prefs Preferences
	mu    sync.Mutex
}

func NewPrefs(p Preferences) *Prefs {
	return &Prefs{prefs: p}
}

func (p *Prefs) Get(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.prefs.String(key)
	if v == "" {
		return nil, notFound(key)
	}
	return []byte(v), nil
}

func (p *Prefs) Put(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs.SetString(key, string(value))
	return nil
}

func (p *Prefs) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs.RemoveValue(key)
	return nil
}

func (p *Prefs) Close() error { return nil }
