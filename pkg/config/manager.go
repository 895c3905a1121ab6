package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/compozy/pdftab/pkg/logger"
)

const defaultReloadDebounce = 100 * time.Millisecond

// Manager owns the effective configuration. Watch turns source change
// notifications into debounced reloads; listeners registered with OnChange
// run after every reload that changed a value.
type Manager struct {
	Service Service

	current  atomic.Pointer[Config]
	debounce time.Duration

	mu        sync.Mutex
	sources   []Source
	listeners []func(*Config)
	stop      context.CancelFunc
	loopDone  chan struct{}
	closed    bool
}

func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service, debounce: defaultReloadDebounce}
}

// SetDebounce sets how long Watch waits for change notifications to settle.
func (m *Manager) SetDebounce(d time.Duration) {
	m.mu.Lock()
	m.debounce = d
	m.mu.Unlock()
}

// Load resolves sources in precedence order and keeps them for Reload.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	kept := make([]Source, 0, len(sources))
	for _, src := range sources {
		if src != nil {
			kept = append(kept, src)
		}
	}
	m.mu.Lock()
	m.sources = kept
	m.mu.Unlock()
	return m.load(ctx, "load")
}

// Reload re-reads every source. On failure the previous config stays active.
func (m *Manager) Reload(ctx context.Context) error {
	_, err := m.load(ctx, "reload")
	return err
}

func (m *Manager) load(ctx context.Context, op string) (*Config, error) {
	m.mu.Lock()
	sources := m.sources
	m.mu.Unlock()
	cfg, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s configuration: %w", op, err)
	}
	prev := m.current.Swap(cfg)
	if prev != nil && !reflect.DeepEqual(prev, cfg) {
		m.notify(cfg)
	}
	return cfg, nil
}

func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Source reports which source provided the effective value of key.
func (m *Manager) Source(key string) SourceType {
	return m.Service.GetSource(key)
}

// OnChange registers fn to run after a reload changed the configuration.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) notify(cfg *Config) {
	m.mu.Lock()
	listeners := append([]func(*Config){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg)
	}
}

// Watch subscribes to every source that supports watching and reloads until
// ctx is done or Close is called. Calling Watch again restarts the loop.
func (m *Manager) Watch(ctx context.Context) {
	m.stopWatching()
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	watchCtx, cancel := context.WithCancel(ctx)
	changes := make(chan SourceType, 1)
	done := make(chan struct{})
	m.stop, m.loopDone = cancel, done
	sources, debounce := m.sources, m.debounce
	m.mu.Unlock()

	log := logger.FromContext(ctx)
	for _, src := range sources {
		kind := src.Type()
		err := src.Watch(watchCtx, func() {
			select {
			case changes <- kind:
			default:
			}
		})
		if err != nil {
			log.Debug("config source is not watched", "source", kind, "reason", err)
		}
	}
	go m.reloadLoop(watchCtx, changes, debounce, done)
}

func (m *Manager) reloadLoop(ctx context.Context, changes <-chan SourceType, debounce time.Duration, done chan struct{}) {
	defer close(done)
	log := logger.FromContext(ctx)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	var pending SourceType
	for {
		select {
		case <-ctx.Done():
			return
		case pending = <-changes:
			timer.Reset(debounce)
		case <-timer.C:
			if err := m.Reload(ctx); err != nil {
				log.Error("config reload failed, keeping previous values", "error", err)
				continue
			}
			log.Info("configuration reloaded", "source", pending)
		}
	}
}

func (m *Manager) stopWatching() {
	m.mu.Lock()
	stop, done := m.stop, m.loopDone
	m.stop, m.loopDone = nil, nil
	m.mu.Unlock()
	if stop != nil {
		stop()
		<-done
	}
}

// Close stops watching and releases every source. It is safe to call twice.
func (m *Manager) Close(ctx context.Context) error {
	m.stopWatching()
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sources := m.sources
	m.mu.Unlock()
	for _, src := range sources {
		if err := src.Close(); err != nil {
			logger.FromContext(ctx).Error("failed to close configuration source", "source", src.Type(), "error", err)
		}
	}
	return nil
}
