package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sealgate/pkg/models"

	"github.com/google/uuid"
)

// AttachCommand is relayed to a connected mail tab's content context. Reply
// must be called exactly once; later calls are ignored.
type AttachCommand struct {
	SealFile string `json:"sealFile"`
	Filename string `json:"filename"`

	once  sync.Once
	reply chan attachResult
}

type attachResult struct {
	data any
	err  error
}

// Reply resolves the command. Only the first call wins.
func (c *AttachCommand) Reply(data any, err error) {
	c.once.Do(func() {
		c.reply <- attachResult{data: data, err: err}
	})
}

// Tab is one connected content context, identified by the host it serves.
type Tab struct {
	ID       string
	Host     string
	Commands chan *AttachCommand
}

// TabRegistry tracks connected content contexts and relays attach commands
// to them. A registry never holds more than one tab per host; a second
// registration for the same host replaces the first.
type TabRegistry struct {
	mu     sync.RWMutex
	byHost map[string]*Tab
}

func NewTabRegistry() *TabRegistry {
	return &TabRegistry{byHost: make(map[string]*Tab)}
}

// Register connects a content context for a host and returns its tab. The
// caller consumes Commands and answers each with Reply.
func (r *TabRegistry) Register(host string) *Tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	tab := &Tab{
		ID:       uuid.NewString(),
		Host:     host,
		Commands: make(chan *AttachCommand, 1),
	}
	r.byHost[host] = tab
	return tab
}

// Unregister disconnects a tab. A stale ID (already replaced) is a no-op.
func (r *TabRegistry) Unregister(tab *Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byHost[tab.Host]; ok && current.ID == tab.ID {
		delete(r.byHost, tab.Host)
	}
}

// Relay forwards an attach command to the tab serving host and waits for
// its reply. No connected tab yields ErrNoMatchingTab. A tab that cannot
// accept or answer the command within the context (or a short fallback
// window) yields ErrRelayFailed.
func (r *TabRegistry) Relay(ctx context.Context, host, sealFile, filename string) (any, error) {
	r.mu.RLock()
	tab, ok := r.byHost[host]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: no tab for host %s", models.ErrNoMatchingTab, host)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := &AttachCommand{
		SealFile: sealFile,
		Filename: filename,
		reply:    make(chan attachResult, 1),
	}

	select {
	case tab.Commands <- cmd:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: tab not accepting commands", models.ErrRelayFailed)
	}

	select {
	case result := <-cmd.reply:
		if result.err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrRelayFailed, result.err)
		}
		return result.data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: no response from tab", models.ErrRelayFailed)
	}
}
