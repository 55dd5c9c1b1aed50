package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrFeedFailed is returned by Watch once the source of a Fanout has failed.
var ErrFeedFailed = errors.New("change feed failed")

// Fanout is a ChangeFeed for backends that observe changes once and
// distribute them to any number of watchers.
//
// Signals are coalesced: a watcher that has not consumed the previous signal
// does not receive a second one, since every signal means "reload".
type Fanout struct {
	mu       sync.Mutex
	watchers map[Collection]map[int64]chan struct{}
	nextID   int64
	err      error
}

func NewFanout() *Fanout {
	return &Fanout{watchers: make(map[Collection]map[int64]chan struct{})}
}

var _ ChangeFeed = (*Fanout)(nil)

// Watch registers a watcher for c until ctx is done. After Fail it returns
// ErrFeedFailed instead.
func (f *Fanout) Watch(ctx context.Context, c Collection) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	if f.err != nil {
		err := f.err
		f.mu.Unlock()
		return nil, err
	}
	if _, ok := f.watchers[c]; !ok {
		f.watchers[c] = make(map[int64]chan struct{})
	}
	f.nextID++
	id := f.nextID
	f.watchers[c][id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.remove(c, id)
	}()
	return ch, nil
}

// Publish signals every watcher of c.
func (f *Fanout) Publish(c Collection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.watchers[c] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// CloseAll closes every watcher channel, ending all subscriptions.
func (f *Fanout) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeAll()
}

// Fail closes every watcher channel and makes later Watch calls return
// ErrFeedFailed wrapping cause.
func (f *Fanout) Fail(cause error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = fmt.Errorf("%w: %w", ErrFeedFailed, cause)
	}
	f.closeAll()
}

// Err returns the failure recorded by Fail.
func (f *Fanout) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Fanout) closeAll() {
	for c, conns := range f.watchers {
		for _, ch := range conns {
			close(ch)
		}
		delete(f.watchers, c)
	}
}

// Watchers returns the number of live watchers for c.
func (f *Fanout) Watchers(c Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers[c])
}

func (f *Fanout) remove(c Collection, id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conns, ok := f.watchers[c]
	if !ok {
		return
	}
	if ch, ok := conns[id]; ok {
		close(ch)
		delete(conns, id)
	}
	if len(conns) == 0 {
		delete(f.watchers, c)
	}
}
