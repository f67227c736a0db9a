// Package synccache keeps console views consistent with the slowly-settling
// backend. It is a subscribe/fetch/invalidate engine: concurrent subscribers
// of one key share a single in-flight fetch, every key with subscribers is
// refreshed on its own schedule, and mutation helpers invalidate dependent
// keys so views converge after writes.
//
// Results are applied in issuance order per key: each fetch carries a
// strictly increasing sequence number and a result arriving for an older
// sequence than the latest issued one is discarded, so an entry never
// regresses to older data.
package synccache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mpcconsole/internal/common"
	"mpcconsole/internal/logging"
)

// Status of a cache entry.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is the projection of one key exposed to subscribers. Data holds the
// last successful payload and survives fetch errors, so views degrade to
// stale-but-visible data instead of flashing empty.
type Entry struct {
	Key       string
	Data      any
	Status    Status
	Err       error
	FetchedAt time.Time
	Seq       uint64
}

// HasData reports whether a successful payload has ever been cached.
func (e Entry) HasData() bool { return e.Data != nil }

// Fetcher loads the payload for one key. It must honor ctx.
type Fetcher func(ctx context.Context) (any, error)

// Options control the refresh behavior of one key.
type Options struct {
	// RefreshInterval is the background refresh period while the key has
	// subscribers. Zero disables background refresh.
	RefreshInterval time.Duration
	// StaleTime suppresses a new fetch on subscribe while the cached data
	// is younger than this; the cached entry is served instead.
	StaleTime time.Duration
}

// fetchTimeout bounds every fetch issued by the cache.
const fetchTimeout = 30 * time.Second

// Cache is the process-wide entry table. All mutation of the table happens
// under one mutex so each logical step is atomic.
type Cache struct {
	mu     sync.Mutex
	keys   map[string]*keyState
	log    logging.Logger
	nextID int

	// onUnauthorized, when set, is invoked once per offending fetch result.
	// It is the hook for the forced-logout-on-401 policy.
	onUnauthorized func()

	// now is a test seam.
	now func() time.Time
}

type keyState struct {
	key     string
	fetcher Fetcher
	opts    Options
	entry   Entry

	seq      uint64 // sequence of the most recently issued fetch
	inFlight bool

	subs map[int]*Subscription
	stop chan struct{} // closes the refresh loop; nil when not running
}

// Subscription is a live view of one key. Receive entry snapshots from C;
// the channel keeps only the latest snapshot, older unread ones are dropped.
type Subscription struct {
	C <-chan Entry

	c     chan Entry
	key   string
	id    int
	cache *Cache
	once  sync.Once
}

// Close detaches the subscription. When it is the last one for its key, the
// key's refresh schedule is cancelled synchronously; a fetch already in
// flight may still complete and its result is written to the cache but
// notifies nobody.
func (s *Subscription) Close() {
	s.once.Do(func() { s.cache.unsubscribe(s) })
}

// New builds an empty cache.
func New(log logging.Logger) *Cache {
	return &Cache{
		keys: make(map[string]*keyState),
		log:  log,
		now:  time.Now,
	}
}

// SetOnUnauthorized installs the global 401 hook. The hook runs on its own
// goroutine so it may call back into the cache.
func (c *Cache) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Subscribe attaches a live view to key. The current entry is delivered
// immediately. A fetch is issued unless cached data younger than
// opts.StaleTime exists, and while subscribers remain the key is refreshed
// every opts.RefreshInterval regardless of staleness.
func (c *Cache) Subscribe(key string, fetcher Fetcher, opts Options) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks, ok := c.keys[key]
	if !ok {
		ks = &keyState{
			key:   key,
			entry: Entry{Key: key, Status: StatusIdle},
			subs:  make(map[int]*Subscription),
		}
		c.keys[key] = ks
	}
	// Later subscribers win on fetcher and options.
	ks.fetcher = fetcher
	ks.opts = opts

	c.nextID++
	sub := &Subscription{c: make(chan Entry, 1), key: key, id: c.nextID, cache: c}
	sub.C = sub.c
	ks.subs[sub.id] = sub

	if c.needsFetch(ks) {
		c.issueFetch(ks)
	}
	if opts.RefreshInterval > 0 && ks.stop == nil {
		ks.stop = make(chan struct{})
		go c.refreshLoop(key, opts.RefreshInterval, ks.stop)
	}

	sub.push(ks.entry)
	return sub
}

// Read performs a one-shot read through the cache: cached data younger than
// opts.StaleTime is returned as is, otherwise a (possibly shared) fetch is
// issued and awaited. No background refresh is started.
func (c *Cache) Read(ctx context.Context, key string, fetcher Fetcher, opts Options) (Entry, error) {
	opts.RefreshInterval = 0
	sub := c.Subscribe(key, fetcher, opts)
	defer sub.Close()

	for {
		select {
		case e := <-sub.C:
			switch e.Status {
			case StatusSuccess:
				return e, nil
			case StatusError:
				return e, e.Err
			default:
				// still loading
			}
		case <-ctx.Done():
			return Entry{Key: key, Status: StatusIdle}, ctx.Err()
		}
	}
}

// Get returns the current entry snapshot for key without fetching.
func (c *Cache) Get(key string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ks, ok := c.keys[key]; ok {
		return ks.entry
	}
	return Entry{Key: key, Status: StatusIdle}
}

// Invalidate marks every entry whose key matches one of the given prefixes
// as stale and issues an immediate refetch for keys with active
// subscribers. Unwatched keys are only marked; the next subscriber fetches.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ks := range c.keys {
		if !matchesAny(ks.key, prefixes) {
			continue
		}
		ks.entry.FetchedAt = time.Time{}
		if len(ks.subs) > 0 && ks.fetcher != nil {
			c.issueFetch(ks)
		}
	}
}

// Mutate runs a write effect and, on success, invalidates the given key
// prefixes so dependent views refetch. The effect's error is returned
// unchanged and leaves the cache untouched.
func (c *Cache) Mutate(ctx context.Context, effect func(ctx context.Context) error, invalidate ...string) error {
	if err := effect(ctx); err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return nil
}

// Refresh issues an immediate fetch for key if it is known, regardless of
// staleness. Used by the refresh loop and by explicit reload commands.
func (c *Cache) Refresh(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ks, ok := c.keys[key]; ok && ks.fetcher != nil {
		c.issueFetch(ks)
	}
}

func matchesAny(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// needsFetch: no successful data yet, or data older than StaleTime.
// Callers hold c.mu.
func (c *Cache) needsFetch(ks *keyState) bool {
	if ks.inFlight {
		return false
	}
	if !ks.entry.HasData() {
		return true
	}
	if ks.opts.StaleTime <= 0 {
		return true
	}
	return c.now().Sub(ks.entry.FetchedAt) >= ks.opts.StaleTime
}

// issueFetch starts one fetch for ks. Callers hold c.mu. The fetch runs on
// its own goroutine; its result is applied only if no newer fetch has been
// issued for the key in the meantime.
func (c *Cache) issueFetch(ks *keyState) {
	ks.seq++
	seq := ks.seq
	ks.inFlight = true
	ks.entry.Status = StatusLoading
	ks.entry.Seq = seq
	c.broadcast(ks)

	fetcher := ks.fetcher
	key := ks.key

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		data, err := fetcher(ctx)

		c.mu.Lock()
		ks, ok := c.keys[key]
		if !ok || ks.seq != seq {
			// A newer fetch was issued while this one ran; applying this
			// result would regress the entry.
			c.mu.Unlock()
			if c.log != nil {
				c.log.Debug(context.Background(), "discarding stale fetch result", "key", key, "seq", seq)
			}
			return
		}

		ks.inFlight = false
		ks.entry.Seq = seq
		if err != nil {
			ks.entry.Status = StatusError
			ks.entry.Err = err
			// Last known-good data is preserved on purpose.
		} else {
			ks.entry.Status = StatusSuccess
			ks.entry.Err = nil
			ks.entry.Data = data
			ks.entry.FetchedAt = c.now()
		}
		c.broadcast(ks)
		hook := c.onUnauthorized
		c.mu.Unlock()

		if err != nil {
			if c.log != nil {
				c.log.Warn(context.Background(), "fetch failed", "key", key, "err", err)
			}
			if hook != nil && errors.Is(err, common.ErrUnauthorized) {
				go hook()
			}
		}
	}()
}

// broadcast pushes the current entry to every subscriber. Callers hold c.mu.
func (c *Cache) broadcast(ks *keyState) {
	for _, sub := range ks.subs {
		sub.push(ks.entry)
	}
}

// push delivers e keeping only the newest snapshot in the buffer.
func (s *Subscription) push(e Entry) {
	for {
		select {
		case s.c <- e:
			return
		default:
		}
		select {
		case <-s.c:
		default:
		}
	}
}

func (c *Cache) unsubscribe(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks, ok := c.keys[s.key]
	if !ok {
		return
	}
	delete(ks.subs, s.id)
	if len(ks.subs) == 0 && ks.stop != nil {
		close(ks.stop)
		ks.stop = nil
	}
}

func (c *Cache) refreshLoop(key string, interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Refresh(key)
		case <-stop:
			return
		}
	}
}
