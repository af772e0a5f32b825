package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrClosed is reported for intents enqueued after Close.
var ErrClosed = errors.New("dispatcher closed")

// IntentKind is the action a reader asked for.
type IntentKind string

const (
	IntentLike     IntentKind = "like"
	IntentBookmark IntentKind = "bookmark"
)

// Intent is one like or bookmark request for an article.
type Intent struct {
	ArticleID domain.ID
	Kind      IntentKind
}

// Result is the outcome of one intent.
type Result struct {
	Intent  Intent
	Article domain.Article
	Err     error
}

// Handler applies one intent.
type Handler func(ctx context.Context, intent Intent) (domain.Article, error)

// Dispatcher routes intents to a fixed set of workers using consistent hashing
// on the article ID, so intents for one article are applied in submission
// order while different articles proceed in parallel.
type Dispatcher struct {
	workers  []chan Intent
	handle   Handler
	onResult func(Result)
	log      zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
	running sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. onResult may be nil; it is called
// from worker goroutines.
func NewDispatcher(numWorkers int, handle Handler, onResult func(Result), log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan Intent, numWorkers),
		handle:   handle,
		onResult: onResult,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Intent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Handlers receive ctx; workers exit
// once Close has been called and their channel is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.running.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an intent to the worker responsible for its article. It
// blocks while that worker's buffer is full.
func (d *Dispatcher) Enqueue(intent Intent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.report(Result{Intent: intent, Err: ErrClosed})
		return
	}
	d.pending.Add(1)
	idx := d.shardIndex(intent.ArticleID)
	d.workers[idx] <- intent
	metrics.IntentQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues intents preserving per-article ordering.
func (d *Dispatcher) EnqueueBatch(intents []Intent) {
	for _, in := range intents {
		d.Enqueue(in)
	}
}

// Wait blocks until every intent enqueued so far has been handled.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Close stops accepting intents and waits for the workers to finish what is
// already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.running.Wait()
}

// shardIndex maps an article ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(id domain.ID) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Intent) {
	defer d.running.Done()
	depth := metrics.IntentQueueDepth.WithLabelValues(strconv.Itoa(id))
	for intent := range ch {
		depth.Set(float64(len(ch)))
		article, err := d.handle(ctx, intent)
		if err != nil {
			d.log.Debug().Err(err).
				Str("article_id", intent.ArticleID.String()).
				Str("kind", string(intent.Kind)).
				Int("worker_id", id).
				Msg("intent failed")
		}
		d.report(Result{Intent: intent, Article: article, Err: err})
		d.pending.Done()
	}
}

func (d *Dispatcher) report(r Result) {
	if d.onResult != nil {
		d.onResult(r)
	}
}
