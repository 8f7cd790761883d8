// Package syncer persists page layouts and persistent content through the
// backend transport. Requests run off the event loop; their results are
// applied on it.
package syncer

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-layout/internal/content"
	"github.com/goliatone/go-cms-layout/internal/eventloop"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/internal/metrics"
	"github.com/goliatone/go-cms-layout/internal/tree"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 10 * time.Second

// Payload keys of a layout store request.
const (
	FieldPage   = "page"
	FieldLayout = "layout"
)

// Options configures a Coordinator.
type Options struct {
	Transport interfaces.Transport
	Loop      *eventloop.Loop
	Timeout   time.Duration
	Metrics   metrics.Recorder
	Logger    interfaces.Logger
}

// Coordinator implements tree.Syncer. Layout syncs are never queued or
// cancelled: the last one to complete wins. Each page sync carries a
// sequence number so completions that arrive after a newer one are
// reported as stale.
type Coordinator struct {
	transport interfaces.Transport
	loop      *eventloop.Loop
	timeout   time.Duration
	metrics   metrics.Recorder
	logger    interfaces.Logger

	issued    map[*tree.Page]uint64
	completed map[*tree.Page]uint64
	inflight  int
}

var _ tree.Syncer = (*Coordinator)(nil)

// New builds a coordinator. Loop must be the loop the tree runs on.
func New(opts Options) *Coordinator {
	if opts.Loop == nil {
		opts.Loop = eventloop.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Coordinator{
		transport: opts.Transport,
		loop:      opts.Loop,
		timeout:   opts.Timeout,
		metrics:   metrics.Ensure(opts.Metrics),
		logger:    logging.Ensure(opts.Logger),
		issued:    map[*tree.Page]uint64{},
		completed: map[*tree.Page]uint64{},
	}
}

// SyncPage stores the current layout of page.
func (c *Coordinator) SyncPage(page *tree.Page) {
	if page == nil || !page.Live() {
		return
	}
	data, err := layoutdoc.ToMap(page.Layout())
	if err != nil {
		c.fail(page, metrics.OperationLayout, syncFailure(interfaces.PathLayout, page.Name(), err))
		return
	}
	c.issued[page]++
	seq := c.issued[page]
	name := page.Name()
	payload := map[string]any{FieldPage: name, FieldLayout: data}

	c.start(metrics.OperationLayout, payload, interfaces.PathLayout, func(_ map[string]any, err error) {
		if !page.Live() {
			c.forget(page)
			c.logger.Debug("layout.sync.discarded", "page", name, "seq", seq)
			return
		}
		if err != nil {
			c.fail(page, metrics.OperationLayout, syncFailure(interfaces.PathLayout, name, err))
			return
		}
		if seq < c.completed[page] {
			c.metrics.IncResult(metrics.OperationLayout, metrics.ResultStale)
			c.logger.Warn("layout.sync.stale", "page", name, "seq", seq, "latest", c.completed[page])
			return
		}
		c.completed[page] = seq
		c.metrics.IncResult(metrics.OperationLayout, metrics.ResultSuccess)
		if seq == c.issued[page] {
			page.MarkClean()
		}
		page.Notify(tree.NoticeInfo, "Layout saved")
		c.logger.Debug("layout.sync.completed", "page", name, "seq", seq)
	})
}

// SyncContent stores the instance held by node. Transient content lives in
// the layout, so only the page is synced. Persistent content is created or
// updated first; the page follows once the key is known.
func (c *Coordinator) SyncContent(node *tree.Content) {
	if node == nil || !node.Live() {
		return
	}
	page := node.Page()
	inst := node.Instance()
	if inst == nil || !inst.Persistent() {
		c.metrics.IncResult(metrics.OperationContent, metrics.ResultSkipped)
		c.SyncPage(page)
		return
	}

	key := inst.ID()
	payload := inst.StoredFields()
	c.start(metrics.OperationContent, payload, interfaces.PathContent, func(resp map[string]any, err error) {
		if !node.Live() {
			c.logger.Debug("content.sync.discarded", "key", key)
			return
		}
		if err != nil {
			c.fail(page, metrics.OperationContent, syncFailure(interfaces.PathContent, key, err))
			return
		}
		c.metrics.IncResult(metrics.OperationContent, metrics.ResultSuccess)
		if id, _ := resp[content.FieldID].(string); id != "" && node.Instance() == inst {
			inst.SetID(id)
			node.Refresh()
		}
		c.SyncPage(page)
	})
}

func (c *Coordinator) start(op metrics.Operation, payload map[string]any, path string, done func(map[string]any, error)) {
	if c.transport == nil {
		c.logger.Warn("sync.transport.missing", "path", path)
		return
	}
	c.inflight++
	c.metrics.SetInflight(c.inflight)
	transport, timeout := c.transport, c.timeout

	c.loop.Go(func() func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		began := time.Now()
		resp, err := transport.Store(ctx, path, payload)
		elapsed := time.Since(began)
		return func() {
			c.inflight--
			c.metrics.SetInflight(c.inflight)
			c.metrics.ObserveDuration(op, elapsed, err == nil)
			done(resp, err)
		}
	})
}

func (c *Coordinator) fail(page *tree.Page, op metrics.Operation, err error) {
	c.metrics.IncResult(op, metrics.ResultFailed)
	c.logger.Error("sync.failed", "operation", string(op), "error", err)
	if page != nil && page.Live() {
		page.Notify(tree.NoticeError, err.Error())
	}
}

func (c *Coordinator) forget(page *tree.Page) {
	delete(c.issued, page)
	delete(c.completed, page)
}

// Inflight returns the number of requests awaiting completion.
func (c *Coordinator) Inflight() int {
	return c.inflight
}
