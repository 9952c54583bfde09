// Package tracking keeps a buyer's delivery list fresh by polling the
// backend in the background.
package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"farmmarket/console/internal/jobs"
	"farmmarket/console/internal/models"
)

const DefaultInterval = 10 * time.Second

var (
	ErrNoBuyer         = errors.New("tracking needs a buyer id")
	ErrUnknownDelivery = errors.New("delivery not in list")
)

type Fetcher func(ctx context.Context) ([]models.Delivery, error)

// DeliveryLister is the backend call behind a buyer's tracking list.
type DeliveryLister interface {
	TrackBuyerDeliveries(ctx context.Context, buyerID int64) ([]models.Delivery, error)
}

func ForBuyer(lister DeliveryLister, buyerID int64) (Fetcher, error) {
	if buyerID == 0 {
		return nil, ErrNoBuyer
	}
	return func(ctx context.Context) ([]models.Delivery, error) {
		return lister.TrackBuyerDeliveries(ctx, buyerID)
	}, nil
}

// State is a point-in-time copy of the controller.
type State struct {
	Deliveries []models.Delivery
	Selected   *models.Delivery
	// SelectionStale is set when the selected delivery was missing from the
	// latest list. The old record stays selected until the next Select.
	SelectionStale bool
	Loading        bool
	Err            error
	AutoRefresh    bool
	LastUpdated    time.Time
}

type Option func(*Controller)

func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithAutoRefresh(on bool) Option {
	return func(c *Controller) { c.autoRefresh = on }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

type Controller struct {
	fetch    Fetcher
	sched    jobs.Scheduler
	interval time.Duration
	logger   zerolog.Logger

	mu          sync.Mutex
	ctx         context.Context
	mounted     bool
	autoRefresh bool
	stop        func()
	foreground  int
	issued      uint64
	applied     uint64

	deliveries  []models.Delivery
	selected    *models.Delivery
	stale       bool
	err         error
	lastUpdated time.Time
}

func New(fetch Fetcher, sched jobs.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		fetch:       fetch,
		sched:       sched,
		interval:    DefaultInterval,
		logger:      zerolog.Nop(),
		autoRefresh: true,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount runs the first foreground fetch and, with auto-refresh on, starts
// background polling. ctx bounds the background fetches until Unmount.
// Polling starts even if the first fetch fails.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mounted = true
	c.mu.Unlock()

	err := c.Refresh(ctx)

	c.mu.Lock()
	if c.autoRefresh {
		c.startLocked()
	}
	c.mu.Unlock()
	return err
}

func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.stopLocked()
}

// Refresh fetches in the foreground: Loading is set for the duration and a
// failure is kept in Err as well as returned.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	seq := c.nextLocked()
	c.foreground++
	c.err = nil
	c.mu.Unlock()

	list, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.foreground--
	if err != nil {
		if seq > c.applied {
			c.err = err
		}
		return err
	}
	c.applyLocked(seq, list)
	return nil
}

// poll is the background tick. It never touches Loading or Err.
func (c *Controller) poll() {
	c.mu.Lock()
	ctx := c.ctx
	seq := c.nextLocked()
	c.mu.Unlock()

	list, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn().Err(err).Uint64("seq", seq).Msg("background delivery refresh failed")
		return
	}
	c.applyLocked(seq, list)
}

func (c *Controller) nextLocked() uint64 {
	c.issued++
	return c.issued
}

// applyLocked installs a fetched list unless a later fetch already landed.
func (c *Controller) applyLocked(seq uint64, list []models.Delivery) {
	if seq < c.applied {
		c.logger.Debug().Uint64("seq", seq).Uint64("applied", c.applied).Msg("discarding out-of-order delivery list")
		return
	}
	c.applied = seq
	c.deliveries = list
	c.lastUpdated = time.Now()

	if c.selected == nil {
		if len(list) > 0 {
			first := list[0]
			c.selected = &first
		}
		return
	}
	for _, d := range list {
		if d.ID == c.selected.ID {
			match := d
			c.selected = &match
			c.stale = false
			return
		}
	}
	c.stale = true
}

// SetAutoRefresh starts or stops background polling. Turning it off leaves
// a fetch already in flight to complete.
func (c *Controller) SetAutoRefresh(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRefresh = on
	if !on {
		c.stopLocked()
		return
	}
	if c.mounted {
		c.startLocked()
	}
}

func (c *Controller) startLocked() {
	if c.stop != nil {
		return
	}
	c.stop = c.sched.Every(c.interval, c.poll)
	c.logger.Debug().Dur("interval", c.interval).Msg("delivery polling started")
}

func (c *Controller) stopLocked() {
	if c.stop == nil {
		return
	}
	c.stop()
	c.stop = nil
	c.logger.Debug().Msg("delivery polling stopped")
}

// Select picks a delivery from the current list by id.
func (c *Controller) Select(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.deliveries {
		if d.ID == id {
			match := d
			c.selected = &match
			c.stale = false
			return nil
		}
	}
	return ErrUnknownDelivery
}

// Replace swaps in an updated record, in the list and in the selection.
func (c *Controller) Replace(d models.Delivery) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]models.Delivery, len(c.deliveries))
	copy(next, c.deliveries)
	for i := range next {
		if next[i].ID == d.ID {
			next[i] = d
		}
	}
	c.deliveries = next
	if c.selected != nil && c.selected.ID == d.ID {
		match := d
		c.selected = &match
		c.stale = false
	}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Deliveries:     make([]models.Delivery, len(c.deliveries)),
		SelectionStale: c.stale,
		Loading:        c.foreground > 0,
		Err:            c.err,
		AutoRefresh:    c.autoRefresh,
		LastUpdated:    c.lastUpdated,
	}
	copy(s.Deliveries, c.deliveries)
	if c.selected != nil {
		sel := *c.selected
		s.Selected = &sel
	}
	return s
}
