package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/metrics"
	"github.com/dmitrijs2005/skillswap/internal/client/mirror"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/client/session"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// Resource names a mirrored collection.
type Resource string

const (
	Users      Resource = "users"
	Projects   Resource = "projects"
	SkillSwaps Resource = "skill-swaps"
)

// All lists every resource in refresh order.
var All = []Resource{Users, Projects, SkillSwaps}

const DefaultRefreshTimeout = 30 * time.Second

// Fetcher is the read side of client.Client.
type Fetcher interface {
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	ListProjects(ctx context.Context, token string) ([]models.Project, error)
	ListSkillSwaps(ctx context.Context, token string) ([]models.SkillSwap, error)
}

// Session is the part of *session.Store the controller depends on.
type Session interface {
	Snapshot() (models.Session, uint64)
	Resolve(ctx context.Context, epoch uint64, users []models.User) bool
	Expire(ctx context.Context, epoch uint64) error
	OnChange(l session.Listener)
}

// FailureListener receives refresh failures of the current session,
// including fetches nobody is waiting on. It runs before the waiters of the
// failed fetch are released and must not call back into the controller.
type FailureListener func(ctx context.Context, err *RefreshError)

type Options struct {
	RefreshTimeout time.Duration
	Metrics        *metrics.Sync
	Logger         logging.Logger
}

type flight struct {
	id       ulid.ULID
	resource Resource

	// set by start
	seq   uint64
	epoch uint64
	token string

	done chan struct{}
	err  error

	// next is a fetch queued to start once this one completes.
	next *flight
}

type Controller struct {
	api     Fetcher
	session Session
	mirror  *mirror.Mirror
	metrics *metrics.Sync
	log     logging.Logger
	timeout time.Duration

	mu      sync.Mutex
	flights map[Resource]*flight
	seq     map[Resource]uint64
	applied map[Resource]uint64
	onFail  []FailureListener
}

// New builds a controller and subscribes it to session transitions.
func New(api Fetcher, sess Session, m *mirror.Mirror, opts Options) *Controller {
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = DefaultRefreshTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewSync(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	c := &Controller{
		api:     api,
		session: sess,
		mirror:  m,
		metrics: opts.Metrics,
		log:     opts.Logger.With("component", "syncer"),
		timeout: opts.RefreshTimeout,
		flights: map[Resource]*flight{},
		seq:     map[Resource]uint64{},
		applied: map[Resource]uint64{},
	}
	sess.OnChange(c.handleSessionChange)
	return c
}

// Refresh fetches rs again, joining any fetch of the same resource already
// in flight for the current session. It blocks until every resource has
// settled or ctx is done; the fetches themselves outlive ctx.
func (c *Controller) Refresh(ctx context.Context, rs ...Resource) error {
	return c.request(ctx, false, rs)
}

// Resync is Refresh for use after a mutation: it is only satisfied by a
// fetch that started after the call.
func (c *Controller) Resync(ctx context.Context, rs ...Resource) error {
	return c.request(ctx, true, rs)
}

// OnFailure registers l for refresh failures.
func (c *Controller) OnFailure(l FailureListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFail = append(c.onFail, l)
}

func (c *Controller) request(ctx context.Context, follow bool, rs []Resource) error {
	if len(rs) == 0 {
		rs = All
	}

	waits := make([]*flight, len(rs))
	c.mu.Lock()
	for i, r := range rs {
		if r == SkillSwaps && !c.hasToken() {
			continue
		}
		waits[i] = c.acquire(ctx, r, follow)
	}
	c.mu.Unlock()

	errs := make([]error, len(rs))
	var g errgroup.Group
	for i, f := range waits {
		if f == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-f.done:
				if f.err != nil {
					errs[i] = &RefreshError{Resource: f.resource, Err: f.err}
				}
			case <-ctx.Done():
				errs[i] = &RefreshError{Resource: f.resource, Err: ctx.Err()}
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (c *Controller) hasToken() bool {
	sess, _ := c.session.Snapshot()
	return sess.Token != ""
}

// acquire returns the flight the caller should wait on. c.mu must be held.
func (c *Controller) acquire(ctx context.Context, r Resource, follow bool) *flight {
	_, epoch := c.session.Snapshot()
	cur := c.flights[r]

	switch {
	case cur == nil:
		f := c.newFlight(r)
		c.flights[r] = f
		c.start(ctx, f)
		return f

	case cur.epoch != epoch:
		// The running fetch belongs to another session. Its result will be
		// discarded; a queued follow-up can start right away.
		f := cur.next
		if f == nil {
			f = c.newFlight(r)
		} else {
			c.metrics.Joined.WithLabelValues(string(r)).Inc()
		}
		cur.next = nil
		c.flights[r] = f
		c.start(ctx, f)
		return f

	case !follow:
		c.metrics.Joined.WithLabelValues(string(r)).Inc()
		c.log.Debug(ctx, "joined refresh in flight", "resource", r, "refresh_id", cur.id.String())
		return cur

	default:
		if cur.next == nil {
			cur.next = c.newFlight(r)
		} else {
			c.metrics.Joined.WithLabelValues(string(r)).Inc()
		}
		return cur.next
	}
}

func (c *Controller) newFlight(r Resource) *flight {
	return &flight{id: ulid.Make(), resource: r, done: make(chan struct{})}
}

// start binds f to the current session and launches its fetch. The token is
// read here, after any session transition that triggered it has been
// applied. c.mu must be held.
func (c *Controller) start(ctx context.Context, f *flight) {
	sess, epoch := c.session.Snapshot()
	c.seq[f.resource]++
	f.seq = c.seq[f.resource]
	f.epoch = epoch
	f.token = sess.Token

	c.metrics.Started.WithLabelValues(string(f.resource)).Inc()
	c.log.Debug(ctx, "refresh started",
		"resource", f.resource, "refresh_id", f.id.String(), "seq", f.seq, "epoch", f.epoch)

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	go func() {
		defer cancel()
		c.run(runCtx, f)
	}()
}

func (c *Controller) run(ctx context.Context, f *flight) {
	var (
		install func()
		users   []models.User
		err     error
	)
	if f.resource != SkillSwaps || f.token != "" {
		install, users, err = c.fetch(ctx, f.resource, f.token)
	}

	c.mu.Lock()
	failed, expire := c.settle(ctx, f, install, users, err)
	listeners := c.onFail
	if c.flights[f.resource] == f {
		if n := f.next; n != nil {
			f.next = nil
			c.flights[f.resource] = n
			c.start(ctx, n)
		} else {
			delete(c.flights, f.resource)
		}
	}
	c.mu.Unlock()

	if failed {
		rerr := &RefreshError{Resource: f.resource, Err: f.err}
		for _, l := range listeners {
			l(ctx, rerr)
		}
	}
	close(f.done)

	if expire {
		if err := c.session.Expire(ctx, f.epoch); err != nil {
			c.log.Error(ctx, "failed to expire rejected session", "epoch", f.epoch, "error", err)
		}
	}
}

// settle applies or discards the outcome of f and records it in f.err.
// It reports whether f failed for the current session and whether that
// session should be expired. c.mu must be held.
func (c *Controller) settle(ctx context.Context, f *flight, install func(), users []models.User, err error) (failed, expire bool) {
	r := f.resource
	_, epoch := c.session.Snapshot()
	log := c.log.With("resource", r, "refresh_id", f.id.String(), "seq", f.seq, "epoch", f.epoch)

	if err != nil {
		f.err = err
		c.metrics.Failed.WithLabelValues(string(r)).Inc()
		if f.epoch != epoch {
			log.Debug(ctx, "refresh failed for a previous session", "error", err)
			return false, false
		}
		log.Warn(ctx, "refresh failed, keeping previous snapshot", "error", err)
		return true, f.token != "" && client.IsUnauthorized(err)
	}

	if f.epoch != epoch {
		f.err = ErrSessionChanged
		c.metrics.Discarded.WithLabelValues(string(r), metrics.ReasonStaleEpoch).Inc()
		log.Debug(ctx, "refresh discarded, session changed", "current_epoch", epoch)
		return false, false
	}
	// Fetches of one resource and epoch run one after another, so a lower
	// seq only arrives here if that ordering is ever broken.
	if f.seq <= c.applied[r] {
		c.metrics.Discarded.WithLabelValues(string(r), metrics.ReasonOutOfOrder).Inc()
		log.Debug(ctx, "refresh discarded, newer snapshot applied", "applied_seq", c.applied[r])
		return false, false
	}
	if install == nil {
		return false, false
	}

	install()
	c.applied[r] = f.seq
	c.metrics.Applied.WithLabelValues(string(r)).Inc()
	log.Debug(ctx, "refresh applied")

	if r == Users {
		c.session.Resolve(ctx, f.epoch, users)
	}
	return false, false
}

func (c *Controller) fetch(ctx context.Context, r Resource, token string) (func(), []models.User, error) {
	switch r {
	case Users:
		users, err := c.api.ListUsers(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		return func() { c.mirror.Users.ReplaceAll(users) }, users, nil
	case Projects:
		projects, err := c.api.ListProjects(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		return func() { c.mirror.Projects.ReplaceAll(projects) }, nil, nil
	case SkillSwaps:
		swaps, err := c.api.ListSkillSwaps(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		return func() { c.mirror.SkillSwaps.ReplaceAll(swaps) }, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown resource %q", r)
}

// handleSessionChange restarts every fetch for the new session. Signing out
// empties the skill-swaps collection, which is only visible to its parties.
func (c *Controller) handleSessionChange(ctx context.Context, ch session.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Info(ctx, "session changed, refreshing",
		"epoch", ch.Epoch, "from", ch.Previous.String(), "to", ch.Current.String())

	if ch.Current == models.SignedOut {
		c.seq[SkillSwaps]++
		c.applied[SkillSwaps] = c.seq[SkillSwaps]
		c.mirror.SkillSwaps.ReplaceAll(nil)
	}
	for _, r := range All {
		if r == SkillSwaps && ch.Current == models.SignedOut {
			// callers queued behind the old session's fetch are released
			// by an empty fetch instead of waiting for it
			if cur := c.flights[r]; cur != nil && cur.next != nil {
				n := cur.next
				cur.next = nil
				c.flights[r] = n
				c.start(ctx, n)
			}
			continue
		}
		c.acquire(ctx, r, false)
	}
}
