package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/mirror"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/client/session"
	"github.com/dmitrijs2005/skillswap/internal/client/syncer"
	"github.com/dmitrijs2005/skillswap/internal/logging"
)

// AppService defines the user-facing actions of the client.
//
// Contract:
//   - Actions that need a session fail with *client.CapabilityError before
//     any network call when it is absent.
//   - A failed action stores its error in the error slot, replacing the
//     previous one, and returns it.
//   - A successful mutation waits for the refresh it triggers. If that
//     refresh fails, the mutation result is still returned together with a
//     *syncer.RefreshError.
type AppService interface {
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, r models.Registration) error
	Logout(ctx context.Context) error

	ProposeSwap(ctx context.Context, p models.SwapProposal) (*models.SkillSwap, error)
	UpdateSwapStatus(ctx context.Context, swapID int64, status models.SwapStatus) (*models.SkillSwap, error)
	CreateProject(ctx context.Context, p models.NewProject) (*models.Project, error)
	JoinProject(ctx context.Context, projectID int64) (*models.Project, error)
	ToggleAvailability(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) error

	SwapMessages(ctx context.Context, swapID int64) ([]models.SkillSwapMessage, error)
	SendSwapMessage(ctx context.Context, swapID int64, message string) (*models.SkillSwapMessage, error)
	SwapHistory(ctx context.Context, swapID int64) ([]models.StatusChange, error)

	Session() models.Session
	Users() []models.User
	User(id int64) (models.User, bool)
	Projects() []models.Project
	SkillSwaps() []models.SkillSwap

	Err() error
	ClearError()
	Loading() bool
}

// Syncer is the part of *syncer.Controller the facade drives.
type Syncer interface {
	Refresh(ctx context.Context, rs ...syncer.Resource) error
	Resync(ctx context.Context, rs ...syncer.Resource) error
	OnFailure(l syncer.FailureListener)
}

type appService struct {
	client  client.Client
	session *session.Store
	mirror  *mirror.Mirror
	syncer  Syncer
	log     logging.Logger

	loading atomic.Int32

	mu  sync.Mutex
	err error
}

// NewAppService wires the facade. All collaborators live for the lifetime of
// the process; the session is reset only through Logout. Refresh failures
// nobody waits on, such as those after a session change, land in the error
// slot as well.
func NewAppService(c client.Client, s *session.Store, m *mirror.Mirror, sy Syncer, log logging.Logger) AppService {
	if log == nil {
		log = logging.Nop()
	}
	a := &appService{client: c, session: s, mirror: m, syncer: sy, log: log.With("component", "app")}
	sy.OnFailure(func(ctx context.Context, err *syncer.RefreshError) {
		a.record(err)
	})
	return a
}

func (a *appService) Login(ctx context.Context, email, password string) error {
	defer a.busy()()
	if _, err := a.session.Login(ctx, email, password); err != nil {
		return a.fail(ctx, "login", err)
	}
	a.ClearError()
	return a.settle(ctx, "login", a.syncer.Refresh(ctx, syncer.All...))
}

func (a *appService) Signup(ctx context.Context, r models.Registration) error {
	defer a.busy()()
	if _, err := a.session.Register(ctx, r); err != nil {
		return a.fail(ctx, "signup", err)
	}
	a.ClearError()
	return a.settle(ctx, "signup", a.syncer.Refresh(ctx, syncer.All...))
}

// Logout signs out even when removing the persisted token fails.
func (a *appService) Logout(ctx context.Context) error {
	defer a.busy()()
	if err := a.session.SignOut(ctx); err != nil {
		return a.fail(ctx, "logout", err)
	}
	return a.settle(ctx, "logout", a.syncer.Refresh(ctx, syncer.Users, syncer.Projects))
}

func (a *appService) ProposeSwap(ctx context.Context, p models.SwapProposal) (*models.SkillSwap, error) {
	const action = "propose skill-swap"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	defer a.busy()()

	swap, err := a.client.ProposeSkillSwap(ctx, sess.Token, p)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return swap, a.settle(ctx, action, a.syncer.Resync(ctx, syncer.SkillSwaps))
}

// UpdateSwapStatus accepts or declines a pending swap. Swaps the mirror
// already knows to be accepted or declined are rejected locally.
func (a *appService) UpdateSwapStatus(ctx context.Context, swapID int64, status models.SwapStatus) (*models.SkillSwap, error) {
	const action = "update skill-swap status"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	if !status.Final() {
		return nil, a.fail(ctx, action, fmt.Errorf("%s %q: %w", action, status, client.ErrInvalidStatus))
	}
	if known, ok := a.mirror.SkillSwaps.Get(swapID); ok && !known.Status.CanTransitionTo(status) {
		return nil, a.fail(ctx, action, fmt.Errorf("skill-swap %d is %s: %w", swapID, known.Status, client.ErrInvalidTransition))
	}
	defer a.busy()()

	swap, err := a.client.UpdateSkillSwapStatus(ctx, sess.Token, swapID, status)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return swap, a.settle(ctx, action, a.syncer.Resync(ctx, syncer.SkillSwaps))
}

func (a *appService) CreateProject(ctx context.Context, p models.NewProject) (*models.Project, error) {
	const action = "create project"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	defer a.busy()()

	project, err := a.client.CreateProject(ctx, sess.Token, p)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return project, a.settle(ctx, action, a.syncer.Resync(ctx, syncer.Projects))
}

func (a *appService) JoinProject(ctx context.Context, projectID int64) (*models.Project, error) {
	const action = "join project"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	defer a.busy()()

	project, err := a.client.JoinProject(ctx, sess.Token, projectID)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return project, a.settle(ctx, action, a.syncer.Resync(ctx, syncer.Projects))
}

// ToggleAvailability flips the signed-in user's availability. The current
// value is taken from the users mirror when it has the user.
func (a *appService) ToggleAvailability(ctx context.Context) (*models.User, error) {
	const action = "toggle availability"
	sess, epoch, err := a.require(ctx, action, true)
	if err != nil {
		return nil, err
	}
	current := sess.Identity.Available
	if u, ok := a.mirror.Users.Get(sess.Identity.ID); ok {
		current = u.Available
	}
	defer a.busy()()

	user, err := a.client.SetAvailability(ctx, sess.Token, sess.Identity.ID, !current)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return user, a.settle(ctx, action, a.syncer.Resync(ctx, syncer.Users))
}

// Refresh refetches every collection the session can see.
func (a *appService) Refresh(ctx context.Context) error {
	defer a.busy()()
	return a.settle(ctx, "refresh", a.syncer.Refresh(ctx, syncer.All...))
}

func (a *appService) SwapMessages(ctx context.Context, swapID int64) ([]models.SkillSwapMessage, error) {
	const action = "list skill-swap messages"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	defer a.busy()()

	msgs, err := a.client.ListSkillSwapMessages(ctx, sess.Token, swapID)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return msgs, nil
}

func (a *appService) SendSwapMessage(ctx context.Context, swapID int64, message string) (*models.SkillSwapMessage, error) {
	const action = "send skill-swap message"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	defer a.busy()()

	msg, err := a.client.PostSkillSwapMessage(ctx, sess.Token, swapID, message)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return msg, nil
}

func (a *appService) SwapHistory(ctx context.Context, swapID int64) ([]models.StatusChange, error) {
	const action = "skill-swap history"
	sess, epoch, err := a.require(ctx, action, false)
	if err != nil {
		return nil, err
	}
	defer a.busy()()

	history, err := a.client.SkillSwapHistory(ctx, sess.Token, swapID)
	if err != nil {
		return nil, a.rejected(ctx, action, epoch, err)
	}
	return history, nil
}

func (a *appService) Session() models.Session { return a.session.Current() }

func (a *appService) Users() []models.User { return a.mirror.Users.All() }

func (a *appService) User(id int64) (models.User, bool) { return a.mirror.Users.Get(id) }

func (a *appService) Projects() []models.Project { return a.mirror.Projects.All() }

func (a *appService) SkillSwaps() []models.SkillSwap { return a.mirror.SkillSwaps.All() }

// Err returns the error of the most recent failed action, if not cleared.
func (a *appService) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *appService) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = nil
}

// Loading reports whether any action is waiting on the server.
func (a *appService) Loading() bool {
	return a.loading.Load() > 0
}

func (a *appService) busy() func() {
	a.loading.Add(1)
	return func() { a.loading.Add(-1) }
}

// require checks that the session can perform action. identity additionally
// demands a confirmed user, not just a token.
func (a *appService) require(ctx context.Context, action string, identity bool) (models.Session, uint64, error) {
	sess, epoch := a.session.Snapshot()
	switch {
	case !sess.Authenticated():
		return sess, epoch, a.fail(ctx, action, &client.CapabilityError{Action: action, Reason: client.ErrNotSignedIn})
	case identity && sess.Identity == nil:
		return sess, epoch, a.fail(ctx, action, &client.CapabilityError{Action: action, Reason: client.ErrIdentityUnknown})
	}
	return sess, epoch, nil
}

// rejected handles a failed authenticated call. A token the server no
// longer accepts ends the session it was sent for.
func (a *appService) rejected(ctx context.Context, action string, epoch uint64, err error) error {
	if client.IsUnauthorized(err) {
		if expErr := a.session.Expire(ctx, epoch); expErr != nil {
			a.log.Error(ctx, "failed to expire rejected session", "error", expErr)
		}
		err = &client.AuthError{Err: err}
	}
	return a.fail(ctx, action, err)
}

// settle records a refresh error that followed a successful action.
func (a *appService) settle(ctx context.Context, action string, err error) error {
	if err == nil {
		return nil
	}
	return a.fail(ctx, action, err)
}

func (a *appService) fail(ctx context.Context, action string, err error) error {
	var capErr *client.CapabilityError
	if errors.As(err, &capErr) {
		a.log.Info(ctx, "action not permitted", "action", action, "reason", capErr.Reason)
	} else {
		a.log.Warn(ctx, "action failed", "action", action, "error", err)
	}
	a.record(err)
	return err
}

func (a *appService) record(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}
