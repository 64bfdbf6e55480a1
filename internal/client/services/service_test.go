package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/mirror"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/client/session"
	"github.com/dmitrijs2005/skillswap/internal/client/syncer"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake token store ----

type memTokens struct {
	mu     sync.Mutex
	values map[string][]byte
}

func (m *memTokens) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memTokens) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memTokens) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// ---- fake client ----

// fakeClient implements client.Client. Unset results are returned as empty
// values; every call is counted.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	LoginRet *client.AuthResult
	LoginErr error

	Users    []models.User
	Projects []models.Project
	Swaps    []models.SkillSwap
	ListErr  error

	MutationErr error

	LastProposal  models.SwapProposal
	LastStatus    models.SwapStatus
	LastAvailable *bool
	LastToken     string
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) hit(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	f.LastToken = token
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) Register(ctx context.Context, r models.Registration) (*client.AuthResult, error) {
	f.hit("Register", "")
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.hit("Login", "")
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	f.hit("ListUsers", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Users, f.ListErr
}

func (f *fakeClient) SetAvailability(ctx context.Context, token string, userID int64, available bool) (*models.User, error) {
	f.hit("SetAvailability", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastAvailable = &available
	if f.MutationErr != nil {
		return nil, f.MutationErr
	}
	for i := range f.Users {
		if f.Users[i].ID == userID {
			f.Users[i].Available = available
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, &client.TransportError{Status: 404, Message: "User not found"}
}

func (f *fakeClient) ListProjects(ctx context.Context, token string) ([]models.Project, error) {
	f.hit("ListProjects", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Projects, f.ListErr
}

func (f *fakeClient) CreateProject(ctx context.Context, token string, p models.NewProject) (*models.Project, error) {
	f.hit("CreateProject", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MutationErr != nil {
		return nil, f.MutationErr
	}
	pr := models.Project{ID: int64(len(f.Projects) + 1), Title: p.Title, Description: p.Description, RequiredSkills: p.RequiredSkills}
	f.Projects = append(f.Projects, pr)
	return &pr, nil
}

func (f *fakeClient) JoinProject(ctx context.Context, token string, projectID int64) (*models.Project, error) {
	f.hit("JoinProject", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MutationErr != nil {
		return nil, f.MutationErr
	}
	for i := range f.Projects {
		if f.Projects[i].ID == projectID {
			f.Projects[i].Members = append(f.Projects[i].Members, 1)
			p := f.Projects[i]
			return &p, nil
		}
	}
	return nil, &client.TransportError{Status: 404}
}

func (f *fakeClient) ListSkillSwaps(ctx context.Context, token string) ([]models.SkillSwap, error) {
	f.hit("ListSkillSwaps", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Swaps, f.ListErr
}

func (f *fakeClient) ProposeSkillSwap(ctx context.Context, token string, p models.SwapProposal) (*models.SkillSwap, error) {
	f.hit("ProposeSkillSwap", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastProposal = p
	if f.MutationErr != nil {
		return nil, f.MutationErr
	}
	s := models.SkillSwap{ID: int64(len(f.Swaps) + 1), FromUserID: 1, ToUserID: p.ToUserID,
		OfferedSkill: p.OfferedSkill, RequestedSkill: p.RequestedSkill, Message: p.Message, Status: models.SwapPending}
	f.Swaps = append(f.Swaps, s)
	return &s, nil
}

func (f *fakeClient) UpdateSkillSwapStatus(ctx context.Context, token string, swapID int64, status models.SwapStatus) (*models.SkillSwap, error) {
	f.hit("UpdateSkillSwapStatus", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastStatus = status
	if f.MutationErr != nil {
		return nil, f.MutationErr
	}
	for i := range f.Swaps {
		if f.Swaps[i].ID == swapID {
			f.Swaps[i].Status = status
			s := f.Swaps[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeClient) ListSkillSwapMessages(ctx context.Context, token string, swapID int64) ([]models.SkillSwapMessage, error) {
	f.hit("ListSkillSwapMessages", token)
	return []models.SkillSwapMessage{{ID: 1, SkillSwapID: swapID, SenderID: 2, Message: "hey"}}, f.MutationErr
}

func (f *fakeClient) PostSkillSwapMessage(ctx context.Context, token string, swapID int64, message string) (*models.SkillSwapMessage, error) {
	f.hit("PostSkillSwapMessage", token)
	if f.MutationErr != nil {
		return nil, f.MutationErr
	}
	return &models.SkillSwapMessage{ID: 2, SkillSwapID: swapID, SenderID: 1, Message: message}, nil
}

func (f *fakeClient) SkillSwapHistory(ctx context.Context, token string, swapID int64) ([]models.StatusChange, error) {
	f.hit("SkillSwapHistory", token)
	return []models.StatusChange{{Status: models.SwapPending, ChangedBy: 1, ChangedAt: time.Unix(0, 0)}}, f.MutationErr
}

// ---- helpers ----

type fixture struct {
	api    *fakeClient
	store  *session.Store
	mirror *mirror.Mirror
	svc    AppService
}

func newFixture(t *testing.T, api *fakeClient, persisted string) *fixture {
	t.Helper()
	tokens := &memTokens{values: map[string][]byte{}}
	if persisted != "" {
		tokens.values["token"] = []byte(persisted)
	}
	store, err := session.NewStore(context.Background(), api, tokens, nil)
	require.NoError(t, err)
	m := mirror.New()
	sy := syncer.New(api, store, m, syncer.Options{RefreshTimeout: 5 * time.Second})
	return &fixture{api: api, store: store, mirror: m, svc: NewAppService(api, store, m, sy, nil)}
}

func signedIn(t *testing.T, api *fakeClient) *fixture {
	t.Helper()
	api.LoginRet = &client.AuthResult{Token: "T", User: models.User{ID: 1, Name: "Ann"}}
	f := newFixture(t, api, "")
	require.NoError(t, f.svc.Login(context.Background(), "a@x.com", "p"))
	return f
}

// ---- tests ----

func TestLogin_SetsSessionAndLoadsCollections(t *testing.T) {
	api := newFakeClient()
	api.Users = []models.User{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bo"}}
	api.Projects = []models.Project{{ID: 10, Title: "p"}}
	f := signedIn(t, api)

	sess := f.svc.Session()
	assert.Equal(t, "T", sess.Token)
	require.NotNil(t, sess.Identity)
	assert.Equal(t, int64(1), sess.Identity.ID)

	assert.Len(t, f.svc.Users(), 2)
	assert.Len(t, f.svc.Projects(), 1)
	assert.GreaterOrEqual(t, api.count("ListUsers"), 1)
	assert.GreaterOrEqual(t, api.count("ListProjects"), 1)
	assert.NoError(t, f.svc.Err())
	assert.False(t, f.svc.Loading())
}

func TestLogin_FailureSetsErrorAndRetainsMirror(t *testing.T) {
	api := newFakeClient()
	api.Users = []models.User{{ID: 1}}
	f := signedIn(t, api)
	before := f.svc.Users()

	api.LoginErr = &client.TransportError{Status: 401, Message: "Invalid email or password"}
	err := f.svc.Login(context.Background(), "a@x.com", "wrong")

	var ae *client.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, err, f.svc.Err())
	assert.Equal(t, before, f.svc.Users())
	assert.Equal(t, "T", f.svc.Session().Token)
}

func TestProposeSwap_SignedOutMakesNoCalls(t *testing.T) {
	api := newFakeClient()
	f := newFixture(t, api, "")

	swap, err := f.svc.ProposeSwap(context.Background(), models.SwapProposal{ToUserID: 2, OfferedSkill: "Go", RequestedSkill: "Rust"})
	require.Nil(t, swap)

	var ce *client.CapabilityError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, client.ErrNotSignedIn)
	assert.Equal(t, 0, api.total())
	assert.Equal(t, err, f.svc.Err())
}

func TestProposeSwap_RefreshesSwaps(t *testing.T) {
	api := newFakeClient()
	f := signedIn(t, api)

	p := models.SwapProposal{ToUserID: 2, OfferedSkill: "Go", RequestedSkill: "Rust", Message: "hi"}
	swap, err := f.svc.ProposeSwap(context.Background(), p)
	require.NoError(t, err)
	require.NotNil(t, swap)
	assert.Equal(t, p, api.LastProposal)

	swaps := f.svc.SkillSwaps()
	require.Len(t, swaps, 1)
	assert.Equal(t, models.SwapPending, swaps[0].Status)
	assert.Equal(t, "T", api.LastToken)
}

func TestCreateProject_FailureLeavesProjectsUnchanged(t *testing.T) {
	api := newFakeClient()
	api.Projects = []models.Project{{ID: 1, Title: "a", RequiredSkills: []string{"Go"}, Members: []int64{1}}}
	f := signedIn(t, api)
	before := f.mirror.Projects.All()

	api.MutationErr = &client.TransportError{Status: 400, Message: "Title is required"}
	p, err := f.svc.CreateProject(context.Background(), models.NewProject{})
	require.Nil(t, p)

	var te *client.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Title is required", te.Message)
	if diff := cmp.Diff(before, f.mirror.Projects.All()); diff != "" {
		t.Fatalf("projects changed (-want +got):\n%s", diff)
	}
}

func TestCreateProject_RefreshFailureStillReturnsProject(t *testing.T) {
	api := newFakeClient()
	f := signedIn(t, api)

	api.mu.Lock()
	api.ListErr = &client.NetworkError{Op: "GET /projects", Err: errors.New("reset")}
	api.mu.Unlock()

	p, err := f.svc.CreateProject(context.Background(), models.NewProject{Title: "new"})
	require.NotNil(t, p)
	var re *syncer.RefreshError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, syncer.Projects, re.Resource)
	assert.Empty(t, f.svc.Projects())
}

func TestUpdateSwapStatus(t *testing.T) {
	api := newFakeClient()
	api.Swaps = []models.SkillSwap{{ID: 1, Status: models.SwapPending}, {ID: 2, Status: models.SwapDeclined}}
	f := signedIn(t, api)
	calls := api.count("UpdateSkillSwapStatus")

	_, err := f.svc.UpdateSwapStatus(context.Background(), 1, models.SwapPending)
	require.ErrorIs(t, err, client.ErrInvalidStatus)

	_, err = f.svc.UpdateSwapStatus(context.Background(), 2, models.SwapAccepted)
	require.ErrorIs(t, err, client.ErrInvalidTransition)
	assert.Equal(t, calls, api.count("UpdateSkillSwapStatus"))

	s, err := f.svc.UpdateSwapStatus(context.Background(), 1, models.SwapAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.SwapAccepted, s.Status)
	got, ok := f.mirror.SkillSwaps.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.SwapAccepted, got.Status)
}

func TestJoinProject(t *testing.T) {
	api := newFakeClient()
	api.Projects = []models.Project{{ID: 5, Title: "x"}}
	f := signedIn(t, api)

	p, err := f.svc.JoinProject(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, p.HasMember(1))

	got, ok := f.mirror.Projects.Get(5)
	require.True(t, ok)
	assert.True(t, got.HasMember(1))
}

func TestToggleAvailability(t *testing.T) {
	api := newFakeClient()
	api.Users = []models.User{{ID: 1, Name: "Ann", Available: true}}
	f := signedIn(t, api)

	u, err := f.svc.ToggleAvailability(context.Background())
	require.NoError(t, err)
	require.NotNil(t, api.LastAvailable)
	assert.False(t, *api.LastAvailable)
	assert.False(t, u.Available)

	mirrored, ok := f.svc.User(1)
	require.True(t, ok)
	assert.False(t, mirrored.Available)
	assert.False(t, f.svc.Session().Identity.Available)
}

func TestToggleAvailability_TokenOnlyNeedsIdentity(t *testing.T) {
	api := newFakeClient()
	api.ListErr = errors.New("offline")
	f := newFixture(t, api, "opaque")

	_, err := f.svc.ToggleAvailability(context.Background())
	var ce *client.CapabilityError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, client.ErrIdentityUnknown)
	assert.Equal(t, 0, api.count("SetAvailability"))
}

func TestMutation_UnauthorizedSignsOut(t *testing.T) {
	api := newFakeClient()
	f := signedIn(t, api)

	api.MutationErr = &client.TransportError{Status: 401, Message: "Token expired"}
	_, err := f.svc.JoinProject(context.Background(), 1)

	var ae *client.AuthError
	require.ErrorAs(t, err, &ae)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, models.SignedOut, f.svc.Session().State())
}

func TestLogout_ClearsSessionAndSwaps(t *testing.T) {
	api := newFakeClient()
	api.Swaps = []models.SkillSwap{{ID: 1, Status: models.SwapPending}}
	f := signedIn(t, api)
	require.Len(t, f.svc.SkillSwaps(), 1)

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.Equal(t, models.SignedOut, f.svc.Session().State())
	assert.Empty(t, f.svc.SkillSwaps())

	require.NoError(t, f.svc.Logout(context.Background()))
}

func TestReadThroughOperations(t *testing.T) {
	api := newFakeClient()
	f := newFixture(t, api, "")

	_, err := f.svc.SwapMessages(context.Background(), 1)
	require.ErrorIs(t, err, client.ErrNotSignedIn)
	_, err = f.svc.SendSwapMessage(context.Background(), 1, "x")
	require.ErrorIs(t, err, client.ErrNotSignedIn)
	_, err = f.svc.SwapHistory(context.Background(), 1)
	require.ErrorIs(t, err, client.ErrNotSignedIn)
	assert.Equal(t, 0, api.total())

	f = signedIn(t, api)
	msgs, err := f.svc.SwapMessages(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(3), msgs[0].SkillSwapID)

	msg, err := f.svc.SendSwapMessage(context.Background(), 3, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Message)

	h, err := f.svc.SwapHistory(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, h, 1)
}

func TestErrorSlot_OverwrittenAndCleared(t *testing.T) {
	api := newFakeClient()
	f := newFixture(t, api, "")

	_, err1 := f.svc.ProposeSwap(context.Background(), models.SwapProposal{})
	_, err2 := f.svc.CreateProject(context.Background(), models.NewProject{})
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Same(t, err2, f.svc.Err())

	f.svc.ClearError()
	assert.NoError(t, f.svc.Err())
}

func TestLoading_TrueWhileActionOutstanding(t *testing.T) {
	api := newFakeClient()
	gate := make(chan struct{})
	blocking := &blockingLogin{fakeClient: api, gate: gate}
	api.LoginRet = &client.AuthResult{Token: "T", User: models.User{ID: 1}}

	tokens := &memTokens{values: map[string][]byte{}}
	store, err := session.NewStore(context.Background(), blocking, tokens, nil)
	require.NoError(t, err)
	m := mirror.New()
	svc := NewAppService(blocking, store, m, syncer.New(blocking, store, m, syncer.Options{}), nil)

	assert.False(t, svc.Loading())
	done := make(chan error, 1)
	go func() { done <- svc.Login(context.Background(), "a@x.com", "p") }()

	require.Eventually(t, svc.Loading, 2*time.Second, 5*time.Millisecond)
	close(gate)
	require.NoError(t, <-done)
	assert.False(t, svc.Loading())
}

type blockingLogin struct {
	*fakeClient
	gate chan struct{}
}

func (b *blockingLogin) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	<-b.gate
	return b.fakeClient.Login(ctx, email, password)
}

func TestLogin_SuccessClearsPreviousError(t *testing.T) {
	api := newFakeClient()
	f := newFixture(t, api, "")

	api.LoginErr = &client.TransportError{Status: 401, Message: "Invalid email or password"}
	require.Error(t, f.svc.Login(context.Background(), "a@x.com", "wrong"))
	require.Error(t, f.svc.Err())

	api.LoginErr = nil
	api.LoginRet = &client.AuthResult{Token: "T", User: models.User{ID: 1}}
	require.NoError(t, f.svc.Login(context.Background(), "a@x.com", "p"))
	assert.NoError(t, f.svc.Err())
	assert.Equal(t, models.SignedIn, f.svc.Session().State())
}

func TestSignup_SuccessClearsPreviousError(t *testing.T) {
	api := newFakeClient()
	f := newFixture(t, api, "")

	api.LoginErr = &client.TransportError{Status: 400, Message: "Email already registered"}
	require.Error(t, f.svc.Signup(context.Background(), models.Registration{Email: "a@x.com"}))

	api.LoginErr = nil
	api.LoginRet = &client.AuthResult{Token: "T", User: models.User{ID: 1}}
	require.NoError(t, f.svc.Signup(context.Background(), models.Registration{Email: "b@x.com"}))
	assert.NoError(t, f.svc.Err())
}

func TestBackgroundRefreshFailure_SetsError(t *testing.T) {
	api := newFakeClient()
	f := signedIn(t, api)
	require.NoError(t, f.svc.Err())

	api.mu.Lock()
	api.ListErr = &client.NetworkError{Op: "GET /users", Err: errors.New("offline")}
	api.mu.Unlock()

	// signing out through the store refetches users and projects with
	// nobody waiting on the result
	require.NoError(t, f.store.SignOut(context.Background()))

	require.Eventually(t, func() bool { return f.svc.Err() != nil }, 2*time.Second, 5*time.Millisecond)
	var re *syncer.RefreshError
	require.ErrorAs(t, f.svc.Err(), &re)
	var ne *client.NetworkError
	assert.ErrorAs(t, f.svc.Err(), &ne)
}

func TestUpdateSwapStatus_AcceptedCannotBeDeclined(t *testing.T) {
	api := newFakeClient()
	api.Swaps = []models.SkillSwap{{ID: 1, Status: models.SwapAccepted}}
	f := signedIn(t, api)

	_, err := f.svc.UpdateSwapStatus(context.Background(), 1, models.SwapDeclined)
	require.ErrorIs(t, err, client.ErrInvalidTransition)
	assert.Equal(t, 0, api.count("UpdateSkillSwapStatus"))
}

func TestReads_DoNotExposeMirror(t *testing.T) {
	api := newFakeClient()
	api.Users = []models.User{{ID: 1, Name: "Ann", Skills: []string{"Go"}}}
	api.Projects = []models.Project{{ID: 1, RequiredSkills: []string{"Go"}, Members: []int64{1}}}
	f := signedIn(t, api)

	u, ok := f.svc.User(1)
	require.True(t, ok)
	u.Skills[0] = "changed"
	all := f.svc.Users()
	all[0].Skills[0] = "changed too"

	p := f.svc.Projects()
	p[0].RequiredSkills[0] = "changed"
	p[0].Members[0] = 99

	got, ok := f.mirror.Users.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"Go"}, got.Skills)
	gotP, ok := f.mirror.Projects.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"Go"}, gotP.RequiredSkills)
	assert.Equal(t, []int64{1}, gotP.Members)
}
