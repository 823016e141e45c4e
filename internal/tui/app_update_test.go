package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/model"
	"lostaf-cli/internal/session"
)

type fakeBackend struct {
	items      []model.Item
	item       *model.Item
	listErr    error
	getErr     error
	resolveErr error
	resolved   *model.Item

	listCalls    int
	resolveCalls int
	lastFilter   model.FilterState
}

func (f *fakeBackend) ListItems(_ context.Context, fs model.FilterState) ([]model.Item, error) {
	f.listCalls++
	f.lastFilter = fs
	return f.items, f.listErr
}

func (f *fakeBackend) GetItem(_ context.Context, id string) (*model.Item, error) {
	return f.item, f.getErr
}

func (f *fakeBackend) MyItems(context.Context) ([]model.Item, error) {
	return f.items, f.listErr
}

func (f *fakeBackend) CreateItem(_ context.Context, d model.Draft, _ *api.ImageAttachment) (*model.Item, error) {
	return f.item, f.listErr
}

func (f *fakeBackend) Resolve(_ context.Context, id string) (*model.Item, error) {
	f.resolveCalls++
	return f.resolved, f.resolveErr
}

func (f *fakeBackend) Stats(context.Context) (*model.AdminStats, error) {
	return &model.AdminStats{TotalLost: 1}, nil
}

func (f *fakeBackend) Locations(context.Context) ([]model.LocationCount, error) {
	return []model.LocationCount{{Location: "Library", Count: 2}}, nil
}

type fakeSession struct {
	state      session.State
	user       *model.User
	logoutCall int
}

func (f *fakeSession) Init(context.Context) session.State { return f.state }
func (f *fakeSession) User() *model.User                  { return f.user }
func (f *fakeSession) Logout(context.Context)             { f.logoutCall++ }

type fakeLocal struct {
	draft *model.Draft
	stats *model.AdminStats
	locs  []model.LocationCount
}

func (f *fakeLocal) SaveDraft(_ context.Context, d model.Draft) error {
	f.draft = &d
	return nil
}

func (f *fakeLocal) LoadDraft(context.Context) (*model.Draft, time.Time, error) {
	return f.draft, time.Time{}, nil
}

func (f *fakeLocal) ClearDraft(context.Context) error {
	f.draft = nil
	return nil
}

func (f *fakeLocal) SaveStatsCache(_ context.Context, s model.AdminStats) error {
	f.stats = &s
	return nil
}

func (f *fakeLocal) LoadStatsCache(context.Context) (*model.AdminStats, bool, error) {
	return f.stats, f.stats != nil, nil
}

func (f *fakeLocal) SaveLocationsCache(_ context.Context, l []model.LocationCount) error {
	f.locs = l
	return nil
}

func (f *fakeLocal) LoadLocationsCache(context.Context) ([]model.LocationCount, bool, error) {
	return f.locs, f.locs != nil, nil
}

func newTestModel(be *fakeBackend, sess *fakeSession) appModel {
	if sess == nil {
		sess = &fakeSession{
			state: session.StateAuthenticated,
			user:  &model.User{ID: "u1", Email: "me@cvru.ac.in", Name: "Me"},
		}
	}
	m := newAppModel(be, sess, &fakeLocal{}, zerolog.Nop())
	m.authState = sess.state
	m.user = sess.user
	m.view = guardView(sess.state == session.StateAuthenticated, viewDashboard)
	return m
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func apply(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	mv, cmd := m.Update(msg)
	mm, ok := mv.(appModel)
	if !ok {
		t.Fatalf("Update returned %T, want appModel", mv)
	}
	return mm, cmd
}

func TestGuardView(t *testing.T) {
	cases := []struct {
		auth   bool
		target view
		want   view
	}{
		{false, viewDashboard, viewLanding},
		{false, viewAdmin, viewLanding},
		{false, viewLanding, viewLanding},
		{true, viewLanding, viewDashboard},
		{true, viewResolving, viewDashboard},
		{true, viewDetail, viewDetail},
		{true, viewAdmin, viewAdmin},
	}
	for _, tc := range cases {
		if got := guardView(tc.auth, tc.target); got != tc.want {
			t.Errorf("guardView(%v, %v) = %v, want %v", tc.auth, tc.target, got, tc.want)
		}
	}
}

func TestSessionBarrierSwallowsInput(t *testing.T) {
	m := newAppModel(&fakeBackend{}, &fakeSession{state: session.StateUninitialized}, &fakeLocal{}, zerolog.Nop())
	if m.view != viewResolving {
		t.Fatalf("initial view = %v, want resolving", m.view)
	}
	m, cmd := apply(t, m, key("p"))
	if m.view != viewResolving || cmd != nil {
		t.Fatalf("input before session resolution changed state: view=%v cmd=%v", m.view, cmd)
	}
}

func TestSessionResolvedAnonymousLandsOnLanding(t *testing.T) {
	m := newAppModel(&fakeBackend{}, &fakeSession{state: session.StateAnonymous}, &fakeLocal{}, zerolog.Nop())
	m, _ = apply(t, m, sessionResolvedMsg{state: session.StateAnonymous})
	if m.view != viewLanding {
		t.Fatalf("view = %v, want landing", m.view)
	}
}

func TestSessionResolvedAuthenticatedFetchesDashboard(t *testing.T) {
	be := &fakeBackend{items: []model.Item{{ID: "i1", Title: "Keys"}}}
	m := newAppModel(be, &fakeSession{}, &fakeLocal{}, zerolog.Nop())
	m, cmd := apply(t, m, sessionResolvedMsg{
		state: session.StateAuthenticated,
		user:  &model.User{ID: "u1"},
	})
	if m.view != viewDashboard {
		t.Fatalf("view = %v, want dashboard", m.view)
	}
	if cmd == nil {
		t.Fatal("expected a listing fetch cmd")
	}
	m, _ = apply(t, m, cmd())
	if len(m.items) != 1 || m.items[0].ID != "i1" {
		t.Fatalf("items not applied: %+v", m.items)
	}
}

func TestStaleListingDropped(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	_ = m.refetchItems() // seq 1
	_ = m.refetchItems() // seq 2

	stale := []model.Item{{ID: "old"}}
	fresh := []model.Item{{ID: "new"}}

	m, _ = apply(t, m, itemsLoadedMsg{seq: 1, items: stale})
	if len(m.items) != 0 {
		t.Fatalf("stale response was applied: %+v", m.items)
	}
	m, _ = apply(t, m, itemsLoadedMsg{seq: 2, items: fresh})
	if len(m.items) != 1 || m.items[0].ID != "new" {
		t.Fatalf("fresh response not applied: %+v", m.items)
	}
	// A stale response arriving after the fresh one must not regress.
	m, _ = apply(t, m, itemsLoadedMsg{seq: 1, items: stale})
	if m.items[0].ID != "new" {
		t.Fatalf("late stale response overwrote fresh data")
	}
}

func TestEveryFilterMutationRefetches(t *testing.T) {
	be := &fakeBackend{}
	m := newTestModel(be, nil)

	for _, k := range []string{"t", "c", "g"} {
		before := m.querySeq
		var cmd tea.Cmd
		m, cmd = apply(t, m, key(k))
		if m.querySeq != before+1 {
			t.Fatalf("key %q did not bump the query sequence", k)
		}
		if cmd == nil {
			t.Fatalf("key %q issued no fetch", k)
		}
		cmd()
	}
	if be.listCalls != 3 {
		t.Fatalf("listCalls = %d, want 3", be.listCalls)
	}
	if be.lastFilter.Type != "lost" || be.lastFilter.Category != model.Categories[0] || be.lastFilter.Location != model.Locations[0] {
		t.Fatalf("filter not carried into request: %+v", be.lastFilter)
	}
}

func TestListingErrorKeepsPriorItems(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	_ = m.refetchItems()
	m, _ = apply(t, m, itemsLoadedMsg{seq: m.querySeq, items: []model.Item{{ID: "i1", Title: "Keys"}}})

	_ = m.refetchItems()
	m, _ = apply(t, m, itemsLoadedMsg{seq: m.querySeq, err: errors.New("boom")})
	if len(m.items) != 1 {
		t.Fatalf("error cleared previously loaded items")
	}
	if m.noticeText == "" || !m.noticeErr {
		t.Fatalf("error did not surface a notice: %q", m.noticeText)
	}
}

func TestResolveKeyIgnoredForNonOwner(t *testing.T) {
	it := &model.Item{ID: "i1", UserID: "someone-else", Status: model.StatusActive}
	m := newTestModel(&fakeBackend{item: it}, nil)
	m.view = viewDetail
	m.detail = it

	m, cmd := apply(t, m, key("R"))
	if cmd != nil || m.resolving {
		t.Fatal("resolve was issued for an item the viewer does not own")
	}
}

func TestResolveKeyIgnoredForResolvedItem(t *testing.T) {
	it := &model.Item{ID: "i1", UserID: "u1", Status: model.StatusResolved}
	m := newTestModel(&fakeBackend{item: it}, nil)
	m.view = viewDetail
	m.detail = it

	m, cmd := apply(t, m, key("R"))
	if cmd != nil || m.resolving {
		t.Fatal("resolve was issued for an already resolved item")
	}
}

func TestForcedResolveRejectionLeavesStateUnchanged(t *testing.T) {
	it := &model.Item{ID: "i1", UserID: "someone-else", Status: model.StatusActive}
	m := newTestModel(&fakeBackend{}, nil)
	m.view = viewDetail
	m.detail = it

	m, _ = apply(t, m, resolveDoneMsg{itemID: "i1", err: api.ErrRejected})
	if m.view != viewDetail {
		t.Fatalf("rejection navigated away: view=%v", m.view)
	}
	if m.detail.Status != model.StatusActive {
		t.Fatal("rejection mutated item status")
	}
	if !strings.Contains(m.noticeText, "owner") {
		t.Fatalf("notice not actionable: %q", m.noticeText)
	}
}

func TestResolveSuccessReturnsToDashboard(t *testing.T) {
	owned := &model.Item{ID: "i1", UserID: "u1", Status: model.StatusActive}
	be := &fakeBackend{
		item:     owned,
		resolved: &model.Item{ID: "i1", UserID: "u1", Status: model.StatusResolved},
	}
	m := newTestModel(be, nil)
	m.view = viewDetail
	m.detail = owned

	m, cmd := apply(t, m, key("R"))
	if !m.resolving || cmd == nil {
		t.Fatal("resolve not issued by the owner")
	}
	m, cmd = apply(t, m, cmd())
	if be.resolveCalls != 1 {
		t.Fatalf("resolveCalls = %d, want 1", be.resolveCalls)
	}
	if m.view != viewDashboard {
		t.Fatalf("view = %v, want dashboard after success", m.view)
	}
	if cmd == nil {
		t.Fatal("expected a dashboard refetch after resolving")
	}
}

func TestLateResolveResponseDoesNotNavigate(t *testing.T) {
	owned := &model.Item{ID: "i1", UserID: "u1", Status: model.StatusActive}
	be := &fakeBackend{
		resolved: &model.Item{ID: "i1", UserID: "u1", Status: model.StatusResolved},
	}
	m := newTestModel(be, nil)
	m.view = viewDetail
	m.detail = owned

	// Start the resolve but hold its response back.
	m, resolveCmd := apply(t, m, key("R"))
	if resolveCmd == nil {
		t.Fatal("resolve not issued")
	}
	held := resolveCmd()

	// Leave the detail view and start composing a new report.
	m, _ = apply(t, m, key("esc"))
	m, _ = apply(t, m, key("p"))
	if m.view != viewPost {
		t.Fatalf("setup failed: view=%v, want post", m.view)
	}
	m.form.title.SetValue("half-typed report")

	m, _ = apply(t, m, held)
	if m.view != viewPost {
		t.Fatalf("late resolve response navigated away from the post form: view=%v", m.view)
	}
	if got := m.form.title.Value(); got != "half-typed report" {
		t.Fatalf("late resolve response lost form input: %q", got)
	}
	if m.noticeText != "" {
		t.Fatalf("late resolve response surfaced a notice: %q", m.noticeText)
	}
}

func TestResolveResponseForPreviousItemDropped(t *testing.T) {
	owned := &model.Item{ID: "i1", UserID: "u1", Status: model.StatusActive}
	be := &fakeBackend{
		resolved: &model.Item{ID: "i1", UserID: "u1", Status: model.StatusResolved},
	}
	m := newTestModel(be, nil)
	m.view = viewDetail
	m.detail = owned

	m, resolveCmd := apply(t, m, key("R"))
	held := resolveCmd()

	// Open a different item; the old response now carries a stale sequence.
	m, _ = m.gotoDetail("i2", viewDashboard)
	m, _ = apply(t, m, held)
	if m.view != viewDetail {
		t.Fatalf("stale resolve response navigated: view=%v", m.view)
	}
	if m.noticeText != "" {
		t.Fatalf("stale resolve response surfaced a notice: %q", m.noticeText)
	}
}

func TestAnonymousItemHidesContactEverywhere(t *testing.T) {
	anon := &model.Item{
		ID:          "i1",
		Type:        model.ItemLost,
		Title:       "Blue Wallet",
		Category:    "Wallet",
		Location:    "Canteen",
		UserID:      "u1", // the viewer owns it
		UserName:    "Me",
		UserEmail:   "me@cvru.ac.in",
		IsAnonymous: true,
		Status:      model.StatusActive,
	}
	// The viewer is the owner; anonymity still hides the contact line.
	sess := &fakeSession{state: session.StateAuthenticated, user: &model.User{ID: "u1", Name: "Viewer"}}
	m := newTestModel(&fakeBackend{}, sess)
	m.view = viewDetail
	m.detail = anon

	out := m.View()
	if strings.Contains(out, "me@cvru.ac.in") {
		t.Fatal("anonymous item rendered the contact email")
	}
	if strings.Contains(out, "posted by") {
		t.Fatal("anonymous item rendered a contact line")
	}
	if !strings.Contains(out, "anonymously") {
		t.Fatal("anonymous item not labeled as anonymous")
	}
}

func TestMatchesRenderSimilarityAndAnonymity(t *testing.T) {
	email := "finder@cvru.ac.in"
	it := &model.Item{
		ID:    "i1",
		Type:  model.ItemLost,
		Title: "Calculator",
		Matches: []model.Match{
			{ID: "m1", Title: "Casio fx-991", Similarity: 0.82, UserEmail: &email},
			{ID: "m2", Title: "Some calculator", Similarity: 0.5},
		},
	}
	m := newTestModel(&fakeBackend{}, nil)
	m.view = viewDetail
	m.detail = it

	out := m.View()
	if !strings.Contains(out, "82%") {
		t.Fatalf("similarity not rendered: %s", out)
	}
	if !strings.Contains(out, email) {
		t.Fatal("non-anonymous match contact missing")
	}
	if !strings.Contains(out, "(anonymous)") {
		t.Fatal("anonymous match not labeled")
	}
}

func TestLogoutAlwaysLandsOnLanding(t *testing.T) {
	sess := &fakeSession{
		state: session.StateAuthenticated,
		user:  &model.User{ID: "u1"},
	}
	m := newTestModel(&fakeBackend{}, sess)

	m, cmd := apply(t, m, key("L"))
	if cmd == nil {
		t.Fatal("logout key issued no cmd")
	}
	m, _ = apply(t, m, cmd())
	if sess.logoutCall != 1 {
		t.Fatalf("logoutCall = %d, want 1", sess.logoutCall)
	}
	if m.view != viewLanding || m.user != nil {
		t.Fatalf("logout left view=%v user=%v", m.view, m.user)
	}
}

func TestAdminCacheNeverClobbersFreshData(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.adminSeq = 1

	fresh := &model.AdminStats{TotalLost: 9}
	m, _ = apply(t, m, statsLoadedMsg{seq: 1, stats: fresh})
	m, _ = apply(t, m, adminCacheMsg{seq: 1, stats: &model.AdminStats{TotalLost: 1}})
	if m.stats.TotalLost != 9 || m.statsFromCache {
		t.Fatalf("cache snapshot clobbered fresh stats: %+v", m.stats)
	}
}

func TestAdminPanelsFailIndependently(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.adminSeq = 1
	m.view = viewAdmin

	m, _ = apply(t, m, statsLoadedMsg{seq: 1, err: errors.New("boom")})
	m, _ = apply(t, m, locationsLoadedMsg{seq: 1, locs: []model.LocationCount{{Location: "Library", Count: 3}}})

	if m.statsErr == "" {
		t.Fatal("stats error not recorded")
	}
	out := m.View()
	if !strings.Contains(out, "Library") {
		t.Fatal("locations panel suppressed by the stats failure")
	}
}

func TestAdminLocationsNullBodyRendersEmpty(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.adminSeq = 1
	m.view = viewAdmin

	// A 200 whose body is null decodes to a nil slice.
	m, _ = apply(t, m, locationsLoadedMsg{seq: 1})
	if m.locs == nil {
		t.Fatal("nil locations payload left the panel loading")
	}
	if out := m.View(); !strings.Contains(out, "no active items") {
		t.Fatalf("empty locations panel not rendered: %s", out)
	}
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	local := &fakeLocal{}
	sess := &fakeSession{state: session.StateAuthenticated, user: &model.User{ID: "u1"}}
	m := newAppModel(&fakeBackend{}, sess, local, zerolog.Nop())
	m.authState = sess.state
	m.user = sess.user
	m.view = viewPost
	m.form = newPostForm()
	m.form.title.SetValue("Lost keys")
	m.form.submitting = true

	m, cmd := apply(t, m, createDoneMsg{err: errors.New("boom")})
	if m.form.submitting {
		t.Fatal("submitting flag not cleared")
	}
	if cmd == nil {
		t.Fatal("expected draft save + notice cmds")
	}
	if m.view != viewPost {
		t.Fatalf("failure navigated away: view=%v", m.view)
	}
}

func TestCreateSuccessReturnsToDashboard(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.view = viewPost

	m, cmd := apply(t, m, createDoneMsg{item: &model.Item{ID: "new"}})
	if m.view != viewDashboard {
		t.Fatalf("view = %v, want dashboard", m.view)
	}
	if cmd == nil {
		t.Fatal("expected refetch + draft clear cmds")
	}
	if !strings.Contains(m.noticeText, "match") {
		t.Fatalf("confirmation notice missing: %q", m.noticeText)
	}
}

func TestSubmitValidatesBeforeAnyRequest(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.view = viewPost
	m.form = newPostForm()
	m.form.setFocus(fieldSubmit)

	m, cmd := apply(t, m, key("enter"))
	if cmd != nil {
		t.Fatal("empty form reached the network")
	}
	if m.form.errText == "" {
		t.Fatal("validation error not shown")
	}
}

func TestNoticeExpiryIgnoresStaleTimer(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	_ = m.notify("first", false)
	_ = m.notify("second", false)

	m, _ = apply(t, m, noticeExpiredMsg{seq: 1})
	if m.noticeText != "second" {
		t.Fatalf("older timer cleared a newer notice: %q", m.noticeText)
	}
	m, _ = apply(t, m, noticeExpiredMsg{seq: 2})
	if m.noticeText != "" {
		t.Fatalf("notice not cleared: %q", m.noticeText)
	}
}

func TestCycleFilter(t *testing.T) {
	set := []string{"a", "b"}
	if got := cycleFilter("", set); got != "a" {
		t.Fatalf("got %q", got)
	}
	if got := cycleFilter("a", set); got != "b" {
		t.Fatalf("got %q", got)
	}
	if got := cycleFilter("b", set); got != "" {
		t.Fatalf("got %q", got)
	}
}
