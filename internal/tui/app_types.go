package tui

import (
	"context"
	"time"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/imaging"
	"lostaf-cli/internal/model"
	"lostaf-cli/internal/session"
)

type view int

const (
	viewResolving view = iota // session barrier, nothing else renders
	viewLanding
	viewDashboard
	viewDetail
	viewMyItems
	viewPost
	viewAdmin
)

func (v view) String() string {
	switch v {
	case viewResolving:
		return "resolving"
	case viewLanding:
		return "landing"
	case viewDashboard:
		return "dashboard"
	case viewDetail:
		return "detail"
	case viewMyItems:
		return "my-items"
	case viewPost:
		return "post"
	case viewAdmin:
		return "admin"
	}
	return "unknown"
}

// guardView applies the navigation rules: signed-out users see only the
// landing view, signed-in users are never parked on it.
func guardView(authenticated bool, target view) view {
	if !authenticated {
		return viewLanding
	}
	if target == viewLanding || target == viewResolving {
		return viewDashboard
	}
	return target
}

// backend is the slice of the API client the TUI consumes. Tests swap in a
// fake.
type backend interface {
	ListItems(ctx context.Context, f model.FilterState) ([]model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	MyItems(ctx context.Context) ([]model.Item, error)
	CreateItem(ctx context.Context, d model.Draft, image *api.ImageAttachment) (*model.Item, error)
	Resolve(ctx context.Context, id string) (*model.Item, error)
	Stats(ctx context.Context) (*model.AdminStats, error)
	Locations(ctx context.Context) ([]model.LocationCount, error)
}

type sessioner interface {
	Init(ctx context.Context) session.State
	User() *model.User
	Logout(ctx context.Context)
}

// localStore is the slice of the sqlite state the TUI consumes: draft
// persistence and the admin snapshot cache.
type localStore interface {
	SaveDraft(ctx context.Context, d model.Draft) error
	LoadDraft(ctx context.Context) (*model.Draft, time.Time, error)
	ClearDraft(ctx context.Context) error
	SaveStatsCache(ctx context.Context, stats model.AdminStats) error
	LoadStatsCache(ctx context.Context) (*model.AdminStats, bool, error)
	SaveLocationsCache(ctx context.Context, locs []model.LocationCount) error
	LoadLocationsCache(ctx context.Context) ([]model.LocationCount, bool, error)
}

// Messages. Every message carrying the result of a listing, detail, or
// admin fetch carries the sequence number the request was issued under;
// Update drops results whose sequence no longer matches.

type sessionResolvedMsg struct {
	state session.State
	user  *model.User
}

type logoutDoneMsg struct{}

type itemsLoadedMsg struct {
	seq   int
	items []model.Item
	err   error
}

type myItemsLoadedMsg struct {
	seq   int
	items []model.Item
	err   error
}

type itemLoadedMsg struct {
	seq  int
	item *model.Item
	err  error
}

type resolveDoneMsg struct {
	seq    int
	itemID string
	item   *model.Item
	err    error
}

type createDoneMsg struct {
	item *model.Item
	err  error
}

type statsLoadedMsg struct {
	seq   int
	stats *model.AdminStats
	err   error
}

type adminCacheMsg struct {
	seq   int
	stats *model.AdminStats
	locs  []model.LocationCount
}

type locationsLoadedMsg struct {
	seq  int
	locs []model.LocationCount
	err  error
}

type draftLoadedMsg struct {
	draft *model.Draft
}

type imageLoadedMsg struct {
	path string
	att  *imaging.Attachment
	err  error
}

type noticeExpiredMsg struct {
	seq int
}
