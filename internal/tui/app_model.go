package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/imaging"
	"lostaf-cli/internal/model"
	"lostaf-cli/internal/session"
)

const noticeTTL = 4 * time.Second

type appModel struct {
	api     backend
	session sessioner
	store   localStore
	logger  zerolog.Logger

	width  int
	height int

	authState session.State
	user      *model.User

	view view

	// Dashboard listing. querySeq is bumped on every filter mutation and
	// every navigation back to the dashboard; late responses carrying an
	// older sequence are dropped.
	filter          model.FilterState
	querySeq        int
	itemsList       list.Model
	items           []model.Item
	itemsLoading    bool
	itemsLoadedOnce bool
	searchInput     textinput.Model
	searching       bool

	// Detail view.
	detailSeq     int
	detail        *model.Item
	detailLoading bool
	detailFrom    view
	resolving     bool

	// My items.
	mySeq     int
	myList    list.Model
	myItems   []model.Item
	myLoading bool

	form postForm

	// Admin aggregation. Stats and locations are independent failure
	// domains; each keeps its own error text.
	adminSeq       int
	stats          *model.AdminStats
	statsErr       string
	statsFromCache bool
	locs           []model.LocationCount
	locsErr        string
	locsFromCache  bool

	noticeSeq  int
	noticeText string
	noticeErr  bool
}

func newAppModel(api backend, sess sessioner, store localStore, logger zerolog.Logger) appModel {
	search := textinput.New()
	search.Placeholder = "search title/description"
	search.Prompt = "/ "
	search.CharLimit = 80

	return appModel{
		api:         api,
		session:     sess,
		store:       store,
		logger:      logger,
		view:        viewResolving,
		authState:   session.StateUninitialized,
		itemsList:   newList(nil),
		myList:      newList(nil),
		searchInput: search,
		form:        newPostForm(),
	}
}

func (m appModel) Init() tea.Cmd {
	return m.resolveSessionCmd()
}

// Commands. Each runs in its own goroutine and reports back as a message;
// the model itself is only ever touched inside Update.

func (m appModel) resolveSessionCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		state := sess.Init(context.Background())
		return sessionResolvedMsg{state: state, user: sess.User()}
	}
}

func (m appModel) logoutCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		sess.Logout(context.Background())
		return logoutDoneMsg{}
	}
}

func (m appModel) fetchItemsCmd(seq int, f model.FilterState) tea.Cmd {
	be := m.api
	return func() tea.Msg {
		items, err := be.ListItems(context.Background(), f)
		return itemsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m appModel) fetchMyItemsCmd(seq int) tea.Cmd {
	be := m.api
	return func() tea.Msg {
		items, err := be.MyItems(context.Background())
		return myItemsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m appModel) fetchItemCmd(seq int, id string) tea.Cmd {
	be := m.api
	return func() tea.Msg {
		item, err := be.GetItem(context.Background(), id)
		return itemLoadedMsg{seq: seq, item: item, err: err}
	}
}

func (m appModel) resolveItemCmd(seq int, id string) tea.Cmd {
	be := m.api
	return func() tea.Msg {
		item, err := be.Resolve(context.Background(), id)
		return resolveDoneMsg{seq: seq, itemID: id, item: item, err: err}
	}
}

func (m appModel) createItemCmd(d model.Draft, image *api.ImageAttachment) tea.Cmd {
	be := m.api
	return func() tea.Msg {
		item, err := be.CreateItem(context.Background(), d, image)
		return createDoneMsg{item: item, err: err}
	}
}

// fetchStatsCmd hits the network and refreshes the snapshot cache on
// success. Cached data is surfaced separately by loadAdminCacheCmd so the
// view can paint immediately while the fetch is in flight.
func (m appModel) fetchStatsCmd(seq int) tea.Cmd {
	be, st := m.api, m.store
	return func() tea.Msg {
		stats, err := be.Stats(context.Background())
		if err == nil && stats != nil {
			// Cache write failure is not a fetch failure.
			_ = st.SaveStatsCache(context.Background(), *stats)
		}
		return statsLoadedMsg{seq: seq, stats: stats, err: err}
	}
}

func (m appModel) fetchLocationsCmd(seq int) tea.Cmd {
	be, st := m.api, m.store
	return func() tea.Msg {
		locs, err := be.Locations(context.Background())
		if err == nil {
			_ = st.SaveLocationsCache(context.Background(), locs)
		}
		return locationsLoadedMsg{seq: seq, locs: locs, err: err}
	}
}

// loadAdminCacheCmd surfaces whatever unexpired snapshots exist so the
// admin view paints immediately while the real fetches are in flight.
func (m appModel) loadAdminCacheCmd(seq int) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		msg := adminCacheMsg{seq: seq}
		if stats, ok, err := st.LoadStatsCache(context.Background()); err == nil && ok {
			msg.stats = stats
		}
		if locs, ok, err := st.LoadLocationsCache(context.Background()); err == nil && ok {
			msg.locs = locs
		}
		if msg.stats == nil && msg.locs == nil {
			return nil
		}
		return msg
	}
}

func (m appModel) loadDraftCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		d, _, err := st.LoadDraft(context.Background())
		if err != nil || d == nil {
			return draftLoadedMsg{}
		}
		return draftLoadedMsg{draft: d}
	}
}

func (m appModel) saveDraftCmd(d model.Draft) tea.Cmd {
	st, log := m.store, m.logger
	return func() tea.Msg {
		if err := st.SaveDraft(context.Background(), d); err != nil {
			log.Warn().Err(err).Msg("draft save failed")
		}
		return nil
	}
}

func (m appModel) clearDraftCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		_ = st.ClearDraft(context.Background())
		return nil
	}
}

func (m appModel) loadImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		att, err := imaging.Load(path)
		return imageLoadedMsg{path: path, att: att, err: err}
	}
}

// notify installs a transient notice and schedules its expiry. An expiry
// carrying a stale sequence is ignored, so a newer notice is never cut
// short by an older timer.
func (m *appModel) notify(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.noticeText = text
	m.noticeErr = isErr
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
