package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/model"
	"lostaf-cli/internal/session"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listW, listH := m.width-2, m.height-7
		if listW < 20 {
			listW = 20
		}
		if listH < 3 {
			listH = 3
		}
		m.itemsList.SetSize(listW, listH)
		m.myList.SetSize(listW, listH)
		m.form.description.SetWidth(minInt(listW, 72))
		return m, nil

	case sessionResolvedMsg:
		m.authState = msg.state
		m.user = msg.user
		if m.authState == session.StateAuthenticated {
			return m.gotoDashboard()
		}
		m.view = viewLanding
		return m, nil

	case logoutDoneMsg:
		m.authState = session.StateAnonymous
		m.user = nil
		m.view = guardView(false, m.view)
		cmd := m.notify("signed out", false)
		return m, cmd

	case itemsLoadedMsg:
		if msg.seq != m.querySeq {
			m.logger.Debug().Int("got", msg.seq).Int("want", m.querySeq).Msg("stale item listing dropped")
			return m, nil
		}
		m.itemsLoading = false
		if msg.err != nil {
			// Keep whatever was on screen; only the notice changes.
			cmd := m.notify(fetchErrText(msg.err), true)
			return m, cmd
		}
		m.items = msg.items
		m.itemsLoadedOnce = true
		m.itemsList.SetItems(itemRows(m.items))
		return m, nil

	case myItemsLoadedMsg:
		if msg.seq != m.mySeq {
			return m, nil
		}
		m.myLoading = false
		if msg.err != nil {
			cmd := m.notify(fetchErrText(msg.err), true)
			return m, cmd
		}
		m.myItems = msg.items
		m.myList.SetItems(itemRows(m.myItems))
		return m, nil

	case itemLoadedMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.view = guardView(m.authState == session.StateAuthenticated, m.detailFrom)
			cmd := m.notify(fetchErrText(msg.err), true)
			return m, cmd
		}
		m.detail = msg.item
		return m, nil

	case resolveDoneMsg:
		// The user may have left the detail view (or opened another item)
		// while the request was in flight; a late result must not navigate
		// or notify on their behalf.
		if msg.seq != m.detailSeq || m.view != viewDetail {
			return m, nil
		}
		m.resolving = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrRejected):
				cmd := m.notify("only the owner can resolve this item", true)
				return m, cmd
			case errors.Is(msg.err, api.ErrAuthRequired):
				cmd := m.notify("session expired, sign in again with `lostaf login`", true)
				return m, cmd
			default:
				cmd := m.notify(fetchErrText(msg.err), true)
				return m, cmd
			}
		}
		if m.detail != nil && m.detail.ID == msg.itemID && msg.item != nil {
			m.detail = msg.item
		}
		next, cmd := m.gotoDashboard()
		notice := next.notify("item marked as resolved", false)
		return next, tea.Batch(cmd, notice)

	case createDoneMsg:
		m.form.submitting = false
		if msg.err != nil {
			// The draft stays persisted so nothing typed is lost.
			save := m.saveDraftCmd(m.form.draft())
			notice := m.notify(fetchErrText(msg.err), true)
			return m, tea.Batch(save, notice)
		}
		next, cmd := m.gotoDashboard()
		notice := next.notify("posted, we'll email you if a match turns up", false)
		return next, tea.Batch(cmd, next.clearDraftCmd(), notice)

	case statsLoadedMsg:
		if msg.seq != m.adminSeq {
			return m, nil
		}
		if msg.err != nil {
			m.statsErr = fetchErrText(msg.err)
			return m, nil
		}
		m.stats = msg.stats
		m.statsErr = ""
		m.statsFromCache = false
		return m, nil

	case locationsLoadedMsg:
		if msg.seq != m.adminSeq {
			return m, nil
		}
		if msg.err != nil {
			m.locsErr = fetchErrText(msg.err)
			return m, nil
		}
		// A null body decodes to a nil slice; keep it non-nil so the panel
		// renders "no active items" instead of loading forever.
		if msg.locs == nil {
			msg.locs = []model.LocationCount{}
		}
		m.locs = msg.locs
		m.locsErr = ""
		m.locsFromCache = false
		return m, nil

	case adminCacheMsg:
		if msg.seq != m.adminSeq {
			return m, nil
		}
		// Never clobber fresh data with a snapshot.
		if m.stats == nil && msg.stats != nil {
			m.stats = msg.stats
			m.statsFromCache = true
		}
		if m.locs == nil && msg.locs != nil {
			m.locs = msg.locs
			m.locsFromCache = true
		}
		return m, nil

	case draftLoadedMsg:
		if msg.draft != nil {
			m.form.applyDraft(*msg.draft)
			cmd := m.notify("restored an unsent draft", false)
			return m, cmd
		}
		return m, nil

	case imageLoadedMsg:
		if msg.err != nil {
			m.form.image = nil
			m.form.preview = ""
			m.form.imageErr = msg.err.Error()
			return m, nil
		}
		m.form.setImage(msg.att)
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.noticeText = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case viewResolving:
		// Session resolution is a hard barrier; swallow input until done.
		return m, nil
	case viewLanding:
		return m.handleLandingKey(msg)
	case viewDashboard:
		return m.handleDashboardKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewMyItems:
		return m.handleMyItemsKey(msg)
	case viewPost:
		return m.handlePostKey(msg)
	case viewAdmin:
		return m.handleAdminKey(msg)
	}
	return m, nil
}

func (m appModel) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if v := m.searchInput.Value(); v != m.filter.Search {
			m.filter.Search = v
			refetch := m.refetchItems()
			return m, tea.Batch(cmd, refetch)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "t":
		m.filter.Type = cycleFilter(m.filter.Type, []string{"lost", "found"})
		cmd := m.refetchItems()
		return m, cmd
	case "c":
		m.filter.Category = cycleFilter(m.filter.Category, model.Categories)
		cmd := m.refetchItems()
		return m, cmd
	case "g":
		m.filter.Location = cycleFilter(m.filter.Location, model.Locations)
		cmd := m.refetchItems()
		return m, cmd
	case "x":
		if m.filter.IsZero() {
			return m, nil
		}
		m.filter = model.FilterState{}
		m.searchInput.SetValue("")
		cmd := m.refetchItems()
		return m, cmd
	case "r":
		cmd := m.refetchItems()
		return m, cmd
	case "enter":
		if row, ok := m.itemsList.SelectedItem().(itemRow); ok {
			return m.gotoDetail(row.item.ID, viewDashboard)
		}
		return m, nil
	case "p":
		return m.gotoPost()
	case "m":
		return m.gotoMyItems()
	case "a":
		return m.gotoAdmin()
	case "L":
		return m, m.logoutCmd()
	}

	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m appModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.navigateBack()
	case "R":
		if m.resolving || m.detail == nil {
			return m, nil
		}
		viewerID := ""
		if m.user != nil {
			viewerID = m.user.ID
		}
		if !m.detail.Resolvable(viewerID) {
			return m, nil
		}
		m.resolving = true
		return m, m.resolveItemCmd(m.detailSeq, m.detail.ID)
	}
	return m, nil
}

func (m appModel) handleMyItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.gotoDashboard()
	case "enter":
		if row, ok := m.myList.SelectedItem().(itemRow); ok {
			return m.gotoDetail(row.item.ID, viewMyItems)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.myList, cmd = m.myList.Update(msg)
	return m, cmd
}

func (m appModel) handlePostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.submitting {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		// Leaving keeps the draft around for next time.
		d := m.form.draft()
		next, cmd := m.gotoDashboard()
		if d != (newPostForm().draft()) {
			return next, tea.Batch(cmd, next.saveDraftCmd(d))
		}
		return next, cmd
	case "tab", "down":
		if m.form.focus == fieldDescription && msg.String() == "down" {
			break // let the textarea move its own cursor
		}
		m.form.nextField()
		return m, nil
	case "shift+tab", "up":
		if m.form.focus == fieldDescription && msg.String() == "up" {
			break
		}
		m.form.prevField()
		return m, nil
	case "left":
		if !formFieldIsText(m.form.focus) {
			m.form.cycle(-1)
			return m, nil
		}
	case "right":
		if !formFieldIsText(m.form.focus) {
			m.form.cycle(1)
			return m, nil
		}
	case " ":
		if !formFieldIsText(m.form.focus) {
			m.form.cycle(1)
			return m, nil
		}
	case "enter":
		switch m.form.focus {
		case fieldImage:
			path := strings.TrimSpace(m.form.imagePath.Value())
			if path == "" {
				m.form.image = nil
				m.form.preview = ""
				m.form.imageErr = ""
				return m, nil
			}
			return m, m.loadImageCmd(path)
		case fieldSubmit:
			return m.submitForm()
		case fieldDescription:
			break // newline in the textarea
		default:
			m.form.nextField()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.updateInputs(msg)
	return m, cmd
}

func (m appModel) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.gotoDashboard()
	case "r":
		return m.gotoAdmin()
	}
	return m, nil
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	d := m.form.draft()
	if err := d.Validate(); err != nil {
		// Validation failures stay local; no request leaves the client.
		m.form.errText = err.Error()
		return m, nil
	}
	m.form.errText = ""
	m.form.submitting = true

	var att *api.ImageAttachment
	if img := m.form.image; img != nil {
		att = &api.ImageAttachment{Filename: img.Filename, MIME: img.MIME, Data: img.Data}
	}
	return m, m.createItemCmd(d, att)
}

// Navigation. Every transition that (re)mounts a remote listing bumps its
// sequence so in-flight responses for the previous mount are dropped.

func (m appModel) gotoDashboard() (appModel, tea.Cmd) {
	m.view = guardView(m.authState == session.StateAuthenticated, viewDashboard)
	if m.view != viewDashboard {
		return m, nil
	}
	cmd := m.refetchItems()
	return m, cmd
}

func (m *appModel) refetchItems() tea.Cmd {
	m.querySeq++
	m.itemsLoading = true
	return m.fetchItemsCmd(m.querySeq, m.filter)
}

func (m appModel) gotoDetail(id string, from view) (appModel, tea.Cmd) {
	m.view = guardView(m.authState == session.StateAuthenticated, viewDetail)
	if m.view != viewDetail {
		return m, nil
	}
	m.detailFrom = from
	m.detailSeq++
	m.detail = nil
	m.detailLoading = true
	m.resolving = false
	return m, m.fetchItemCmd(m.detailSeq, id)
}

func (m appModel) gotoMyItems() (appModel, tea.Cmd) {
	m.view = guardView(m.authState == session.StateAuthenticated, viewMyItems)
	if m.view != viewMyItems {
		return m, nil
	}
	m.mySeq++
	m.myLoading = true
	return m, m.fetchMyItemsCmd(m.mySeq)
}

func (m appModel) gotoPost() (appModel, tea.Cmd) {
	m.view = guardView(m.authState == session.StateAuthenticated, viewPost)
	if m.view != viewPost {
		return m, nil
	}
	m.form = newPostForm()
	return m, m.loadDraftCmd()
}

func (m appModel) gotoAdmin() (appModel, tea.Cmd) {
	m.view = guardView(m.authState == session.StateAuthenticated, viewAdmin)
	if m.view != viewAdmin {
		return m, nil
	}
	m.adminSeq++
	m.stats = nil
	m.statsErr = ""
	m.locs = nil
	m.locsErr = ""
	return m, tea.Batch(
		m.loadAdminCacheCmd(m.adminSeq),
		m.fetchStatsCmd(m.adminSeq),
		m.fetchLocationsCmd(m.adminSeq),
	)
}

func (m appModel) navigateBack() (appModel, tea.Cmd) {
	switch m.detailFrom {
	case viewMyItems:
		return m.gotoMyItems()
	default:
		return m.gotoDashboard()
	}
}

func fetchErrText(err error) string {
	switch {
	case api.IsNetwork(err):
		return "cannot reach the server, check your connection"
	case errors.Is(err, api.ErrAuthRequired):
		return "session expired, sign in again with `lostaf login`"
	case errors.Is(err, api.ErrNotFound):
		return "that item no longer exists"
	default:
		return "request failed: " + err.Error()
	}
}

// cycleFilter walks unset -> each value -> unset.
func cycleFilter(cur string, set []string) string {
	if cur == "" {
		if len(set) == 0 {
			return ""
		}
		return set[0]
	}
	for i, v := range set {
		if v == cur {
			if i+1 < len(set) {
				return set[i+1]
			}
			return ""
		}
	}
	return ""
}

func formFieldIsText(field int) bool {
	switch field {
	case fieldTitle, fieldDate, fieldDescription, fieldImage:
		return true
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
