package tui

import (
	"fmt"
	"strings"

	"lostaf-cli/internal/model"
)

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewResolving:
		body = "\n  restoring session..."
	case viewLanding:
		body = m.viewLanding()
	case viewDashboard:
		body = m.viewDashboard()
	case viewDetail:
		body = m.viewDetail()
	case viewMyItems:
		body = m.viewMyItems()
	case viewPost:
		body = m.viewPost()
	case viewAdmin:
		body = m.viewAdmin()
	}

	var sb strings.Builder
	sb.WriteString(m.viewHeader())
	sb.WriteByte('\n')
	if m.noticeText != "" {
		st := noticeInfoStyle
		if m.noticeErr {
			st = noticeErrorStyle
		}
		sb.WriteString(" " + st.Render(m.noticeText))
	}
	sb.WriteByte('\n')
	sb.WriteString(body)
	sb.WriteByte('\n')
	sb.WriteString(footerStyle.Render(" " + m.footerHelp()))
	return sb.String()
}

func (m appModel) viewHeader() string {
	brand := headerStyle.Render(" LostAF")
	crumb := breadcrumbStyle.Render(" · " + m.view.String())
	who := ""
	if m.user != nil {
		who = breadcrumbStyle.Render("  " + m.user.Name + " <" + m.user.Email + ">")
	}
	return brand + crumb + who
}

func (m appModel) footerHelp() string {
	switch m.view {
	case viewLanding:
		return "q quit"
	case viewDashboard:
		if m.searching {
			return "enter/esc done typing"
		}
		return "↑/↓ move · enter open · / search · t type · c category · g location · x clear · p post · m mine · a admin · L logout · q quit"
	case viewDetail:
		hint := "esc back"
		if m.detail != nil && m.user != nil && m.detail.Resolvable(m.user.ID) {
			hint += " · R mark resolved"
		}
		return hint + " · q quit"
	case viewMyItems:
		return "↑/↓ move · enter open · esc back · q quit"
	case viewPost:
		return "tab/shift+tab field · ←/→ choose · enter next/submit · esc back (keeps draft)"
	case viewAdmin:
		return "r refresh · esc back · q quit"
	}
	return ""
}

func (m appModel) viewLanding() string {
	var sb strings.Builder
	sb.WriteString("\n  " + sectionTitleStyle.Render("Campus Lost & Found") + "\n\n")
	sb.WriteString("  Reunite lost items with their owners.\n\n")
	sb.WriteString("  You are not signed in. Run " + headerStyle.Render("lostaf login") + "\n")
	sb.WriteString("  in another terminal, then restart this session.\n")
	return sb.String()
}

func (m appModel) viewDashboard() string {
	var sb strings.Builder
	sb.WriteString(" " + m.filterBar() + "\n")
	if m.searching {
		sb.WriteString(" " + m.searchInput.View() + "\n")
	}
	switch {
	case m.itemsLoading && !m.itemsLoadedOnce:
		sb.WriteString("\n  loading items...\n")
	case len(m.items) == 0:
		if m.filter.IsZero() {
			sb.WriteString("\n  nothing reported yet, press " + headerStyle.Render("p") + " to post the first item\n")
		} else {
			sb.WriteString("\n  no items match these filters, press " + headerStyle.Render("x") + " to clear them\n")
		}
	default:
		sb.WriteString(m.itemsList.View())
	}
	return sb.String()
}

func (m appModel) filterBar() string {
	seg := func(label, v string) string {
		if v == "" {
			v = "all"
		}
		return labelStyle.Render(label+":") + " " + v
	}
	parts := []string{
		seg("type", m.filter.Type),
		seg("category", m.filter.Category),
		seg("location", m.filter.Location),
	}
	if s := strings.TrimSpace(m.filter.Search); s != "" {
		parts = append(parts, seg("search", s))
	}
	return strings.Join(parts, "  ")
}

func (m appModel) viewDetail() string {
	if m.detailLoading || m.detail == nil {
		return "\n  loading item...\n"
	}
	it := *m.detail
	width := m.width - 4
	if width < 30 {
		width = 56
	}

	var sb strings.Builder
	sb.WriteString("\n " + typeBadge(it.Type == model.ItemLost) + " " + headerStyle.Render(it.Title))
	if it.Status == model.StatusResolved {
		sb.WriteString(" " + resolvedStyle.Render("(resolved)"))
	}
	sb.WriteString("\n " + labelStyle.Render(it.Category+" · "+it.Location+" · "+it.Date) + "\n\n")

	if desc := renderMarkdown(it.Description, width); desc != "" {
		sb.WriteString(indent(desc, " ") + "\n\n")
	}
	if it.ImageURL != nil {
		sb.WriteString(" " + labelStyle.Render("photo: ") + *it.ImageURL + "\n")
	}

	if it.ContactVisible() {
		sb.WriteString(" " + labelStyle.Render("posted by: ") + it.UserName)
		if it.UserEmail != "" {
			sb.WriteString(" <" + it.UserEmail + ">")
		}
		sb.WriteByte('\n')
	} else {
		sb.WriteString(" " + labelStyle.Render("posted anonymously") + "\n")
	}

	if len(it.Matches) > 0 {
		sb.WriteString("\n " + sectionTitleStyle.Render(matchHeading(it.Type)) + "\n")
		for _, match := range it.Matches {
			sb.WriteString(fmt.Sprintf("   %3.0f%%  %s", match.Similarity*100, match.Title))
			if match.Location != "" {
				sb.WriteString(labelStyle.Render("  " + match.Location))
			}
			if match.UserEmail != nil {
				sb.WriteString(labelStyle.Render("  " + *match.UserEmail))
			} else {
				sb.WriteString(labelStyle.Render("  (anonymous)"))
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func matchHeading(t model.ItemType) string {
	if t == model.ItemLost {
		return "Possible found matches"
	}
	return "Possible lost matches"
}

func (m appModel) viewMyItems() string {
	if m.myLoading {
		return "\n  loading your items...\n"
	}
	if len(m.myItems) == 0 {
		return "\n  you haven't posted anything yet\n"
	}
	return m.myList.View()
}

func (m appModel) viewPost() string {
	f := m.form
	var sb strings.Builder
	sb.WriteString("\n " + sectionTitleStyle.Render("Report an item") + "\n\n")

	row := func(field int, label, value string) {
		var lbl string
		if f.focus == field {
			lbl = focusedFieldStyle.Render("> " + label)
		} else {
			lbl = "  " + labelStyle.Render(label)
		}
		sb.WriteString(" " + lbl + " " + value + "\n")
	}

	typeVal := "found"
	if f.typeLost {
		typeVal = "lost"
	}
	row(fieldType, "type      ", typeBadge(f.typeLost)+" "+labelStyle.Render("(←/→ to switch, "+typeVal+")"))
	row(fieldTitle, "title     ", f.title.View())
	row(fieldCategory, "category  ", enumValue(model.Categories, f.categoryIdx))
	row(fieldLocation, "location  ", enumValue(model.Locations, f.locationIdx))
	row(fieldDate, "date      ", f.date.View())
	row(fieldDescription, "details   ", "")
	sb.WriteString(indent(f.description.View(), "   ") + "\n")
	anonVal := "no"
	if f.anonymous {
		anonVal = "yes"
	}
	row(fieldAnonymous, "anonymous ", anonVal+" "+labelStyle.Render("(hides your contact info from everyone)"))
	row(fieldImage, "photo     ", f.imagePath.View())
	if f.imageErr != "" {
		sb.WriteString("   " + noticeErrorStyle.Render(f.imageErr) + "\n")
	}
	if f.preview != "" {
		sb.WriteString("\n" + indent(f.preview, "   ") + "\n")
		if f.image != nil {
			sb.WriteString("   " + labelStyle.Render(fmt.Sprintf("%s · %dx%d", f.image.Filename, f.image.Width, f.image.Height)) + "\n")
		}
	}

	sb.WriteByte('\n')
	submit := "[ submit ]"
	if f.submitting {
		submit = "[ submitting... ]"
	}
	if f.focus == fieldSubmit {
		submit = focusedFieldStyle.Render("> " + submit)
	} else {
		submit = "  " + submit
	}
	sb.WriteString(" " + submit + "\n")
	if f.errText != "" {
		sb.WriteString(" " + noticeErrorStyle.Render(f.errText) + "\n")
	}
	return sb.String()
}

func enumValue(set []string, idx int) string {
	if idx < 0 || idx >= len(set) {
		return labelStyle.Render("(←/→ to choose)")
	}
	return set[idx]
}

func (m appModel) viewAdmin() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionTitleStyle.Render("Overview") + "\n")
	switch {
	case m.stats != nil:
		cached := ""
		if m.statsFromCache {
			cached = labelStyle.Render("  (cached)")
		}
		sb.WriteString(fmt.Sprintf("   lost %d · found %d · resolved %d · matches %d%s\n",
			m.stats.TotalLost, m.stats.TotalFound, m.stats.TotalResolved, m.stats.TotalMatches, cached))
		if m.statsErr != "" {
			sb.WriteString("   " + noticeErrorStyle.Render("refresh failed: "+m.statsErr) + "\n")
		}
	case m.statsErr != "":
		sb.WriteString("   " + noticeErrorStyle.Render(m.statsErr) + "\n")
	default:
		sb.WriteString("   loading...\n")
	}

	sb.WriteString("\n " + sectionTitleStyle.Render("Active items by location") + "\n")
	switch {
	case m.locs != nil:
		cached := ""
		if m.locsFromCache {
			cached = labelStyle.Render("  (cached)")
		}
		maxCount := 0
		for _, lc := range m.locs {
			if lc.Count > maxCount {
				maxCount = lc.Count
			}
		}
		for _, lc := range m.locs {
			bar := ""
			if maxCount > 0 {
				bar = strings.Repeat("█", lc.Count*20/maxCount)
			}
			sb.WriteString(fmt.Sprintf("   %-14s %3d %s%s\n", lc.Location, lc.Count, bar, cached))
			cached = ""
		}
		if len(m.locs) == 0 {
			sb.WriteString("   no active items\n")
		}
		if m.locsErr != "" {
			sb.WriteString("   " + noticeErrorStyle.Render("refresh failed: "+m.locsErr) + "\n")
		}
	case m.locsErr != "":
		sb.WriteString("   " + noticeErrorStyle.Render(m.locsErr) + "\n")
	default:
		sb.WriteString("   loading...\n")
	}
	return sb.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
