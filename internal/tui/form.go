package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lostaf-cli/internal/imaging"
	"lostaf-cli/internal/model"
)

// Post-report form. Field focus moves with tab/shift+tab; enum fields
// cycle with left/right.
const (
	fieldType = iota
	fieldTitle
	fieldCategory
	fieldLocation
	fieldDate
	fieldDescription
	fieldAnonymous
	fieldImage
	fieldSubmit
	fieldCount
)

type postForm struct {
	focus int

	typeLost    bool
	title       textinput.Model
	categoryIdx int // -1 until chosen
	locationIdx int // -1 until chosen
	date        textinput.Model
	description textarea.Model
	anonymous   bool

	imagePath textinput.Model
	image     *imaging.Attachment
	preview   string
	imageErr  string

	submitting bool
	errText    string
}

func newPostForm() postForm {
	title := textinput.New()
	title.Placeholder = "What was lost or found?"
	title.CharLimit = 120
	title.Prompt = ""

	date := textinput.New()
	date.Placeholder = time.Now().Format("2006-01-02")
	date.CharLimit = 10
	date.Prompt = ""

	desc := textarea.New()
	desc.Placeholder = "Where exactly, identifying marks, ..."
	desc.SetHeight(4)
	desc.ShowLineNumbers = false

	img := textinput.New()
	img.Placeholder = "path/to/photo.jpg (optional, enter to load)"
	img.Prompt = ""

	f := postForm{
		typeLost:    true,
		title:       title,
		categoryIdx: -1,
		locationIdx: -1,
		date:        date,
		description: desc,
		imagePath:   img,
	}
	f.setFocus(fieldType)
	return f
}

func (f *postForm) setFocus(field int) {
	f.focus = field
	f.title.Blur()
	f.date.Blur()
	f.description.Blur()
	f.imagePath.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDate:
		f.date.Focus()
	case fieldDescription:
		f.description.Focus()
	case fieldImage:
		f.imagePath.Focus()
	}
}

func (f *postForm) nextField() { f.setFocus((f.focus + 1) % fieldCount) }
func (f *postForm) prevField() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

func (f *postForm) cycle(dir int) {
	switch f.focus {
	case fieldType:
		f.typeLost = !f.typeLost
	case fieldCategory:
		f.categoryIdx = cycleIdx(f.categoryIdx, len(model.Categories), dir)
	case fieldLocation:
		f.locationIdx = cycleIdx(f.locationIdx, len(model.Locations), dir)
	case fieldAnonymous:
		f.anonymous = !f.anonymous
	}
}

func cycleIdx(idx, n, dir int) int {
	if idx < 0 {
		if dir < 0 {
			return n - 1
		}
		return 0
	}
	return (idx + dir + n) % n
}

// draft snapshots the current form content.
func (f postForm) draft() model.Draft {
	d := model.Draft{
		Type:        model.ItemFound,
		Title:       strings.TrimSpace(f.title.Value()),
		Date:        strings.TrimSpace(f.date.Value()),
		Description: strings.TrimSpace(f.description.Value()),
		IsAnonymous: f.anonymous,
	}
	if f.typeLost {
		d.Type = model.ItemLost
	}
	if f.categoryIdx >= 0 {
		d.Category = model.Categories[f.categoryIdx]
	}
	if f.locationIdx >= 0 {
		d.Location = model.Locations[f.locationIdx]
	}
	return d
}

// applyDraft prefills the form from a persisted draft.
func (f *postForm) applyDraft(d model.Draft) {
	f.typeLost = d.Type != model.ItemFound
	f.title.SetValue(d.Title)
	f.date.SetValue(d.Date)
	f.description.SetValue(d.Description)
	f.anonymous = d.IsAnonymous
	f.categoryIdx = indexOf(model.Categories, d.Category)
	f.locationIdx = indexOf(model.Locations, d.Location)
}

func indexOf(set []string, s string) int {
	for i, v := range set {
		if v == s {
			return i
		}
	}
	return -1
}

func (f *postForm) setImage(att *imaging.Attachment) {
	f.image = att
	f.imageErr = ""
	f.preview = ""
	if att != nil {
		if thumb := att.Thumbnail(48); thumb != nil {
			f.preview = renderImagePreview(thumb, 48)
		}
	}
}

// updateInputs forwards a message to whichever text field holds focus.
func (f postForm) updateInputs(msg tea.Msg) (postForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldImage:
		f.imagePath, cmd = f.imagePath.Update(msg)
	}
	return f, cmd
}
