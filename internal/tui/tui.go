package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/session"
	"lostaf-cli/internal/store"
)

type Deps struct {
	Client *api.Client
	Store  store.Store
	Logger zerolog.Logger
}

func Run(deps Deps) error {
	sess := session.NewManager(deps.Client, deps.Store, deps.Logger)
	m := newAppModel(deps.Client, sess, deps.Store, deps.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
