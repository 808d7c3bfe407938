package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/game"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
	"github.com/vovakirdan/snakearena/internal/storage"
)

// Phase is where a client is in the join, play, die loop.
type Phase int

const (
	PhaseJoin       Phase = iota // Entering name and colour
	PhasePlaying                 // Spawn requested or snake alive
	PhaseDead                    // Own snake died, showing the leaderboard
	PhaseSpectating              // Watching without a snake
)

// leaderboardDelay gives the background recorder time to store the death
// before the death screen queries the leaderboard.
const leaderboardDelay = 300 * time.Millisecond

// feedSize is how many recent deaths the side panel lists.
const feedSize = 4

// RoomSender delivers input to the arena.
type RoomSender interface {
	Send(msg multiplayer.RoomMessage) bool
}

// Leaderboard supplies the death screen. *storage.Store implements it.
type Leaderboard interface {
	TopScores(limit int) ([]storage.DeathEntry, error)
	BestByPlayer(playerID string) (*storage.DeathEntry, error)
}

// PlayerConfig wires a PlayerModel to its room and session.
type PlayerConfig struct {
	Room            RoomSender
	Session         *multiplayer.ChannelSession
	Leaderboard     Leaderboard // Optional, can be nil
	LeaderboardSize int
	PlayerID        string
	Name            string // Pre-filled name
	Color           string // Pre-selected colour
	Width, Height   int
}

type leaderboardMsg struct {
	top  []storage.DeathEntry
	best *storage.DeathEntry
	err  error
}

type sessionClosedMsg struct{}

// PlayerModel is the Bubble Tea model for one arena client. It never touches
// the engine: input goes to the room as messages and the board is redrawn
// from broadcast snapshots.
type PlayerModel struct {
	room     RoomSender
	session  *multiplayer.ChannelSession
	board    Leaderboard
	topN     int
	playerID string

	keys     KeyMap
	help     help.Model
	input    textinput.Model
	colorIdx int
	table    table.Model

	phase     Phase
	name      string
	color     string
	tick      uint64
	snap      game.Snapshot
	hasSnap   bool
	screen    *core.Screen
	lastDeath *game.Death
	best      *storage.DeathEntry
	boardErr  error
	feed      []string

	width    int
	height   int
	quitting bool
}

// NewPlayerModel creates a client in the join phase.
func NewPlayerModel(cfg PlayerConfig) PlayerModel {
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = storage.DefaultLimit
	}

	input := textinput.New()
	input.Placeholder = core.DefaultName
	input.CharLimit = 32
	input.Width = core.MaxNameWidth
	input.SetValue(cfg.Name)
	input.Focus()

	colorIdx := 0
	for i, c := range core.Palette {
		if c == strings.ToLower(cfg.Color) {
			colorIdx = i
		}
	}

	h := help.New()
	h.ShowAll = false

	return PlayerModel{
		room:     cfg.Room,
		session:  cfg.Session,
		board:    cfg.Leaderboard,
		topN:     cfg.LeaderboardSize,
		playerID: cfg.PlayerID,
		keys:     DefaultKeyMap(),
		help:     h,
		input:    input,
		colorIdx: colorIdx,
		table:    newLeaderboardTable(cfg.LeaderboardSize),
		screen:   core.NewScreen(1, 1),
		width:    cfg.Width,
		height:   cfg.Height,
	}
}

// Init initializes the model.
func (m PlayerModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// waitForEvent returns a command that waits for room events.
func (m PlayerModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.session == nil {
			return nil
		}
		select {
		case evt := <-m.session.Events():
			return evt
		case <-m.session.Done():
			return sessionClosedMsg{}
		}
	}
}

// loadLeaderboard queries the leaderboard after leaderboardDelay.
func (m PlayerModel) loadLeaderboard() tea.Cmd {
	if m.board == nil {
		return nil
	}
	board, id, limit := m.board, m.playerID, m.topN
	return tea.Tick(leaderboardDelay, func(time.Time) tea.Msg {
		top, err := board.TopScores(limit)
		if err != nil {
			return leaderboardMsg{err: err}
		}
		best, err := board.BestByPlayer(id)
		return leaderboardMsg{top: top, best: best, err: err}
	})
}

// Update handles messages.
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case multiplayer.SnapshotEvent:
		m.tick = msg.Tick
		m.snap = msg.Snapshot
		m.hasSnap = true
		return m, m.waitForEvent()

	case multiplayer.DeathEvent:
		return m.handleDeath(msg.Death)

	case leaderboardMsg:
		m.boardErr = msg.err
		if msg.err == nil {
			m.table.SetRows(leaderboardRows(msg.top))
			m.table.GotoTop()
			m.best = msg.best
		}
		return m, nil

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	if m.phase == PhaseJoin {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PlayerModel) handleDeath(d game.Death) (tea.Model, tea.Cmd) {
	m.feed = append(m.feed, fmt.Sprintf("%s %s (%d)", d.Name, causeText(d.Cause), d.Score))
	if len(m.feed) > feedSize {
		m.feed = m.feed[len(m.feed)-feedSize:]
	}

	if d.PlayerID != m.playerID || m.phase != PhasePlaying {
		return m, m.waitForEvent()
	}

	m.lastDeath = &d
	m.phase = PhaseDead
	return m, tea.Batch(m.waitForEvent(), m.loadLeaderboard())
}

// handleKey processes keyboard input for the current phase.
func (m PlayerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseJoin:
		return m.handleJoinKey(msg)

	case PhasePlaying:
		if d, ok := m.keys.Direction(msg); ok {
			m.room.Send(multiplayer.TurnMsg{PlayerID: m.playerID, Direction: d})
			return m, nil
		}
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case PhaseDead:
		switch {
		case key.Matches(msg, m.keys.Respawn):
			m.lastDeath = nil
			return m.spawn(), nil
		case key.Matches(msg, m.keys.Spectate):
			m.phase = PhaseSpectating
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case PhaseSpectating:
		switch {
		case key.Matches(msg, m.keys.Join):
			m.phase = PhaseJoin
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m PlayerModel) handleJoinKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Join):
		m.name, m.color = multiplayer.ValidateSpawn(m.input.Value(), core.Palette[m.colorIdx])
		m.input.Blur()
		return m.spawn(), nil
	case key.Matches(msg, m.keys.NextColor):
		m.colorIdx = (m.colorIdx + 1) % len(core.Palette)
		return m, nil
	case key.Matches(msg, m.keys.PrevColor):
		m.colorIdx = (m.colorIdx + len(core.Palette) - 1) % len(core.Palette)
		return m, nil
	case key.Matches(msg, m.keys.Spectate):
		m.input.Blur()
		m.phase = PhaseSpectating
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PlayerModel) spawn() PlayerModel {
	m.room.Send(multiplayer.SpawnMsg{PlayerID: m.playerID, Name: m.name, Color: m.color})
	m.phase = PhasePlaying
	return m
}

// Phase returns the current phase.
func (m PlayerModel) Phase() Phase {
	return m.phase
}

// View renders the current phase.
func (m PlayerModel) View() string {
	if m.quitting {
		return ""
	}

	var side string
	switch m.phase {
	case PhaseJoin:
		side = m.viewJoin()
	case PhaseDead:
		side = m.viewDeath()
	default:
		side = m.viewScores()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewBoard(), "  ", side)
	return body + "\n" + m.viewStatus()
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func (m PlayerModel) viewBoard() string {
	if !m.hasSnap {
		return dimStyle.Render(centerText("waiting for the arena...", m.width/2))
	}
	w, h := m.snap.Size.Width+2, m.snap.Size.Height+2
	if m.screen.Width() != w || m.screen.Height() != h {
		m.screen.Resize(w, h)
	}
	DrawBoard(m.screen, game.FromSnapshot(m.snap), m.playerID)
	return RenderScreen(m.screen)
}

func (m PlayerModel) viewJoin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SNAKE ARENA"))
	b.WriteString("\n\n")
	b.WriteString("Name\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\nColour\n")

	for i, c := range core.Palette {
		swatch := styleFor(c).Render("██")
		if i == m.colorIdx {
			swatch = "[" + swatch + "]"
		} else {
			swatch = " " + swatch + " "
		}
		b.WriteString(swatch)
	}
	b.WriteString("\n")
	b.WriteString(styleFor(core.Palette[m.colorIdx]).Render(core.Palette[m.colorIdx]))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("enter join • tab colour • esc spectate"))
	return panelStyle.Render(b.String())
}

func (m PlayerModel) viewScores() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LIVE"))
	b.WriteString("\n")

	snakes := append([]game.SnakeState(nil), m.snap.Snakes...)
	sort.SliceStable(snakes, func(i, j int) bool {
		return snakes[i].Score > snakes[j].Score
	})
	if len(snakes) > m.topN {
		snakes = snakes[:m.topN]
	}
	if len(snakes) == 0 {
		b.WriteString(dimStyle.Render("nobody playing"))
		b.WriteString("\n")
	}
	for _, s := range snakes {
		marker := "  "
		if s.ID == m.playerID {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s %4d", marker, runewidth.FillRight(s.Name, core.MaxNameWidth), s.Score)
		b.WriteString(styleFor(s.Color).Render(line))
		b.WriteString("\n")
	}

	if len(m.feed) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("DEATHS"))
		b.WriteString("\n")
		for _, line := range m.feed {
			b.WriteString(dimStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m PlayerModel) viewDeath() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("YOU DIED"))
	b.WriteString("\n\n")
	if m.lastDeath != nil {
		b.WriteString(fmt.Sprintf("You %s.\nScore: %d\n", causeText(m.lastDeath.Cause), m.lastDeath.Score))
	}
	if m.best != nil {
		b.WriteString(fmt.Sprintf("Personal best: %d\n", m.best.Score))
	}
	b.WriteString("\n")

	switch {
	case m.board == nil:
		b.WriteString(dimStyle.Render("No leaderboard on this server."))
	case m.boardErr != nil:
		b.WriteString(dimStyle.Render("Leaderboard unavailable."))
	case len(m.table.Rows()) == 0:
		b.WriteString(dimStyle.Render("No scores recorded yet."))
	default:
		b.WriteString(m.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("r respawn • esc spectate • q quit"))
	return panelStyle.Render(b.String())
}

func (m PlayerModel) viewStatus() string {
	var status string
	switch m.phase {
	case PhasePlaying:
		if _, alive := m.snap.Snake(m.playerID); alive {
			status = fmt.Sprintf("%s • tick %d", m.name, m.tick)
		} else {
			status = "spawning..."
		}
	case PhaseSpectating:
		status = "spectating • enter to join"
	case PhaseDead:
		status = "dead"
	default:
		status = "choose a name"
	}
	return dimStyle.Render(status) + "  " + m.help.View(m.keys)
}

// newLeaderboardTable creates the death screen table.
func newLeaderboardTable(rows int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: core.MaxNameWidth},
		{Title: "Score", Width: 6},
		{Title: "Cause", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(rows+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// leaderboardRows converts entries to table rows.
func leaderboardRows(entries []storage.DeathEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.Score),
			shortCause(e.Cause),
		}
	}
	return rows
}

func causeText(c game.DeathCause) string {
	switch c {
	case game.CauseSelfCollision:
		return "ran into yourself"
	case game.CauseKilled:
		return "crashed into a snake"
	case game.CauseWall:
		return "hit the wall"
	}
	return "died"
}

func shortCause(cause string) string {
	switch game.DeathCause(cause) {
	case game.CauseSelfCollision:
		return "self"
	case game.CauseKilled:
		return "snake"
	case game.CauseWall:
		return "wall"
	}
	return cause
}
