package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/board"
	"github.com/hylla/choreboard/internal/domain"
)

// defaultUnitsPerCell maps one terminal column onto pointer units.
const defaultUnitsPerCell = 8

// cardIndent is the resting left margin of a card row.
const cardIndent = 4

// boardLoadedMsg carries one board snapshot from the store.
type boardLoadedMsg struct {
	view app.BoardView
	err  error
}

// holdElapsedMsg fires when a dwell timer armed by the board runs out.
type holdElapsedMsg struct {
	generation int
	cardID     int64
	token      uint64
}

// statusResultMsg carries the store's answer to one SendStatus effect.
type statusResultMsg struct {
	generation int
	seq        uint64
	cardID     int64
	ack        domain.StatusAck
	err        error
}

// clipboardMsg reports the result of a copy.
type clipboardMsg struct {
	cards int
	err   error
}

// pendingConfirm is an open revert prompt.
type pendingConfirm struct {
	cardID int64
	prompt string
}

// pointerPress tracks the card under the active mouse press.
type pointerPress struct {
	cardID int64
	row    int
	left   bool
}

// Model is the bubbletea model hosting one chore board.
type Model struct {
	store          Store
	logger         *log.Logger
	writeClipboard func(string) error

	keys     keyMap
	help     help.Model
	markdown *markdownRenderer

	unitsPerCell int
	snapBack     bool
	kid          string

	board      *board.Board
	generation int
	day        string

	press    *pointerPress
	confirm  *pendingConfirm
	showHelp bool

	ready  bool
	width  int
	height int
	status string
	err    error
}

// NewModel constructs a model that loads its board from store.
func NewModel(store Store, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		store:          store,
		logger:         log.New(io.Discard),
		writeClipboard: systemClipboard,
		keys:           newKeyMap(),
		help:           h,
		markdown:       &markdownRenderer{},
		unitsPerCell:   defaultUnitsPerCell,
		status:         "loading...",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init loads the first board snapshot.
func (m Model) Init() tea.Cmd {
	return m.loadBoard
}

// loadBoard fetches the board from the store.
func (m Model) loadBoard() tea.Msg {
	if m.store == nil {
		return boardLoadedMsg{err: errors.New("no chore store configured")}
	}
	view, err := m.store.Board(context.Background(), m.kid)
	return boardLoadedMsg{view: view, err: err}
}

// Update routes one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		return m.applyLoaded(msg)

	case holdElapsedMsg:
		if m.board == nil || msg.generation != m.generation {
			return m, nil
		}
		return m, m.runEffects(m.board.HoldElapsed(msg.cardID, msg.token))

	case statusResultMsg:
		if m.board == nil || msg.generation != m.generation {
			m.logger.Debug("dropping status result from previous board", "card_id", msg.cardID, "seq", msg.seq)
			return m, nil
		}
		m.reportResult(m.board.CompleteStatus(msg.seq, msg.ack, msg.err))
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %d chores", msg.cards)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m, nil
	}
}

// applyLoaded rebuilds the board from a fresh snapshot, keeping the kid filter.
func (m Model) applyLoaded(msg boardLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("board load failed", "err", msg.err)
		if m.board == nil {
			m.err = msg.err
		}
		m.status = "load failed: " + msg.err.Error()
		return m, nil
	}
	owner, filtered := "", false
	if m.board != nil {
		owner, filtered = m.board.Filter()
	}
	seeds := make([]board.CardSeed, 0, len(msg.view.Chores))
	for _, chore := range msg.view.Chores {
		seeds = append(seeds, board.CardSeed{
			ID:     chore.ID,
			Title:  chore.Title,
			Owner:  chore.Kid,
			Status: chore.Status,
		})
	}
	next := board.New(seeds, msg.view.Kids,
		board.WithLogger(m.logger),
		board.WithSnapBackOnFailure(m.snapBack),
	)
	if filtered {
		if err := next.SelectOwner(owner); err != nil {
			m.logger.Warn("previous kid filter no longer available", "kid", owner)
		}
	}
	reloaded := m.board != nil
	m.board = next
	m.generation++
	m.day = msg.view.Day
	m.press = nil
	m.confirm = nil
	m.err = nil
	if reloaded {
		m.status = "reloaded"
	} else {
		m.status = "ready"
	}
	m.logger.Info("board loaded", "day", m.day, "chores", len(seeds))
	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.toggleHelp, m.keys.decline) {
			m.showHelp = false
		} else if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadBoard
	}
	if m.board == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.nextTab):
		m.cycleTab(1)
	case key.Matches(msg, m.keys.prevTab):
		m.cycleTab(-1)
	case key.Matches(msg, m.keys.copyBoard):
		summary, count := boardSummary(m.board, m.day)
		write := m.writeClipboard
		return m, func() tea.Msg {
			return clipboardMsg{cards: count, err: write(summary)}
		}
	}
	return m, nil
}

// handleConfirmKey answers an open revert prompt.
func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.confirm = nil
		effects, err := m.board.ConfirmRevert(pending.cardID)
		if err != nil {
			m.status = "revert not sent: " + err.Error()
			return m, nil
		}
		m.status = "sending..."
		return m, m.runEffects(effects)
	case key.Matches(msg, m.keys.decline):
		m.confirm = nil
		m.board.DeclineRevert(pending.cardID)
		m.status = "kept as is"
	}
	return m, nil
}

// cycleTab moves the active filter tab by delta, wrapping around.
func (m *Model) cycleTab(delta int) {
	tabs := m.board.Tabs()
	if len(tabs) == 0 {
		return
	}
	next := (m.board.ActiveTab() + delta + len(tabs)) % len(tabs)
	if err := m.board.SelectTab(next); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "showing " + strings.ToLower(tabs[next].Label)
}

// handleMouseClick starts a press on a card or selects a tab.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.board == nil || m.confirm != nil || m.showHelp {
		return m, nil
	}
	line, ok := lineAt(m.visibleLayout(), msg.Y)
	if !ok {
		return m, nil
	}
	switch line.kind {
	case lineTabs:
		_, spans := m.renderTabs()
		if idx, hit := tabAt(spans, msg.X); hit {
			if err := m.board.SelectTab(idx); err == nil {
				m.status = "showing " + strings.ToLower(m.board.Tabs()[idx].Label)
			}
		}
		return m, nil
	case lineCard:
		m.press = &pointerPress{cardID: line.cardID, row: msg.Y}
		ev := board.PressButton(m.toUnits(msg.X), mouseButton(msg.Button))
		return m, m.runEffects(m.board.Dispatch(line.cardID, ev))
	default:
		return m, nil
	}
}

// handleMouseMotion feeds a drag. Leaving the card row cancels a pending hold.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if m.board == nil || m.press == nil {
		return m, nil
	}
	press := *m.press
	var effects []board.Effect
	if msg.Y != press.row && !press.left {
		press.left = true
		effects = append(effects, m.board.Dispatch(press.cardID, board.Leave())...)
	}
	effects = append(effects, m.board.Dispatch(press.cardID, board.Move(m.toUnits(msg.X)))...)
	m.press = &press
	return m, m.runEffects(effects)
}

// handleMouseRelease ends the active press.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if m.board == nil || m.press == nil {
		return m, nil
	}
	id := m.press.cardID
	m.press = nil
	return m, m.runEffects(m.board.Dispatch(id, board.Release(m.toUnits(msg.X))))
}

// toUnits converts a terminal column to pointer units.
func (m Model) toUnits(x int) int {
	return x * m.unitsPerCell
}

// mouseButton maps terminal buttons onto board buttons.
func mouseButton(b tea.MouseButton) board.Button {
	switch b {
	case tea.MouseLeft:
		return board.ButtonPrimary
	case tea.MouseMiddle:
		return board.ButtonMiddle
	default:
		return board.ButtonSecondary
	}
}

// runEffects turns board effects into commands.
func (m *Model) runEffects(effects []board.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, effect := range effects {
		switch e := effect.(type) {
		case board.ArmHold:
			msg := holdElapsedMsg{generation: m.generation, cardID: e.CardID, token: e.Token}
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return msg }))
		case board.ConfirmRevert:
			m.press = nil
			m.confirm = &pendingConfirm{cardID: e.CardID, prompt: e.Prompt}
		case board.SendStatus:
			m.status = "sending..."
			cmds = append(cmds, m.sendStatus(e))
		}
	}
	return tea.Batch(cmds...)
}

// sendStatus runs one store update off the update loop.
func (m Model) sendStatus(e board.SendStatus) tea.Cmd {
	store := m.store
	generation := m.generation
	return func() tea.Msg {
		result := statusResultMsg{generation: generation, seq: e.Seq, cardID: e.CardID}
		if store == nil {
			result.err = errors.New("no chore store configured")
			return result
		}
		result.ack, result.err = store.UpdateStatus(context.Background(), e.CardID, e.Status)
		return result
	}
}

// reportResult updates the status line from one reconciler outcome.
func (m *Model) reportResult(res board.Result) {
	switch res.Outcome {
	case board.OutcomeApplied:
		m.status = "marked " + string(res.Status)
	case board.OutcomeRejected:
		m.status = "update rejected: " + errorDetail(res.Err)
	case board.OutcomeTransportFailed:
		m.status = "network error: " + errorDetail(res.Err)
	}
}

// errorDetail strips the rejection sentinel so the store's reason reads first.
func errorDetail(err error) string {
	if err == nil {
		return "unknown error"
	}
	text := strings.TrimPrefix(err.Error(), board.ErrRejected.Error()+": ")
	if text == board.ErrRejected.Error() {
		return "no reason given"
	}
	return text
}

// View renders the board.
func (m Model) View() tea.View {
	if m.err != nil {
		return boardView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
	}
	if !m.ready || m.board == nil {
		return boardView("loading...")
	}

	lines := m.visibleLayout()
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, m.renderLine(line))
	}
	content := strings.Join(rows, "\n")

	helpLine := m.renderHelpLine()
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine

	if overlay := m.renderOverlay(); overlay != "" {
		height := lipgloss.Height(full)
		if m.height > 0 {
			height = m.height
		}
		full = overlayOnContent(full, overlay, max(1, m.width), max(1, height))
	}
	return boardView(full)
}

// renderHelpLine renders the bordered key help footer.
func (m Model) renderHelpLine() string {
	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpText := helpBubble.View(m.keys)
	if m.confirm != nil {
		helpText = helpBubble.ShortHelpView(m.keys.confirmHelp())
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		BorderTop(true).
		BorderForeground(lipgloss.Color("239")).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpText)
}

// visibleLayout returns the board rows that fit above the help footer. View
// and mouse hit-testing both read it.
func (m Model) visibleLayout() []layoutLine {
	lines := buildLayout(m.board)
	if m.height <= 0 {
		return lines
	}
	return clipLayout(lines, max(0, m.height-lipgloss.Height(m.renderHelpLine())))
}

// boardView wraps content with the terminal modes the board needs.
func boardView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderLine renders one layout row.
func (m Model) renderLine(line layoutLine) string {
	switch line.kind {
	case lineHeader:
		title := "choreboard · " + m.day
		if m.kid != "" {
			title += " · " + m.kid
		}
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Render(title)
	case lineTabs:
		strip, _ := m.renderTabs()
		return strip
	case lineSection:
		title := "To do"
		if line.part == board.PartitionCompleted {
			title = "Done for today"
		}
		count := m.board.VisibleCount(line.part)
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Render(fmt.Sprintf("%s (%d)", title, count))
	case lineCard:
		card, ok := m.board.Card(line.cardID)
		if !ok {
			return ""
		}
		return m.renderCard(card)
	case lineEmpty:
		text := "Nothing left to do 🎉"
		if line.part == board.PartitionCompleted {
			text = "Nothing finished yet"
		}
		return strings.Repeat(" ", cardIndent) + lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render(text)
	case lineStatus:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(m.status)
	case lineMore:
		return "…"
	default:
		return ""
	}
}

// renderTabs renders the kid filter tabs.
func (m Model) renderTabs() (string, []tabSpan) {
	active := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	inactive := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	return renderTabStrip(m.board.Tabs(), active, inactive)
}

// statusColor returns the foreground for one status class.
func statusColor(class domain.Status) lipgloss.Style {
	switch class {
	case domain.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	case domain.StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	}
}

// tiltGlyph renders a drag rotation in degrees.
func tiltGlyph(rotation float64) string {
	switch {
	case math.Abs(rotation) < 1:
		return ""
	case rotation > 0:
		return "⟋ "
	default:
		return "⟍ "
	}
}

// renderCard renders one card row at its current visual offset.
func (m Model) renderCard(card board.Card) string {
	style := statusColor(card.Class)
	if card.Locked {
		style = style.Faint(true)
	}
	body := fmt.Sprintf("%s  %s  %s", card.Title, card.Owner, card.Label)
	width := max(m.width, cardIndent+lipgloss.Width(body))

	if card.Settling {
		text := "sending… " + card.Title
		if card.SettleDirection >= 0 {
			text = text + " →"
			pad := max(0, width-lipgloss.Width(text))
			return strings.Repeat(" ", pad) + style.Render(text)
		}
		return style.Render("← " + text)
	}

	if card.InFlight {
		body += "  sending…"
	}
	body = tiltGlyph(card.Rotation) + body
	shift := 0
	if m.unitsPerCell > 0 {
		shift = card.Offset / m.unitsPerCell
	}
	indent := clamp(cardIndent+shift, 0, max(0, width-lipgloss.Width(body)))
	if card.Dragging {
		style = style.Bold(true)
	}
	return strings.Repeat(" ", indent) + style.Render(body)
}

// renderOverlay renders the confirm prompt or the help sheet.
func (m Model) renderOverlay() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)
	switch {
	case m.confirm != nil:
		hint := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("y/enter confirm • n/esc cancel")
		return box.Render(m.confirm.prompt + "\n\n" + hint)
	case m.showHelp:
		width := max(24, min(72, m.width-8))
		return box.Render(m.markdown.render(helpMarkdown, width))
	default:
		return ""
	}
}

// boardSummary renders the visible board as plain text for the clipboard.
func boardSummary(b *board.Board, day string) (string, int) {
	var sb strings.Builder
	count := 0
	sb.WriteString("Chores for " + day + "\n")
	for _, part := range []board.Partition{board.PartitionActive, board.PartitionCompleted} {
		title := "To do"
		if part == board.PartitionCompleted {
			title = "Done for today"
		}
		sb.WriteString("\n" + title + ":\n")
		listed := 0
		for _, id := range b.Members(part) {
			card, ok := b.Card(id)
			if !ok || card.FilteredHidden {
				continue
			}
			fmt.Fprintf(&sb, "- %s (%s): %s\n", card.Title, card.Owner, card.Label)
			listed++
		}
		if listed == 0 {
			sb.WriteString("- nothing\n")
		}
		count += listed
	}
	return sb.String(), count
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or truncates content to maxLines rows.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}
