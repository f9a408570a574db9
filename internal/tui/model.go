package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quietrun/racecal/internal/catalog"
	"github.com/quietrun/racecal/internal/engine"
	"github.com/quietrun/racecal/internal/export"
	"github.com/quietrun/racecal/internal/plan"
	"github.com/quietrun/racecal/internal/render"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	dayStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	workoutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A"))
	anchorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#7AA2F7"))
	raceDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A")).Padding(0, 1)
	weekdayHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// planFetchedMsg delivers an asynchronous template fetch back to the UI
// loop. The Rebuild carries the engine token that decides staleness.
type planFetchedMsg struct {
	rebuild  *engine.Rebuild
	template plan.PlanTemplate
	err      error
}

// Model implements the Bubble Tea calendar UI.
type Model struct {
	engine    *engine.Engine
	catalog   *catalog.Catalog
	profiles  []string
	exportDir string

	width  int
	height int

	cursor plan.Date
	anchor *plan.Date

	showSummary bool
	summary     table.Model

	keys keyMap
	help help.Model

	// pending is a rebuild staged before the program started; Init kicks
	// off its fetch.
	pending *engine.Rebuild

	status string
	errMsg string
}

// NewModel constructs the calendar UI. A non-nil pending rebuild is fetched
// on Init (the fresh-profile path); otherwise the engine already holds a
// restored plan.
func NewModel(eng *engine.Engine, cat *catalog.Catalog, profiles []string, exportDir string, pending *engine.Rebuild) *Model {
	m := &Model{
		engine:    eng,
		catalog:   cat,
		profiles:  profiles,
		exportDir: exportDir,
		keys:      defaultKeyMap(),
		help:      help.New(),
		pending:   pending,
	}
	if p, ok := eng.RacePlan(); ok {
		m.cursor = p.Start
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.pending != nil {
		r := m.pending
		m.pending = nil
		return m.fetchCmd(r)
	}
	return nil
}

func (m *Model) fetchCmd(r *engine.Rebuild) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		tpl, err := eng.Fetch(context.Background(), r)
		return planFetchedMsg{rebuild: r, template: tpl, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case planFetchedMsg:
		m.handleFetched(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleFetched(msg planFetchedMsg) {
	if msg.err != nil {
		m.engine.Fail(msg.rebuild, msg.err)
		m.errMsg = fmt.Sprintf("failed to load plan %s: %v", msg.rebuild.Summary.ID, msg.err)
		return
	}
	if !m.engine.Finish(context.Background(), msg.rebuild, msg.template) {
		// A newer request superseded this one; nothing to show.
		return
	}
	m.errMsg = ""
	m.anchor = nil
	if p, ok := m.engine.RacePlan(); ok {
		m.cursor = p.Start
		m.status = fmt.Sprintf("loaded %s", m.engine.Plan().Name)
	}
	m.refreshSummary()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Summary):
		m.showSummary = !m.showSummary
		if m.showSummary {
			m.refreshSummary()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-7)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(7)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Select):
		m.handleSelect(ctx)
	case key.Matches(msg, m.keys.SwapColumn):
		m.handleSwapColumn(ctx)
	case key.Matches(msg, m.keys.Undo):
		if m.engine.Undo(ctx) {
			m.status = "undone"
		} else {
			m.status = "nothing to undo"
		}
		m.refreshSummary()
	case key.Matches(msg, m.keys.NextPlan):
		return m, m.stageRebuild(m.engine.SetPlan(m.nextPlanID()))
	case key.Matches(msg, m.keys.DateBack):
		return m, m.stageRebuild(m.engine.SetEndDate(m.engine.EndDate().AddDays(-7)))
	case key.Matches(msg, m.keys.DateFwd):
		return m, m.stageRebuild(m.engine.SetEndDate(m.engine.EndDate().AddDays(7)))
	case key.Matches(msg, m.keys.WeekStart):
		return m, m.stageRebuild(m.engine.SetWeekStart(nextWeekStart(m.engine.WeekStartsOn())))
	case key.Matches(msg, m.keys.Units):
		m.engine.SetUnits(ctx, toggleUnits(m.engine.Units()))
		m.refreshSummary()
	case key.Matches(msg, m.keys.Profile):
		return m, m.handleProfileSwitch(ctx)
	case key.Matches(msg, m.keys.ExportIcal):
		m.handleExport("ics")
	case key.Matches(msg, m.keys.ExportCsv):
		m.handleExport("csv")
	}
	return m, nil
}

func (m *Model) stageRebuild(r *engine.Rebuild) tea.Cmd {
	m.status = fmt.Sprintf("loading %s...", r.Summary.Name)
	return m.fetchCmd(r)
}

func (m *Model) moveCursor(days int) {
	p, ok := m.engine.RacePlan()
	if !ok {
		return
	}
	next := m.cursor.AddDays(days)
	if p.Contains(next) {
		m.cursor = next
	}
}

func (m *Model) handleSelect(ctx context.Context) {
	if _, ok := m.engine.RacePlan(); !ok {
		return
	}
	if m.anchor == nil {
		anchor := m.cursor
		m.anchor = &anchor
		m.status = fmt.Sprintf("marked %s; select a date to swap with", anchor)
		return
	}
	if *m.anchor == m.cursor {
		m.anchor = nil
		m.status = "mark cleared"
		return
	}
	m.engine.SwapDates(ctx, *m.anchor, m.cursor)
	m.status = fmt.Sprintf("swapped %s and %s", *m.anchor, m.cursor)
	m.anchor = nil
	m.refreshSummary()
}

func (m *Model) handleSwapColumn(ctx context.Context) {
	if _, ok := m.engine.RacePlan(); !ok {
		return
	}
	if m.anchor == nil {
		m.status = "mark a date first, then press d on the target weekday"
		return
	}
	from := m.anchor.Weekday()
	to := m.cursor.Weekday()
	m.engine.SwapDow(ctx, from, to)
	m.status = fmt.Sprintf("swapped all %ss and %ss", from, to)
	m.anchor = nil
	m.refreshSummary()
}

func (m *Model) handleProfileSwitch(ctx context.Context) tea.Cmd {
	next := nextProfile(m.profiles, m.engine.Profile())
	r := m.engine.SwitchProfile(ctx, next)
	m.anchor = nil
	if r != nil {
		return m.stageRebuild(r)
	}
	if p, ok := m.engine.RacePlan(); ok {
		m.cursor = p.Start
	}
	m.status = fmt.Sprintf("switched to %s", next)
	m.refreshSummary()
	return nil
}

func (m *Model) handleExport(ext string) {
	p, ok := m.engine.RacePlan()
	if !ok {
		m.status = "nothing to export"
		return
	}
	var content string
	switch ext {
	case "ics":
		content, ok = export.ToIcal(p, m.engine.Units())
	case "csv":
		content, ok = export.ToCsv(p, m.engine.Units(), m.engine.WeekStartsOn())
	}
	if !ok {
		m.status = "nothing to export"
		return
	}
	path, err := export.WriteFile(m.exportDir, export.BaseName, ext, content)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.status = fmt.Sprintf("wrote %s", path)
}

func (m *Model) refreshSummary() {
	p, ok := m.engine.RacePlan()
	if !ok {
		return
	}
	units := m.engine.Units()
	columns := []table.Column{
		{Title: "Week", Width: 5},
		{Title: "Starts", Width: 11},
		{Title: "Workouts", Width: 9},
		{Title: fmt.Sprintf("Distance (%s)", string(units)), Width: 14},
	}
	summaries := render.WeekSummaries(p, units)
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.Week),
			s.Start.String(),
			fmt.Sprintf("%d", s.Workouts),
			fmt.Sprintf("%.1f", s.Distance),
		})
	}
	height := len(rows) + 1
	if height > 14 {
		height = 14
	}
	m.summary = table.New(table.WithColumns(columns), table.WithRows(rows), table.WithHeight(height))
}

// View implements tea.Model.
func (m *Model) View() string {
	p, ok := m.engine.RacePlan()
	if !ok {
		body := mutedStyle.Render("loading plan...")
		if m.errMsg != "" {
			body = errorStyle.Render(m.errMsg)
		}
		return body + "\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.showSummary {
		b.WriteString(overlayStyle.Render(m.summary.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderGrid(p))
	}
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	parts := []string{
		headerStyle.Render(m.engine.Plan().Name),
		mutedStyle.Render(fmt.Sprintf("ends %s", m.engine.EndDate())),
		mutedStyle.Render(fmt.Sprintf("weeks start %s", m.engine.WeekStartsOn())),
		mutedStyle.Render(string(m.engine.Units())),
		mutedStyle.Render("profile " + m.engine.Profile()),
	}
	if m.engine.CanUndo() {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("%d undoable", m.engine.HistoryLen()-1)))
	}
	return strings.Join(parts, mutedStyle.Render("  ·  "))
}

func (m *Model) renderGrid(p plan.RacePlan) string {
	width := m.width
	if width == 0 {
		width = 80
	}
	cw := cellWidth(width)

	var b strings.Builder
	headers := weekdayHeaders(p.WeekStartsOn)
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = weekdayHeader.Render(padTo(h, cw))
	}
	b.WriteString(strings.Join(cells, " "))
	b.WriteString("\n")

	for _, week := range gridWeeks(p) {
		dayLine := make([]string, len(week))
		titleLine := make([]string, len(week))
		for i, d := range week {
			w, has := p.WorkoutOn(d)
			dayCell := padTo(fmt.Sprintf("%2d %s", d.Day, d.Month.String()[:3]), cw)
			titleCell := padTo(cellTitle(w, cw), cw)

			style := dayStyle
			titleStyle := workoutStyle
			switch {
			case d == m.cursor:
				style, titleStyle = cursorStyle, cursorStyle
			case m.anchor != nil && d == *m.anchor:
				style, titleStyle = anchorStyle, anchorStyle
			case has && strings.HasPrefix(w.Title, "Race Day"):
				titleStyle = raceDayStyle
			case !has:
				titleStyle = mutedStyle
			}
			dayLine[i] = style.Render(dayCell)
			titleLine[i] = titleStyle.Render(titleCell)
		}
		b.WriteString(strings.Join(dayLine, " "))
		b.WriteString("\n")
		b.WriteString(strings.Join(titleLine, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func toggleUnits(u plan.Units) plan.Units {
	if u == plan.UnitsMiles {
		return plan.UnitsKilometers
	}
	return plan.UnitsMiles
}

func nextWeekStart(ws plan.WeekStart) plan.WeekStart {
	switch ws {
	case plan.WeekStartMonday:
		return plan.WeekStartSunday
	case plan.WeekStartSunday:
		return plan.WeekStartSaturday
	default:
		return plan.WeekStartMonday
	}
}

func nextProfile(profiles []string, current string) string {
	if len(profiles) == 0 {
		return current
	}
	for i, p := range profiles {
		if p == current {
			return profiles[(i+1)%len(profiles)]
		}
	}
	return profiles[0]
}

func (m *Model) nextPlanID() string {
	available := m.catalog.Available()
	current := m.engine.Plan().ID
	for i, s := range available {
		if s.ID == current {
			return available[(i+1)%len(available)].ID
		}
	}
	return current
}
