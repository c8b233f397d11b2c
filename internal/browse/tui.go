package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/hunter/internal/model"
)

// Lines per item in the list panes (title + subtitle + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

const (
	paneResults = iota
	paneSources
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	outcomeStyles = map[model.Outcome]lipgloss.Style{
		model.OutcomeOK:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		model.OutcomeTimeout:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.OutcomeAbandoned: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.OutcomeFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		model.OutcomeSkipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

type browseModel struct {
	req           model.SearchRequest
	result        model.AggregationResult
	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int
	leftCursor    int
	rightCursor   int
	width         int
	height        int
	ready         bool

	view           viewState
	detail         model.ScoredPosting
	detailViewport viewport.Model

	openFn func(url string)
}

func newBrowseModel(req model.SearchRequest, result model.AggregationResult) browseModel {
	return browseModel{req: req, result: result, openFn: openURL}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	case "o":
		if m.activePane == paneResults && len(m.result.Postings) > 0 {
			m.open(m.result.Postings[m.leftCursor])
		}
		return m, nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == paneResults {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		m.open(m.detail)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) open(p model.ScoredPosting) {
	if p.Link == "" || p.Link == model.PlaceholderLink || m.openFn == nil {
		return
	}
	m.openFn(p.Link)
}

func (m *browseModel) moveCursor(delta int) {
	if m.activePane == paneResults {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.result.Postings)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.result.Sources)-1, 0))
	}
}

func (m *browseModel) ensureCursorVisible() {
	vp, cursor := &m.leftViewport, m.leftCursor
	if m.activePane == paneSources {
		vp, cursor = &m.rightViewport, m.rightCursor
	}

	cursorTop := cursor * itemHeight
	cursorBottom := cursorTop + itemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if m.activePane != paneResults || len(m.result.Postings) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = m.result.Postings[m.leftCursor]
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// Results pane gets two thirds of the width.
	resultsWidth := max((m.width-5)*2/3, 30)
	sourcesWidth := max(m.width-5-resultsWidth, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(resultsWidth, paneHeight)
		m.rightViewport = viewport.New(sourcesWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = resultsWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = sourcesWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.leftViewport.SetContent(renderPostings(m.result.Postings, m.leftCursor, m.activePane == paneResults))
	m.rightViewport.SetContent(renderSources(m.result.Sources, m.rightCursor, m.activePane == paneSources))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	leftHeader := fmt.Sprintf(" Results (%d)", len(m.result.Postings))
	rightHeader := fmt.Sprintf(" Sources (%d)", len(m.result.Sources))

	leftHeaderRendered := inactiveHeaderStyle.Render(leftHeader)
	rightHeaderRendered := inactiveHeaderStyle.Render(rightHeader)
	leftBorder := inactiveBorderStyle.Width(m.leftViewport.Width)
	rightBorder := inactiveBorderStyle.Width(m.rightViewport.Width)
	if m.activePane == paneResults {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		leftBorder = activeBorderStyle.Width(m.leftViewport.Width)
	} else {
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		rightBorder = activeBorderStyle.Width(m.rightViewport.Width)
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.leftViewport.Width+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(m.rightViewport.Width+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftBorder.Render(m.leftViewport.View()),
		" ",
		rightBorder.Render(m.rightViewport.View()),
	)

	statusBar := statusBarStyle.Width(m.width).Render(m.statusText())

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) statusText() string {
	r := m.result
	var flags []string
	if r.SlowGroupSkipped {
		flags = append(flags, "slow sources skipped")
	}
	if r.Degraded {
		flags = append(flags, "degraded ranking")
	}
	text := fmt.Sprintf(" %q | %d found | %d unique | %s", m.req.Keywords, r.TotalFound, r.UniqueFound, r.Elapsed.Round(10*time.Millisecond))
	if len(flags) > 0 {
		text += " | " + strings.Join(flags, ", ")
	}
	return text + "    Tab switch  ↑/↓ cursor  Enter detail  o open  q quit"
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusBar := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	p := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", p.Title)
	addField("Company", p.Company)
	addField("Location", p.Location)
	addField("Salary", p.Salary)
	addField("Job Type", p.JobType)
	addField("Source", p.Source)

	b.WriteByte('\n')
	addField("Relevance", fmt.Sprintf("%.2f", p.RelevanceScore))
	addField("Reliability", fmt.Sprintf("%.2f", p.SourceScore))
	addField("Score", fmt.Sprintf("%.2f", p.CombinedScore))

	if p.Link != "" && p.Link != model.PlaceholderLink {
		b.WriteByte('\n')
		addField("URL", p.Link)
	}

	if p.Description != "" {
		wrapWidth := max(m.width-8, 20)
		label := "── Description "
		fill := strings.Repeat("─", max(wrapWidth-len([]rune(label)), 3))
		b.WriteByte('\n')
		b.WriteString(descDividerStyle.Render(label+fill) + "\n\n")
		b.WriteString(descBodyStyle.Render(wordWrap(p.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func renderPostings(postings []model.ScoredPosting, cursor int, isActive bool) string {
	if len(postings) == 0 {
		return "  (no results)"
	}

	var b strings.Builder
	for i, p := range postings {
		titleSt, subtitleSt, prefix := itemStyles(isActive && i == cursor)

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(fmt.Sprintf("%d. %s", i+1, p.Title)))
		b.WriteByte('\n')

		sub := []string{}
		for _, s := range []string{p.Company, p.Location, p.Source} {
			if s != "" {
				sub = append(sub, s)
			}
		}
		sub = append(sub, fmt.Sprintf("%.1f", p.CombinedScore))
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(strings.Join(sub, " · ")))
		b.WriteByte('\n')

		if i < len(postings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderSources(reports []model.SourceReport, cursor int, isActive bool) string {
	if len(reports) == 0 {
		return "  (no sources)"
	}

	var b strings.Builder
	for i, r := range reports {
		titleSt, subtitleSt, prefix := itemStyles(isActive && i == cursor)

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(r.Name))
		b.WriteString(" ")
		b.WriteString(outcomeStyles[r.Outcome].Render(string(r.Outcome)))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %d found · %s", r.Group, r.Found, r.Elapsed.Round(time.Millisecond))))
		b.WriteByte('\n')

		if i < len(reports)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func itemStyles(selected bool) (title, subtitle lipgloss.Style, prefix string) {
	if selected {
		return selectedTitleStyle, selectedSubtitleStyle, "> "
	}
	return itemTitleStyle, itemSubtitleStyle, "  "
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive results browser for an already completed search.
func Run(req model.SearchRequest, result model.AggregationResult) error {
	p := tea.NewProgram(newBrowseModel(req, result), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
