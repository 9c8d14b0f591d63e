package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"arrowc/internal/driver"
)

const statusWidth = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// stageWeight is how far through a unit a file is once it enters stage.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:  0.1,
	driver.StageParse: 0.3,
	driver.StageLower: 0.6,
	driver.StageRun:   0.9,
}

var stageVerb = map[driver.Stage]string{
	driver.StageLoad:  "loading",
	driver.StageParse: "parsing",
	driver.StageLower: "lowering",
	driver.StageRun:   "running",
}

type fileItem struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	err     string
	elapsed time.Duration
}

func (it fileItem) finished() bool {
	return it.status == driver.StatusDone || it.status == driver.StatusError
}

// label is the status column: the stage verb while working.
func (it fileItem) label() string {
	if it.status == driver.StatusWorking {
		if verb, ok := stageVerb[it.stage]; ok {
			return verb
		}
	}
	return string(it.status)
}

func (it fileItem) style() lipgloss.Style {
	switch it.status {
	case driver.StatusDone:
		return okStyle
	case driver.StatusError:
		return failStyle
	case driver.StatusWorking:
		return workingStyle
	}
	return queuedStyle
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	batch   string
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows per-file compile
// progress from events and quits when the channel is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: driver.StatusQueued}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent records ev. Batch events (no file) only change the header.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if verb, ok := stageVerb[ev.Stage]; ok && ev.Status == driver.StatusWorking {
			m.batch = verb
		}
		return nil
	}
	i, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[i]
	if ev.Stage != "" {
		it.stage = ev.Stage
	}
	if ev.Status != "" {
		it.status = ev.Status
	}
	if ev.Err != nil {
		it.err = ev.Err.Error()
	}
	if ev.Elapsed > 0 {
		it.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

// percent averages the files' progress; a finished file counts fully.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		if it.finished() {
			sum++
			continue
		}
		if it.status == driver.StatusWorking {
			sum += stageWeight[it.stage]
		}
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, it := range m.items {
		if it.finished() {
			finished++
		}
		if it.status == driver.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished, failed := m.counts()
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.items))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	if m.batch != "" && !m.done {
		header += " (" + m.batch + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range m.items {
		status := it.style().Render(fmt.Sprintf("%*s", statusWidth, it.label()))
		fmt.Fprintf(&b, "  %s %s", status, truncate(it.path, nameWidth))
		switch {
		case it.err != "":
			b.WriteString(" " + dimStyle.Render(truncate(it.err, nameWidth)))
		case it.finished() && it.elapsed > 0:
			b.WriteString(" " + dimStyle.Render(it.elapsed.Round(time.Microsecond).String()))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// truncate shortens value to width cells. Paths keep their tail, which
// holds the file name.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	runes := []rune(value)
	budget := width - 3
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if w > budget {
			break
		}
		budget -= w
		start--
	}
	return "..." + string(runes[start:])
}
