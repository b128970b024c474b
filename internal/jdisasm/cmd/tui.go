package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"jdisasm/internal/classfile"
	"jdisasm/internal/jdisasm/styles"
	"jdisasm/internal/ui/colorize"
)

type viewMode int

const (
	viewOverview viewMode = iota
	viewMethods
	viewCode
)

type methodItem struct {
	class      *classfile.Class
	listing    classfile.MethodListing
	filterTerm string // Pre-computed filter value
}

func newMethodItem(c *classfile.Class, l classfile.MethodListing, compact bool) methodItem {
	owner := c.Name
	if compact {
		if i := strings.LastIndex(owner, "/"); i >= 0 {
			owner = owner[i+1:]
		}
	}
	return methodItem{
		class:      c,
		listing:    l,
		filterTerm: strings.ReplaceAll(owner, "/", ".") + " " + l.Name,
	}
}

func (i methodItem) Title() string       { return i.listing.Header }
func (i methodItem) Description() string { return "" }
func (i methodItem) FilterValue() string { return i.filterTerm }

// Custom item delegate for the method list
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(methodItem)
	if !ok {
		return
	}

	indicator := " "
	name := styles.MethodName.Render(i.listing.Name)
	if index == m.Index() {
		indicator = styles.Selected.Render(">")
		name = styles.Selected.Render(i.listing.Name)
	}

	flags := ""
	if len(i.listing.AccessFlags) > 0 {
		flags = styles.Flags.Render(strings.Join(i.listing.AccessFlags, " ")) + " "
	}

	size := styles.Dim.Render(fmt.Sprintf("%5d", i.listing.CodeLength))
	if i.listing.Error != "" {
		size = styles.ErrorText.Render(fmt.Sprintf("%5s", "err"))
	}

	sig := strings.TrimPrefix(i.listing.Header, strings.Join(i.listing.AccessFlags, " ")+" ")
	sig = strings.TrimPrefix(sig, i.listing.Name)

	fmt.Fprintf(w, " %s %s  %s%s%s", indicator, size, flags, name, styles.Signature.Render(sig))
}

type model struct {
	viewport    viewport.Model
	methodsList list.Model
	codeView    viewport.Model
	spinner     spinner.Model
	mode        viewMode
	filepath    string
	cfg         Config
	classes     []*classfile.Class
	listings    [][]classfile.MethodListing
	methodCount int
	current     *methodItem
	loading     bool
	loadErr     error
	width       int
	height      int
}

// Message types
type classesMsg struct {
	classes  []*classfile.Class
	listings [][]classfile.MethodListing
	err      error
}

// Commands
func loadClassesCmd(path string, cfg Config) tea.Cmd {
	return func() tea.Msg {
		classes, listings, err := disassembleAll(path, cfg)
		return classesMsg{classes: classes, listings: listings, err: err}
	}
}

func NewModel(filepath string, cfg Config) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	methodsList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	methodsList.SetShowStatusBar(false)
	methodsList.SetFilteringEnabled(true)
	methodsList.Title = "Methods"
	methodsList.Styles.Title = styles.ListTitle
	methodsList.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Selected

	cvp := viewport.New()
	cvp.SetWidth(80)
	cvp.SetHeight(24)

	m := model{
		viewport:    vp,
		methodsList: methodsList,
		codeView:    cvp,
		spinner:     s,
		mode:        viewOverview,
		filepath:    filepath,
		cfg:         cfg,
		loading:     true,
		width:       80,
		height:      24,
	}

	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadClassesCmd(m.filepath, m.cfg),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case classesMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil {
			slog.Error("Failed to load classes", "path", m.filepath, "error", msg.err)
		} else {
			m.classes = msg.classes
			m.listings = msg.listings
			m.updateMethodsList()
		}
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			m.updateContent()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.methodsList.SetWidth(msg.Width)
			m.methodsList.SetHeight(msg.Height - 2)
			m.codeView.SetWidth(msg.Width)
			m.codeView.SetHeight(msg.Height - 2)

			m.updateContent()
		}

	case tea.KeyMsg:
		// While the list is filtering it owns every key except quit
		if m.mode == viewMethods && m.methodsList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "o":
			m.mode = viewOverview
			return m, nil
		case "m":
			if m.methodCount > 0 {
				m.mode = viewMethods
			}
			return m, nil
		case "v":
			if m.current != nil {
				m.mode = viewCode
			}
			return m, nil
		case "enter":
			if m.mode == viewMethods {
				if item, ok := m.methodsList.SelectedItem().(methodItem); ok {
					m.showMethod(item)
					m.mode = viewCode
				}
			}
			return m, nil
		case "tab":
			m.mode = m.nextMode(1)
			return m, nil
		case "shift+tab":
			m.mode = m.nextMode(-1)
			return m, nil
		}
	}

	switch m.mode {
	case viewMethods:
		m.methodsList, cmd = m.methodsList.Update(msg)
	case viewCode:
		m.codeView, cmd = m.codeView.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// nextMode cycles through the panes that currently have content.
func (m model) nextMode(step int) viewMode {
	available := []viewMode{viewOverview}
	if m.methodCount > 0 {
		available = append(available, viewMethods)
	}
	if m.current != nil {
		available = append(available, viewCode)
	}
	for i, mode := range available {
		if mode == m.mode {
			return available[(i+step+len(available))%len(available)]
		}
	}
	return viewOverview
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewMethods:
		content = m.methodsList.View()
	case viewCode:
		content = m.codeView.View()
	default:
		content = m.viewport.View()
	}

	var menu string
	switch m.mode {
	case viewMethods:
		menu = " Enter: view code • /: filter • O: overview • Tab: cycle • Q: quit "
	case viewCode:
		menu = " O: overview • M: methods • Tab: cycle • Q: quit "
	default:
		if m.methodCount > 0 {
			menu = " M: methods • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}

	return content + "\n" + styles.MenuBar.Width(m.width).Render(menu)
}

func (m *model) updateMethodsList() {
	items := make([]list.Item, 0)
	for i, c := range m.classes {
		for _, l := range m.listings[i] {
			items = append(items, newMethodItem(c, l, m.cfg.Compact))
		}
	}
	m.methodCount = len(items)
	m.methodsList.SetItems(items)
	if len(m.classes) == 1 {
		m.methodsList.Title = "Methods of " + classfile.ClassHeader(m.classes[0], true)
	} else {
		m.methodsList.Title = fmt.Sprintf("Methods (%d classes)", len(m.classes))
	}
}

// showMethod renders the listing of one method into the code pane.
func (m *model) showMethod(item methodItem) {
	m.current = &item
	m.codeView.SetContent(methodView(item, m.cfg))
	m.codeView.GotoTop()
}

func methodView(item methodItem, cfg Config) string {
	l := item.listing
	var b strings.Builder
	b.WriteString(colorize.HighlightLine("// " + classfile.ClassHeader(item.class, cfg.Compact)))
	b.WriteString("\n")
	b.WriteString(styles.MethodName.Render(l.Header))
	b.WriteString("\n")
	if l.Text == "" && l.Error == "" {
		b.WriteString(styles.Dim.Render("  no code"))
		return b.String()
	}
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  max stack %d, max locals %d, code length %d", l.MaxStack, l.MaxLocals, l.CodeLength)))
	b.WriteString("\n")

	text := strings.ReplaceAll(l.Text, "\r\n", "\n")
	highlighted, err := colorize.Highlight(text)
	if err != nil {
		highlighted = text
	}
	b.WriteString(strings.TrimSuffix(highlighted, "\n"))
	if l.Error != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  error: " + l.Error))
	}
	return b.String()
}

func (m *model) updateContent() {
	// Get relative path from current directory
	relPath := m.filepath
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.filepath); err == nil {
			relPath = rel
		}
	}

	var md strings.Builder
	md.WriteString("# jdisasm\n\n")
	fmt.Fprintf(&md, "```\n// %s\n```\n", relPath)

	switch {
	case m.loading:
		fmt.Fprintf(&md, "\n%s Loading classes...", m.spinner.View())
	case m.loadErr != nil:
		fmt.Fprintf(&md, "\n**error:** %s\n", m.loadErr)
	default:
		md.WriteString(m.overviewMarkdown())
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	renderer, err := styles.GetMarkdownRenderer(width-2, m.cfg.Theme)
	if err != nil {
		m.viewport.SetContent(md.String())
		return
	}
	rendered, err := renderer.Render(md.String())
	if err != nil {
		m.viewport.SetContent(md.String())
		return
	}
	m.viewport.SetContent(strings.TrimSuffix(rendered, "\n"))
}

// overviewMarkdown summarizes every loaded class. The first method body is
// included so the overview shows some bytecode right away.
func (m *model) overviewMarkdown() string {
	var b strings.Builder
	for i, c := range m.classes {
		fmt.Fprintf(&b, "\n## %s\n\n", escapeBackticks(classfile.ClassHeader(c, m.cfg.Compact)))
		if c.SourceFile != "" {
			fmt.Fprintf(&b, "- **source:** `%s`\n", escapeBackticks(c.SourceFile))
		}
		fmt.Fprintf(&b, "- **version:** %d.%d (Java %s)\n", c.MajorVersion, c.MinorVersion, c.JavaVersion())
		fmt.Fprintf(&b, "- **methods:** %d\n", len(m.listings[i]))
		if i == 0 && len(m.classes) == 1 {
			for _, l := range m.listings[i] {
				if l.Text == "" {
					continue
				}
				fmt.Fprintf(&b, "\n### `%s`\n\n```%s\n%s```\n", escapeBackticks(l.Header), colorize.LexerName, strings.ReplaceAll(l.Text, "\r\n", "\n"))
				break
			}
		}
	}
	return b.String()
}
