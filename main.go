package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"elemerge/internal/board"
	"elemerge/internal/catalog"
	"elemerge/internal/merge"
)

var (
	configPath string
	endpoint   string
	logFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "elemerge",
	Short: "Drag elements together in your terminal and see what they make",
	Long: `elemerge is an element merging sandbox.

Drag water, fire, earth and air from the sidebar onto the canvas and drop
tiles on each other. Every new combination is looked up on a pairing
service and added to your sidebar.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/"+configFileName+")")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "pairing service URL")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	config, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("endpoint") {
		config.Endpoint = endpoint
	}
	if cmd.Flags().Changed("log-file") {
		config.LogFile = expandPath(logFile)
	}

	logger, err := newLogger(config.LogFile, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	resolver := merge.NewClient(
		merge.WithEndpoint(config.Endpoint),
		merge.WithLogger(logger.Named("merge")),
		merge.WithMaxInFlight(config.MaxInFlight),
		merge.WithTimeout(config.RequestTimeout),
	)
	logger.Info("starting",
		zap.String("endpoint", resolver.Endpoint()),
		zap.Int("max_in_flight", config.MaxInFlight),
	)

	p := tea.NewProgram(
		initialModel(config, logger, resolver),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func initialModel(config *Config, logger *zap.Logger, resolver merge.Resolver) model {
	cat := catalog.New()
	surface := board.NewSurface(board.NewStore(), cat,
		board.WithLogger(logger.Named("board")),
		board.WithOrigin(board.Point{X: 0, Y: headerRows * config.CellHeight}),
	)

	fi := textinput.New()
	fi.Placeholder = "Filter..."
	fi.Prompt = "/ "
	fi.CharLimit = 40
	fi.Width = config.SidebarWidth - 6

	return model{
		mode:     ModeNormal,
		config:   config,
		logger:   logger,
		catalog:  cat,
		surface:  surface,
		canvas:   NewCanvas(surface, cat, config.CellWidth, config.CellHeight),
		resolver: resolver,
		filter:   fi,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// resolveMerge asks the resolver off the update loop. Exactly one call
// is made per pending drop.
func resolveMerge(r merge.Resolver, p board.Pending) tea.Cmd {
	return func() tea.Msg {
		res, err := r.Resolve(context.Background(), p.Gesture.Kind, p.CandidateKind)
		return mergeResolvedMsg{pending: p, result: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = max(m.sidebarWidth()-6, 4)
		m.helpRenderer = newHelpRenderer(m.config.HelpStyle, m.width-2)
		m.clampSelection()
		return m, nil

	case mergeResolvedMsg:
		m.applyMerge(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case ModeHelp:
			return m.handleHelpKey(msg)
		case ModeFilter:
			return m.handleFilterKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *model) applyMerge(msg mergeResolvedMsg) {
	before := m.catalog.Len()
	it, outcome := m.surface.Complete(msg.pending, msg.result, msg.err)
	if outcome == board.OutcomeMerged && m.catalog.Len() > before {
		m.errorMessage = ""
		m.successMessage = "New element: " + m.catalog.Lookup(it.Kind)
	}
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = ModeNormal
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < m.maxHelpScroll() {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.filter.Blur()
		m.mode = ModeNormal
		return m, nil
	case "up", "down":
		m.handleNavigation(msg.String(), 1)
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.selected = 0
		m.sidebarScroll = 0
		m.clampSelection()
	}
	return m, cmd
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.mode = ModeHelp
		m.helpScroll = 0
		return m, nil
	case "/":
		m.mode = ModeFilter
		m.errorMessage = ""
		m.successMessage = ""
		return m, m.filter.Focus()
	case "esc":
		m.errorMessage = ""
		m.successMessage = ""
		if m.drag != nil {
			m.drag = nil
			return m, nil
		}
		m.filter.SetValue("")
		m.clampSelection()
		return m, nil
	case "k", "up", "K", "shift+up", "j", "down", "J", "shift+down", "g", "G", "home", "end":
		m.handleNavigation(key, m.getMoveSpeed(key))
		return m, nil
	case "enter":
		return m, m.dropSelected()
	case "y":
		if err := m.copyDiscoveries(); err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
			m.successMessage = ""
		} else {
			m.errorMessage = ""
			m.successMessage = fmt.Sprintf("Copied %d elements", m.catalog.Len())
		}
		return m, nil
	case "p":
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
			return m, nil
		}
		m.filter.SetValue(cleanClipboardText(text))
		m.selected = 0
		m.sidebarScroll = 0
		m.clampSelection()
		return m, nil
	case "s":
		m.export(FileOpSavePNG)
		return m, nil
	case "t":
		m.export(FileOpSaveVisualTXT)
		return m, nil
	case "x":
		m.drag = nil
		m.surface.Store().Clear()
		m.errorMessage = ""
		m.successMessage = "Canvas cleared"
		return m, nil
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeHelp {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if msg.X > m.sidebarLeft() {
				m.handleScroll(-1)
			}
		case tea.MouseButtonWheelDown:
			if msg.X > m.sidebarLeft() {
				m.handleScroll(1)
			}
		case tea.MouseButtonLeft:
			return m.startDrag(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.col = msg.X
			m.drag.row = msg.Y
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			return m, m.finishDrag(msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m *model) onCanvas(col, row int) bool {
	return col >= 0 && col < m.canvasWidth() && row >= headerRows && row < headerRows+m.canvasHeight()
}

func (m model) startDrag(col, row int) (tea.Model, tea.Cmd) {
	m.drag = nil

	if row == sidebarFilterRow && col > m.sidebarLeft() {
		m.mode = ModeFilter
		return m, m.filter.Focus()
	}
	if m.mode == ModeFilter {
		m.filter.Blur()
		m.mode = ModeNormal
	}

	if kind, idx, ok := m.entryAt(col, row); ok {
		m.selected = idx
		// The entry stands for the tile's label line, which sits one row
		// down and two columns in from the tile's corner. Grabbing past the
		// label holds the tile by its last label cell.
		in := col - m.entryLeft()
		in = min(max(in, 0), max(runewidth.StringWidth(kind.Label())-1, 0))
		offset := board.Point{
			X: float64(in+2) * m.config.CellWidth,
			Y: m.config.CellHeight,
		}
		g, err := m.surface.PickUpKind(kind.ID, offset)
		if err != nil {
			m.logger.Debug("pick up from sidebar", zap.Error(err))
			return m, nil
		}
		m.drag = &dragState{gesture: g, col: col, row: row}
		return m, nil
	}

	if !m.onCanvas(col, row) {
		return m, nil
	}
	it, ok := m.canvas.TileAt(col, row-headerRows)
	if !ok {
		return m, nil
	}
	g, err := m.surface.PickUp(it.ID, m.canvas.pointerAt(col, row))
	if err != nil {
		m.logger.Debug("pick up from canvas", zap.String("kind", it.Kind), zap.Error(err))
		return m, nil
	}
	m.drag = &dragState{gesture: g, col: col, row: row}
	return m, nil
}

// finishDrag drops the tile in hand. Releasing outside the canvas
// cancels the gesture.
func (m *model) finishDrag(col, row int) tea.Cmd {
	drag := m.drag
	m.drag = nil
	if !m.onCanvas(col, row) {
		return nil
	}
	m.errorMessage = ""
	m.successMessage = ""
	return m.drop(drag.gesture, m.canvas.pointerAt(col, row))
}

func (m *model) drop(g board.Gesture, pointer board.Point) tea.Cmd {
	dr := m.surface.Drop(g, pointer)
	m.logger.Debug("drop", zap.String("kind", g.Kind), zap.Stringer("outcome", dr.Outcome))
	if dr.Outcome == board.OutcomeMergePending {
		return resolveMerge(m.resolver, dr.Pending)
	}
	return nil
}

// dropSelected places the selected sidebar element, centred on the
// middle of the canvas, exactly as a mouse drop there would.
func (m *model) dropSelected() tea.Cmd {
	kinds := m.visibleKinds()
	if m.selected < 0 || m.selected >= len(kinds) || m.canvasWidth() == 0 || m.canvasHeight() == 0 {
		return nil
	}
	kind := kinds[m.selected]
	offset := board.Point{
		X: float64(m.canvas.tileWidth(kind.ID)/2) * m.config.CellWidth,
		Y: m.config.CellHeight,
	}
	g, err := m.surface.PickUpKind(kind.ID, offset)
	if err != nil {
		return nil
	}
	m.errorMessage = ""
	m.successMessage = ""
	col := m.canvasWidth() / 2
	row := headerRows + m.canvasHeight()/2
	return m.drop(g, m.canvas.pointerAt(col, row))
}
