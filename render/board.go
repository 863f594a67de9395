// Package render draws the arena and the planned placements as text, one
// frame per turn, for watching a match from a second terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/nstehr/rampart/model"
)

var glyphs = map[model.UnitKind]rune{
	model.Wall:    'w',
	model.Support: 's',
	model.Turret:  't',
	model.Fast:    'p',
	model.Heavy:   'e',
	model.Debuff:  'i',
}

type styles struct {
	empty    lipgloss.Style
	ours     lipgloss.Style
	theirs   lipgloss.Style
	planned  lipgloss.Style
	breach   lipgloss.Style
	title    lipgloss.Style
	frame    lipgloss.Style
	sidebar  lipgloss.Style
	emphasis lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		empty:    r.NewStyle().Foreground(lipgloss.Color("240")), // grey
		ours:     r.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		theirs:   r.NewStyle().Foreground(lipgloss.Color("208")), // orange
		planned:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		breach:   r.NewStyle().Foreground(lipgloss.Color("196")),
		title:    r.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
		frame:    r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		sidebar:  r.NewStyle().Border(lipgloss.NormalBorder()).Width(28).Padding(0, 1),
		emphasis: r.NewStyle().Foreground(lipgloss.Color("226")),
	}
}

// Board writes a frame for every planned turn to w.
type Board struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	st     styles
}

// New renders to w. Colors follow what w supports; a plain file or buffer
// gets uncolored text.
func New(w io.Writer) *Board {
	return &Board{w: w, st: newStyles(lipgloss.NewRenderer(w))}
}

// Open renders to the file at path, truncating it.
func Open(path string) (*Board, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open render file: %w", err)
	}
	b := New(f)
	b.closer = f
	return b, nil
}

// Close closes the underlying file when the board owns one.
func (b *Board) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// RenderTurn draws the board of snap with commands overlaid.
func (b *Board) RenderTurn(snap *model.Snapshot, commands []model.SpawnCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, b.View(snap, commands)+"\n")
	return err
}

// View returns the frame for snap without writing it.
func (b *Board) View(snap *model.Snapshot, commands []model.SpawnCommand) string {
	planned := make(map[model.Coordinate]model.UnitKind, len(commands))
	for _, c := range commands {
		planned[c.Coord] = c.Kind
	}
	breached := make(map[model.Coordinate]bool, len(snap.Breaches))
	for _, ev := range snap.Breaches {
		breached[ev.Coord] = true
	}

	var grid strings.Builder
	for y := model.ArenaSize - 1; y >= 0; y-- {
		for x := 0; x < model.ArenaSize; x++ {
			grid.WriteString(b.cell(snap.Board, model.C(x, y), planned, breached))
		}
		if y > 0 {
			grid.WriteByte('\n')
		}
	}

	title := b.st.title.Render(fmt.Sprintf("turn %d", snap.Turn))
	mapView := b.st.frame.Render(lipgloss.JoinVertical(lipgloss.Left, title, grid.String()))
	return lipgloss.JoinHorizontal(lipgloss.Top, mapView, b.sidebar(snap, commands))
}

func (b *Board) cell(board *model.Board, c model.Coordinate, planned map[model.Coordinate]model.UnitKind, breached map[model.Coordinate]bool) string {
	if !c.InArena() {
		return " "
	}
	if k, ok := planned[c]; ok {
		return b.st.planned.Render(string(glyph(k, true)))
	}
	if units := board.Occupancy(c); len(units) > 0 {
		u := units[0]
		if u.Owner == model.Self {
			return b.st.ours.Render(string(glyph(u.Kind, true)))
		}
		return b.st.theirs.Render(string(glyph(u.Kind, false)))
	}
	if breached[c] {
		return b.st.breach.Render("x")
	}
	return b.st.empty.Render(".")
}

func glyph(k model.UnitKind, ours bool) rune {
	g, ok := glyphs[k]
	if !ok {
		g = '?'
	}
	if ours {
		return rune(strings.ToUpper(string(g))[0])
	}
	return g
}

func (b *Board) sidebar(snap *model.Snapshot, commands []model.SpawnCommand) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "health %.0f / %.0f\n", snap.Health[model.Self], snap.Health[model.Opponent])
	fmt.Fprintf(&sb, "cores  %.1f / %.1f\n",
		snap.Ledger.Available(model.Self, model.Cores), snap.Ledger.Available(model.Opponent, model.Cores))
	fmt.Fprintf(&sb, "bits   %.1f / %.1f\n",
		snap.Ledger.Available(model.Self, model.Bits), snap.Ledger.Available(model.Opponent, model.Bits))
	if n := len(snap.Breaches); n > 0 {
		sb.WriteString(b.st.breach.Render(fmt.Sprintf("breaches %d", n)))
		sb.WriteByte('\n')
	}
	sb.WriteString("\n")
	if len(commands) == 0 {
		sb.WriteString(b.st.empty.Render("no placements"))
		return b.st.sidebar.Render(sb.String())
	}
	sb.WriteString(b.st.emphasis.Render("placements"))
	for _, c := range commands {
		fmt.Fprintf(&sb, "\n%-7s (%d,%d) x%d", c.Kind, c.Coord.X, c.Coord.Y, c.Count)
	}
	return b.st.sidebar.Render(sb.String())
}
