package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mbruna/tempo/internal/gesture"
	"github.com/mbruna/tempo/internal/task"
)

// View renders the visible day: header, timeline with laid-out blocks, the
// untimed list and a status footer.
func (m Model) View() string {
	if m.loading {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.styles.GutterRuleStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.renderTimeline())

	day := task.NewDay(m.day, m.store.Tasks())
	if untimed := day.Untimed(); len(untimed) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderUntimed(untimed))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.TitleStyle.Render("tempo")
	date := m.day.Format("Mon Jan 2 2006")
	if m.day.Equal(task.DateOnly(time.Now())) {
		date += " (today)"
	}
	return title + "  " + m.styles.HeaderStyle.Render(date)
}

// renderTimeline paints each timeline row by compositing the block segments
// that cover it, left to right, over an empty background.
func (m Model) renderTimeline() string {
	slots := m.negotiation.Apply(m.slots)

	// Precompute each block's rect and sort left to right so rows can be
	// composited in a single pass.
	type placed struct {
		id string
		r  rect
	}
	blocks := make([]placed, 0, len(slots))
	for id, s := range slots {
		r := m.blockRect(s)
		if m.preview != nil && m.preview.TaskID == id {
			r = m.previewRect(s, *m.preview)
		}
		blocks = append(blocks, placed{id: id, r: r})
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].r.x != blocks[j].r.x {
			return blocks[i].r.x < blocks[j].r.x
		}
		return blocks[i].id < blocks[j].id
	})

	tw := m.timelineWidth()
	rows := m.timelineRows()

	var b strings.Builder
	for row := 0; row < rows; row++ {
		minute := m.minuteForRow(row)

		// Hour gutter labels on the hour, rules elsewhere.
		if minute%60 == 0 {
			b.WriteString(m.styles.GutterStyle.Render(fmt.Sprintf("%s ┃", task.MinutesToTime(minute))))
		} else {
			b.WriteString(m.styles.GutterStyle.Render("      ┃"))
		}

		x := 0
		for _, p := range blocks {
			if row < p.r.y || row >= p.r.y+p.r.h {
				continue
			}
			if p.r.x > x {
				b.WriteString(strings.Repeat(" ", p.r.x-x))
				x = p.r.x
			}
			if p.r.x+p.r.w <= x {
				continue // fully behind an earlier block on this row
			}
			w := p.r.x + p.r.w - x
			b.WriteString(m.renderSegment(p.id, w, row == p.r.y))
			x += w
		}
		if x < tw {
			b.WriteString(strings.Repeat(" ", tw-x))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderSegment paints one row-slice of a block: the title on the block's
// first row, block fill elsewhere. Live gesture previews take over the
// styling for their task.
func (m Model) renderSegment(id string, w int, first bool) string {
	t, ok := m.store.Get(id)
	if !ok {
		return strings.Repeat(" ", w)
	}

	style := m.styles.blockStyle(string(t.Energy), id == m.selected, t.Completed)
	label := ""
	if first {
		label = t.Title
		if t.Timed() {
			label = fmt.Sprintf("%s %s", t.Start(), t.Title)
		}
	}

	if m.preview != nil && m.preview.TaskID == id {
		style = m.styles.BlockPreviewStyle
		if first {
			label = previewLabel(*m.preview, t.Title)
		}
	}

	label = ansi.Truncate(label, w, "…")
	if pad := w - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	return style.Render(label)
}

// previewLabel shows the candidate interval while a gesture is in flight.
func previewLabel(p gesture.Preview, title string) string {
	switch p.Mode {
	case gesture.ModeResizeTop, gesture.ModeResizeBottom:
		return fmt.Sprintf("%s-%s %s", task.MinutesToTime(p.StartMin), task.MinutesToTime(p.EndMin), title)
	case gesture.ModeDragging:
		return "⠿ " + title
	default:
		return title
	}
}

func (m Model) renderUntimed(untimed []*task.Task) string {
	var b strings.Builder
	b.WriteString(m.styles.HeaderStyle.Render("unscheduled"))
	b.WriteString("\n")
	for _, t := range untimed {
		style := m.styles.UntimedStyle
		if t.ID == m.selected {
			style = m.styles.UntimedSelectedStyle
		}
		mark := "○"
		if t.Completed {
			mark = "●"
		}
		b.WriteString("  " + style.Render(mark+" "+ansi.Truncate(t.Title, m.width-4, "…")))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderFooter() string {
	if m.mode == ModePrompt {
		label := "new: "
		if m.promptFor == promptEdit {
			label = "edit: "
		}
		return m.styles.PromptStyle.Render(label + m.prompt.View())
	}

	if m.status != "" {
		style := m.styles.StatusStyle
		if m.statusErr {
			style = m.styles.StatusErrorStyle
		}
		return style.Render(m.status)
	}

	help := "n new · e edit · d del · space done · u undo · h/l day · drag to move"
	return m.styles.HelpStyle.Render(ansi.Truncate(help, m.width, ""))
}
