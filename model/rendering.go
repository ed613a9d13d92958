package model

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out io.Writer
}

// Display renders the grid to the terminal, one line per row
func (r *TerminalRenderer) Display(g *Grid) {
	var sb strings.Builder
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				sb.WriteString(gridPosBlock)
			} else {
				sb.WriteString(gridPosEmpty)
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(r.out(), sb.String())
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.out(), "Error clearing terminal:", err)
	}
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}
