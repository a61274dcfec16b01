package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tischda/chordkeys/internal/keyid"
	"github.com/tischda/chordkeys/internal/registry"
	"github.com/tischda/chordkeys/internal/target"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// checkBindings binds the file and page of s into a throwaway registry
// without launching anything.
//
// Returns:
//   - []registry.Binding: Every sequence that was bound.
//   - []error: One error per rejected entry or element.
//   - error: Non-nil if the binding file or page cannot be read.
func checkBindings(s Settings) ([]registry.Binding, []error, error) {
	file, err := loadConfig(s.File)
	if err != nil {
		return nil, nil, err
	}
	doc, err := loadDocument(s.Page)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(doc)
	_, errs := applyBindings(reg, file, func(cmd []string) *target.Action {
		return target.NewAction(strings.Join(cmd, " "), nil)
	})
	if s.Page != "" {
		if err := reg.ProcessAll(false); err != nil {
			errs = append(errs, splitJoined(err)...)
		}
	}
	return reg.Bindings(), errs, nil
}

// renderBindingTable formats bindings as a table.
func renderBindingTable(bindings []registry.Binding) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("HOTKEY", "TARGET").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, b := range bindings {
		t.Row(b.Sequence.String(), b.Target.String())
	}
	return t.Render()
}

// runCheck prints the bindings of s and every rejected entry. It fails
// when anything was rejected.
func runCheck(out io.Writer, s Settings) error {
	bindings, errs, err := checkBindings(s)
	if err != nil {
		return fmt.Errorf("load config %s: %w", s.File, err)
	}

	fmt.Fprintln(out, renderBindingTable(bindings))
	syntax := false
	for _, err := range errs {
		fmt.Fprintln(out, errorStyle.Render("✗ "+err.Error()))
		syntax = syntax || errors.Is(err, registry.ErrInvalidHotkeySyntax)
	}
	if syntax {
		fmt.Fprintln(out, "modifiers: CTRL+SHIFT+ALT, in that order")
		fmt.Fprintln(out, "keys: "+strings.Join(keyid.Names(), " "))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d invalid binding(s) in %s", len(errs), s.File)
	}
	fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✓ %d sequences bound", len(bindings))))
	return nil
}
