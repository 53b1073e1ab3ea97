package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schemadrift/migrator/internal/migration"
	"github.com/schemadrift/migrator/internal/schema"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headingStyle = lipgloss.NewStyle().Bold(true)
)

// renderSchemaMigration renders sm as a colorized, human-readable diff
// for confirmation before it's saved, replacing the raw ANSI escape
// codes the original tool printed directly.
func renderSchemaMigration(sm migration.SchemaMigration) string {
	var b strings.Builder
	for _, tm := range sm.TableMigrations {
		b.WriteString(renderTableMigration(tm))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderTableMigration(tm migration.TableMigration) string {
	var b strings.Builder
	switch {
	case tm.IsAdd():
		fmt.Fprintln(&b, addedStyle.Render("+ TABLE "+*tm.NewName))
	case tm.IsRemove():
		fmt.Fprintln(&b, removedStyle.Render("- TABLE "+*tm.OldKey))
	case tm.IsEdit():
		if tm.Renames() {
			fmt.Fprintln(&b, changedStyle.Render(fmt.Sprintf("~ TABLE %s -> %s", *tm.OldKey, *tm.NewName)))
		} else {
			fmt.Fprintln(&b, headingStyle.Render("  TABLE "+*tm.OldKey))
		}
	}

	for _, cm := range tm.ColumnMigrations {
		switch {
		case cm.IsAdd():
			fmt.Fprintln(&b, addedStyle.Render("  + COLUMN "+cm.New.Key()))
		case cm.IsRemove():
			fmt.Fprintln(&b, removedStyle.Render("  - COLUMN "+*cm.OldKey))
		case cm.IsEdit():
			fmt.Fprintln(&b, changedStyle.Render(fmt.Sprintf("  ~ COLUMN %s -> %s", *cm.OldKey, cm.New.Key())))
		}
	}

	for _, fm := range tm.FKeyMigrations {
		switch {
		case fm.IsAdd():
			fmt.Fprintln(&b, addedStyle.Render("  + FOREIGN KEY "+fm.New.Key()))
		case fm.IsRemove():
			fmt.Fprintln(&b, removedStyle.Render("  - FOREIGN KEY "+*fm.OldKey))
		case fm.IsEdit():
			fmt.Fprintln(&b, changedStyle.Render(fmt.Sprintf("  ~ FOREIGN KEY %s -> %s", *fm.OldKey, fm.New.Key())))
		}
	}

	return b.String()
}

func printValidationErrors(errs []*schema.ValidationError) {
	for _, e := range errs {
		fmt.Println(removedStyle.Render(e.Error()))
	}
}
