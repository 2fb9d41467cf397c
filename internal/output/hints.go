package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"health":        {"smoke", "auth demo --save"},
	"auth demo":     {"auth whoami", "smoke", "seed"},
	"auth login":    {"auth whoami", "meal today"},
	"auth register": {"auth whoami", "seed"},
	"weight log":    {"weight list", "weight trend"},
	"meal log":      {"meal today", "summary day"},
	"workout log":   {"workout list", "check weekly"},
	"summary week":  {"check weekly", "week"},
	"check weekly":  {"summary week", "report"},
	"smoke":         {"seed", "report"},
	"seed":          {"report", "check weekly"},
	"report":        {"check weekly", "summary week"},
	"config":        {"health"},
	"plan set":      {"plan show", "meal today"},
	"food barcode":  {"food save", "meal barcode"},
	"food save":     {"meal barcode", "food recent"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "mcctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
