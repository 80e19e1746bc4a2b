package errors

import (
	"fmt"
	"strings"
)

// ANSI escapes used for terminal rendering. Kept as raw codes (rather than
// a color library) so that this package has no dependency beyond stdlib;
// the CLI layer applies its own coloring on top for summary lines.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
	ansiBold   = "\033[1m"
)

func severityColor(s Severity) string {
	switch s {
	case Fatal, Error:
		return ansiRed
	case Warning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

// FormatTerminal renders a CompilerError for a terminal, in the teacher's
// "severity: message" / "--> file:line:col" / context / related errors shape.
func (e CompilerError) FormatTerminal() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s%s%s: %s\n",
		ansiBold+severityColor(e.Severity), strings.ToUpper(e.Severity.String()[:1])+e.Severity.String()[1:], ansiReset, e.Message))

	sb.WriteString(fmt.Sprintf("  %s-->%s %s:%d:%d (%s)\n",
		ansiCyan, ansiReset, e.Location.File, e.Location.Line, e.Location.Column, e.Code))

	if e.Context != nil {
		sb.WriteString(formatContext(*e.Context))
	}

	if e.Suggestion != nil {
		sb.WriteString(fmt.Sprintf("  %shelp:%s %s\n", ansiGray, ansiReset, e.Suggestion.Description))
		if e.Suggestion.Replacement != "" {
			sb.WriteString(fmt.Sprintf("        %s\n", e.Suggestion.Replacement))
		}
	}

	if len(e.Related) > 0 {
		sb.WriteString(fmt.Sprintf("%srelated:%s\n", ansiBold, ansiReset))
		for i, r := range e.Related {
			sb.WriteString(fmt.Sprintf("  %d. %s:%d:%d: %s\n", i+1, r.Location.File, r.Location.Line, r.Location.Column, r.Message))
		}
	}

	return sb.String()
}

func formatContext(ctx SourceContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("   %s|%s\n", ansiGray, ansiReset))
	for i, line := range ctx.Lines {
		marker := " "
		if i == ctx.ErrorLine {
			marker = ">"
		}
		sb.WriteString(fmt.Sprintf(" %s%s|%s %s\n", ansiGray, marker, ansiReset, line))
	}
	return sb.String()
}

// FormatBagTerminal renders every diagnostic in a bag, separated by a rule.
func FormatBagTerminal(b *Bag) string {
	var sb strings.Builder
	all := b.All()
	for i, e := range all {
		sb.WriteString(e.FormatTerminal())
		if i < len(all)-1 {
			sb.WriteString(strings.Repeat("-", 60) + "\n")
		}
	}
	return sb.String()
}
