package errors

import "fmt"

// Severity is the severity level of a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	switch str {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "fatal":
		*s = Fatal
	default:
		*s = Error
	}
	return nil
}

// SourceLocation identifies a point in a source file.
type SourceLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// SourceContext carries a few lines of source around a diagnostic for
// terminal/IDE rendering.
type SourceContext struct {
	Lines     []string `json:"lines"`      // a handful of lines centered on the error
	ErrorLine int      `json:"error_line"` // index into Lines of the offending line
}

// Suggestion is an optional fix hint attached to a diagnostic.
type Suggestion struct {
	Description string `json:"description"`
	Replacement string `json:"replacement,omitempty"`
}

// CompilerError is a single diagnostic produced by any compiler phase.
type CompilerError struct {
	Phase    string         `json:"phase"` // "lexer", "parser", "resolver", "sema", "codegen", "openapi"
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Location SourceLocation `json:"location"`
	Severity Severity       `json:"severity"`

	Context    *SourceContext  `json:"context,omitempty"`
	Suggestion *Suggestion     `json:"suggestion,omitempty"`
	Related    []CompilerError `json:"related,omitempty"`
}

// Error implements the error interface.
func (e CompilerError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Location.File, e.Location.Line, e.Location.Column, e.Code, e.Message)
}

// New creates a CompilerError with the default message for code, at Error severity.
func New(phase, code string, loc SourceLocation) CompilerError {
	return CompilerError{
		Phase:    phase,
		Code:     code,
		Message:  MessageFor(code),
		Location: loc,
		Severity: Error,
	}
}

// Newf creates a CompilerError with a custom message, at Error severity.
func Newf(phase, code string, loc SourceLocation, format string, args ...interface{}) CompilerError {
	e := New(phase, code, loc)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// WithSeverity returns a copy of e with a different severity.
func (e CompilerError) WithSeverity(sev Severity) CompilerError {
	e.Severity = sev
	return e
}

// WithSuggestion returns a copy of e carrying a fix suggestion.
func (e CompilerError) WithSuggestion(s Suggestion) CompilerError {
	e.Suggestion = &s
	return e
}

// WithRelated returns a copy of e with an additional related diagnostic appended.
func (e CompilerError) WithRelated(related CompilerError) CompilerError {
	e.Related = append(append([]CompilerError{}, e.Related...), related)
	return e
}

// WithContext returns a copy of e carrying source context lines.
func (e CompilerError) WithContext(ctx SourceContext) CompilerError {
	e.Context = &ctx
	return e
}

// IsError reports whether e is at Error or Fatal severity.
func (e CompilerError) IsError() bool {
	return e.Severity == Error || e.Severity == Fatal
}
