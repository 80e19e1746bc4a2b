package errors

// Bag accumulates diagnostics for one phase (or the whole pipeline) and
// answers the "clean" question every phase must report per spec.md §7:
// a later phase may run only when the phases before it produced no
// Error/Fatal diagnostics.
type Bag struct {
	items []CompilerError
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(e CompilerError) {
	b.items = append(b.items, e)
}

// Addf is a convenience wrapper around Newf + Add.
func (b *Bag) Addf(phase, code string, loc SourceLocation, format string, args ...interface{}) {
	b.Add(Newf(phase, code, loc, format, args...))
}

// All returns every diagnostic recorded so far, in report order.
func (b *Bag) All() []CompilerError {
	return b.items
}

// Errors returns only the Error/Fatal-severity diagnostics.
func (b *Bag) Errors() []CompilerError {
	out := make([]CompilerError, 0, len(b.items))
	for _, e := range b.items {
		if e.IsError() {
			out = append(out, e)
		}
	}
	return out
}

// Clean reports whether no Error/Fatal diagnostic has been recorded.
// Downstream phases must check this before running, per spec.md §2/§7.
func (b *Bag) Clean() bool {
	for _, e := range b.items {
		if e.IsError() {
			return false
		}
	}
	return true
}

// Len returns the total number of diagnostics recorded (all severities).
func (b *Bag) Len() int {
	return len(b.items)
}

// Merge appends another bag's diagnostics into this one.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}
