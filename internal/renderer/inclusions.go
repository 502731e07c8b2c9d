package renderer

import "sync"

// PreviewLines is how many inclusion lines a package card shows collapsed.
const PreviewLines = 3

// InclusionList is the collapsible inclusions preview of a package card.
type InclusionList struct {
	mu       sync.Mutex
	lines    []string
	expanded bool
}

func NewInclusionList(lines []string) *InclusionList {
	return &InclusionList{lines: append([]string{}, lines...)}
}

func (l *InclusionList) All() []string {
	return append([]string{}, l.lines...)
}

// Visible returns the lines currently shown.
func (l *InclusionList) Visible() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.expanded || len(l.lines) <= PreviewLines {
		return append([]string{}, l.lines...)
	}
	return append([]string{}, l.lines[:PreviewLines]...)
}

// Hidden returns the lines beyond the preview, regardless of state.
func (l *InclusionList) Hidden() []string {
	if len(l.lines) <= PreviewLines {
		return nil
	}
	return append([]string{}, l.lines[PreviewLines:]...)
}

// HasMore reports whether a show-more control is needed.
func (l *InclusionList) HasMore() bool {
	return len(l.lines) > PreviewLines
}

func (l *InclusionList) Expanded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expanded
}

// Toggle flips between the preview and the full list. It does nothing when
// there is nothing to reveal.
func (l *InclusionList) Toggle() {
	if !l.HasMore() {
		return
	}
	l.mu.Lock()
	l.expanded = !l.expanded
	l.mu.Unlock()
}
