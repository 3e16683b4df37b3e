package tui

type Layout struct {
	visibleWidth  int
	visibleHeight int
}

// maxPanelWidth caps slider panels so tracks stay readable on very wide
// terminals.
const maxPanelWidth = 100

func NewLayout() *Layout {
	return &Layout{
		visibleWidth:  0,
		visibleHeight: 0,
	}
}

func (l *Layout) SetWidth(width int) {
	l.visibleWidth = width
}

func (l *Layout) SetHeight(height int) {
	l.visibleHeight = height
}

func (l *Layout) PanelWidth() int {
	if l.visibleWidth > maxPanelWidth {
		return maxPanelWidth
	}
	return l.visibleWidth
}

// PanelContentWidth is the width inside the panel border.
func (l *Layout) PanelContentWidth() int {
	return l.PanelWidth() - 2
}
