package xrpanel

import (
	"fmt"
	"io"
	"os"
)

// SetDebugMode enables or disables picker diagnostics. When enabled the
// picker logs cancellations, hover transfers, rejected presses and releases
// and scheduled work, and checks newly attached trees for excessive depth.
func (p *ElementPicker) SetDebugMode(enabled bool) {
	p.debug = enabled
}

// SetDebugOutput redirects diagnostics. A nil writer restores os.Stderr.
func (p *ElementPicker) SetDebugOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	p.debugOut = w
}

func (p *ElementPicker) logf(format string, args ...any) {
	if !p.debug {
		return
	}
	_, _ = fmt.Fprintf(p.debugOut, "[xrpanel] "+format+"\n", args...)
}

// debugMaxTreeDepth and debugMaxChildCount are the thresholds above which a
// newly attached tree is reported. Deep trees make every hit test slower.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugCheckTree walks root and reports elements nested deeper than
// debugMaxTreeDepth or with more than debugMaxChildCount children.
func (p *ElementPicker) debugCheckTree(root *Element) {
	if !p.debug || root == nil {
		return
	}
	var walk func(e *Element, depth int)
	walk = func(e *Element, depth int) {
		if depth == debugMaxTreeDepth+1 {
			p.logf("warning: tree depth exceeds %d (element %q)", debugMaxTreeDepth, e.Name)
		}
		if len(e.children) > debugMaxChildCount {
			p.logf("warning: element %q has %d children (threshold %d)",
				e.Name, len(e.children), debugMaxChildCount)
		}
		for _, c := range e.children {
			walk(c, depth+1)
		}
	}
	walk(root, 1)
}
