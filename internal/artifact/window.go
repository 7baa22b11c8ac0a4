package artifact

// WindowCap bounds the number of live handles: the currently displayed slide
// and the one about to replace it.
const WindowCap = 2

// Window is a FIFO of at most WindowCap outstanding artifacts. It is owned
// exclusively by the playback scheduler and is not safe for concurrent use.
type Window struct {
	live []*Artifact
}

// Push adds a to the window, releasing the oldest handle first whenever the
// window is already full. The bound therefore never exceeds WindowCap.
func (w *Window) Push(a *Artifact) {
	for len(w.live) >= WindowCap {
		w.live[0].Release()
		w.live = w.live[1:]
	}
	w.live = append(w.live, a)
}

// Len returns the number of live handles.
func (w *Window) Len() int { return len(w.live) }

// TrimTo releases the oldest handles until at most n remain. At stream end
// the scheduler trims to 1, leaving only the currently displayed slide for
// the presentation layer to release.
func (w *Window) TrimTo(n int) {
	if n < 0 {
		n = 0
	}
	for len(w.live) > n {
		w.live[0].Release()
		w.live = w.live[1:]
	}
}
