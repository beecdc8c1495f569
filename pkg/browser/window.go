package browser

import (
	"fmt"
)

// WindowCount returns the number of open windows.
func (d *Driver) WindowCount() int {
	if d.closed {
		return 0
	}
	return len(d.openPages())
}

// SwitchToWindow makes the window at index (in opening order) current.
func (d *Driver) SwitchToWindow(index int) error {
	if d.closed {
		return ErrClosed
	}

	pages := d.openPages()
	if index < 0 || index >= len(pages) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSuchWindow, index, len(pages))
	}

	d.page = pages[index]
	d.frame = nil
	if err := d.page.BringToFront(); err != nil {
		return wrapEngineErr("switch window", err)
	}
	return nil
}

// OpenNewTab opens a blank window and makes it current.
func (d *Driver) OpenNewTab() error {
	if d.closed {
		return ErrClosed
	}

	page, err := d.context.NewPage()
	if err != nil {
		return wrapEngineErr("open tab", err)
	}
	d.page = page
	d.frame = nil
	return nil
}

// SwitchToFrame enters a child frame or returns to the main frame.
func (d *Driver) SwitchToFrame(ref FrameRef) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	switch ref.kind {
	case frameIndex:
		children := d.currentFrame().ChildFrames()
		if ref.index < 0 || ref.index >= len(children) {
			return fmt.Errorf("%w: index %d of %d", ErrNoSuchFrame, ref.index, len(children))
		}
		d.frame = children[ref.index]
	case frameElement:
		if ref.element == nil {
			return fmt.Errorf("%w: nil frame element", ErrNoSuchFrame)
		}
		handle, err := ref.element.loc.ElementHandle()
		if err != nil {
			return wrapEngineErr("frame element", err)
		}
		frame, err := handle.ContentFrame()
		if err != nil {
			return wrapEngineErr("frame element", err)
		}
		if frame == nil {
			return fmt.Errorf("%w: %s is not a frame", ErrNoSuchFrame, ref.element)
		}
		d.frame = frame
	default:
		d.frame = nil
	}
	return nil
}
