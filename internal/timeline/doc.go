// Package timeline holds the layout and interaction model behind the
// scheduling timeline: date/pixel mapping, lane assignment, the navigable
// viewport and the drag/resize session driven by pointer input.
//
// Nothing here renders. Pixel units are abstract; the TUI maps terminal
// cells onto them with a fixed cell width.
package timeline
