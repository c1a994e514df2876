package geometry

import "math"

// DropTarget is the cell and in-cell offset a dragged event was released over.
type DropTarget struct {
	Resource int
	Day      int
	Start    float64
}

// ResolveDrop maps a drop position, measured from the top-left corner of the
// first event cell (resource 0, day 0), to the cell it falls into and the
// pixel offset from that cell's left edge. Bounds are left to the caller;
// positions left of or above the grid resolve to negative indexes.
func ResolveDrop(x, y, cellWidth, cellHeight float64) DropTarget {
	day := int(math.Floor(x / cellWidth))
	resource := int(math.Floor(y / cellHeight))
	return DropTarget{
		Resource: resource,
		Day:      day,
		Start:    x - float64(day)*cellWidth,
	}
}
