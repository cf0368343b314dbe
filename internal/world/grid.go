package world

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// OccupancyGrid rasterizes the obstacle set into a row-major grid at the
// given resolution in meters per cell (0 = free, 1 = occupied). The grid is
// derived state: the ray caster always works on exact circle geometry, the
// grid exists for coverage inspection and the ASCII view.
func (w *World) OccupancyGrid(resolution float64) ([][]int, error) {
	if resolution <= 0 {
		return nil, errors.Errorf("grid resolution must be positive, got %g", resolution)
	}

	snap := w.Snapshot()
	cols := int(snap.Bounds.Width / resolution)
	rows := int(snap.Bounds.Height / resolution)
	if cols == 0 || rows == 0 {
		return nil, errors.Errorf("resolution %gm too coarse for %gx%g arena", resolution, snap.Bounds.Width, snap.Bounds.Height)
	}

	grid := make([][]int, rows)
	for i := range grid {
		grid[i] = make([]int, cols)
		for j := range grid[i] {
			center := r2.Point{
				X: float64(j)*resolution + resolution/2,
				Y: float64(i)*resolution + resolution/2,
			}
			for _, o := range snap.Obstacles {
				if o.ContainsPoint(center) {
					grid[i][j] = 1
					break
				}
			}
		}
	}
	return grid, nil
}

// String renders a coarse console view of the arena: one character per half
// meter, B for the bot, # for obstacle cells.
func (w *World) String() string {
	const cell = 0.5

	snap := w.Snapshot()
	cols := int(snap.Bounds.Width / cell)
	rows := int(snap.Bounds.Height / cell)
	if cols == 0 || rows == 0 {
		return fmt.Sprintf("arena %gm x %gm (too small to draw)", snap.Bounds.Width, snap.Bounds.Height)
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", cols+2))
	sb.WriteByte('\n')

	// Row 0 of the arena is at the bottom; draw top-down.
	for i := rows - 1; i >= 0; i-- {
		sb.WriteByte('|')
		for j := 0; j < cols; j++ {
			center := r2.Point{
				X: float64(j)*cell + cell/2,
				Y: float64(i)*cell + cell/2,
			}
			ch := byte(' ')
			if snap.HasPose &&
				snap.Pose.X >= float64(j)*cell && snap.Pose.X < float64(j+1)*cell &&
				snap.Pose.Y >= float64(i)*cell && snap.Pose.Y < float64(i+1)*cell {
				ch = 'B'
			} else {
				for _, o := range snap.Obstacles {
					if o.ContainsPoint(center) {
						ch = '#'
						break
					}
				}
			}
			sb.WriteByte(ch)
		}
		sb.WriteString("|\n")
	}

	sb.WriteString(strings.Repeat("=", cols+2))
	sb.WriteByte('\n')
	sb.WriteString(fmt.Sprintf("Size: %gm x %gm | Obstacles: %d", snap.Bounds.Width, snap.Bounds.Height, len(snap.Obstacles)))
	if snap.HasPose {
		sb.WriteString(fmt.Sprintf(" | Bot: (%.2f, %.2f) @ %.1f°", snap.Pose.X, snap.Pose.Y, snap.Pose.HeadingDeg))
	} else {
		sb.WriteString(" | Bot: not placed")
	}
	return sb.String()
}
