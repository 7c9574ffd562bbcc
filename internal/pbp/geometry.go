package pbp

import "math"

// Rink geometry. Coordinates are rink-centric: x in [-100, 100] along the
// length of the ice, y in [-42.5, 42.5], nets at x = ±89.
const netX = 89.0

// dangerPolygon outlines the medium-danger region in front of the net on
// the positive-x half. The negative-x half is the same polygon with x
// negated.
var dangerPolygon = [][2]float64{
	{89, 9}, {89, -9}, {69, -22}, {54, -22}, {54, -9},
	{44, -9}, {44, 9}, {54, 9}, {54, 22}, {69, 22},
}

// highDangerRect bounds the slot on the positive-x half.
var highDangerRect = struct{ x0, x1, y0, y1 float64 }{69, 89, -9, 9}

// InHighDanger reports whether a point falls in the slot at either end.
func InHighDanger(x, y float64) bool {
	ax := math.Abs(x)
	return ax >= highDangerRect.x0 && ax <= highDangerRect.x1 &&
		y >= highDangerRect.y0 && y <= highDangerRect.y1
}

// InDanger reports whether a point falls in the medium-danger region at
// either end, excluding the high-danger slot.
func InDanger(x, y float64) bool {
	if InHighDanger(x, y) {
		return false
	}
	return pointInPolygon(math.Abs(x), y, dangerPolygon)
}

// pointInPolygon is a standard ray cast with on-edge points counted inside.
func pointInPolygon(x, y float64, poly [][2]float64) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if onSegment(x, y, xi, yi, xj, yj) {
			return true
		}
		if (yi > y) != (yj > y) {
			cross := (xj-xi)*(y-yi)/(yj-yi) + xi
			if x < cross {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(px, py, x1, y1, x2, y2 float64) bool {
	cross := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
	if math.Abs(cross) > 1e-9 {
		return false
	}
	return px >= math.Min(x1, x2)-1e-9 && px <= math.Max(x1, x2)+1e-9 &&
		py >= math.Min(y1, y2)-1e-9 && py <= math.Max(y1, y2)+1e-9
}

// EventDistance returns the distance in feet from (x, y) to the nearer net.
func EventDistance(x, y float64) float64 {
	return math.Hypot(netX-math.Abs(x), y)
}

// FarNetDistance returns the distance to the net at the far end of the ice.
// Used when the report distance shows the nearer-net assumption picked the
// wrong goal.
func FarNetDistance(x, y float64) float64 {
	return math.Hypot(netX+math.Abs(x), y)
}

// EventAngle returns the absolute shot angle in degrees off the center line,
// measured against the nearer net. A point level with the goal line returns
// 90 unless it is on the center line.
func EventAngle(x, y float64) float64 {
	dx := netX - math.Abs(x)
	if dx == 0 {
		if y == 0 {
			return 0
		}
		return 90
	}
	return math.Abs(math.Atan(y/dx) * 180 / math.Pi)
}
