package mapdata

import (
	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/logger"
	"github.com/Faultbox/visualflats/pkg/math"
)

// TriangulateSector traces the boundary loops of s and returns a clockwise
// triangle list. Counter-clockwise loops (holes) are not cut out.
func TriangulateSector(s *Sector) []math.Vec2 {
	var out []math.Vec2
	for _, loop := range traceLoops(s) {
		if signedArea(loop) > 0 {
			logger.For(logger.MapData).Debug("skipping inner loop", logger.Sector(s.Index), zap.Int("vertices", len(loop)))
			continue
		}
		out = append(out, Triangulate(loop)...)
	}
	return out
}

type edge struct {
	from, to *Vertex
}

// traceLoops chains the sector's sides into closed vertex loops. Each side
// is oriented so the sector lies on its right.
func traceLoops(s *Sector) [][]math.Vec2 {
	edges := make([]edge, 0, len(s.Sidedefs))
	for _, sd := range s.Sidedefs {
		if sd.IsFront {
			edges = append(edges, edge{sd.Line.Start, sd.Line.End})
		} else {
			edges = append(edges, edge{sd.Line.End, sd.Line.Start})
		}
	}

	used := make([]bool, len(edges))
	var loops [][]math.Vec2
	for first := range edges {
		if used[first] {
			continue
		}
		used[first] = true
		start := edges[first].from
		loop := []math.Vec2{start.Position}
		cur := edges[first].to
		for cur != start {
			next := -1
			for i, e := range edges {
				if !used[i] && e.from == cur {
					next = i
					break
				}
			}
			if next < 0 {
				loop = nil
				break
			}
			used[next] = true
			loop = append(loop, cur.Position)
			cur = edges[next].to
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// signedArea is positive for counter-clockwise polygons (Y up).
func signedArea(poly []math.Vec2) float64 {
	a := 0.0
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func cross(o, a, b math.Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Triangulate ear-clips a simple polygon of either winding and returns
// clockwise triangles.
func Triangulate(poly []math.Vec2) []math.Vec2 {
	pts := make([]math.Vec2, 0, len(poly))
	for i := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		next := poly[(i+1)%len(poly)]
		if cross(prev, poly[i], next) != 0 {
			pts = append(pts, poly[i])
		}
	}
	if len(pts) < 3 {
		return nil
	}
	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}

	out := make([]math.Vec2, 0, (len(pts)-2)*3)
	for len(idx) > 3 {
		ear := -1
		for i := range idx {
			a := pts[idx[(i+len(idx)-1)%len(idx)]]
			b := pts[idx[i]]
			c := pts[idx[(i+1)%len(idx)]]
			if cross(a, b, c) <= 0 {
				continue
			}
			if containsAny(pts, idx, a, b, c) {
				continue
			}
			ear = i
			out = append(out, a, c, b)
			break
		}
		if ear < 0 {
			// Self-intersecting or degenerate remainder.
			return out
		}
		idx = append(idx[:ear], idx[ear+1:]...)
	}
	return append(out, pts[idx[0]], pts[idx[2]], pts[idx[1]])
}

// containsAny reports whether any remaining vertex other than a, b, c lies
// inside the counter-clockwise triangle abc.
func containsAny(pts []math.Vec2, idx []int, a, b, c math.Vec2) bool {
	for _, i := range idx {
		p := pts[i]
		if p == a || p == b || p == c {
			continue
		}
		if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
			return true
		}
	}
	return false
}
