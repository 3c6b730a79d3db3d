package graph

import (
	"fmt"
	"math"
	"sort"
)

// UnknownDepartmentColor is used for nodes without a department colour.
const UnknownDepartmentColor = "#95a5a6"

// Centrality returns the degree of every node: the number of edges where the
// node is source or target.
func (g *Graph) Centrality() map[string]int {
	if g == nil {
		return map[string]int{}
	}
	out := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		out[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := out[e.Source]; ok {
			out[e.Source]++
		}
		if e.Target == e.Source {
			continue
		}
		if _, ok := out[e.Target]; ok {
			out[e.Target]++
		}
	}
	return out
}

// MaxCentrality returns the largest value in c, or 0 when empty.
func MaxCentrality(c map[string]int) int {
	max := 0
	for _, v := range c {
		if v > max {
			max = v
		}
	}
	return max
}

// DepartmentColors assigns each distinct department an evenly spaced hue at
// 70% saturation and 50% lightness. Departments are sorted first, so the
// assignment only depends on the set of names.
func (g *Graph) DepartmentColors() map[string]string {
	seen := make(map[string]bool)
	var depts []string
	for _, n := range g.Nodes {
		if n.Department == "" || seen[n.Department] {
			continue
		}
		seen[n.Department] = true
		depts = append(depts, n.Department)
	}
	sort.Strings(depts)

	out := make(map[string]string, len(depts))
	step := 360.0 / math.Max(float64(len(depts)), 1)
	for i, d := range depts {
		hue := math.Mod(float64(i)*step, 360)
		out[d] = HSLToHex(hue, 70, 50)
	}
	return out
}

// HSLToHex converts hue in degrees and saturation/lightness in percent to #rrggbb.
func HSLToHex(hue, saturation, lightness float64) string {
	h := hue / 360
	s := saturation / 100
	l := lightness / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, gr, b float64
	switch {
	case h < 1.0/6:
		r, gr, b = c, x, 0
	case h < 2.0/6:
		r, gr, b = x, c, 0
	case h < 3.0/6:
		r, gr, b = 0, c, x
	case h < 4.0/6:
		r, gr, b = 0, x, c
	case h < 5.0/6:
		r, gr, b = x, 0, c
	default:
		r, gr, b = c, 0, x
	}

	return fmt.Sprintf("#%02x%02x%02x", to8bit(r+m), to8bit(gr+m), to8bit(b+m))
}

func to8bit(v float64) int {
	n := int(math.Floor(v*255 + 0.5))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
