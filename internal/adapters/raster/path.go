package raster

import (
	"math"
	"strconv"
)

// pathArgs is the number of arguments each path command consumes per segment.
var pathArgs = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4,
	'A': 7,
	'Z': 0,
}

type pathToken struct {
	cmd byte
	num float64
}

// pathBounds adds every point of the path data d to b.
// Control points are included, so curves produce a conservative box.
func pathBounds(d string, b *Box) {
	tokens := tokenizePath(d)

	var cx, cy, sx, sy float64
	var cmd byte
	for i := 0; i < len(tokens); {
		if tokens[i].cmd != 0 {
			cmd = tokens[i].cmd
			i++
			if upper(cmd) == 'Z' {
				cx, cy = sx, sy
				continue
			}
		}
		if cmd == 0 {
			return
		}

		n := pathArgs[upper(cmd)]
		if n == 0 || i+n > len(tokens) {
			return
		}
		args := make([]float64, n)
		for j := range n {
			if tokens[i+j].cmd != 0 {
				return
			}
			args[j] = tokens[i+j].num
		}
		i += n

		rel := cmd >= 'a'
		ox, oy := 0.0, 0.0
		if rel {
			ox, oy = cx, cy
		}

		switch upper(cmd) {
		case 'M', 'L', 'T':
			cx, cy = ox+args[0], oy+args[1]
			b.add(cx, cy)
			if upper(cmd) == 'M' {
				sx, sy = cx, cy
				// Further pairs after a moveto are implicit linetos.
				if rel {
					cmd = 'l'
				} else {
					cmd = 'L'
				}
			}
		case 'H':
			cx = ox + args[0]
			b.add(cx, cy)
		case 'V':
			cy = oy + args[0]
			b.add(cx, cy)
		case 'C', 'S', 'Q':
			for j := 0; j < n; j += 2 {
				b.add(ox+args[j], oy+args[j+1])
			}
			cx, cy = ox+args[n-2], oy+args[n-1]
		case 'A':
			x, y := ox+args[5], oy+args[6]
			r := math.Max(math.Abs(args[0]), math.Abs(args[1]))
			mx, my := (cx+x)/2, (cy+y)/2
			b.add(cx, cy)
			b.add(x, y)
			b.add(mx-r, my-r)
			b.add(mx+r, my+r)
			cx, cy = x, y
		}
	}
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func tokenizePath(d string) []pathToken {
	var tokens []pathToken
	for i := 0; i < len(d); {
		c := d[i]
		switch {
		case isSeparator(c):
			i++
		case isCommand(c):
			tokens = append(tokens, pathToken{cmd: c})
			i++
		default:
			end := scanNumber(d, i)
			if end == i {
				// Unknown byte, skip it.
				i++
				continue
			}
			f, err := strconv.ParseFloat(d[i:end], 64)
			if err == nil {
				tokens = append(tokens, pathToken{num: f})
			}
			i = end
		}
	}
	return tokens
}

// parseNumbers reads a whitespace or comma separated list of numbers.
func parseNumbers(s string) []float64 {
	var out []float64
	for _, t := range tokenizePath(s) {
		if t.cmd == 0 {
			out = append(out, t.num)
		}
	}
	return out
}

func isSeparator(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r'
}

func isCommand(c byte) bool {
	_, ok := pathArgs[upper(c)]
	return ok
}

// scanNumber returns the end of the number starting at i.
// "1.5.5" scans as "1.5" and "-1-2" as "-1".
func scanNumber(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := false
	for j < len(s) && isDigit(s[j]) {
		j++
		digits = true
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits = true
		}
	}
	if !digits {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
