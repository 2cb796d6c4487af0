package interp

// Linear2 interpolates between x0 (t=0) and x1 (t=1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Bilinear interpolates inside a grid cell. fxy is the corner value at
// (x, y) offsets, dx and dy are the fractional positions in [0,1].
func Bilinear(dx, dy, f00, f10, f01, f11 float64) float64 {
	return (1-dy)*Linear2(dx, f00, f10) + dy*Linear2(dx, f01, f11)
}

// Cell locates x on a uniform grid starting at origin with the given
// spacing. It returns the index of the cell's lower node and the
// fractional offset inside the cell.
func Cell(x, origin, spacing float64) (int, float64) {
	u := (x - origin) / spacing
	i := floorInt(u)
	return i, u - float64(i)
}

func floorInt(u float64) int {
	i := int(u)
	if float64(i) > u {
		i--
	}
	return i
}
