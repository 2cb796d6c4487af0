package wdm

// Parity distinguishes the cosine-like (Even) and sine-like (Odd) pixels of
// the checkerboard.
type Parity uint8

const (
	Even Parity = iota
	Odd
)

// ParityOf returns the parity of pixel (i, j), (i+j) mod 2.
func ParityOf(i, j int) Parity {
	return Parity((i + j) & 1)
}

// String implements fmt.Stringer.
func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// Select extracts the stored real value from a complex layer response:
// the real part for Even pixels, the negated imaginary part for Odd.
func (p Parity) Select(c complex128) float64 {
	if p == Odd {
		return -imag(c)
	}
	return real(c)
}

// Embed is the adjoint of Select: v for Even pixels, -i*v for Odd.
func (p Parity) Embed(v float64) complex128 {
	if p == Odd {
		return complex(0, -v)
	}
	return complex(v, 0)
}

// Rotate combines the lookup-table pair (y, z) with a signal phase given
// as (cos, sin): cos*y - sin*z for Even pixels, -(cos*z + sin*y) for Odd.
// It equals Select((cos + i*sin) * (y + i*z)).
func (p Parity) Rotate(cos, sin, y, z float64) float64 {
	if p == Odd {
		return -(cos*z + sin*y)
	}
	return cos*y - sin*z
}
