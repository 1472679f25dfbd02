package riesel

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
)

// Candidate V(1) values, most likely first. They satisfy Rodseth's
// condition for about 1 - 1/835000 of the h*2^n-1 with h mod 3 == 0.
var v1Table = []uint64{
	3, 5, 9, 11, 15, 17, 21, 29, 27, 35, 39, 41, 31, 45, 51, 55, 49, 59, 69, 65, 71, 57, 85, 81,
	95, 99, 77, 53, 67, 125, 111, 105, 87, 129, 101, 83, 165, 155, 149, 141, 121, 109,
}

// nextV1 is where the linear search starts once the table is exhausted.
const nextV1 = 167

// GenV1 returns V(1) for the Lucas sequence of h*2^n-1, where value is
// h*2^n-1. h must be odd.
//
// When h mod 3 != 0, V(1) is 4. Otherwise V(1) is the first X with
// jacobi(X-2, value) == 1 and jacobi(X+2, value) == -1.
func GenV1(h uint64, value *big.Int) (uint64, error) {
	if h&1 == 0 {
		return 0, kerrors.ErrEvenH
	}
	if value.Sign() <= 0 || value.Bit(0) == 0 {
		return 0, fmt.Errorf("candidate %s must be odd and positive: %w", value, kerrors.ErrCannotTest)
	}
	if h%3 != 0 {
		return 4, nil
	}

	for _, x := range v1Table {
		if rodseth(x, value) {
			return x, nil
		}
	}
	for x := uint64(nextV1); x < math.MaxUint32; x += 2 {
		if rodseth(x, value) {
			return x, nil
		}
	}
	return 0, fmt.Errorf("no v[1] below 2^32: %w", kerrors.ErrInvalidV1)
}

func rodseth(x uint64, value *big.Int) bool {
	if x <= 2 {
		return false
	}
	xm := new(big.Int).SetUint64(x - 2)
	if big.Jacobi(xm, value) != 1 {
		return false
	}
	xm.SetUint64(x + 2)
	return big.Jacobi(xm, value) == -1
}

// GenU2 returns u[2] = V(h) mod value, computed from V(1) = v1 with the
// binary Lucas-V ladder over the bits of h.
func GenU2(h, n, v1 uint64, value *big.Int) (*big.Int, error) {
	if h == 0 {
		return nil, kerrors.ErrInvalidH
	}
	if n < 1 {
		return nil, kerrors.ErrInvalidN
	}
	if v1 < 3 {
		return nil, kerrors.ErrInvalidV1
	}
	if shift := uint64(bits.TrailingZeros64(h)); shift > 0 {
		h >>= shift
		n += shift
	}
	hbits := bits.Len64(h) - 1
	if uint64(hbits) >= n {
		return nil, fmt.Errorf("h: %d has %d bits, n: %d: %w", h, hbits+1, n, kerrors.ErrCannotTest)
	}

	bigV1 := new(big.Int).SetUint64(v1)
	two := big.NewInt(2)

	// r = V(k), s = V(k+1), starting at k = 1.
	r := new(big.Int).Set(bigV1)
	s := new(big.Int).Mul(r, r)
	s.Sub(s, two)

	if h == 1 {
		return r.Mod(r, value), nil
	}

	tmp := new(big.Int)
	for i := hbits - 1; i > 0; i-- {
		tmp.Mul(r, s)
		tmp.Sub(tmp, bigV1)
		if h&(1<<uint(i)) != 0 {
			// V(2k+1), V(2k+2)
			r.Mod(tmp, value)
			s.Mul(s, s)
			s.Sub(s, two)
			s.Mod(s, value)
		} else {
			// V(2k), V(2k+1)
			s.Mod(tmp, value)
			r.Mul(r, r)
			r.Sub(r, two)
			r.Mod(r, value)
		}
	}

	// h is odd, so the last bit is 1.
	tmp.Mul(r, s)
	tmp.Sub(tmp, bigV1)
	return r.Mod(tmp, value), nil
}
