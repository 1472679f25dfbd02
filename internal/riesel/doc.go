// Package riesel tests numbers of the form h*2^n-1 for primality.
//
// The test is the Lucas-Lehmer-Riesel test: with h odd and h < 2^n,
// h*2^n-1 is prime if and only if u[n] == 0, where
//
//	u[2]   = V(h) mod h*2^n-1
//	u[i+1] = u[i]^2 - 2 mod h*2^n-1
//
// and V is the Lucas sequence seeded with V(1) from GenV1 (Rodseth's
// method). The squaring step reduces mod h*2^n-1 with shifts and adds
// instead of a full division.
//
// # Usage
//
//	c, err := riesel.NewCandidate(3, 11)
//	if err != nil {
//	    return err
//	}
//	verdict, err := riesel.Test(ctx, c, riesel.Options{Trace: reporter})
package riesel
