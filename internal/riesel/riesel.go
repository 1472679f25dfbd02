package riesel

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"math/bits"

	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
	logger "github.com/PolarWolf314/gmprime/internal/logging"
)

// Verdict is the outcome of a primality test.
type Verdict int

const (
	Composite Verdict = iota
	Prime
)

func (v Verdict) String() string {
	if v == Prime {
		return "prime"
	}
	return "composite"
}

// Tracer receives debug traces. *logger.Reporter satisfies it.
type Tracer interface {
	Dbgf(level int, format string, args ...any)
	V(level int) bool
}

type nopTracer struct{}

func (nopTracer) Dbgf(int, string, ...any) {}
func (nopTracer) V(int) bool               { return false }

// Options controls the side outputs of Test.
type Options struct {
	// Trace receives debug traces. Nil disables tracing.
	Trace Tracer
	// Calc receives calc(1) statements that verify each step. Nil disables
	// calc output.
	Calc io.Writer
	// Progress is called after every term of the sequence with the index of
	// the term just computed and n.
	Progress func(i, n uint64)
}

// Candidate is a number h*2^n-1 with h odd.
type Candidate struct {
	H, N         uint64
	OrigH, OrigN uint64
}

// NewCandidate validates h and n and moves the factors of 2 in h into n.
func NewCandidate(h, n uint64) (Candidate, error) {
	if h == 0 {
		return Candidate{}, kerrors.ErrInvalidH
	}
	if n == 0 {
		return Candidate{}, kerrors.ErrInvalidN
	}
	c := Candidate{H: h, N: n, OrigH: h, OrigN: n}
	if shift := uint64(bits.TrailingZeros64(h)); shift > 0 {
		c.H >>= shift
		c.N += shift
	}
	return c, nil
}

// Value returns h*2^n-1.
func (c Candidate) Value() *big.Int {
	v := new(big.Int).SetUint64(c.H)
	v.Lsh(v, uint(c.N))
	return v.Sub(v, big.NewInt(1))
}

func (c Candidate) String() string {
	return fmt.Sprintf("%d * 2 ^ %d - 1", c.OrigH, c.OrigN)
}

// Values that fail the standard test because n is too small.
var (
	smallPrimes     = []Candidate{{H: 1, N: 2}} // 3
	smallComposites = []Candidate{{H: 1, N: 1}} // 1
)

// multipleOfThree reports whether h*2^n-1 is divisible by 3.
func multipleOfThree(h, n uint64) bool {
	return (h%3 == 1 && n%2 == 0) || (h%3 == 2 && n%2 == 1)
}

// Test runs the Lucas-Lehmer-Riesel test on c.
func Test(ctx context.Context, c Candidate, opts Options) (Verdict, error) {
	trace := opts.Trace
	if trace == nil {
		trace = nopTracer{}
	}
	calc := newCalcWriter(opts.Calc, c)

	if c.H != c.OrigH {
		trace.Dbgf(logger.DbgLow, "converting even h: %d into odd by increasing n: %d", c.OrigH, c.OrigN)
		trace.Dbgf(logger.DbgLow, "new equivalent h: %d and new equivalent n: %d", c.H, c.N)
	}

	for _, p := range smallPrimes {
		if c.H == p.H && c.N == p.N {
			trace.Dbgf(logger.DbgMed, "%s is a special case prime", c)
			calc.shortcut(Prime)
			return Prime, calc.err
		}
	}
	for _, p := range smallComposites {
		if c.H == p.H && c.N == p.N {
			trace.Dbgf(logger.DbgMed, "%s is a special case composite", c)
			calc.shortcut(Composite)
			return Composite, calc.err
		}
	}
	if multipleOfThree(c.H, c.N) {
		trace.Dbgf(logger.DbgMed, "%s is a multiple of 3 > 3", c)
		calc.multipleOfThree()
		return Composite, calc.err
	}

	if uint64(bits.Len64(c.H)) > c.N {
		return Composite, fmt.Errorf("h: %d, 2^n: 2^%d: %w", c.H, c.N, kerrors.ErrCannotTest)
	}

	value := c.Value()
	trace.Dbgf(logger.DbgLow, "original test %d*2^%d-1", c.OrigH, c.OrigN)
	if trace.V(logger.DbgHigh) {
		trace.Dbgf(logger.DbgHigh, "testing %d*2^%d-1 = %s", c.H, c.N, value)
	} else {
		trace.Dbgf(logger.DbgMed, "testing %d*2^%d-1", c.H, c.N)
	}
	calc.header()

	v1, err := GenV1(c.H, value)
	if err != nil {
		return Composite, fmt.Errorf("generating v[1]: %w", err)
	}
	trace.Dbgf(logger.DbgMed, "v[1] = %d", v1)

	u, err := GenU2(c.H, c.N, v1, value)
	if err != nil {
		return Composite, fmt.Errorf("generating u[2]: %w", err)
	}
	if trace.V(logger.DbgHigh) {
		trace.Dbgf(logger.DbgHigh, "u[2] = %s", u)
	}
	calc.firstTerm(u)

	seq := newSequence(c.H, c.N, value, trace)
	for i := uint64(2); i < c.N; i++ {
		if err := ctx.Err(); err != nil {
			return Composite, fmt.Errorf("at u[%d] of %d: %w", i, c.N, kerrors.ErrInterrupted)
		}
		seq.next(u, i)
		calc.term(u, i+1)
		if opts.Progress != nil {
			opts.Progress(i+1, c.N)
		}
	}

	verdict := Composite
	if u.Sign() == 0 {
		verdict = Prime
	}
	trace.Dbgf(logger.DbgLow, "%s is %s", c, verdict)
	calc.verdict(verdict)
	return verdict, calc.err
}

// sequence computes u[i+1] = u[i]^2 - 2 mod h*2^n-1.
type sequence struct {
	h     *big.Int
	n     uint
	value *big.Int
	mask  *big.Int
	trace Tracer

	sq, j, k, jDivH, jModH big.Int
}

func newSequence(h, n uint64, value *big.Int, trace Tracer) *sequence {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(n))
	mask.Sub(mask, big.NewInt(1))
	return &sequence{
		h:     new(big.Int).SetUint64(h),
		n:     uint(n),
		value: value,
		mask:  mask,
		trace: trace,
	}
}

// next replaces u (which holds u[i]) with u[i+1].
func (s *sequence) next(u *big.Int, i uint64) {
	verbose := s.trace.V(logger.DbgVVHigh)

	s.sq.Mul(u, u)
	s.sq.Sub(&s.sq, big.NewInt(2))
	if s.sq.Sign() < 0 {
		s.sq.Add(&s.sq, s.value)
	}
	if verbose {
		s.trace.Dbgf(logger.DbgVVHigh, "u[%d]^2-2 = %s", i, &s.sq)
	}

	// x mod h*2^n-1 = int(J/h) + (J mod h)*2^n + K
	// where J = int(x / 2^n) and K = x mod 2^n.
	s.j.Rsh(&s.sq, s.n)
	s.k.And(&s.sq, s.mask)
	s.jDivH.QuoRem(&s.j, s.h, &s.jModH)
	if verbose {
		s.trace.Dbgf(logger.DbgVVHigh, "J = %s, K = %s, int(J/h) = %s, (J mod h) = %s",
			&s.j, &s.k, &s.jDivH, &s.jModH)
	}

	u.Lsh(&s.jModH, s.n)
	u.Add(u, &s.k)
	u.Add(u, &s.jDivH)

	// The sum is less than twice h*2^n-1, so this runs at most once or twice.
	for u.Cmp(s.value) >= 0 {
		u.Sub(u, s.value)
		if verbose {
			s.trace.Dbgf(logger.DbgVVHigh, "u_term = u_term - h*2^n-1 = %s", u)
		}
	}
	if s.trace.V(logger.DbgVHigh) {
		s.trace.Dbgf(logger.DbgVHigh, "u[%d] = %s", i+1, u)
	}
}
