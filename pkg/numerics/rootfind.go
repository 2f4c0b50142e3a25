package numerics

import (
	"errors"
	"math"
)

var (
	ErrRootNotBracketed = errors.New("root not bracketed in given interval")
	ErrNoConvergence    = errors.New("root finding did not converge")
	ErrZeroDerivative   = errors.New("derivative is zero, cannot continue iteration")
)

// Objective 单变量目标函数
type Objective func(x float64) float64

// Bisect 二分法求根
// 要求 f(lo) 与 f(hi) 异号，否则返回 ErrRootNotBracketed
func Bisect(f Objective, lo, hi, tol float64, maxIter int) (float64, error) {
	fLo := f(lo)
	fHi := f(hi)
	if fLo == 0 {
		return lo, nil
	}
	if fHi == 0 {
		return hi, nil
	}
	if fLo*fHi > 0 {
		return math.NaN(), ErrRootNotBracketed
	}

	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		fMid := f(mid)
		if fMid == 0 || (hi-lo)/2 < tol {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}
	return math.NaN(), ErrNoConvergence
}

// NewtonRaphson 牛顿迭代求根
// df 为目标函数的一阶导数；导数过小时返回 ErrZeroDerivative
func NewtonRaphson(f, df Objective, x0, tol float64, maxIter int) (float64, error) {
	x := x0
	for i := 0; i < maxIter; i++ {
		fx := f(x)
		if math.Abs(fx) < tol {
			return x, nil
		}
		dfx := df(x)
		if math.Abs(dfx) < 1e-14 {
			return math.NaN(), ErrZeroDerivative
		}
		x -= fx / dfx
	}
	return math.NaN(), ErrNoConvergence
}

// Brent Brent-Dekker 混合求根算法
// 结合二分、割线与逆二次插值，在区间内稳定收敛
func Brent(f Objective, lo, hi, tol float64, maxIter int) (float64, error) {
	a, b := lo, hi
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if fa*fb > 0 {
		return math.NaN(), ErrRootNotBracketed
	}

	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := b - a
	mflag := true

	for i := 0; i < maxIter; i++ {
		if fb == 0 || math.Abs(b-a) < tol {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// 逆二次插值
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// 割线法
			s = b - fb*(b-a)/(fb-fa)
		}

		lower := (3*a + b) / 4
		upper := b
		if lower > upper {
			lower, upper = upper, lower
		}

		cond1 := s < lower || s > upper
		cond2 := mflag && math.Abs(s-b) >= math.Abs(b-c)/2
		cond3 := !mflag && math.Abs(s-b) >= math.Abs(c-d)/2
		cond4 := mflag && math.Abs(b-c) < tol
		cond5 := !mflag && math.Abs(c-d) < tol

		if cond1 || cond2 || cond3 || cond4 || cond5 {
			s = 0.5 * (a + b)
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}

		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return math.NaN(), ErrNoConvergence
}
