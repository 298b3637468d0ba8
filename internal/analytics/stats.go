package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sumSq := 0.0
	for _, v := range xs {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// stddevP is the population standard deviation.
func stddevP(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sumSq := 0.0
	for _, v := range xs {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// slope fits a degree-1 least-squares line against indices 0..n-1 and returns
// its slope.
func slope(ys []float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}
	mx := float64(n-1) / 2
	my := mean(ys)
	var cov, varX float64
	for i, y := range ys {
		dx := float64(i) - mx
		cov += dx * (y - my)
		varX += dx * dx
	}
	if varX == 0 {
		return 0
	}
	return cov / varX
}

// tail returns the last n elements (or all, if fewer).
func tail(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

// Round1 and Round2 round to 1/2 decimal places; decimal arithmetic keeps
// money figures free of float artifacts.
func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round3(v float64) float64 {
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}
