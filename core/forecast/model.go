package forecast

import (
	"errors"
	"math"

	"github.com/devpulse/devpulse/schema"
)

// standardScaler centers and scales a single feature.
// Fields are exported for gob serialization.
type standardScaler struct {
	Mean float64
	Std  float64
}

func fitScaler(xs []float64) *standardScaler {
	s := &standardScaler{Mean: meanOf(xs), Std: stdOf(xs)}
	if s.Std == 0 {
		s.Std = 1
	}
	return s
}

func (s *standardScaler) transform(x float64) float64 {
	return (x - s.Mean) / s.Std
}

// onlineLinear is a single-feature linear regressor trained by stochastic
// gradient descent. It keeps accepting new observations after the initial
// fit, which is what makes incremental updates cheap.
type onlineLinear struct {
	Weight float64
	Bias   float64
	Steps  int
}

const sgdEpochs = 200

// fit runs full-batch SGD over the scaled inputs.
func (m *onlineLinear) fit(xs, ys []float64) {
	m.Weight, m.Bias, m.Steps = 0, 0, 0
	for epoch := 0; epoch < sgdEpochs; epoch++ {
		for i := range xs {
			m.step(xs[i], ys[i])
		}
	}
}

// partialFit consumes new observations without revisiting old ones.
func (m *onlineLinear) partialFit(xs, ys []float64) {
	for i := range xs {
		m.step(xs[i], ys[i])
	}
}

// step applies one gradient update with a decaying learning rate.
func (m *onlineLinear) step(x, y float64) {
	lr := schema.LearningRate / (1 + 0.0001*float64(m.Steps))
	err := m.predict(x) - y
	m.Weight -= lr * err * x
	m.Bias -= lr * err
	m.Steps++
}

func (m *onlineLinear) predict(x float64) float64 {
	return m.Weight*x + m.Bias
}

// mseOn measures squared error against observations.
func (m *onlineLinear) mseOn(xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for i := range xs {
		d := m.predict(xs[i]) - ys[i]
		sum += d * d
	}
	return sum / float64(len(xs))
}

// arModel is an autoregressive model fit by least squares on lagged values.
type arModel struct {
	Order       int
	Intercept   float64
	Coeffs      []float64 // Coeffs[0] applies to the most recent lag
	LastValues  []float64 // most recent observations, newest last
	ResidualStd float64
}

// fitAR estimates AR coefficients of the given order via the normal
// equations. Needs at least 2*order+1 observations.
func fitAR(ys []float64, order int) (*arModel, error) {
	n := len(ys)
	if order < 1 || n < 2*order+1 {
		return nil, errors.New("not enough observations for autoregression")
	}

	rows := n - order
	cols := order + 1 // intercept plus lags

	// Build normal equations X'X b = X'y directly.
	xtx := make([][]float64, cols)
	for i := range xtx {
		xtx[i] = make([]float64, cols)
	}
	xty := make([]float64, cols)

	row := make([]float64, cols)
	for t := order; t < n; t++ {
		row[0] = 1
		for lag := 1; lag <= order; lag++ {
			row[lag] = ys[t-lag]
		}
		for i := 0; i < cols; i++ {
			for j := 0; j < cols; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * ys[t]
		}
	}

	coef, err := solveLinear(xtx, xty)
	if err != nil {
		return nil, err
	}

	model := &arModel{
		Order:     order,
		Intercept: coef[0],
		Coeffs:    coef[1:],
	}

	// Residual spread feeds the confidence band.
	sumSq := 0.0
	for t := order; t < n; t++ {
		pred := model.Intercept
		for lag := 1; lag <= order; lag++ {
			pred += model.Coeffs[lag-1] * ys[t-lag]
		}
		d := ys[t] - pred
		sumSq += d * d
	}
	model.ResidualStd = math.Sqrt(sumSq / float64(rows))

	last := make([]float64, order)
	copy(last, ys[n-order:])
	model.LastValues = last

	return model, nil
}

// forecast rolls the model forward, feeding predictions back in as lags.
func (m *arModel) forecast(steps int) []float64 {
	recent := make([]float64, len(m.LastValues))
	copy(recent, m.LastValues)

	out := make([]float64, 0, steps)
	for s := 0; s < steps; s++ {
		pred := m.Intercept
		for lag := 1; lag <= m.Order; lag++ {
			pred += m.Coeffs[lag-1] * recent[len(recent)-lag]
		}
		out = append(out, pred)
		recent = append(recent, pred)
	}
	return out
}

// solveLinear solves Ax = b by Gaussian elimination with partial pivoting.
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	m := make([][]float64, n)
	for i := range a {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, errors.New("singular system")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := m[r][n]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * x[c]
		}
		x[r] = sum / m[r][r]
	}
	return x, nil
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdOf(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := meanOf(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// slopeOf fits a least-squares line over the index axis and returns its
// slope. Used for coarse trend direction.
func slopeOf(ys []float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	yMean := meanOf(ys)
	num, den := 0.0, 0.0
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
