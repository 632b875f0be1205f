package ports

// QuantilePort is the inverse CDF of Student's t distribution
type QuantilePort interface {
	// Quantile returns x such that P(T <= x) = p for T ~ t(df).
	// p must lie in (0,1) and df must be at least 1.
	Quantile(p float64, df int) (float64, error)
}
