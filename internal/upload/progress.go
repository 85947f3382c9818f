package upload

import (
	"io"
	"math"
)

// progressReader reports transfer percentage as bytes flow through it. The
// percentage is round(sent/total*100); clamping and the monotonicity
// guarantee live in the pipeline's setProgress.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report func(pct int)
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.sent += int64(n)
		if pr.report != nil && pr.total > 0 {
			pr.report(int(math.Round(float64(pr.sent) / float64(pr.total) * 100)))
		}
	}
	return n, err
}
