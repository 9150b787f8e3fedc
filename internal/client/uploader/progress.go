package uploader

import "io"

// progressReader wraps a reader and reports the fraction of total bytes
// consumed after every read. Progress is observable only; upload
// correctness never depends on it.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	onChange func(fraction float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.onChange != nil && p.total > 0 {
		p.read += int64(n)
		p.onChange(float64(p.read) / float64(p.total))
	}
	return n, err
}
