package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every log line out to all sinks. A sink failing
// does not stop the others; Write reports the bytes of p accepted by at
// least one sink together with every sink error.
type CombinedWriter struct {
	sinks []io.Writer
}

func NewCombinedWriter(sinks ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, s := range sinks {
		if s != nil {
			cw.sinks = append(cw.sinks, s)
		}
	}
	return cw
}

func (cw *CombinedWriter) Sinks() int {
	return len(cw.sinks)
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		accepted bool
		errs     error
	)
	for _, s := range cw.sinks {
		if _, err := s.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		accepted = true
	}
	if !accepted && len(cw.sinks) > 0 {
		return 0, errs
	}
	return len(p), errs
}

// Close closes the sinks implementing io.Closer (e.g. rotated log files).
func (cw *CombinedWriter) Close() error {
	var errs error
	for _, s := range cw.sinks {
		if c, ok := s.(io.Closer); ok {
			errs = multierr.Append(errs, c.Close())
		}
	}
	return errs
}
