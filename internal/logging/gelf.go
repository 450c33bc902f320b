package logging

import (
	"fmt"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfWriter opens a UDP GELF writer to a Graylog input at addr.
// Each log line becomes one GELF message.
func NewGelfWriter(addr, facility string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, fmt.Errorf("creating gelf writer for %s: %w", addr, err)
	}
	w.Facility = facility
	return w, nil
}
