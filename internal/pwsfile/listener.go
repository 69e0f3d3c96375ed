package pwsfile

import "github.com/go-pwsafe/pwsafe/internal/record"

// LoadListener receives every record decoded during Open, valid or not, in
// file order, one at a time, before the next record begins decoding. The
// entry store attaches as a LoadListener to project a sparse view during
// the same pass rather than re-reading the sealed list afterward.
type LoadListener interface {
	Loaded(r *record.Record)
}

// LoadListenerFunc adapts a function to LoadListener.
type LoadListenerFunc func(r *record.Record)

func (f LoadListenerFunc) Loaded(r *record.Record) { f(r) }
