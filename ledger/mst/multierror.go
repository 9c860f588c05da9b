package mst

import "github.com/hashicorp/go-multierror"

// errorList aggregates independent validation/close failures, the way
// the wider ledger uses hashicorp/go-multierror when several
// unrelated checks or cleanups can each fail on their own.
type errorList struct {
	err *multierror.Error
}

func (l *errorList) add(err error) {
	if err == nil {
		return
	}
	l.err = multierror.Append(l.err, err)
}

func (l *errorList) orNil() error {
	if l.err == nil {
		return nil
	}
	return l.err.ErrorOrNil()
}
