package exception

import "github.com/yanun0323/errors"

var (
	ErrSinkClosed    = errors.New("sink: closed")
	ErrSinkNilClient = errors.New("sink: nil client")
)
