package service

import (
	"errors"
	"fmt"

	"rocketcart/catalog"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindStockExceeded
	KindTransport
	KindParse
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindStockExceeded:
		return "STOCK_EXCEEDED"
	case KindTransport:
		return "TRANSPORT"
	case KindParse:
		return "PARSE"
	case KindStorage:
		return "STORAGE"
	default:
		return "UNKNOWN"
	}
}

type Op string

const (
	OpAdd          Op = "add product"
	OpRemove       Op = "remove product"
	OpUpdateAmount Op = "update product amount"
)

// Messages shown to the shopper.
const (
	MsgStockExceeded = "requested quantity exceeds available stock"
	MsgAddFailed     = "failed to add product"
	MsgRemoveFailed  = "failed to remove product"
	MsgUpdateFailed  = "failed to change product quantity"
	MsgUnexpected    = "something went wrong"
)

// Error is returned by every failing cart operation.
type Error struct {
	Op        Op
	Kind      Kind
	ProductID int64
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %d: %s", e.Op, e.ProductID, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound) works
// for any operation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.ProductID == 0 && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrStockExceeded = &Error{Kind: KindStockExceeded}
	ErrTransport     = &Error{Kind: KindTransport}
	ErrParse         = &Error{Kind: KindParse}
	ErrStorage       = &Error{Kind: KindStorage}
)

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message maps err to the text shown to the shopper. Stock rejections share
// one message; everything else gets the failing operation's message.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return MsgUnexpected
	}
	if e.Kind == KindStockExceeded {
		return MsgStockExceeded
	}
	switch e.Op {
	case OpAdd:
		return MsgAddFailed
	case OpRemove:
		return MsgRemoveFailed
	case OpUpdateAmount:
		return MsgUpdateFailed
	default:
		return MsgUnexpected
	}
}

// remoteKind splits catalog failures into parse and transport.
func remoteKind(err error) Kind {
	if errors.Is(err, catalog.ErrMalformed) {
		return KindParse
	}
	return KindTransport
}
