package model

import "fmt"

// ImportKind tags which part of an import a failure belongs to.
type ImportKind string

const (
	KindTransaction ImportKind = "transaction"
	KindCategory    ImportKind = "category"
	KindMethod      ImportKind = "method"
	KindSettings    ImportKind = "settings"
)

// ImportPayload is the offending input attached to an ImportError.
// Implementations are RawLine and RawTransaction.
type ImportPayload interface {
	importPayload()
	String() string
}

// RawLine is an unparsed line of import input.
type RawLine string

func (RawLine) importPayload() {}

func (l RawLine) String() string { return string(l) }

// RawTransaction is a transaction row as read from an import file, before
// any reconciliation.
type RawTransaction struct {
	Date     string
	Amount   string
	Memo     string
	Category string
	Method   string
	Type     string
}

func (RawTransaction) importPayload() {}

func (r RawTransaction) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s", r.Date, r.Amount, r.Memo, r.Category, r.Method, r.Type)
}

// ImportError is a non-fatal failure collected during an import.
type ImportError struct {
	Kind    ImportKind
	Message string
	Payload ImportPayload // nil when the failure covers a whole batch
	Err     error         // underlying cause, if any
}

func (e ImportError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ImportError) Unwrap() error { return e.Err }
