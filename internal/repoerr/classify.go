package repoerr

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Classify maps an arbitrary error onto a kind. Errors that are already *Error
// are returned unchanged and nil stays nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return Connection(op, err)
	}

	var scanErr pgx.ScanArgError
	if errors.As(err, &scanErr) {
		return Conversion(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return Database(op, err)
	}

	// context errors satisfy net.Error but say nothing about the transport
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Unknown(op, err)
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return IO(op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return IO(op, err)
	}

	return Unknown(op, err)
}

// Statement classifies a failure raised while a statement was running. Errors
// Classify cannot place are database errors.
func Statement(op string, err error) error {
	return classifyOr(op, err, Database)
}

// Connect classifies a failure to open or obtain a connection. Errors Classify
// cannot place, such as a cancelled context, are connection errors.
func Connect(op string, err error) error {
	return classifyOr(op, err, Connection)
}

func classifyOr(op string, err error, fallback func(string, error) *Error) error {
	var classified *Error
	if err == nil || errors.As(err, &classified) {
		return err
	}

	if c := Classify(op, err); KindOf(c) != KindUnknown {
		return c
	}
	return fallback(op, err)
}
