// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

// Every command has its own error kind so callers can discriminate at the
// call site with errors.As. A server -ERR reply carries the server's
// message; protocol and transport faults carry a diagnostic and wrap the
// underlying cause.

type commandError struct {
	Message string
	cause   error
}

func (e *commandError) Error() string { return e.Message }
func (e *commandError) Unwrap() error { return e.cause }

// ConnectionError reports a failure to establish the TCP/TLS stream, a
// rejected greeting, or a write fault on the wire. These are fatal; the
// session is not usable afterwards.
type ConnectionError struct{ commandError }

// LoginError reports a USER or PASS command rejected by the server.
type LoginError struct{ commandError }

// StatError reports a failed or malformed STAT exchange.
type StatError struct{ commandError }

// ListError reports a failed or malformed LIST exchange.
type ListError struct{ commandError }

// UidlError reports a failed or malformed UIDL exchange.
type UidlError struct{ commandError }

// RetrieveError reports a failed RETR exchange.
type RetrieveError struct{ commandError }

// TopError reports a failed TOP exchange.
type TopError struct{ commandError }

// DeleteError reports a DELE command rejected by the server.
type DeleteError struct{ commandError }

// ResetError reports a RSET command rejected by the server.
type ResetError struct{ commandError }

// NoopError reports a NOOP command rejected by the server.
type NoopError struct{ commandError }

func connectionError(message string, cause error) *ConnectionError {
	return &ConnectionError{commandError{Message: message, cause: cause}}
}

func loginError(cause error) *LoginError {
	return &LoginError{commandError{Message: cause.Error(), cause: cause}}
}

func statError(message string, cause error) *StatError {
	return &StatError{commandError{Message: message, cause: cause}}
}

func listError(message string, cause error) *ListError {
	return &ListError{commandError{Message: message, cause: cause}}
}

func uidlError(message string, cause error) *UidlError {
	return &UidlError{commandError{Message: message, cause: cause}}
}

func retrieveError(cause error) *RetrieveError {
	return &RetrieveError{commandError{Message: cause.Error(), cause: cause}}
}

func topError(cause error) *TopError {
	return &TopError{commandError{Message: cause.Error(), cause: cause}}
}

func deleteError(cause error) *DeleteError {
	return &DeleteError{commandError{Message: cause.Error(), cause: cause}}
}

func resetError(cause error) *ResetError {
	return &ResetError{commandError{Message: cause.Error(), cause: cause}}
}

func noopError(cause error) *NoopError {
	return &NoopError{commandError{Message: cause.Error(), cause: cause}}
}
