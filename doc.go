// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

// Package pop3 is a client for the Post Office Protocol version 3
// (RFC 1939), tunneled inside TLS on a dedicated port (POP3S,
// customarily 995).
//
// The protocol is stateful, and the API mirrors its states with distinct
// types: a Builder collects credentials, Connect performs the TLS
// handshake and reads the server greeting, a *Conn is a session in the
// AUTHORIZATION state, and Conn.Login produces the *Client that exposes
// the TRANSACTION commands (STAT, LIST, UIDL, RETR, TOP, DELE, RSET,
// NOOP, QUIT). A command that is invalid in the current state does not
// exist on that state's type.
//
//	client, err := pop3.NewBuilder().
//		Username("mailbox@example.com").
//		Password("hunter2").
//		Connect(pop3.Gmail())
//	if err != nil {
//		// ...
//	}
//	defer client.Close()
//
//	stat, err := client.Stat()
//
// A session owns exactly one TLS stream and is not safe for concurrent
// use; POP3 forbids pipelining commands, and every command blocks until
// its complete reply has been read. Callers that need parallelism open
// one session per goroutine.
//
// Go has no destructors, so sessions must be released with Close, which
// writes a best-effort QUIT before tearing down the stream. Quit is the
// checked variant for callers that want the server's dispositions (such
// as DELE marks) committed.
package pop3
