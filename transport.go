// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"io"
	"net"
)

// transport owns the TLS stream for one session. It writes CRLF-terminated
// command lines and hands the reply reader raw read access; all buffering
// lives in the reader. No retries happen at this layer.
type transport struct {
	nc net.Conn
}

// writeCommand writes line followed by CRLF and returns the number of
// bytes written.
func (t *transport) writeCommand(line string) (int, error) {
	n, err := io.WriteString(t.nc, line+"\r\n")
	if err != nil {
		return n, connectionError("could not write to server: "+err.Error(), err)
	}
	return n, nil
}

// Read reads up to len(p) bytes from the stream, blocking until at least
// one byte is available. A read fault is fatal to the session.
func (t *transport) Read(p []byte) (int, error) {
	return t.nc.Read(p)
}

func (t *transport) close() error {
	return t.nc.Close()
}
