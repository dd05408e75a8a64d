// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	readChunkSize      = 512
	readMultiChunkSize = 2048
)

const (
	okPrefix  = "+OK"
	errPrefix = "-ERR"
)

// Multi-line replies end with a period on a line by itself. Some server
// fixtures omit the carriage return, so the bare-LF terminator is accepted
// on read; wire writes always use CRLF.
var (
	crlfTerminator = []byte("\r\n.\r\n")
	lfTerminator   = []byte("\n.\n")
)

// readReply reads the next complete single-line reply from r and resolves
// its status token. The returned text has the token removed and
// surrounding whitespace trimmed. A -ERR reply is returned as an error
// carrying the server's message.
func readReply(r io.Reader) (string, error) {
	line, err := readLine(r)
	if err != nil {
		return "", err
	}
	return resolveReply(string(line))
}

// readMultiReply reads the next complete multi-line reply from r. The
// payload keeps its internal line structure, terminating period line
// included; parsers tolerate it.
func readMultiReply(r io.Reader) (string, error) {
	reply, err := readDotTerminated(r)
	if err != nil {
		return "", err
	}
	return resolveReply(string(reply))
}

// resolveReply classifies a raw reply by its status token. Any prefix
// other than +OK or -ERR is a protocol error, not a server error.
func resolveReply(reply string) (string, error) {
	switch {
	case strings.HasPrefix(reply, okPrefix):
		return strings.TrimSpace(strings.TrimPrefix(reply, okPrefix)), nil
	case strings.HasPrefix(reply, errPrefix):
		msg := strings.TrimPrefix(reply, errPrefix)
		msg = strings.ReplaceAll(msg, "\r\n", "")
		return "", fmt.Errorf("%s", strings.TrimSpace(msg))
	default:
		return "", fmt.Errorf("unexpected response: %s", reply)
	}
}

// readLine accumulates chunks from r until the buffer is at least two
// bytes long and ends with LF. Only the bytes actually read are appended,
// so chunk boundaries cannot corrupt the framing.
func readLine(r io.Reader) ([]byte, error) {
	var line []byte
	chunk := make([]byte, readChunkSize)
	for {
		if len(line) >= 2 && line[len(line)-1] == '\n' {
			return line, nil
		}
		n, err := r.Read(chunk)
		line = append(line, chunk[:n]...)
		if err != nil && n == 0 {
			return nil, err
		}
	}
}

// readDotTerminated accumulates chunks from r until the buffer holds one
// whole multi-line reply.
func readDotTerminated(r io.Reader) ([]byte, error) {
	var reply []byte
	chunk := make([]byte, readMultiChunkSize)
	for {
		if multiReplyComplete(reply) {
			return reply, nil
		}
		n, err := r.Read(chunk)
		reply = append(reply, chunk[:n]...)
		if err != nil && n == 0 {
			return nil, err
		}
	}
}

// multiReplyComplete reports whether buf holds a complete multi-line
// reply. A buffer beginning with a hyphen is a single-line -ERR reply
// (multi-line replies always begin with +OK) and is complete at its first
// line ending; anything else completes at the terminator line.
func multiReplyComplete(buf []byte) bool {
	if len(buf) < 3 {
		return false
	}
	if buf[0] == '-' {
		return buf[len(buf)-1] == '\n'
	}
	return bytes.HasSuffix(buf, crlfTerminator) || bytes.HasSuffix(buf, lfTerminator)
}
