// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-message"
)

// StatReply is the maildrop summary returned by STAT.
type StatReply struct {
	MessageCount int
	TotalOctets  int
}

// ListItem is one scan-listing entry: a message number and its size in
// octets.
type ListItem struct {
	MessageID  int
	SizeOctets int
}

// ListReply is the scan listing returned by LIST, in server order.
type ListReply struct {
	Items []ListItem
}

// UidlItem pairs a message number with its server-assigned unique-id. The
// unique-id is an opaque token and is kept verbatim.
type UidlItem struct {
	MessageID int
	UniqueID  string
}

// UidlReply is the unique-id listing returned by UIDL, in server order.
type UidlReply struct {
	Items []UidlItem
}

// RetrieveReply is the raw RFC 822 message returned by RETR. The body is
// exactly what the server sent: byte-stuffing is left in place and the
// terminating period line is retained. Use Unstuff or ReadMessage to
// decode it.
type RetrieveReply struct {
	MessageID int
	Body      string
}

// TopReply is the headers plus the first RequestedLines body lines
// returned by TOP, with the same body semantics as RetrieveReply.
type TopReply struct {
	MessageID      int
	RequestedLines int
	Body           string
}

// Message ids and sizes are 32-bit on the wire.
func parseInt32(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int(v), err
}

func parseStat(reply string) (StatReply, error) {
	pieces := strings.Split(reply, " ")
	if len(pieces) != 2 {
		return StatReply{}, statError(fmt.Sprintf("invalid stat response: %s", reply), nil)
	}
	count, err := parseInt32(pieces[0])
	if err != nil {
		return StatReply{}, statError(fmt.Sprintf("could not parse stat response as numbers: %v", err), err)
	}
	size, err := parseInt32(pieces[1])
	if err != nil {
		return StatReply{}, statError(fmt.Sprintf("could not parse stat response as numbers: %v", err), err)
	}
	return StatReply{MessageCount: count, TotalOctets: size}, nil
}

func parseListItem(line string) (ListItem, error) {
	pieces := strings.Split(line, " ")
	if len(pieces) != 2 {
		return ListItem{}, listError(fmt.Sprintf("invalid list response: %s", line), nil)
	}
	id, err := parseInt32(pieces[0])
	if err != nil {
		return ListItem{}, listError(fmt.Sprintf("could not parse list response numbers: %v", err), err)
	}
	size, err := parseInt32(pieces[1])
	if err != nil {
		return ListItem{}, listError(fmt.Sprintf("could not parse list response numbers: %v", err), err)
	}
	return ListItem{MessageID: id, SizeOctets: size}, nil
}

// parseList splits a multi-line scan listing into items. Blank lines and
// the lone-period terminator are dropped; any other malformed line fails
// the whole parse. Server order is preserved.
func parseList(reply string) (ListReply, error) {
	var items []ListItem
	for _, line := range strings.Split(reply, "\n") {
		line = strings.ReplaceAll(line, "\r", "")
		if line == "" || line == "." {
			continue
		}
		item, err := parseListItem(line)
		if err != nil {
			return ListReply{}, err
		}
		items = append(items, item)
	}
	return ListReply{Items: items}, nil
}

func parseUidlItem(line string) (UidlItem, error) {
	pieces := strings.Split(line, " ")
	if len(pieces) != 2 {
		return UidlItem{}, uidlError(fmt.Sprintf("invalid UIDL response: %s", line), nil)
	}
	id, err := parseInt32(pieces[0])
	if err != nil {
		return UidlItem{}, uidlError(fmt.Sprintf("could not parse UIDL message id as a number: %v", err), err)
	}
	return UidlItem{MessageID: id, UniqueID: pieces[1]}, nil
}

func parseUidl(reply string) (UidlReply, error) {
	var items []UidlItem
	for _, line := range strings.Split(reply, "\n") {
		line = strings.ReplaceAll(line, "\r", "")
		if line == "" || line == "." {
			continue
		}
		item, err := parseUidlItem(line)
		if err != nil {
			return UidlReply{}, err
		}
		items = append(items, item)
	}
	return UidlReply{Items: items}, nil
}

// Unstuff reverses POP3 byte-stuffing: a line beginning with two periods
// stands for a line beginning with one, and the lone-period terminator
// line is dropped. Line endings are otherwise preserved.
func Unstuff(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		content := strings.TrimSuffix(line, "\r")
		if content == "." {
			continue
		}
		if strings.HasPrefix(content, "..") {
			line = strings.Replace(line, ".", "", 1)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// ReadMessage parses the retrieved message as an RFC 822 entity. The body
// is unstuffed first; Body itself stays verbatim.
func (r RetrieveReply) ReadMessage() (*message.Entity, error) {
	return readEntity(r.Body)
}

// ReadMessage parses the returned headers and preview lines as an RFC 822
// entity. The body is unstuffed first; Body itself stays verbatim.
func (r TopReply) ReadMessage() (*message.Entity, error) {
	return readEntity(r.Body)
}

func readEntity(body string) (*message.Entity, error) {
	entity, err := message.Read(strings.NewReader(Unstuff(body)))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, err
	}
	return entity, nil
}
