// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// session is the piece shared by every protocol state: the transport and
// the logger. Commands are strictly serialized; each reply is consumed in
// full before the next command is written.
type session struct {
	tr  *transport
	log *zap.Logger
}

// command writes one command line and reads its single-line reply. The
// format string, not the rendered line, is logged so credentials never
// reach the log.
func (s *session) command(format string, args ...any) (string, error) {
	log := s.log.With(zap.String("command", format))
	log.Debug("sending command")
	if _, err := s.tr.writeCommand(fmt.Sprintf(format, args...)); err != nil {
		log.Error("failed to send command", zap.Error(err))
		return "", err
	}
	reply, err := readReply(s.tr)
	if err != nil {
		log.Error("command failed", zap.Error(err))
		return "", err
	}
	log.Info("command succeeded", zap.String("reply", reply))
	return reply, nil
}

// commandMulti is command for the multi-line replies (LIST, UIDL, RETR,
// TOP without an argument restricting them to one line).
func (s *session) commandMulti(format string, args ...any) (string, error) {
	log := s.log.With(zap.String("command", format))
	log.Debug("sending command")
	if _, err := s.tr.writeCommand(fmt.Sprintf(format, args...)); err != nil {
		log.Error("failed to send command", zap.Error(err))
		return "", err
	}
	reply, err := readMultiReply(s.tr)
	if err != nil {
		log.Error("command failed", zap.Error(err))
		return "", err
	}
	log.Info("command succeeded")
	return reply, nil
}

// closeWithQuit writes a best-effort QUIT and tears the stream down. Any
// QUIT failure, including one on an already-half-closed stream, is
// discarded.
func (s *session) closeWithQuit() error {
	s.tr.writeCommand("QUIT")
	return s.tr.close()
}

// Conn is a session in the AUTHORIZATION state: the greeting has been
// read, but no mailbox is open. Login consumes the Conn and produces the
// TRANSACTION-state Client.
type Conn struct {
	s    session
	done bool
}

// Login opens the mailbox with USER and PASS, waiting for each reply. On
// success the Conn is consumed and must not be used again.
func (c *Conn) Login(user, pass string) (*Client, error) {
	if c.done {
		return nil, loginError(errors.New("connection is no longer in the AUTHORIZATION state"))
	}
	if _, err := c.s.command("USER %s", user); err != nil {
		return nil, loginError(err)
	}
	if _, err := c.s.command("PASS %s", pass); err != nil {
		return nil, loginError(err)
	}
	c.s.log.Info("opened mailbox", zap.String("user", user))
	c.done = true
	return &Client{s: c.s}, nil
}

// Quit ends the session and reports the server's reply.
func (c *Conn) Quit() error {
	if c.done {
		return nil
	}
	c.done = true
	_, err := c.s.command("QUIT")
	if cerr := c.s.tr.close(); err == nil && cerr != nil {
		err = connectionError("could not close connection: "+cerr.Error(), cerr)
	}
	return err
}

// Close releases the connection, sending a best-effort QUIT first. It is
// safe to call after Login or Quit.
func (c *Conn) Close() error {
	if c.done {
		return nil
	}
	c.done = true
	return c.s.closeWithQuit()
}

// Client is a session in the TRANSACTION state: the mailbox is open and
// the full command set is available. A -ERR reply to one command does not
// poison the session; only transport faults do.
type Client struct {
	s    session
	done bool
}

// Stat returns the number of messages in the maildrop and their total
// size in octets.
func (c *Client) Stat() (StatReply, error) {
	reply, err := c.s.command("STAT")
	if err != nil {
		return StatReply{}, statError(err.Error(), err)
	}
	return parseStat(reply)
}

// List returns the scan listing for every message in the maildrop.
func (c *Client) List() (ListReply, error) {
	reply, err := c.s.commandMulti("LIST")
	if err != nil {
		return ListReply{}, listError(err.Error(), err)
	}
	return parseList(reply)
}

// ListID returns the scan listing for a single message.
func (c *Client) ListID(id int) (ListItem, error) {
	reply, err := c.s.command("LIST %d", id)
	if err != nil {
		return ListItem{}, listError(err.Error(), err)
	}
	return parseListItem(reply)
}

// Uidl returns the unique-id listing for every message in the maildrop.
func (c *Client) Uidl() (UidlReply, error) {
	reply, err := c.s.commandMulti("UIDL")
	if err != nil {
		return UidlReply{}, uidlError(err.Error(), err)
	}
	return parseUidl(reply)
}

// UidlID returns the unique-id listing for a single message.
func (c *Client) UidlID(id int) (UidlItem, error) {
	reply, err := c.s.command("UIDL %d", id)
	if err != nil {
		return UidlItem{}, uidlError(err.Error(), err)
	}
	return parseUidlItem(reply)
}

// Retr retrieves the full message. The body is returned exactly as sent,
// byte-stuffed and terminator included; see RetrieveReply.
func (c *Client) Retr(id int) (RetrieveReply, error) {
	body, err := c.s.commandMulti("RETR %d", id)
	if err != nil {
		return RetrieveReply{}, retrieveError(err)
	}
	return RetrieveReply{MessageID: id, Body: body}, nil
}

// RetrieveLast retrieves the message with the highest id in the scan
// listing. The reply carries message id -1: the id is a session-scoped
// detail the caller never asked for, so the unknown-id sentinel is
// reported instead.
func (c *Client) RetrieveLast() (RetrieveReply, error) {
	listing, err := c.List()
	if err != nil {
		return RetrieveReply{}, retrieveError(err)
	}
	if len(listing.Items) == 0 {
		return RetrieveReply{}, retrieveError(errors.New("maildrop has no messages"))
	}
	reply, err := c.Retr(listing.Items[len(listing.Items)-1].MessageID)
	if err != nil {
		return RetrieveReply{}, err
	}
	reply.MessageID = -1
	return reply, nil
}

// Top retrieves the message headers plus the first n lines of the body,
// with the same raw-body semantics as Retr.
func (c *Client) Top(id, n int) (TopReply, error) {
	body, err := c.s.commandMulti("TOP %d %d", id, n)
	if err != nil {
		return TopReply{}, topError(err)
	}
	return TopReply{MessageID: id, RequestedLines: n, Body: body}, nil
}

// Dele marks the message as deleted. The server removes it when the
// session ends with QUIT.
func (c *Client) Dele(id int) error {
	if _, err := c.s.command("DELE %d", id); err != nil {
		return deleteError(err)
	}
	return nil
}

// Rset unmarks every message marked as deleted in this session.
func (c *Client) Rset() error {
	if _, err := c.s.command("RSET"); err != nil {
		return resetError(err)
	}
	return nil
}

// Noop does nothing on the server. Useful as a keepalive.
func (c *Client) Noop() error {
	if _, err := c.s.command("NOOP"); err != nil {
		return noopError(err)
	}
	return nil
}

// Quit ends the session, committing any DELE marks, and reports the
// server's reply.
func (c *Client) Quit() error {
	if c.done {
		return nil
	}
	c.done = true
	_, err := c.s.command("QUIT")
	if cerr := c.s.tr.close(); err == nil && cerr != nil {
		err = connectionError("could not close connection: "+cerr.Error(), cerr)
	}
	return err
}

// Close releases the connection, sending a best-effort QUIT first. It is
// safe to call after Quit.
func (c *Client) Close() error {
	if c.done {
		return nil
	}
	c.done = true
	return c.s.closeWithQuit()
}
