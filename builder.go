// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"
)

// Builder is the entry point for opening a session. The stages enforce
// the required call order: a username demands a password before Connect
// exists, and NoLogin is the explicit way to connect unauthenticated.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Username records the mailbox user. The returned stage only accepts the
// matching password.
func (b *Builder) Username(user string) *PasswordBuilder {
	return &PasswordBuilder{username: user}
}

// NoLogin skips credential collection. Connect then leaves the session in
// the AUTHORIZATION state for the caller to Login later.
func (b *Builder) NoLogin() *ConnectBuilder {
	return &ConnectBuilder{}
}

// PasswordBuilder is the stage between Username and Password.
type PasswordBuilder struct {
	username string
}

func (b *PasswordBuilder) Password(pass string) *LoginBuilder {
	return &LoginBuilder{username: b.username, password: pass}
}

type connectOptions struct {
	log       *zap.Logger
	tlsConfig *tls.Config
}

// ConnectBuilder connects without credentials.
type ConnectBuilder struct {
	opts connectOptions
}

// Logger attaches a logger to the session. The default is a nop logger.
func (b *ConnectBuilder) Logger(log *zap.Logger) *ConnectBuilder {
	b.opts.log = log
	return b
}

// TLSConfig overrides the TLS client configuration. The default verifies
// the server against the OS trust store with the target host as the
// server name.
func (b *ConnectBuilder) TLSConfig(cfg *tls.Config) *ConnectBuilder {
	b.opts.tlsConfig = cfg
	return b
}

// Connect performs the TLS handshake, reads the greeting, and returns a
// session in the AUTHORIZATION state.
func (b *ConnectBuilder) Connect(target Target) (*Conn, error) {
	return dial(target, b.opts)
}

// LoginBuilder connects with the collected credentials.
type LoginBuilder struct {
	username, password string
	opts               connectOptions
}

// Logger attaches a logger to the session. The default is a nop logger.
func (b *LoginBuilder) Logger(log *zap.Logger) *LoginBuilder {
	b.opts.log = log
	return b
}

// TLSConfig overrides the TLS client configuration. The default verifies
// the server against the OS trust store with the target host as the
// server name.
func (b *LoginBuilder) TLSConfig(cfg *tls.Config) *LoginBuilder {
	b.opts.tlsConfig = cfg
	return b
}

// Connect performs the TLS handshake, reads the greeting, logs in with
// USER and PASS, and returns a session in the TRANSACTION state.
func (b *LoginBuilder) Connect(target Target) (*Client, error) {
	conn, err := dial(target, b.opts)
	if err != nil {
		return nil, err
	}
	client, err := conn.Login(b.username, b.password)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// dial opens the TLS stream and drives the CONNECTING state: read the
// server greeting, then hand over an AUTHORIZATION-state session.
func dial(target Target, opts connectOptions) (*Conn, error) {
	log := opts.log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("server", target.addr()))

	tlsConfig := opts.tlsConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: target.Host}
	}

	log.Debug("connecting", zap.String("version", versionString))
	nc, err := tls.Dial("tcp", target.addr(), tlsConfig)
	if err != nil {
		return nil, connectionError("could not set up client connection: "+err.Error(), err)
	}

	s := session{tr: &transport{nc: nc}, log: log}
	greeting, err := readReply(s.tr)
	if err != nil {
		s.tr.close()
		return nil, connectionError(fmt.Sprintf("POP3 server for %s is *not* ready", target.Host), err)
	}
	log.Info("server ready", zap.String("greeting", greeting))
	return &Conn{s: s}, nil
}
