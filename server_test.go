// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"net/textproto"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"
)

func _fl(depth int) string {
	_, file, line, _ := runtime.Caller(depth + 1)
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

func ok(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("%s unexpected error: %v", _fl(1), err)
	}
}

// testServer is an in-process POP3 server speaking the RFC 1939 wire
// protocol over TLS, backed by an in-memory maildrop.
type testServer struct {
	user, pass string
	notReady   bool
	msgs       map[int]*testMessage
}

type testMessage struct {
	id      int
	uid     string
	body    string
	deleted bool
}

func (m *testMessage) size() int { return len(m.body) }

func newTestServer() *testServer {
	return &testServer{
		user: "u",
		pass: "p",
		msgs: make(map[int]*testMessage),
	}
}

func (s *testServer) sortedMessages() []*testMessage {
	var msgs []*testMessage
	for id := 1; len(msgs) < len(s.msgs); id++ {
		if msg, found := s.msgs[id]; found {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

type serverState int

const (
	stateAuth serverState = iota
	stateTxn
)

type serverConn struct {
	s    *testServer
	tp   *textproto.Conn
	line string

	state serverState
	user  string
}

// serve parses the client commands sent over nc, the same loop the real
// servers in this family run, reduced to what the tests need.
func (s *testServer) serve(nc net.Conn) {
	conn := serverConn{s: s, tp: textproto.NewConn(nc), state: stateAuth}

	if s.notReady {
		conn.err("server busy, try again later")
		conn.tp.Close()
		return
	}
	conn.ok("POP3 test server ready")

	for {
		var err error
		conn.line, err = conn.tp.ReadLine()
		if err != nil {
			conn.tp.Close()
			return
		}

		var cmd string
		if _, err := fmt.Sscanf(conn.line, "%s", &cmd); err != nil {
			conn.err("invalid command")
			continue
		}

		switch strings.ToUpper(cmd) {
		case "QUIT":
			conn.ok("goodbye")
			conn.tp.Close()
			return
		case "USER":
			conn.doUSER()
		case "PASS":
			conn.doPASS()
		case "STAT":
			conn.doSTAT()
		case "LIST":
			conn.doLIST()
		case "UIDL":
			conn.doUIDL()
		case "RETR":
			conn.doRETR()
		case "TOP":
			conn.doTOP()
		case "DELE":
			conn.doDELE()
		case "RSET":
			conn.doRSET()
		case "NOOP":
			conn.ok("")
		default:
			conn.err("unknown command")
		}
	}
}

func (conn *serverConn) ok(msg string) {
	if len(msg) > 0 {
		msg = " " + msg
	}
	conn.tp.PrintfLine("+OK%s", msg)
}

func (conn *serverConn) err(msg string) {
	if len(msg) > 0 {
		msg = " " + msg
	}
	conn.tp.PrintfLine("-ERR%s", msg)
}

func (conn *serverConn) inTxn() bool {
	if conn.state != stateTxn {
		conn.err("not in TRANSACTION")
		return false
	}
	return true
}

func (conn *serverConn) doUSER() {
	if conn.state != stateAuth {
		conn.err("not in AUTHORIZATION")
		return
	}
	conn.user = strings.TrimPrefix(conn.line, "USER ")
	conn.ok("")
}

func (conn *serverConn) doPASS() {
	if conn.state != stateAuth {
		conn.err("not in AUTHORIZATION")
		return
	}
	if conn.user != conn.s.user || strings.TrimPrefix(conn.line, "PASS ") != conn.s.pass {
		conn.err("invalid password")
		return
	}
	conn.state = stateTxn
	conn.ok("maildrop locked and ready")
}

func (conn *serverConn) doSTAT() {
	if !conn.inTxn() {
		return
	}
	num, size := 0, 0
	for _, msg := range conn.s.msgs {
		if msg.deleted {
			continue
		}
		num++
		size += msg.size()
	}
	conn.ok(fmt.Sprintf("%d %d", num, size))
}

func (conn *serverConn) doLIST() {
	if !conn.inTxn() {
		return
	}
	if msg, single := conn.requestedMessage(); single {
		if msg != nil {
			conn.ok(fmt.Sprintf("%d %d", msg.id, msg.size()))
		}
		return
	}
	conn.ok("")
	for _, msg := range conn.s.sortedMessages() {
		if !msg.deleted {
			conn.tp.PrintfLine("%d %d", msg.id, msg.size())
		}
	}
	conn.tp.PrintfLine(".")
}

func (conn *serverConn) doUIDL() {
	if !conn.inTxn() {
		return
	}
	if msg, single := conn.requestedMessage(); single {
		if msg != nil {
			conn.ok(fmt.Sprintf("%d %s", msg.id, msg.uid))
		}
		return
	}
	conn.ok("")
	for _, msg := range conn.s.sortedMessages() {
		if !msg.deleted {
			conn.tp.PrintfLine("%d %s", msg.id, msg.uid)
		}
	}
	conn.tp.PrintfLine(".")
}

func (conn *serverConn) doRETR() {
	if !conn.inTxn() {
		return
	}
	msg, single := conn.requestedMessage()
	if !single {
		conn.err("syntax error")
		return
	}
	if msg == nil {
		return
	}
	conn.ok("")
	w := conn.tp.DotWriter()
	w.Write([]byte(msg.body))
	w.Close()
}

func (conn *serverConn) doTOP() {
	if !conn.inTxn() {
		return
	}
	var cmd string
	var id, n int
	if c, _ := fmt.Sscanf(conn.line, "%s %d %d", &cmd, &id, &n); c != 3 {
		conn.err("syntax error")
		return
	}
	msg := conn.s.msgs[id]
	if msg == nil || msg.deleted {
		conn.err("no such message")
		return
	}
	conn.ok("")
	w := conn.tp.DotWriter()
	w.Write([]byte(topOfMessage(msg.body, n)))
	w.Close()
}

func (conn *serverConn) doDELE() {
	if !conn.inTxn() {
		return
	}
	msg, single := conn.requestedMessage()
	if !single {
		conn.err("syntax error")
		return
	}
	if msg == nil {
		return
	}
	msg.deleted = true
	conn.ok("")
}

func (conn *serverConn) doRSET() {
	if !conn.inTxn() {
		return
	}
	for _, msg := range conn.s.msgs {
		msg.deleted = false
	}
	conn.ok("")
}

// requestedMessage parses an optional message-number argument. The second
// return is false when the command had no argument.
func (conn *serverConn) requestedMessage() (*testMessage, bool) {
	var cmd string
	var id int
	if c, _ := fmt.Sscanf(conn.line, "%s %d", &cmd, &id); c != 2 {
		return nil, false
	}
	msg := conn.s.msgs[id]
	if msg == nil || msg.deleted {
		conn.err("no such message")
		return nil, true
	}
	return msg, true
}

// topOfMessage returns the message headers plus the first n lines of the
// body, the slice of the message TOP is defined over.
func topOfMessage(body string, n int) string {
	lines := strings.Split(body, "\n")
	var out []string
	inBody := false
	for _, line := range lines {
		if inBody {
			if n == 0 {
				break
			}
			n--
		} else if strings.TrimSuffix(line, "\r") == "" {
			inBody = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// runServer starts the test server on a TLS listener and returns the
// Target to reach it. The listener is closed when the test ends.
func runServer(t *testing.T, s *testServer) Target {
	t.Helper()
	l, err := tls.Listen("tcp", "localhost:0", serverTLSConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()

	host, portStr, err := net.SplitHostPort(l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return Target{Host: host, Port: uint16(port)}
}

func serverTLSConfig(t *testing.T) *tls.Config {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		t.Fatal(err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{certDER},
			PrivateKey:  priv,
		}},
	}
}

// clientTLSConfig skips verification; the test certificate is self-signed.
func clientTLSConfig() *tls.Config {
	return &tls.Config{InsecureSkipVerify: true}
}
