// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"net"
	"strconv"
)

// Target identifies the POP3 server to connect to. Host is used both to
// open the TCP connection and as the TLS server name.
type Target struct {
	Host string
	Port uint16
}

func NewTarget(host string, port uint16) Target {
	return Target{Host: host, Port: port}
}

// Outlook is the POP3S endpoint for Office 365 mailboxes.
func Outlook() Target {
	return Target{Host: "outlook.office365.com", Port: 995}
}

// Gmail is the POP3S endpoint for GMail mailboxes.
func Gmail() Target {
	return Target{Host: "pop.gmail.com", Port: 995}
}

func (t Target) addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}
