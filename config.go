// pop3
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package pop3

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is a TOML-loadable connection description:
//
//	host = "pop.gmail.com"
//	port = 995
//	username = "mailbox@example.com"
//	password = "hunter2"
//
// Credentials are optional; without them the config only describes a
// Target.
type Config struct {
	Host     string `toml:"host"`
	Port     uint16 `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// LoadConfig reads a Config from the TOML file at path. The port defaults
// to 995 when omitted.
func LoadConfig(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config file: %w", err)
	}
	if c.Host == "" {
		return Config{}, fmt.Errorf("config file %s: missing host", path)
	}
	if c.Port == 0 {
		c.Port = 995
	}
	return c, nil
}

// Target returns the connection target described by the config.
func (c Config) Target() Target {
	return Target{Host: c.Host, Port: c.Port}
}

// FromConfig returns a connect-ready builder primed with the config's
// credentials. Configs without credentials have no mailbox to open; use
// NewBuilder().NoLogin().Connect(cfg.Target()) for those.
func FromConfig(cfg Config) (*LoginBuilder, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("config for %s carries no credentials", cfg.Host)
	}
	return NewBuilder().Username(cfg.Username).Password(cfg.Password), nil
}
