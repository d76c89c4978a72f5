// Package config loads a ConnectionParameters set from a TOML file, per
// SPEC_FULL.md §4.10 — the decode-into-typed-struct-then-validate shape of
// the teacher's internal/parser/toml schema loader, narrowed from a full
// table schema to connection parameters. This is how cmd/sqlctl and
// integration tests obtain connection settings without a hardcoded DSN.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"sqldriver/internal/sqldriver"
	"sqldriver/internal/value"
)

// tomlFile is the top-level TOML document shape, mirroring the teacher's
// schemaFile: one top-level [connection] table plus an optional [tls]
// sub-table and a generic [options] map for option-enum-keyed settings.
type tomlFile struct {
	Connection tomlConnection    `toml:"connection"`
	TLS        *tomlTLS          `toml:"tls"`
	Options    map[string]string `toml:"options"`
}

type tomlConnection struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	Database       string `toml:"database"`
	UnixSocket     string `toml:"unix_socket"`
	Charset        string `toml:"charset"`
	ConnectTimeout string `toml:"connect_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
	InitCommands   []string `toml:"init_commands"`
}

type tomlTLS struct {
	Mode   string `toml:"mode"`
	CA     string `toml:"ca"`
	CAPath string `toml:"ca_path"`
	Cert   string `toml:"cert"`
	Key    string `toml:"key"`
	Cipher string `toml:"cipher"`
}

// Load opens path and parses it as a connection-parameter TOML file.
func Load(path string) (value.ConnectionParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return value.ConnectionParams{}, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads TOML content from r and returns the corresponding
// ConnectionParams, with durations parsed via time.ParseDuration and TLS
// mode normalized via value.ParseTLSMode.
func Parse(r io.Reader) (value.ConnectionParams, error) {
	var tf tomlFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return value.ConnectionParams{}, fmt.Errorf("config: decode error: %w", err)
	}
	return convert(&tf)
}

func convert(tf *tomlFile) (value.ConnectionParams, error) {
	cp := value.ConnectionParams{
		Host:       tf.Connection.Host,
		Port:       tf.Connection.Port,
		User:       tf.Connection.User,
		Password:   tf.Connection.Password,
		Database:   tf.Connection.Database,
		UnixSocket: tf.Connection.UnixSocket,
		Charset:    tf.Connection.Charset,
		Options:    tf.Options,
	}

	for name, raw := range map[string]struct {
		dst *time.Duration
		val string
	}{
		"connect_timeout": {&cp.ConnectTimeout, tf.Connection.ConnectTimeout},
		"read_timeout":    {&cp.ReadTimeout, tf.Connection.ReadTimeout},
		"write_timeout":   {&cp.WriteTimeout, tf.Connection.WriteTimeout},
	} {
		if raw.val == "" {
			continue
		}
		d, err := time.ParseDuration(raw.val)
		if err != nil {
			return value.ConnectionParams{}, fmt.Errorf("config: invalid %s %q: %w", name, raw.val, err)
		}
		*raw.dst = d
	}

	if tf.TLS != nil {
		cp.TLS = value.TLSOptions{
			Mode:   value.ParseTLSMode(tf.TLS.Mode),
			CA:     tf.TLS.CA,
			CAPath: tf.TLS.CAPath,
			Cert:   tf.TLS.Cert,
			Key:    tf.TLS.Key,
			Cipher: tf.TLS.Cipher,
		}
	} else {
		cp.TLS.Mode = value.TLSPreferred
	}

	cp.InitCommands = tf.Connection.InitCommands

	return cp, nil
}

// ToConnectionParameters converts a loaded ConnectionParams into the
// string-keyed bag sqldriver.Driver.Open accepts, for callers that already
// have typed params (e.g. after Load) but want to go through the driver's
// generic Open API rather than a hypothetical typed overload.
func ToConnectionParameters(cp value.ConnectionParams) sqldriver.ConnectionParameters {
	params := sqldriver.ConnectionParameters{
		"host":     cp.Host,
		"user":     cp.User,
		"password": cp.Password,
		"database": cp.Database,
		"charset":  cp.Charset,
	}
	if cp.Port != 0 {
		params["port"] = fmt.Sprintf("%d", cp.Port)
	}
	if cp.UnixSocket != "" {
		params["unix_socket"] = cp.UnixSocket
	}
	if cp.ConnectTimeout != 0 {
		params["connect_timeout"] = cp.ConnectTimeout.String()
	}
	if cp.ReadTimeout != 0 {
		params["read_timeout"] = cp.ReadTimeout.String()
	}
	if cp.WriteTimeout != 0 {
		params["write_timeout"] = cp.WriteTimeout.String()
	}
	params["tls_mode"] = string(cp.TLS.Mode)
	if cp.TLS.CA != "" {
		params["tls_ca"] = cp.TLS.CA
	}
	if cp.TLS.Cert != "" {
		params["tls_cert"] = cp.TLS.Cert
	}
	if cp.TLS.Key != "" {
		params["tls_key"] = cp.TLS.Key
	}
	return params
}
