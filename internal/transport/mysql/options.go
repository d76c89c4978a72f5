package mysql

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"sqldriver/internal/value"
)

// preConnectOptions is the resolved pre-connect configuration: everything
// that must be decided before a socket is ever opened (SPEC_FULL.md
// §4.2.1).
type preConnectOptions struct {
	tlsConfig *tls.Config
}

// buildPreConnectOptions applies TLS-mode mapping and the other
// pre-connect option rules. Any failure here aborts before a socket is
// opened, per SPEC_FULL.md §4.2.1 ("Any failure ... aborts the
// pre-connect phase before a socket is ever opened").
func buildPreConnectOptions(params value.ConnectionParams) (preConnectOptions, error) {
	var opts preConnectOptions

	switch params.TLS.Mode {
	case value.TLSDisabled, "":
		return opts, nil
	case value.TLSPreferred:
		// PREFERRED only upgrades when the server advertises CLIENT_SSL;
		// the transport layer checks that at handshake time. No
		// *tls.Config is pre-built here since PREFERRED must not fail the
		// connection if the server lacks SSL support, unlike the other
		// three modes. A minimal verifying config still needs to exist for
		// when the server does offer it.
		cfg, err := buildTLSConfig(params.TLS, false, true)
		if err != nil {
			return opts, &TransportError{Category: CategoryDriverInternal, Message: "pre-connect TLS (PREFERRED)", Err: err}
		}
		opts.tlsConfig = cfg
		return opts, nil
	case value.TLSRequired:
		cfg, err := buildTLSConfig(params.TLS, true, true)
		if err != nil {
			return opts, &TransportError{Category: CategoryDriverInternal, Message: "pre-connect TLS (REQUIRED)", Err: err}
		}
		opts.tlsConfig = cfg
		return opts, nil
	case value.TLSVerifyCA:
		cfg, err := buildTLSConfig(params.TLS, true, true)
		if err != nil {
			return opts, &TransportError{Category: CategoryDriverInternal, Message: "pre-connect TLS (VERIFY_CA)", Err: err}
		}
		cfg.InsecureSkipVerify = true // hostname check is skipped; chain is still validated via VerifyPeerCertificate
		cfg.VerifyPeerCertificate = verifyCAOnly(cfg.RootCAs)
		opts.tlsConfig = cfg
		return opts, nil
	case value.TLSVerifyIdentity:
		cfg, err := buildTLSConfig(params.TLS, true, false)
		if err != nil {
			return opts, &TransportError{Category: CategoryDriverInternal, Message: "pre-connect TLS (VERIFY_IDENTITY)", Err: err}
		}
		opts.tlsConfig = cfg
		return opts, nil
	default:
		return opts, &TransportError{Category: CategoryDriverInternal, Message: fmt.Sprintf("unknown TLS mode %q", params.TLS.Mode)}
	}
}

// buildTLSConfig loads the client cert/key and CA roots named by tlsOpts.
// When skipHostnameVerify is true, ServerName checks are disabled (the
// caller must supply its own VerifyPeerCertificate for chain validation in
// that case); requireRoots controls whether a missing CA file is an error
// (it is for REQUIRED-family modes, merely absent for PREFERRED).
func buildTLSConfig(tlsOpts value.TLSOptions, requireRoots, skipHostnameVerify bool) (*tls.Config, error) {
	cfg := &tls.Config{InsecureSkipVerify: skipHostnameVerify}

	if tlsOpts.Cert != "" && tlsOpts.Key != "" {
		cert, err := tls.LoadX509KeyPair(tlsOpts.Cert, tlsOpts.Key)
		if err != nil {
			return nil, fmt.Errorf("load client cert/key: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if tlsOpts.CA != "" {
		pem, err := os.ReadFile(tlsOpts.CA)
		if err != nil {
			if requireRoots {
				return nil, fmt.Errorf("read CA file: %w", err)
			}
		} else {
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("parse CA file %q: no certificates found", tlsOpts.CA)
			}
			cfg.RootCAs = pool
		}
	}

	if tlsOpts.Cipher != "" {
		// A named cipher suite restricts negotiation to exactly that suite;
		// unrecognized names are ignored so a typo degrades to the default
		// suite set rather than refusing to connect.
		if id, ok := cipherSuiteByName(tlsOpts.Cipher); ok {
			cfg.CipherSuites = []uint16{id}
		}
	}

	return cfg, nil
}

func verifyCAOnly(roots *x509.CertPool) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return fmt.Errorf("mysql: VERIFY_CA: no certificate presented")
		}
		cert, err := x509.ParseCertificate(rawCerts[0])
		if err != nil {
			return fmt.Errorf("mysql: VERIFY_CA: parse leaf certificate: %w", err)
		}
		opts := x509.VerifyOptions{Roots: roots}
		_, err = cert.Verify(opts)
		return err
	}
}

func cipherSuiteByName(name string) (uint16, bool) {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID, true
		}
	}
	return 0, false
}
