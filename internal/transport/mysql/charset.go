package mysql

import (
	"context"
	"fmt"
)

// Charset returns the connection's current character set: the live
// server-reported value when connected (the Connect-time greeting charset,
// refreshed by every successful SetCharset), or the cached configured value
// otherwise. c.charset is the single source of truth for both cases since
// nothing besides Connect and SetCharset ever changes it.
func (c *Connection) Charset() string { return c.charset }

// SetCharset issues SET NAMES for the given charset and updates the
// cached value on success.
func (c *Connection) SetCharset(ctx context.Context, charset string) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	if _, err := c.simpleQuery(ctx, fmt.Sprintf("SET NAMES %s", charset)); err != nil {
		return err
	}
	c.charset = charset
	return nil
}
