package mysql

import (
	"context"
	"fmt"
	"strings"
)

// IsolationLevel names a SQL transaction isolation level.
type IsolationLevel string

const (
	IsolationReadUncommitted IsolationLevel = "READ UNCOMMITTED"
	IsolationReadCommitted   IsolationLevel = "READ COMMITTED"
	IsolationRepeatableRead  IsolationLevel = "REPEATABLE READ"
	IsolationSerializable    IsolationLevel = "SERIALIZABLE"
)

// Begin starts a transaction, optionally at a specific isolation level
// (applied for the next transaction only, per MySQL's SET TRANSACTION
// semantics, before issuing START TRANSACTION).
func (c *Connection) Begin(ctx context.Context, level IsolationLevel) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	if level != "" {
		if _, err := c.simpleQuery(ctx, fmt.Sprintf("SET TRANSACTION ISOLATION LEVEL %s", level)); err != nil {
			return err
		}
	}
	_, err := c.simpleQuery(ctx, "START TRANSACTION")
	return err
}

// Commit commits the current transaction.
func (c *Connection) Commit(ctx context.Context) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	_, err := c.simpleQuery(ctx, "COMMIT")
	return err
}

// Rollback rolls back the current transaction, or to savepoint name if
// name is non-empty.
func (c *Connection) Rollback(ctx context.Context, name string) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	if name == "" {
		_, err := c.simpleQuery(ctx, "ROLLBACK")
		return err
	}
	if err := validateSavepointName(name); err != nil {
		return err
	}
	_, err := c.simpleQuery(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT `%s`", name))
	return err
}

// Savepoint creates a named savepoint within the current transaction.
func (c *Connection) Savepoint(ctx context.Context, name string) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	if err := validateSavepointName(name); err != nil {
		return err
	}
	_, err := c.simpleQuery(ctx, fmt.Sprintf("SAVEPOINT `%s`", name))
	return err
}

// ReleaseSavepoint releases a previously created savepoint.
func (c *Connection) ReleaseSavepoint(ctx context.Context, name string) error {
	if !c.connected {
		return &TransportError{Category: CategoryConnectivity, Message: "not connected"}
	}
	if err := validateSavepointName(name); err != nil {
		return err
	}
	_, err := c.simpleQuery(ctx, fmt.Sprintf("RELEASE SAVEPOINT `%s`", name))
	return err
}

// validateSavepointName rejects empty or suspicious savepoint names
// (containing a backtick, quote, or space) before any SQL is sent, per
// SPEC_FULL.md §4.2.2.
func validateSavepointName(name string) error {
	if name == "" {
		return &TransportError{Category: CategoryDriverInternal, Message: "savepoint name must not be empty"}
	}
	if strings.ContainsAny(name, "`'\" ") {
		return &TransportError{Category: CategoryDriverInternal, Message: fmt.Sprintf("savepoint name %q contains a disallowed character", name)}
	}
	return nil
}
