package sqldriver

import (
	"errors"
	"fmt"

	mysql "sqldriver/internal/transport/mysql"
)

// DriverCategory is the driver layer's error taxonomy, per SPEC_FULL.md
// §4.8 — coarser than the transport layer's ErrorCategory (which tracks
// SQLSTATE classes) since a driver caller cares about "can I retry this
// connection" more than which SQLSTATE class caused it.
type DriverCategory string

const (
	NoError             DriverCategory = "none"
	Connectivity        DriverCategory = "connectivity"
	Permissions         DriverCategory = "permissions"
	Syntax              DriverCategory = "syntax"
	DataRelated         DriverCategory = "data_related"
	Constraint          DriverCategory = "constraint"
	Transaction         DriverCategory = "transaction"
	Resource            DriverCategory = "resource"
	FeatureNotSupported DriverCategory = "feature_not_supported"
	DriverInternal      DriverCategory = "driver_internal"
	DatabaseInternal    DriverCategory = "database_internal"
	Unknown             DriverCategory = "unknown"
)

// DriverError is the driver layer's error type, cached by Driver.LastError
// per SPEC_FULL.md §4.8's invariant 6: after any failed Statement/Result
// operation, LastError().Category != NoError.
type DriverError struct {
	Category DriverCategory
	Message  string
	Err      error
}

func (e *DriverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sqldriver [%s]: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("sqldriver [%s]: %s", e.Category, e.Message)
}

func (e *DriverError) Unwrap() error { return e.Err }

// noError is the zero-value sentinel LastError returns when nothing has
// failed yet.
var noError = DriverError{Category: NoError}

// classifyError maps any error the transport or sqldriver layers produced
// to a DriverError. A *mysql.TransportError is translated category-by-
// category; anything else (including a plain *TransportCompatError from
// the placeholder rewriter) becomes DriverInternal, since it originates in
// this layer rather than the wire protocol.
func classifyError(err error) DriverError {
	if err == nil {
		return noError
	}

	var te *mysql.TransportError
	if errors.As(err, &te) {
		return DriverError{Category: classifyTransportCategory(te.Category), Message: te.Message, Err: err}
	}

	var tc *TransportCompatError
	if errors.As(err, &tc) {
		return DriverError{Category: DriverInternal, Message: tc.Message, Err: err}
	}

	return DriverError{Category: Unknown, Message: err.Error(), Err: err}
}

func classifyTransportCategory(c mysql.ErrorCategory) DriverCategory {
	switch c {
	case mysql.CategoryConnectivity:
		return Connectivity
	case mysql.CategoryAuth:
		return Permissions
	case mysql.CategorySyntax:
		return Syntax
	case mysql.CategoryDataError:
		return DataRelated
	case mysql.CategoryConstraint:
		return Constraint
	case mysql.CategoryTransaction:
		return Transaction
	case mysql.CategoryResource:
		return Resource
	case mysql.CategoryNotSupported:
		return FeatureNotSupported
	case mysql.CategoryDriverInternal:
		return DriverInternal
	case mysql.CategoryProtocol, mysql.CategoryDatabaseInternal:
		return DatabaseInternal
	default:
		return Unknown
	}
}
