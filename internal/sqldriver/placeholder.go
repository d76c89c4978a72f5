package sqldriver

import "strings"

// PlaceholderSyntax selects which named-binding form Rewrite recognizes.
type PlaceholderSyntax int

const (
	// SyntaxQuestion treats the query as already `?`-form; Rewrite is a
	// no-op pass-through.
	SyntaxQuestion PlaceholderSyntax = iota
	// SyntaxColon recognizes `:name` placeholders.
	SyntaxColon
	// SyntaxAt recognizes `@name` placeholders. Disabled unless
	// AllowUserVariableCollision is also passed, since `@name` collides
	// with MySQL session user-variable syntax.
	SyntaxAt
)

// RewriteOption configures Rewrite's behavior beyond the placeholder syntax.
type RewriteOption int

const (
	// AllowUserVariableCollision opts into rewriting `@name` placeholders
	// despite the syntax overlapping MySQL user variables (SPEC_FULL.md
	// §9 Open Questions). Without it, SyntaxAt is rejected outright.
	AllowUserVariableCollision RewriteOption = iota
)

// RewriteResult is the outcome of rewriting a query's named placeholders to
// the `?`-form the wire protocol requires.
type RewriteResult struct {
	// Query is the processed query, always using `?` placeholders.
	Query string
	// Names lists parameter names in the order their placeholders appear,
	// one entry per placeholder occurrence (a name may repeat).
	Names []string
	// HadNamedPlaceholders is true if any placeholder of the configured
	// syntax was found and rewritten.
	HadNamedPlaceholders bool
}

// Rewrite walks query with the state machine described in SPEC_FULL.md §4.6:
// it tracks single-quoted strings, double-quoted strings, and backslash
// escapes, copying their contents verbatim, and outside of those contexts
// replaces every placeholder of the given syntax with `?`, recording the
// bound name in order of appearance.
func Rewrite(query string, syntax PlaceholderSyntax, opts ...RewriteOption) (RewriteResult, error) {
	if syntax == SyntaxQuestion {
		return RewriteResult{Query: query}, nil
	}
	if syntax == SyntaxAt {
		allowed := false
		for _, o := range opts {
			if o == AllowUserVariableCollision {
				allowed = true
			}
		}
		if !allowed {
			return RewriteResult{}, &TransportCompatError{Message: "@name placeholder syntax is disabled by default; pass placeholder.AllowUserVariableCollision to opt in"}
		}
	}

	prefix := byte(':')
	if syntax == SyntaxAt {
		prefix = '@'
	}

	var out strings.Builder
	out.Grow(len(query))
	var names []string

	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)
	state := stateNormal
	escaped := false

	i := 0
	for i < len(query) {
		c := query[i]

		if escaped {
			out.WriteByte(c)
			escaped = false
			i++
			continue
		}

		switch state {
		case stateSingleQuote:
			out.WriteByte(c)
			if c == '\\' {
				escaped = true
			} else if c == '\'' {
				state = stateNormal
			}
			i++
			continue
		case stateDoubleQuote:
			out.WriteByte(c)
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				state = stateNormal
			}
			i++
			continue
		}

		// stateNormal
		switch {
		case c == '\'':
			state = stateSingleQuote
			out.WriteByte(c)
			i++
		case c == '"':
			state = stateDoubleQuote
			out.WriteByte(c)
			i++
		case c == '\\':
			escaped = true
			out.WriteByte(c)
			i++
		case c == prefix && i+1 < len(query) && isNameStart(query[i+1]):
			j := i + 1
			for j < len(query) && isNameChar(query[j]) {
				j++
			}
			names = append(names, query[i+1:j])
			out.WriteByte('?')
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}

	return RewriteResult{
		Query:                out.String(),
		Names:                names,
		HadNamedPlaceholders: len(names) > 0,
	}, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// TransportCompatError reports a driver-level configuration mistake that is
// caught before any query reaches the transport layer (e.g. using a
// placeholder syntax without its required opt-in).
type TransportCompatError struct {
	Message string
}

func (e *TransportCompatError) Error() string { return e.Message }
