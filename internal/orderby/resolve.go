package orderby

import "fmt"

// FieldPath resolves a field accessor into the ordered list of field names
// it reads, root-to-leaf. The chain is discovered by unwinding member
// accesses outer-to-inner, so the collected names are reversed before
// return: the outermost access is the leaf.
//
// Shape rules: after unwrapping at most one boxing conversion to `any`,
// the expression must be a chain of Member nodes terminating at Param.
// Anything else — calls, subscripts, other conversions, a bare Param —
// fails with ErrBadAccessor naming the offending node.
func FieldPath(e Expr) ([]string, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil accessor", ErrBadAccessor)
	}
	if c, ok := e.(*Convert); ok && c.To == anyType {
		e = c.Of
	}

	var names []string
	for {
		switch n := e.(type) {
		case *Member:
			names = append(names, n.Name)
			e = n.Base
		case *Param:
			if len(names) == 0 {
				return nil, fmt.Errorf("%w: accessor selects no field", ErrBadAccessor)
			}
			for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
				names[i], names[j] = names[j], names[i]
			}
			return names, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrBadAccessor, exprKind(e))
		}
	}
}

// exprKind names a node for error messages.
func exprKind(e Expr) string {
	switch n := e.(type) {
	case nil:
		return "nil expression"
	case *Call:
		return fmt.Sprintf("method call %s()", n.Name)
	case *Index:
		return "index access"
	case *Convert:
		return fmt.Sprintf("conversion to %v", n.To)
	case *Param:
		return "row parameter"
	case *Member:
		return fmt.Sprintf("member access .%s", n.Name)
	default:
		return fmt.Sprintf("%T", e)
	}
}
