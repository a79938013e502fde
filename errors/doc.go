// Package errors provides the structured error taxonomy shared by every stage
// of IDL extraction.
//
// Errors are values. Stages that parse sibling subtrees combine their errors
// rather than stopping at the first one: two compilation errors merge into a
// single error carrying every diagnostic, while for any other kind the first
// error wins.
//
//	var errs errors.List
//	errs.Add(parseFields(s))
//	errs.Add(parseAttributes(s))
//	if err := errs.Err(); err != nil {
//		return nil, err
//	}
package errors
