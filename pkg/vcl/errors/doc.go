// Package errors provides load errors for validation configuration files.
//
// Errors carry a type, a source location, surrounding source lines and an
// optional suggestion. ErrorList accumulates several errors so that one load
// reports every problem it can find:
//
//	errs := errors.NewErrorList()
//	errs.AddErrorWithSuggestion(errors.ErrorTypeStructural,
//	    "Field at index 2 has no name", loc, "Add a unique 'name'")
//	return errs.ToError()
//
// The suggestion helpers use edit distance to propose the closest known name;
// the analyzer reuses them for unknown field references and lookup keys.
package errors
