// Package errors provides coded, actionable errors for dropzone.
//
// Every error carries a short code (e.g. "D300") registered with a category,
// a one-line message and a longer detail. Callers attach context fluently:
//
//	err := errors.New("D300").
//	    WithDetail(responseText).
//	    WithSuggestion("Check the upstream upload handler logs")
//
//	errors.PrintError(err)
//	// ERROR D300: Upload rejected by server
//	//
//	//   Invalid format
//	//
//	//   Hint: Check the upstream upload handler logs
//
// # Categories
//
//   - config: dropzone.json problems
//   - source: a file reference could not be opened
//   - upload: the upload request was rejected or never completed
//   - cli: command line usage
//
// DropzoneError implements Unwrap, so errors.Is and errors.As from the
// standard library see through it.
package errors
