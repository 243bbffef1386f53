// Package errors provides structured, actionable error messages for the
// tailcfg CLI.
//
// Errors carry a code, the source location in the offending config file
// when known, a plain-language detail, and a hint on how to fix it.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: problems with a tailcfg configuration source
//   - cli: problems with the command invocation or the environment
//
// # Error Codes
//
// Each error has a unique code (e.g., "E124") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E124").
//	    WithLocation("tailcfg.json", 3, 5).
//	    WithSuggestion("Close the character class: templates/[a-z]*.html")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E124: Invalid content pattern
//	//
//	//   tailcfg.json:3:5
//	//
//	//      2 │   "contentPatterns": [
//	//   →  3 │     "templates/[a-z.html"
//	//        │     ^
//	//      4 │   ],
//	//
//	//   Hint: Close the character class: templates/[a-z]*.html
package errors
