// Package errors provides structured, actionable error messages for the
// docroutes CLI and server.
//
// Library packages return plain Go errors with sentinels
// (source.ErrNotFound, router.ErrNoMatch, ...). At the edges those are
// turned into coded errors with Classify, which:
//   - Points at the line and column of syntax errors in any format
//   - Lists every structural finding of an invalid table
//   - Suggests how to fix the problem
//
// # Error Codes
//
//   - E1xx: configuration
//   - E2xx: loading and parsing the route table
//   - E3xx: table validation and queries
//   - E4xx: path resolution
//   - E5xx: the HTTP server and watchers
//   - E9xx: command line usage
//
// # Usage
//
//	_, doc, err := source.Load(ctx, "docs/.docusaurus/routes.js", codec.FormatAuto, opts)
//	var syntaxErr *codec.SyntaxError
//	if stderrors.As(err, &syntaxErr) {
//	    err = errors.FromSyntax(syntaxErr, doc.Name, doc.Data)
//	}
//	errors.FprintError(os.Stderr, err)
//	// Output:
//	// ERROR E202: Route table syntax error
//	//
//	//   docs/.docusaurus/routes.js:14:5
//	//        12 │     exact: true
//	//        13 │   },
//	//   →    14 │   {{
//	//           │     ^
//	//        15 │     path: '/blog',
//	//        16 │     component: ComponentCreator('/blog', 'a6a'),
//	//
//	//   syntax error
package errors
