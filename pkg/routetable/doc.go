// Package routetable models the route table a documentation-site generator
// emits for its client router.
//
// A Table is an ordered list of Entry values. Each entry maps a URL path
// (or the catch-all "*") to an opaque component reference and may carry
// nested entries and a sidebar tag:
//
//	[
//	  {path: '/docs', component: ComponentCreator('/docs', '0e7'), routes: [
//	    {path: '/docs/api/', component: ComponentCreator('/docs/api/', '5e5'),
//	     exact: true, sidebar: "tutorialSidebar"},
//	  ]},
//	  {path: '*', component: ComponentCreator('*')},
//	]
//
// Tables are generated once per site build and never mutated afterwards.
// The package provides traversal (Walk, Leaves, Paths), summary statistics,
// a content fingerprint, structural equality and the structural validator.
//
// # Validation
//
//	if err := routetable.Validate(table, routetable.ValidateOptions{}); err != nil {
//	    var multi *routetable.MultiValidationError
//	    if errors.As(err, &multi) {
//	        for _, e := range multi.Errors {
//	            fmt.Print(routetable.FormatValidationError(e))
//	        }
//	    }
//	}
package routetable
