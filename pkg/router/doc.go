// Package router resolves request paths against a generated route table.
//
// The matcher mirrors the semantics the documentation generator's host
// framework applies to its routes manifest:
//   - Every sibling is considered; the most specific candidate wins
//   - Entries with nested routes act as layouts and only match when one of
//     their descendants does
//   - Exact entries need the whole request path; others match a
//     segment-boundary prefix
//   - ":name" segments capture parameters, "*" matches anything
//   - Trailing slashes are ignored and matching is case-insensitive unless
//     WithSensitive(true) is given
//
// # Specificity
//
// Candidates are ranked by the number of request segments they consume,
// then by how many of those were literals, then concrete routes over the
// wildcard. Among equal candidates the earlier sibling wins.
//
// Given the siblings "/docs", "/docs/api/" and "*", the request
// "/docs/api/constants" resolves to "/docs/api/".
//
// # Usage
//
//	m, err := router.New(table)
//	if err != nil {
//	    return err
//	}
//
//	match, err := m.Resolve(ctx, "/docs/api/parse")
//	if err != nil {
//	    return err
//	}
//	// match.Entry.Component, match.Entry.Sidebar, match.Layouts
package router
