/*
Package route resolves destinations against a tree of path patterns and runs the handlers they lead to.

# Route trees

A [Router] owns a tree of [Node] values. Each Node hangs off its parent by a [Selector]
matching one edge of a destination: a constant segment, a parameter, a wildcard, a tailcard,
a regular expression, a navigation [Method], or a router's root path.
Register routes with a pattern:

	r, err := route.New()
	r.HandleFunc("/users/{id}", showUser, route.Named("user"))
	r.HandleFunc("/files/{path...}", showFile)
	r.HandleFunc("/search/{query?}", search)
	r.HandleFunc("/checkout", startCheckout, route.OnMethod(route.MethodPush))

or build the tree directly with [Router.Configure].

# Resolution

[Resolve] walks the tree depth first. At each Node every child is evaluated;
the successful ones are tried transparent selectors first, then from the highest quality down,
keeping registration order on ties. A branch that dead ends backtracks into the next candidate.
A destination resolves once every segment is consumed at a Node holding handlers.

# Names

[Router.MapNameToPath] turns a route name and parameters back into a path.

# Nesting

A Router constructed [WithParent] mirrors its tree into its parent's under its root path,
so either side resolves the other's destinations. A destination a Router cannot resolve
is tried against each live ancestor in turn.
The mirror is refreshed whenever the child registers routes or runs [Router.Configure].

# Dispatch

[Router.Execute] runs a destination's handlers synchronously.
[Router.Navigate] schedules them on a first in, first out queue shared by a family of nested Routers;
handlers may schedule further calls, including redirects through [Call.RedirectToPath].
*/
package route
