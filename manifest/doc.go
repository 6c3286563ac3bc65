/*
Package manifest declares routes in TOML.

A manifest lists routes and nested routers:

	root_path = "/"

	[[route]]
	pattern = "/path/{id}"
	name = "item"
	handler = "show"

	[[router]]
	root_path = "/shop"

	  [[router.route]]
	  pattern = "/cart"
	  method = "PUSH"
	  handler = "cart"

Handlers are referenced by name and supplied when the manifest is built.
*/
package manifest
