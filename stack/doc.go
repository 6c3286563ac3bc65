/*
Package stack keeps navigation history on top of a route.Router.

A Navigator turns push, replace, replace-all and pop verbs into route.Calls,
dispatches them in order and records each resolved destination as an Entry.
History can be persisted to a Store and restored when a Navigator is constructed.
*/
package stack
