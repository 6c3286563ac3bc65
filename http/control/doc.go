/*
Package control exposes a navigation stack over HTTP.

A [Router] wraps a gorilla/mux router, registering [Route]s behind a shared middleware stack.
A [Handler] supplies the Routes that push, replace, replace-all and pop through a stack.Navigator,
list its history and map named routes to paths.
Navigation requests wait for the dispatch they schedule,
so the response reports whether the destination resolved and its handlers succeeded.
*/
package control
