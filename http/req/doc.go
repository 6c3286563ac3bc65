/*
Package req parses the payloads of HTTP requests into structs.

It supports JSON-encoded bodies and payloads encoded in query parameters.
In both cases, package req expects to parse payloads into a pointer to a struct
whose "json" or "schema" tags match keys in the payload
and whose "validate" tags set the rules the payload's data must meet.

Data failing those rules returns as [ValidationErrors], which wrap junction.ErrNotValid.
*/
package req
