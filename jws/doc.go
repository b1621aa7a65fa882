/*
Package jws implements the slice of JSON Web Signature (RFC-7515) the
chain protocol depends on: compact serialization of an arbitrary JSON
payload, signed and verified with ES256 over a JWK key. Every block in
this module is, on the wire, one of these tokens.
*/
package jws
