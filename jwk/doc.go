/*
Package jwk implements the subset of JSON Web Key (RFC-7517) required by
the chain protocol: elliptic-curve P-256 keys, their portable JSON
representation, and the canonical RFC-7638-style thumbprint used as a
key's content-addressed identifier throughout this module.
*/
package jwk
