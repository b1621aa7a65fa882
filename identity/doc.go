/*
Package identity models the entity that creates and signs chain blocks:
an account URI bound to an active signing key and the ordered history of
keys it has rotated through. An Identity is "private" when it holds key
material capable of signing, or "public" when it only carries a key
resolved from a KeyStore for verification purposes.
*/
package identity
