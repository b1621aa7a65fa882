/*
Package keystore resolves key thumbprints to JWKs. Store is the minimal
contract both variants satisfy; Local keeps an in-memory map, Remote
layers an HTTP-backed key server on top of a Local instance acting as
its cache.

A process-wide default store is reachable through Default and SetDefault,
mirroring the singleton-with-explicit-override convention used by the
library's other global resolvers (chainstore.Default).
*/
package keystore
