/*
Package chainstore resolves a chain subject to its BlockChain, mirroring
the resolver shape of package keystore. Store is satisfied by Local
(in-memory) and Remote (HTTP-backed, using a Local instance as its
cache).
*/
package chainstore
