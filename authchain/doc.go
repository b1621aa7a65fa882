/*
Package authchain implements the authorization-policy chain: each block
carries a list of grants over a resource, and the chain's ratchet tracks
both the effective policy and the key-freshness frontier needed to
validate who was allowed to grant what, and with which key.
*/
package authchain
