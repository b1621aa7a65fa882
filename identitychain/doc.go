/*
Package identitychain implements the key-rotation history chain: each
block advertises the thumbprint of the key authorized to sign the next
block (its `pkt` claim). The genesis block is self-signed, since its
own `pkt` names the key that signed it.
*/
package identitychain
