/*
Package chain implements the base, chain-type-agnostic substrate shared
by every concrete chain: the signed, antecedent-linked Block, the
ordered BlockChain container, and the Ratchet validation-state
contract.

Chain-type packages (identitychain, authchain) build on top of this
package by embedding *BaseBlock and *BlockChain and supplying hooks that
shape the signed payload and extend signature/authority validation,
rather than by subclassing: Go has no subclassing, so the "override
points" the source expresses as overridden methods are expressed here
as closures attached at construction time.
*/
package chain
