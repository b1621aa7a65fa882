package errors

import "fmt"

// KeyNotFound reports that `thumbprint` could not be resolved by a KeyStore.
func KeyNotFound(thumbprint string) error {
	return newError(KindKeyNotFound, fmt.Errorf("key not found: %s", thumbprint), "")
}

// ChainNotFound reports that `subject` could not be resolved by a ChainStore.
func ChainNotFound(subject string) error {
	return newError(KindChainNotFound, fmt.Errorf("chain not found: %s", subject), "")
}

// ChainValidation reports a broken chain invariant detected during Validate.
func ChainValidation(format string, args ...interface{}) error {
	return newError(KindChainValidation, fmt.Errorf(format, args...), "")
}

// SignatureInvalid reports an ES256 verification failure.
func SignatureInvalid(reason string) error {
	return newError(KindSignatureInvalid, fmt.Errorf("invalid signature: %s", reason), "")
}

// RequestError reports a non-success response from a remote store.
func RequestError(status int, body string) error {
	return newError(KindRequest, fmt.Errorf("request failed with status %d: %s", status, body), "")
}

// ValueError reports a failed precondition on caller-supplied data.
func ValueError(format string, args ...interface{}) error {
	return newError(KindValue, fmt.Errorf(format, args...), "")
}

// NotImplemented reports a protocol path the source leaves unimplemented,
// such as IdentityChain key recovery.
func NotImplemented(reason string) error {
	return newError(KindNotImplemented, fmt.Errorf("not implemented: %s", reason), "")
}
