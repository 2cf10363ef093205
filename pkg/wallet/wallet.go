package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Signer produces transaction digests for store mutations. The store forwards
// the operation name and does not depend on how the digest is made; a real
// implementation would submit a signed transaction and return its digest.
type Signer interface {
	SignTransaction(ctx context.Context, operation string) (string, error)
}

// Verifier checks a wallet's ownership proof during sign-in. Signature
// cryptography lives behind this port; the service never inspects signatures
// itself.
type Verifier interface {
	Verify(address, nonce, signature string) (bool, error)
}

// MockSigner mints random 0x-prefixed digests. The digests carry no meaning
// and must not be used as identifiers.
type MockSigner struct{}

func (MockSigner) SignTransaction(_ context.Context, _ string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

// InsecureVerifier accepts any non-empty signature. Local development only.
type InsecureVerifier struct{}

func (InsecureVerifier) Verify(address, nonce, signature string) (bool, error) {
	return address != "" && signature != "", nil
}
