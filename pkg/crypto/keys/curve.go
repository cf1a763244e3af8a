package keys

import "crypto/elliptic"

// secp256r1 is the only curve Neo N3 standard accounts use; the
// teacher also supports secp256k1 (via decred/dcrd) for interop
// contracts, which is out of scope here (see DESIGN.md).
func secp256r1() elliptic.Curve {
	return elliptic.P256()
}

// Secp256r1 exposes the standard-account curve to callers outside this
// package that need to decode a bare PublicKey point, such as
// transaction.ConditionGroup.
func Secp256r1() elliptic.Curve {
	return secp256r1()
}
