// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides secret hashing and token generation utilities.

# Admin Keys

Admin keys are random 32-character hex secrets:

	key, err := auth.GenerateAdminKey()

Only the SHA-256 digest of a key is stored, on the event row:

	digest := auth.HashSecret(key)
	ok := auth.VerifySecret(presented, digest)

The key itself is revealed to the creator exactly once in the
creation response and is not recoverable afterwards.

# Share IDs

Share ids are 10-character base62 identifiers used in public URLs:

	shareID, err := auth.GenerateShareID()

They grant read access only. Global uniqueness is enforced by the
database, so creation retries on the rare collision.

# Tokens

Row ids and participant session tokens are UUIDs:

	token := auth.NewToken()
*/
package auth
