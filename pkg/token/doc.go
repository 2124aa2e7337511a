// Package token generates and checks admin bearer tokens.
//
// Generated tokens carry the aaatk_ prefix followed by 43 characters of
// base64 RawURL encoded random bytes. Hashes carry the aaath_ prefix
// followed by the hex SHA-256 digest. Comparison runs in constant time
// over the fixed-length hashes, so the token length does not leak.
package token
