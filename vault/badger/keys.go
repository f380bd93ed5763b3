package badger

import "bytes"

// Key prefixes for different data types
const (
	chunkPrefix = "vchunk"
)

// keySeparator delimits the variable-length key components. Tenant and
// user identifiers are caller-supplied strings, so a NUL byte is used
// instead of a printable separator.
const keySeparator = byte(0)

// makeScopePrefix generates the key prefix covering one (tenant, user)
// scope. Format: prefix \0 tenant \0 user \0
func makeScopePrefix(tenantID, userID string) []byte {
	buf := make([]byte, 0, len(chunkPrefix)+len(tenantID)+len(userID)+3)
	buf = append(buf, chunkPrefix...)
	buf = append(buf, keySeparator)
	buf = append(buf, tenantID...)
	buf = append(buf, keySeparator)
	buf = append(buf, userID...)
	buf = append(buf, keySeparator)
	return buf
}

// makeChunkKey generates the key for one chunk within a scope.
// Format: prefix \0 tenant \0 user \0 chunkID
func makeChunkKey(tenantID, userID, chunkID string) []byte {
	buf := makeScopePrefix(tenantID, userID)
	return append(buf, chunkID...)
}

// parseChunkKey splits a chunk key back into scope components.
// Returns ok=false for keys not matching the chunk layout.
func parseChunkKey(key []byte) (tenantID, userID, chunkID string, ok bool) {
	rest, found := bytes.CutPrefix(key, append([]byte(chunkPrefix), keySeparator))
	if !found {
		return "", "", "", false
	}
	parts := bytes.SplitN(rest, []byte{keySeparator}, 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return string(parts[0]), string(parts[1]), string(parts[2]), true
}
