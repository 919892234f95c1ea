package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// ComputeHash calculates the SHA-1 digest of raw object content.
// Objects carry no type header: identical bytes always yield the identical id.
func ComputeHash(content []byte) string {
	hash := sha1.Sum(content)
	return hex.EncodeToString(hash[:])
}

// IsHexHash reports whether s looks like a full lowercase hex SHA-1 digest.
func IsHexHash(s string) bool {
	if len(s) != sha1.Size*2 {
		return false
	}
	return IsHexPrefix(s)
}

// IsHexPrefix reports whether s consists only of lowercase hex characters.
func IsHexPrefix(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// BuildDirPath constructs os-agnostic display direcotry path with trailing separator preserving all components.
// Unlike filepath.Join, does not normalize "." or remove redundant separators.
func BuildDirPath(dirs ...string) string {
	return strings.Join(dirs, string(filepath.Separator)) + string(filepath.Separator)
}
