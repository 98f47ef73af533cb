package common

import "strings"

// UserNamespace returns the document namespace owned by userID.
func UserNamespace(userID string) string {
	return UserNamespacePrefix + userID
}

// PathInNamespace reports whether path is a document path strictly below the
// namespace of userID. Empty segments and dot segments are rejected.
func PathInNamespace(path, userID string) bool {
	if userID == "" {
		return false
	}
	prefix := UserNamespace(userID) + "/"
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	for _, seg := range strings.Split(strings.TrimPrefix(path, prefix), "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
