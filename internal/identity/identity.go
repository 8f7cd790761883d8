package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by domain so unrelated entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ContentUUID identifies a seeded content record by type and source path.
func ContentUUID(contentType, source string) uuid.UUID {
	return UUID("go-cms-layout:content:" + strings.ToLower(strings.TrimSpace(contentType)) + ":" + strings.TrimSpace(source))
}

// ElementID returns a short stable DOM id for scope, such as a tab panel
// without an explicit label.
func ElementID(prefix, scope string) string {
	uid := UUID("go-cms-layout:element:" + scope)
	short := strings.ReplaceAll(uid.String(), "-", "")[:10]
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}
