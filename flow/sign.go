package flow

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// signingString builds Flow's canonical string: parameters sorted
// lexicographically by key, each key immediately followed by its value,
// no separators. Any deviation breaks signature verification upstream.
func signingString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(params[k])
	}
	return sb.String()
}

// Sign computes the HMAC-SHA256 signature Flow expects in the "s" field,
// rendered as lowercase hex. The "s" field itself must not be in params.
func Sign(params map[string]string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingString(params)))
	return hex.EncodeToString(mac.Sum(nil))
}
