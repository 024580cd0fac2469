// Package knol derives the content identity of study-set questions.
package knol

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/conorfennell/examprep/internal/domain"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizePart(part string) string {
	return strings.TrimSpace(lineEndings.Replace(strings.ToLower(part)))
}

// Normalize joins the question, answer and context of q, each lower-cased,
// trimmed and with LF line endings, on newlines.
func Normalize(q domain.Question) string {
	return strings.Join([]string{
		normalizePart(q.Question),
		normalizePart(q.Answer),
		normalizePart(q.Context),
	}, "\n")
}

// Hash returns the hex SHA-256 of the normalised question. Edits that only
// change case, surrounding whitespace or line endings keep the same hash.
func Hash(q domain.Question) string {
	sum := sha256.Sum256([]byte(Normalize(q)))
	return hex.EncodeToString(sum[:])
}
