package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// Fingerprint returns the sha256 of the record's RFC 8785 canonical JSON
// form. Two records with the same content have the same fingerprint
// regardless of how their source documents ordered keys.
func Fingerprint(r ServiceRecord) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
