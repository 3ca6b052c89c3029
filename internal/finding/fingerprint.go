package finding

import (
	"crypto/md5"
	"encoding/hex"
)

// fingerprintSalt is part of every fingerprint already stored in the
// tracker. Changing it makes every tracked finding look new again.
const fingerprintSalt = "devops1"

// Fingerprint is the hex digest identifying a finding across runs.
type Fingerprint string

// FingerprintOf digests salt, project, check name, and file path, in that
// order, as UTF-8 bytes.
func FingerprintOf(project, checkName, filePath string) Fingerprint {
	h := md5.New()
	h.Write([]byte(fingerprintSalt))
	h.Write([]byte(project))
	h.Write([]byte(checkName))
	h.Write([]byte(filePath))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Fingerprint returns the finding's fingerprint under the given project.
func (f Finding) Fingerprint(project string) Fingerprint {
	return FingerprintOf(project, f.CheckName, f.FilePath)
}
