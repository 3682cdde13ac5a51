package plagiarism

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrFingerprint = errors.New("failed to fingerprint submission")

// Fingerprint is the SHA-256 of a submission's exact bytes.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short is the first 12 hex digits, enough to tell groups apart on screen.
func (f Fingerprint) Short() string {
	return f.String()[:12]
}

// FingerprintError reports a submission file that could not be hashed.
type FingerprintError struct {
	Path string
	Err  error
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("fingerprint %s: %v", e.Path, e.Err)
}

func (e *FingerprintError) Unwrap() []error {
	return []error{ErrFingerprint, e.Err}
}

// FingerprintFile hashes the content of path. Neither the name nor the
// metadata of the file take part.
func FingerprintFile(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, &FingerprintError{Path: path, Err: err}
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return Fingerprint{}, &FingerprintError{Path: path, Err: err}
	}
	var f Fingerprint
	copy(f[:], h.Sum(nil))
	return f, nil
}
