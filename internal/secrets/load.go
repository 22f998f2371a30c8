package secrets

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// encryptedSuffix marks a secret table encrypted with age.
const encryptedSuffix = ".age"

// headerKey is the first column of an optional header row.
const headerKey = "key"

// LoadFile reads a secret table from disk.
//
// Parameters:
//   - path: CSV file, or an age-encrypted CSV file ending in ".age"
//   - identityFile: age identity file; required only for encrypted tables
//
// Returns:
//   - map[string]string: Normalised key → value table
//   - error: If the file cannot be read, decrypted or parsed
func LoadFile(path, identityFile string) (map[string]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("opening secret table: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, encryptedSuffix) {
		if identityFile == "" {
			return nil, ErrNoIdentity
		}
		identities, idErr := loadIdentities(identityFile)
		if idErr != nil {
			return nil, idErr
		}
		r, err = Decrypt(f, identities...)
		if err != nil {
			return nil, fmt.Errorf("decrypting %s: %w", path, err)
		}
	}

	return Parse(r)
}

// Decrypt wraps an age-encrypted stream, accepting binary and armored input.
func Decrypt(r io.Reader, identities ...age.Identity) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(armor.Header))
	var src io.Reader = br
	if bytes.Equal(head, []byte(armor.Header)) {
		src = armor.NewReader(br)
	}
	return age.Decrypt(src, identities...)
}

// Parse reads a two-column CSV secret table. Lines starting with '#' are
// comments, a leading "key,value" header row is skipped, and a row with a
// single column defines a blank (intentionally unset) secret.
func Parse(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	values := make(map[string]string)
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}
		if len(rec) == 0 || len(rec) > 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: expected key,value", ErrInvalidTable, line)
		}

		key := normaliseKey(rec[0])
		if row == 0 && key == headerKey {
			continue
		}
		if key == "" {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: empty key", ErrInvalidTable, line)
		}
		if _, dup := values[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}

		var value string
		if len(rec) == 2 {
			value = rec[1]
		}
		values[key] = value
	}
	return values, nil
}

func loadIdentities(path string) ([]age.Identity, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("opening identity file: %w", err)
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}
	return identities, nil
}
