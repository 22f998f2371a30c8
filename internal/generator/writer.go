package generator

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// ManifestFile is the name of the manifest written next to the artifacts.
const ManifestFile = "manifest.json"

// File permissions for generated output.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Manifest records what a run generated.
type Manifest struct {
	RunID       string          `json:"run_id"`
	Name        string          `json:"name"`
	GeneratedAt time.Time       `json:"generated_at"`
	Files       []ManifestEntry `json:"files"`
}

// ManifestEntry is one artifact in the manifest.
type ManifestEntry struct {
	Path   string `json:"path"`
	Digest string `json:"blake3"`
	Size   int    `json:"size"`
}

// WriteResult summarises a Write call.
type WriteResult struct {
	Manifest  *Manifest
	Written   int
	Unchanged int
	Removed   int
}

// Digest returns the hex blake3 digest of content.
func Digest(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Write stores artifacts below dir and writes the manifest.
//
// Parameters:
//   - dir: Output directory, created if missing
//   - runID: Identifier of the run, recorded in the manifest
//   - name: Site name
//   - artifacts: Files to write, paths relative to dir
//
// Returns:
//   - *WriteResult: Counts of written, unchanged and removed files
//   - error: If any file cannot be written
func Write(dir, runID, name string, artifacts []Artifact) (*WriteResult, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	previous, err := ReadManifest(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	res := &WriteResult{Manifest: &Manifest{
		RunID:       runID,
		Name:        name,
		GeneratedAt: time.Now().UTC(),
		Files:       make([]ManifestEntry, 0, len(artifacts)),
	}}
	current := make(map[string]bool, len(artifacts))

	for _, a := range artifacts {
		if err := validatePath(a.Path); err != nil {
			return nil, err
		}
		current[a.Path] = true
		digest := Digest(a.Content)
		res.Manifest.Files = append(res.Manifest.Files, ManifestEntry{Path: a.Path, Digest: digest, Size: len(a.Content)})

		target := filepath.Join(dir, filepath.FromSlash(a.Path))
		if existing, err := os.ReadFile(target); err == nil && Digest(existing) == digest { //nolint:gosec // target is below the output dir
			res.Unchanged++
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, a.Content, filePerm); err != nil { //nolint:gosec // generated config is world-readable
			return nil, fmt.Errorf("writing %s: %w", a.Path, err)
		}
		res.Written++
	}

	if previous != nil {
		for _, f := range previous.Files {
			if current[f.Path] || validatePath(f.Path) != nil {
				continue
			}
			err := os.Remove(filepath.Join(dir, filepath.FromSlash(f.Path)))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("removing stale %s: %w", f.Path, err)
			}
			res.Removed++
		}
	}

	data, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, filePerm); err != nil { //nolint:gosec // manifest is not secret
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return res, nil
}

// ReadManifest reads the manifest of a previous run from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) //nolint:gosec // fixed name below the output dir
	if err != nil {
		return nil, err
	}
	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// validatePath rejects absolute paths and paths escaping the output directory.
func validatePath(p string) error {
	if p == "" || path.IsAbs(p) || filepath.IsAbs(p) {
		return fmt.Errorf("%w: %q", ErrInvalidArtifactPath, p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") || clean == ManifestFile {
		return fmt.Errorf("%w: %q", ErrInvalidArtifactPath, p)
	}
	return nil
}
