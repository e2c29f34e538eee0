package asset

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

const (
	DefaultDir = "assets/diagrams"
)

type Asset struct {
	Name      string
	Filename  string
	FileBytes []byte
	Checksum  string
	Width     string
	Height    string
}

type Attacher interface {
	// Attach registers a generated file and returns the URL it will be
	// served from.
	Attach(Asset) string
}

// Store keeps assets generated during a build until they are written out.
type Store struct {
	Base   string
	Dir    string
	Assets []Asset

	seen map[string]bool
}

func NewStore(base string) *Store {
	return &Store{
		Base: base,
		Dir:  DefaultDir,
		seen: map[string]bool{},
	}
}

func (s *Store) Attach(a Asset) string {
	if !s.seen[a.Filename] {
		s.seen[a.Filename] = true
		s.Assets = append(s.Assets, a)
	}

	return path.Join("/", s.Base, s.Dir, a.Filename)
}

// Write saves every attached asset below root.
func (s *Store) Write(root string) error {
	if len(s.Assets) == 0 {
		return nil
	}

	dir := filepath.Join(root, filepath.FromSlash(s.Dir))

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return karma.Format(err, "unable to create asset directory %q", dir)
	}

	for _, a := range s.Assets {
		target := filepath.Join(dir, a.Filename)

		log.Debugf(nil, "writing asset %q -> %s", a.Name, target)

		err := os.WriteFile(target, a.FileBytes, 0o644)
		if err != nil {
			return karma.Format(err, "unable to write asset %q", target)
		}
	}

	return nil
}

func GetChecksum(reader io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// New builds an asset for a diagram rendering, naming it after the
// checksum of the diagram source so identical diagrams share one file.
func New(source []byte, ext string, data []byte, width, height string) (Asset, error) {
	checksum, err := GetChecksum(bytes.NewReader(source))
	if err != nil {
		return Asset{}, err
	}

	return Asset{
		Name:      checksum,
		Filename:  checksum + ext,
		FileBytes: data,
		Checksum:  checksum,
		Width:     width,
		Height:    height,
	}, nil
}
