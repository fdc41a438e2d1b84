package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/assemble"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for a format other than csv or json.
var ErrUnknownFormat = errors.New("unknown output format")

// Store writes game tables and manifests under one directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "getting home directory")
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	return &Store{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// GamePath returns the file a game is written to in format.
func (s *Store) GamePath(gameID, format string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s", gameID, format))
}

// WriteGame writes the game table and returns the file path.
func (s *Store) WriteGame(game *assemble.Game, format string) (string, error) {
	if game == nil {
		return "", errors.New("writing game: nil game")
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case FormatCSV:
		data, err = encodeCSV(game)
	case FormatJSON:
		data, err = sonic.ConfigDefault.MarshalIndent(game, "", "  ")
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return "", errors.Wrapf(err, "encoding game %s", game.GameID)
	}

	path := s.GamePath(game.GameID, strings.ToLower(format))
	if err := writeFile(path, data); err != nil {
		return "", errors.Wrapf(err, "writing game %s", game.GameID)
	}
	return path, nil
}

func encodeCSV(game *assemble.Game) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(assemble.Columns(game.HasOnIce)); err != nil {
		return nil, err
	}
	for i := range game.Records {
		if err := w.Write(game.Records[i].Values(game.HasOnIce)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
