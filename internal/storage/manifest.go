package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/pipeline"
)

// ManifestFile is the manifest's file name inside the output directory.
const ManifestFile = "manifest.json"

// Entry is one game in the manifest.
type Entry struct {
	GameID   string    `json:"game_id"`
	Kind     errs.Kind `json:"kind,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Stream   string    `json:"coordinate_stream,omitempty"`
	Warning  string    `json:"warning,omitempty"`
	Attempts int       `json:"attempts,omitempty"`
}

// Manifest summarises one batch run.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Cancelled bool      `json:"cancelled"`
	Succeeded []Entry   `json:"succeeded"`
	Skipped   []Entry   `json:"skipped"`
	Failed    []Entry   `json:"failed"`
	Pending   []string  `json:"pending,omitempty"`
}

// NewManifest builds the manifest of a batch report.
func NewManifest(rep *pipeline.Report) *Manifest {
	m := &Manifest{
		RunID:     rep.RunID,
		Started:   rep.Started,
		Finished:  rep.Finished,
		Cancelled: rep.Cancelled,
		Succeeded: []Entry{},
		Skipped:   []Entry{},
		Failed:    []Entry{},
		Pending:   rep.Pending,
	}
	for _, o := range rep.Outcomes {
		e := Entry{
			GameID:   o.GameID,
			Kind:     o.Kind,
			Reason:   o.Reason,
			Stream:   o.Stream,
			Attempts: o.Attempts,
		}
		if o.Game != nil {
			e.Warning = o.Game.Warning
		}
		switch o.Status {
		case pipeline.StatusSuccess:
			m.Succeeded = append(m.Succeeded, e)
		case pipeline.StatusSkipped:
			m.Skipped = append(m.Skipped, e)
		default:
			m.Failed = append(m.Failed, e)
		}
	}
	return m
}

// MarkFailed moves a succeeded game to the failed list, for games whose
// table could not be written.
func (m *Manifest) MarkFailed(gameID string, err error) {
	for i, e := range m.Succeeded {
		if e.GameID != gameID {
			continue
		}
		m.Succeeded = append(m.Succeeded[:i], m.Succeeded[i+1:]...)
		e.Kind = errs.KindOf(err)
		e.Reason = err.Error()
		m.Failed = append(m.Failed, e)
		return
	}
}

// RetryIDs returns the games worth running again: failures and games the
// run never started.
func (m *Manifest) RetryIDs() []string {
	ids := make([]string, 0, len(m.Failed)+len(m.Pending))
	for _, e := range m.Failed {
		ids = append(ids, e.GameID)
	}
	return append(ids, m.Pending...)
}

// ManifestPath returns where WriteManifest writes.
func (s *Store) ManifestPath() string {
	return filepath.Join(s.dir, ManifestFile)
}

// WriteManifest writes m to the output directory and returns the path.
func (s *Store) WriteManifest(m *Manifest) (string, error) {
	data, err := sonic.ConfigDefault.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding manifest")
	}
	path := s.ManifestPath()
	if err := writeFile(path, data); err != nil {
		return "", errors.Wrap(err, "writing manifest")
	}
	return path, nil
}

// LoadManifest reads a manifest written by WriteManifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NotFound("manifest %s", path)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var m Manifest
	if err := sonic.Unmarshal(data, &m); err != nil {
		return nil, errs.Malformed("parsing manifest %s: %v", path, err)
	}
	return &m, nil
}
