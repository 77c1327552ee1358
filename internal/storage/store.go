package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// Columns of the trajectory file. The six value columns hold the particle
// coordinates, the rms sizes of an envelope or the diagonal of a transfer
// map, depending on the probe kind.
var Columns = []string{"element", "type", "s", "time", "energy", "phase", "x", "xp", "y", "yp", "z", "zp"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Topology      string             `json:"topology"`
	Algorithm     string             `json:"algorithm"`
	Species       string             `json:"species"`
	Timestamp     time.Time          `json:"timestamp"`
	KineticEnergy float64            `json:"kinetic_energy"`
	Current       float64            `json:"current"`
	Elements      int                `json:"elements"`
	Steps         int                `json:"steps"`
	Elapsed       time.Duration      `json:"elapsed"`
	Summary       map[string]float64 `json:"summary,omitempty"`
}

// Row is one trajectory snapshot as stored.
type Row struct {
	Element string
	Type    string
	S       float64
	Time    float64
	Energy  float64
	Phase   float64
	Values  [phase.HOM]float64
}

// Value returns the named column, or false for an unknown column.
func (r Row) Value(column string) (float64, bool) {
	switch column {
	case "s":
		return r.S, true
	case "time":
		return r.Time, true
	case "energy":
		return r.Energy, true
	case "phase":
		return r.Phase, true
	}
	i := slices.Index(Columns, column)
	if i < 6 {
		return 0, false
	}
	return r.Values[i-6], true
}

// NewRow flattens a probe snapshot for the given probe kind.
func NewRow(kind tracking.Kind, st tracking.State) Row {
	row := Row{
		Element: st.Element.ID,
		Type:    st.Element.Type,
		S:       st.Position,
		Time:    st.Time,
		Energy:  st.KineticEnergy,
		Phase:   st.Phase,
	}
	switch kind {
	case tracking.KindParticle:
		copy(row.Values[:], st.Coordinates[:phase.HOM])
	case tracking.KindEnvelope:
		row.Values = phase.RMS(st.Covariance)
	case tracking.KindTransferMap:
		for i := 0; i < phase.HOM; i++ {
			row.Values[i] = st.TransferMap[i][i]
		}
	}
	return row
}

// Rows flattens a whole trajectory.
func Rows(kind tracking.Kind, tr *tracking.Trajectory) []Row {
	states := tr.States()
	rows := make([]Row, len(states))
	for i, st := range states {
		rows[i] = NewRow(kind, st)
	}
	return rows
}

// Save writes a new run and returns its id.
func (s *Store) Save(meta RunMetadata, rows []Row) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Scenario, uuid.NewString())
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(Columns); err != nil {
		return "", err
	}
	for _, r := range rows {
		rec := []string{r.Element, r.Type, formatFloat(r.S), formatFloat(r.Time), formatFloat(r.Energy), formatFloat(r.Phase)}
		for _, v := range r.Values {
			rec = append(rec, formatFloat(v))
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// List returns the metadata of every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadRows(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(Columns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		nums := make([]float64, 0, len(rec)-2)
		for _, field := range rec[2:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
			}
			nums = append(nums, v)
		}
		row := Row{Element: rec[0], Type: rec[1], S: nums[0], Time: nums[1], Energy: nums[2], Phase: nums[3]}
		copy(row.Values[:], nums[4:])
		rows = append(rows, row)
	}
	return rows, nil
}
