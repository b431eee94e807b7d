package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/tiwire/internal/sweep"
	"github.com/san-kum/tiwire/internal/transport"
)

const (
	KindSweep = "sweep"
	KindBands = "bands"

	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Device    string             `json:"device"`
	Timestamp time.Time          `json:"timestamp"`
	Params    transport.Params   `json:"params"`
	Regions   int                `json:"regions"`
	Slices    int                `json:"slices"`
	Points    int                `json:"points"`
	Region    int                `json:"region,omitempty"`
	Elapsed   float64            `json:"elapsed_seconds,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// SaveSweep stores a conductance sweep of dev as energy,conductance rows.
func (s *Store) SaveSweep(name string, dev *transport.Device, res *sweep.Result) (string, error) {
	meta := s.newMeta(KindSweep, name, dev)
	meta.Points = len(res.Energies)
	meta.Elapsed = res.Elapsed.Seconds()
	meta.Metrics = res.Metrics

	rows := make([][]float64, len(res.Energies))
	for i, e := range res.Energies {
		rows[i] = []float64{e, res.Conductance[i]}
	}
	return meta.ID, s.write(meta, []string{"energy", "conductance"}, rows)
}

// SaveBands stores the band structure of region as k,band0,band1,... rows.
func (s *Store) SaveBands(name string, dev *transport.Device, region int, bs *transport.BandStructure) (string, error) {
	meta := s.newMeta(KindBands, name, dev)
	meta.Points = len(bs.K)
	meta.Region = region

	header := []string{"k"}
	for i := range bs.Energies {
		header = append(header, fmt.Sprintf("band%d", i))
	}
	rows := make([][]float64, len(bs.K))
	for j, k := range bs.K {
		row := []float64{k}
		for i := range bs.Energies {
			row = append(row, bs.Energies[i][j])
		}
		rows[j] = row
	}
	return meta.ID, s.write(meta, header, rows)
}

func (s *Store) newMeta(kind, name string, dev *transport.Device) *RunMetadata {
	now := time.Now()
	return &RunMetadata{
		ID:        fmt.Sprintf("%s_%d", kind, now.UnixNano()),
		Kind:      kind,
		Device:    name,
		Timestamp: now,
		Params:    dev.Params(),
		Regions:   dev.NumRegions(),
		Slices:    dev.SliceCount(),
	}
}

func (s *Store) write(meta *RunMetadata, header []string, rows [][]float64) error {
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	return WriteCSV(csvFile, header, rows)
}

// List returns the stored runs, oldest first. Unreadable runs are skipped.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Latest returns the most recent run, optionally restricted to kind.
func (s *Store) Latest(kind string) (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if kind == "" || runs[i].Kind == kind {
			return &runs[i], nil
		}
	}
	return nil, ErrRunNotFound
}

// LoadSeries reads the column names and numeric rows of a run.
func (s *Store) LoadSeries(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}
