package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type GameRecord struct {
	ID         int
	Vampires   string // Agent name
	Werewolves string // Agent name
	GameMetric
}

type MoveRecord struct {
	Game  int // GameRecord.ID
	Agent string
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory for the experiment under root.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteSetup stores the settings the experiment ran with.
func (w *Writer) WriteSetup(setup any) error {
	b, err := yaml.Marshal(setup)
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "setup.yaml"), b, 0644)
	if err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "vampires", "werewolves", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves", "rejected"}
	return w.write("game_records.csv", header, len(records), func(i int) []string {
		r := records[i]
		return []string{
			strconv.Itoa(r.ID),
			r.Vampires,
			r.Werewolves,
			r.StartingPlayer,
			r.Winner,
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
			strconv.Itoa(r.TotalMoves),
			strconv.Itoa(r.Rejected),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "agent", "units", "goroutines", "duration", "max_depth", "depth", "score", "nodes", "chance_nodes", "cutoffs"}
	return w.write("move_records.csv", header, len(records), func(i int) []string {
		r := records[i]
		return []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			r.Player,
			r.Agent,
			strconv.Itoa(r.Units),
			strconv.Itoa(r.Goroutines),
			r.Duration.String(),
			strconv.Itoa(r.MaxDepth),
			strconv.Itoa(r.Depth),
			strconv.FormatFloat(r.Score, 'f', 6, 64),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.ChanceNodes),
			strconv.Itoa(r.Cutoffs),
		}
	})
}

func (w *Writer) write(name string, header []string, n int, row func(int) []string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
