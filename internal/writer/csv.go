package writer

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/cockroachdb/errors"
)

const (
	combinedFileFormat = "games-season-%d-%d-%d.csv" // season, schedule, team
	separateFileFormat = "game-%s-%d-%d.csv"         // date, schedule, team
)

// CSVWriter writes game sheets as CSV, either one combined file per
// schedule and team or one file per game
type CSVWriter struct {
	dir      string
	separate bool

	mu    sync.Mutex
	run   models.Run
	file  *os.File
	csv   *csv.Writer
	paths []string
	begun bool
}

// Ensure CSVWriter implements RowSink
var _ contracts.RowSink = (*CSVWriter)(nil)

// NewCSVWriter creates a writer placing files in dir
func NewCSVWriter(dir string, separate bool) *CSVWriter {
	if dir == "" {
		dir = "."
	}
	return &CSVWriter{dir: dir, separate: separate}
}

// Name identifies the sink in logs
func (w *CSVWriter) Name() string {
	return "csv"
}

// Begin prepares the output. In combined mode any previous file for the
// same season, schedule and team is replaced and the header written once.
func (w *CSVWriter) Begin(_ context.Context, run models.Run) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.begun {
		return errors.New("csv writer already started")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", w.dir)
	}

	w.run = run
	w.begun = true

	if w.separate {
		return nil
	}

	path := filepath.Join(w.dir, fmt.Sprintf(combinedFileFormat, run.SeasonID, run.ScheduleID, run.TeamID))
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	w.file = file
	w.csv = csv.NewWriter(file)
	w.paths = append(w.paths, path)

	if err := w.csv.Write(models.RowHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	w.csv.Flush()
	return w.csv.Error()
}

// WriteGame appends a game's rows
func (w *CSVWriter) WriteGame(_ context.Context, sheet *models.GameSheet) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.begun {
		return errors.New("csv writer not started")
	}

	if w.separate {
		return w.writeSeparate(sheet)
	}

	if err := writeRows(w.csv, sheet.Rows); err != nil {
		return errors.Wrapf(err, "write game %d", sheet.Game.GameID)
	}
	return nil
}

func (w *CSVWriter) writeSeparate(sheet *models.GameSheet) error {
	path := filepath.Join(w.dir, fmt.Sprintf(separateFileFormat, sheet.Game.Date, w.run.ScheduleID, w.run.TeamID))

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	out := csv.NewWriter(file)
	err = out.Write(models.RowHeader)
	if err == nil {
		err = writeRows(out, sheet.Rows)
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	w.paths = append(w.paths, path)
	return nil
}

// Close flushes and closes the combined file
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	w.csv.Flush()
	err := w.csv.Error()
	if closeErr := w.file.Close(); err == nil {
		err = closeErr
	}
	w.file = nil
	return err
}

// Paths returns every file written so far
func (w *CSVWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, len(w.paths))
	copy(out, w.paths)
	return out
}

func writeRows(out *csv.Writer, rows []models.Row) error {
	for _, row := range rows {
		if err := out.Write(row.Record()); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
