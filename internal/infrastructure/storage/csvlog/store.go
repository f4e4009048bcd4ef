package csvlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fundtrack/internal/domain/funding"
)

// ErrSchemaMismatch reports that an existing record file does not carry
// the expected column set and cannot be appended to.
var ErrSchemaMismatch = errors.New("record file schema mismatch")

// Columns is the stable durable-log schema. Resume mode requires this
// exact set in an existing file; anything else is a fatal mismatch so a
// stale file can never silently misalign appended records.
var Columns = []string{
	"timestamp",
	"equity",
	"notional",
	"leverage",
	"cumulative_received",
	"cumulative_paid",
	"cumulative_net",
	"daily_net",
	"monthly_net",
	"annual_net",
	"daily_yield",
	"monthly_yield",
	"annual_yield",
}

// Resume carries what a resumed session needs from the existing log:
// the original session start and the cumulative counters as of the last
// record. The realized window and watermarks come from the event log.
type Resume struct {
	SessionStart time.Time
	LastTime     time.Time
	Received     float64
	Paid         float64
	Records      int
}

// Store is the append-only CSV sample log. Each Append writes one whole
// record in a single write call so a crash mid-append cannot leave a
// half-written row in front of the next one.
type Store struct {
	f    *os.File
	path string
}

// Open prepares the log in one of two modes. With resume=false the file
// is truncated and a fresh header written. With resume=true an existing
// file is schema-checked and scanned, and appends continue after its
// last record; a missing or empty file degrades to a fresh session.
func Open(path string, resume bool) (*Store, *Resume, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}

	if resume {
		res, err := scan(path)
		if err != nil {
			return nil, nil, err
		}
		if res != nil {
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, err
			}
			return &Store{f: f, path: path}, res, nil
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	s := &Store{f: f, path: path}
	if err := s.writeHeader(); err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return s, nil, nil
}

func scan(path string) (*Resume, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("%w: %d columns, want %d", ErrSchemaMismatch, len(header), len(Columns))
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, header[i], col)
		}
	}

	var res Resume
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q", ErrSchemaMismatch, row[0])
		}
		if res.Records == 0 {
			res.SessionStart = ts
		}
		res.LastTime = ts
		res.Received, _ = strconv.ParseFloat(row[4], 64)
		res.Paid, _ = strconv.ParseFloat(row[5], 64)
		res.Records++
	}
	if res.Records == 0 {
		// header only: nothing to resume, but the schema was fine
		return nil, nil
	}
	return &res, nil
}

func (s *Store) writeHeader() error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	_, err := s.f.Write(buf.Bytes())
	return err
}

// Append writes one sample as a single whole-record write.
func (s *Store) Append(sample funding.Sample) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(record(sample)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if _, err := s.f.Write(buf.Bytes()); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *Store) Close() error { return s.f.Close() }

func record(sample funding.Sample) []string {
	return []string{
		sample.Time.UTC().Format(time.RFC3339Nano),
		num(sample.Equity),
		num(sample.GrossNotional),
		metric(sample.Leverage),
		num(sample.Received),
		num(sample.Paid),
		num(sample.Net),
		num(sample.DailyNet),
		num(sample.MonthlyNet),
		num(sample.AnnualNet),
		metric(sample.DailyYield),
		metric(sample.MonthlyYield),
		metric(sample.AnnualYield),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 12, 64)
}

// metric renders an undefined value as an empty field, never 0/Inf/NaN.
func metric(m funding.Metric) string {
	if !m.Defined {
		return ""
	}
	return num(m.Value)
}

// ReadAll loads every sample in the log, oldest first. Used by tests and
// offline consumers; the live path never re-reads history.
func ReadAll(path string) ([]funding.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	samples := make([]funding.Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(Columns) {
			return nil, fmt.Errorf("%w: %d fields in row", ErrSchemaMismatch, len(row))
		}
		ts, err := time.Parse(time.RFC3339Nano, row[0])
		if err != nil {
			return nil, err
		}
		samples = append(samples, funding.Sample{
			Time:          ts,
			Equity:        parseNum(row[1]),
			GrossNotional: parseNum(row[2]),
			Leverage:      parseMetric(row[3]),
			Received:      parseNum(row[4]),
			Paid:          parseNum(row[5]),
			Net:           parseNum(row[6]),
			DailyNet:      parseNum(row[7]),
			MonthlyNet:    parseNum(row[8]),
			AnnualNet:     parseNum(row[9]),
			DailyYield:    parseMetric(row[10]),
			MonthlyYield:  parseMetric(row[11]),
			AnnualYield:   parseMetric(row[12]),
		})
	}
	return samples, nil
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseMetric(s string) funding.Metric {
	if s == "" {
		return funding.Undefined()
	}
	return funding.DefinedMetric(parseNum(s))
}
