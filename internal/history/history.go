package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/ledger"
)

// Entry is one row in the history log.
type Entry struct {
	Timestamp   time.Time
	Action      ledger.Action
	Position    int
	OldCategory string
	OldAmount   string // empty when there was no previous value
	NewCategory string
	NewAmount   string // empty when there is no new value
}

// Header is the CSV header for the history log.
const Header = "timestamp,action,position,old_category,old_amount,new_category,new_amount"

const (
	numFields      = 7
	colTimestamp   = 0
	colAction      = 1
	colPosition    = 2
	colOldCategory = 3
	colOldAmount   = 4
	colNewCategory = 5
	colNewAmount   = 6
)

// FromChange builds an Entry for a ledger change made at ts.
func FromChange(ts time.Time, c ledger.Change) Entry {
	e := Entry{Timestamp: ts, Action: c.Action, Position: c.Position}
	if c.Before != nil {
		e.OldCategory = c.Before.Category
		e.OldAmount = c.Before.Amount.String()
	}
	if c.After != nil {
		e.NewCategory = c.After.Category
		e.NewAmount = c.After.Amount.String()
	}
	if c.Action == ledger.ActionImport {
		e.NewCategory = fmt.Sprintf("%d expenses", len(c.Added))
		total := decimal.Zero
		for _, exp := range c.Added {
			total = total.Add(exp.Amount)
		}
		e.NewAmount = total.String()
	}
	return e
}

// Summary renders the entry as one human-readable line.
func (e Entry) Summary() string {
	old := fmt.Sprintf("%s $%s", e.OldCategory, fixed(e.OldAmount))
	cur := fmt.Sprintf("%s $%s", e.NewCategory, fixed(e.NewAmount))
	ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
	switch e.Action {
	case ledger.ActionAdd:
		return fmt.Sprintf("%s  add     #%d  %s", ts, e.Position, cur)
	case ledger.ActionImport:
		return fmt.Sprintf("%s  import  #%d  %s", ts, e.Position, cur)
	case ledger.ActionDelete:
		return fmt.Sprintf("%s  delete  #%d  %s", ts, e.Position, old)
	default:
		return fmt.Sprintf("%s  %-6s  #%d  %s -> %s", ts, e.Action, e.Position, old, cur)
	}
}

func fixed(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return d.StringFixed(2)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colPosition] = strconv.Itoa(e.Position)
	row[colOldCategory] = e.OldCategory
	row[colOldAmount] = e.OldAmount
	row[colNewCategory] = e.NewCategory
	row[colNewAmount] = e.NewAmount
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	pos, err := strconv.Atoi(record[colPosition])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing position %q: %w", record[colPosition], err)
	}

	return Entry{
		Timestamp:   ts,
		Action:      ledger.Action(record[colAction]),
		Position:    pos,
		OldCategory: record[colOldCategory],
		OldAmount:   record[colOldAmount],
		NewCategory: record[colNewCategory],
		NewAmount:   record[colNewAmount],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if
// needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading history CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder appends one entry per ledger change. Errors go to OnError since
// change hooks cannot fail the mutation that triggered them.
type Recorder struct {
	Path    string
	Now     func() time.Time
	OnError func(error)
}

// Record is a ledger change hook.
func (r *Recorder) Record(c ledger.Change) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	if err := Append(r.Path, []Entry{FromChange(now().UTC(), c)}); err != nil && r.OnError != nil {
		r.OnError(err)
	}
}
