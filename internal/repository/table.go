package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopgate/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a read, update or delete matches no row.
	ErrNotFound = errors.New("document not found")
)

// ColumnKind drives coercion of submitted form values and row scanning.
type ColumnKind int

const (
	ColText ColumnKind = iota
	ColInt
	ColFloat
	ColBool
	ColTime
	ColJSON
)

// Column maps a wire field name to a database column.
type Column struct {
	Field string
	Name  string
	Kind  ColumnKind
}

// Table describes one gateway-managed table: its name, identifier convention
// and the closed set of writable columns. Fields outside the set are dropped
// rather than forwarded to the database.
type Table struct {
	Name    string
	IDKind  domain.IDKind
	Columns []Column
}

func (t Table) column(field string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// Store is the uniform data-access handle the registry hands to the gateway.
type Store interface {
	FindMany(ctx context.Context) ([]domain.Record, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Record, error)
	Create(ctx context.Context, fields domain.Record) (domain.Record, error)
	Update(ctx context.Context, id domain.ID, fields domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id domain.ID) error
}

type tableStore struct {
	db    *sql.DB
	table Table
}

// NewTableStore creates a generic Store over a single table.
func NewTableStore(db *sql.DB, table Table) Store {
	return &tableStore{db: db, table: table}
}

func (s *tableStore) selectList() string {
	names := make([]string, 0, len(s.table.Columns)+1)
	names = append(names, "id")
	for _, c := range s.table.Columns {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// FindMany returns every row in the table.
func (s *tableStore) FindMany(ctx context.Context) ([]domain.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", s.selectList(), s.table.Name)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", s.table.Name, err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", s.table.Name, err)
	}

	return records, nil
}

// FindByID returns the single row matching the identifier.
func (s *tableStore) FindByID(ctx context.Context, id domain.ID) (domain.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.selectList(), s.table.Name)

	rows, err := s.db.QueryContext(ctx, query, id.Value())
	if err != nil {
		return nil, fmt.Errorf("failed to find %s by id: %w", s.table.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to find %s by id: %w", s.table.Name, err)
		}
		return nil, ErrNotFound
	}

	rec, err := s.scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s row: %w", s.table.Name, err)
	}

	return rec, nil
}

// Create inserts a new row from the whitelisted submitted fields and returns
// the stored record. Text-id tables get a generated uuid when none is given.
func (s *tableStore) Create(ctx context.Context, fields domain.Record) (domain.Record, error) {
	columns := []string{}
	args := []any{}

	if s.table.IDKind == domain.IDText {
		rawID, _ := fields["id"].(string)
		if rawID == "" {
			rawID = uuid.NewString()
		}
		columns = append(columns, "id")
		args = append(args, rawID)
	}

	for _, c := range s.table.Columns {
		val, ok := fields[c.Field]
		if !ok {
			continue
		}
		arg, err := coerceValue(c, val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s.%s: %w", s.table.Name, c.Field, err)
		}
		columns = append(columns, c.Name)
		args = append(args, arg)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var query string
	if len(columns) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", s.table.Name, s.selectList())
	} else {
		query = fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			s.table.Name,
			strings.Join(columns, ", "),
			strings.Join(placeholders, ", "),
			s.selectList(),
		)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", s.table.Name, err)
		}
		return nil, fmt.Errorf("failed to create %s: no row returned", s.table.Name)
	}

	rec, err := s.scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan created %s: %w", s.table.Name, err)
	}

	return rec, nil
}

// Update merges only the submitted fields into the existing row. The id field
// itself is never part of the SET list.
func (s *tableStore) Update(ctx context.Context, id domain.ID, fields domain.Record) (domain.Record, error) {
	assignments := []string{}
	args := []any{id.Value()}

	for _, c := range s.table.Columns {
		val, ok := fields[c.Field]
		if !ok {
			continue
		}
		arg, err := coerceValue(c, val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s.%s: %w", s.table.Name, c.Field, err)
		}
		args = append(args, arg)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}

	if len(assignments) == 0 {
		return s.FindByID(ctx, id)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		s.table.Name,
		strings.Join(assignments, ", "),
		s.selectList(),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", s.table.Name, err)
		}
		return nil, ErrNotFound
	}

	rec, err := s.scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan updated %s: %w", s.table.Name, err)
	}

	return rec, nil
}

// Delete removes the single row matching the identifier.
func (s *tableStore) Delete(ctx context.Context, id domain.ID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table.Name)

	result, err := s.db.ExecContext(ctx, query, id.Value())
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.table.Name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// scanRecord scans the current row into a wire-named record using typed
// holders derived from the column kinds.
func (s *tableStore) scanRecord(rows *sql.Rows) (domain.Record, error) {
	holders := make([]any, 0, len(s.table.Columns)+1)

	if s.table.IDKind == domain.IDText {
		holders = append(holders, new(string))
	} else {
		holders = append(holders, new(int64))
	}

	for _, c := range s.table.Columns {
		switch c.Kind {
		case ColInt:
			holders = append(holders, new(sql.NullInt64))
		case ColFloat:
			holders = append(holders, new(sql.NullFloat64))
		case ColBool:
			holders = append(holders, new(sql.NullBool))
		case ColTime:
			holders = append(holders, new(sql.NullTime))
		case ColJSON:
			holders = append(holders, new([]byte))
		default:
			holders = append(holders, new(sql.NullString))
		}
	}

	if err := rows.Scan(holders...); err != nil {
		return nil, err
	}

	rec := domain.Record{}
	if s.table.IDKind == domain.IDText {
		rec["id"] = *holders[0].(*string)
	} else {
		rec["id"] = *holders[0].(*int64)
	}

	for i, c := range s.table.Columns {
		h := holders[i+1]
		switch c.Kind {
		case ColInt:
			v := h.(*sql.NullInt64)
			if v.Valid {
				rec[c.Field] = v.Int64
			} else {
				rec[c.Field] = nil
			}
		case ColFloat:
			v := h.(*sql.NullFloat64)
			if v.Valid {
				rec[c.Field] = v.Float64
			} else {
				rec[c.Field] = nil
			}
		case ColBool:
			v := h.(*sql.NullBool)
			if v.Valid {
				rec[c.Field] = v.Bool
			} else {
				rec[c.Field] = nil
			}
		case ColTime:
			v := h.(*sql.NullTime)
			if v.Valid {
				rec[c.Field] = v.Time
			} else {
				rec[c.Field] = nil
			}
		case ColJSON:
			raw := *h.(*[]byte)
			var decoded any
			if len(raw) == 0 {
				decoded = []any{}
			} else if err := json.Unmarshal(raw, &decoded); err != nil {
				return nil, fmt.Errorf("invalid JSON in %s.%s: %w", s.table.Name, c.Name, err)
			}
			rec[c.Field] = decoded
		default:
			v := h.(*sql.NullString)
			if v.Valid {
				rec[c.Field] = v.String
			} else {
				rec[c.Field] = nil
			}
		}
	}

	return rec, nil
}

// coerceValue converts a submitted value (usually a form string) into a
// driver-ready argument for the column.
func coerceValue(c Column, val any) (any, error) {
	switch c.Kind {
	case ColInt:
		switch v := val.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	case ColFloat:
		switch v := val.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, err
			}
			return f, nil
		}
	case ColBool:
		switch v := val.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}
			return b, nil
		}
	case ColTime:
		switch v := val.(type) {
		case time.Time:
			return v, nil
		case string:
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, err
			}
			return ts, nil
		}
	case ColJSON:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return raw, nil
	default:
		switch v := val.(type) {
		case string:
			return v, nil
		default:
			return fmt.Sprintf("%v", v), nil
		}
	}
	return nil, fmt.Errorf("unsupported value type %T", val)
}
