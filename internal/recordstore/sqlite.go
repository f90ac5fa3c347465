package recordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/contacthub/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contacts (
	Id             INTEGER PRIMARY KEY AUTOINCREMENT,
	First_Name_c   TEXT,
	Last_Name_c    TEXT,
	Email_c        TEXT,
	Phone_c        TEXT,
	Company_c      TEXT,
	Position_c     TEXT,
	Photo_c        TEXT,
	Tags_c         TEXT,
	Notes_c        TEXT,
	Email_Status_c TEXT,
	createdAt      DATETIME,
	updatedAt      DATETIME
);

CREATE INDEX IF NOT EXISTS idx_contacts_updated ON contacts(updatedAt);
`

// SQLite is a persistent record store. AUTOINCREMENT ids are never reused.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("recordstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("recordstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("recordstore: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

var _ Client = (*SQLite)(nil)

// Seed inserts records with their ids when the table is empty. It returns
// the number of inserted rows.
func (s *SQLite) Seed(ctx context.Context, records []models.Record) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("recordstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM contacts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("recordstore: count: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO contacts (`+columnList()+`) VALUES (`+placeholders(len(models.Columns))+`)`)
	if err != nil {
		return 0, fmt.Errorf("recordstore: prepare seed: %w", err)
	}
	defer stmt.Close()
	for _, r := range records {
		var id any
		if r.ID > 0 {
			id = r.ID
		}
		if _, err := stmt.ExecContext(ctx, id, r.FirstName, r.LastName, r.Email, r.Phone, r.Company,
			r.Position, r.Photo, r.Tags, r.Notes, r.EmailStatus, r.CreatedAt.UTC(), r.UpdatedAt.UTC()); err != nil {
			return 0, fmt.Errorf("recordstore: seed %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// FetchRecords returns every record, ordered by params.OrderBy (Id DESC by default).
func (s *SQLite) FetchRecords(ctx context.Context, entity string, params FetchParams) (*FetchResponse, error) {
	if entity != EntityContact {
		return &FetchResponse{Success: false, Message: msgUnknownEntity}, nil
	}
	orderBy := params.OrderBy
	if len(orderBy) == 0 {
		orderBy = []OrderBy{{Field: models.ColID, Direction: Desc}}
	}
	terms := make([]string, 0, len(orderBy))
	for _, o := range orderBy {
		if _, ok := sortColumns[o.Field]; !ok {
			return &FetchResponse{Success: false, Message: "cannot order by " + o.Field}, nil
		}
		dir := Asc
		if strings.EqualFold(o.Direction, Desc) {
			dir = Desc
		}
		terms = append(terms, quote(o.Field)+" "+dir)
	}

	rows, err := s.conn.QueryContext(ctx, `SELECT `+columnList()+` FROM contacts ORDER BY `+strings.Join(terms, ", "))
	if err != nil {
		return nil, fmt.Errorf("recordstore: fetch: %w", err)
	}
	defer rows.Close()

	out := []models.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recordstore: fetch: %w", err)
	}
	return &FetchResponse{Success: true, Data: out}, nil
}

// GetRecordByID returns one record.
func (s *SQLite) GetRecordByID(ctx context.Context, entity string, id int, _ GetParams) (*GetResponse, error) {
	if entity != EntityContact {
		return &GetResponse{Success: false, Message: msgUnknownEntity}, nil
	}
	r, err := s.get(ctx, s.conn, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &GetResponse{Success: false, Message: MsgNotFound}, nil
	}
	if err != nil {
		return nil, err
	}
	return &GetResponse{Success: true, Data: &r}, nil
}

// CreateRecord inserts each record; the database assigns ids.
func (s *SQLite) CreateRecord(ctx context.Context, entity string, req BatchRequest) (*BatchResponse, error) {
	if entity != EntityContact {
		return &BatchResponse{Success: false, Message: msgUnknownEntity}, nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("recordstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	results := make([]Result, len(req.Records))
	for i, p := range req.Records {
		if errs := validatePatch(p, true); len(errs) > 0 {
			results[i] = failed(errs)
			continue
		}
		cols, args := patchColumns(p)
		query := `INSERT INTO contacts DEFAULT VALUES`
		if len(cols) > 0 {
			query = `INSERT INTO contacts (` + strings.Join(cols, ", ") + `) VALUES (` + placeholders(len(cols)) + `)`
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("recordstore: insert: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("recordstore: last insert id: %w", err)
		}
		r, err := s.get(ctx, tx, int(id))
		if err != nil {
			return nil, err
		}
		results[i] = Result{Success: true, Data: &r}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("recordstore: commit: %w", err)
	}
	return &BatchResponse{Success: true, Results: results}, nil
}

// UpdateRecord writes only the present columns of each patch.
func (s *SQLite) UpdateRecord(ctx context.Context, entity string, req BatchRequest) (*BatchResponse, error) {
	if entity != EntityContact {
		return &BatchResponse{Success: false, Message: msgUnknownEntity}, nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("recordstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	results := make([]Result, len(req.Records))
	for i, p := range req.Records {
		if _, err := s.get(ctx, tx, p.ID); errors.Is(err, sql.ErrNoRows) {
			results[i] = Result{Success: false, Message: MsgNotFound}
			continue
		} else if err != nil {
			return nil, err
		}
		if errs := validatePatch(p, false); len(errs) > 0 {
			results[i] = failed(errs)
			continue
		}
		cols, args := patchColumns(p)
		if len(cols) > 0 {
			sets := make([]string, len(cols))
			for j, c := range cols {
				sets[j] = c + " = ?"
			}
			args = append(args, p.ID)
			if _, err := tx.ExecContext(ctx, `UPDATE contacts SET `+strings.Join(sets, ", ")+` WHERE Id = ?`, args...); err != nil {
				return nil, fmt.Errorf("recordstore: update: %w", err)
			}
		}
		r, err := s.get(ctx, tx, p.ID)
		if err != nil {
			return nil, err
		}
		results[i] = Result{Success: true, Data: &r}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("recordstore: commit: %w", err)
	}
	return &BatchResponse{Success: true, Results: results}, nil
}

// DeleteRecord removes the named records.
func (s *SQLite) DeleteRecord(ctx context.Context, entity string, req DeleteRequest) (*DeleteResponse, error) {
	if entity != EntityContact {
		return &DeleteResponse{Success: false, Message: msgUnknownEntity}, nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("recordstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	results := make([]DeleteResult, len(req.RecordIDs))
	for i, id := range req.RecordIDs {
		res, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE Id = ?`, id)
		if err != nil {
			return nil, fmt.Errorf("recordstore: delete: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			results[i] = DeleteResult{Success: false, Message: MsgNotFound}
			continue
		}
		results[i] = DeleteResult{Success: true}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("recordstore: commit: %w", err)
	}
	return &DeleteResponse{Success: true, Results: results}, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) get(ctx context.Context, q queryer, id int) (models.Record, error) {
	row := q.QueryRowContext(ctx, `SELECT `+columnList()+` FROM contacts WHERE Id = ?`, id)
	r, err := scanRecord(row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("recordstore: get %d: %w", id, err)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads a row in models.Columns order. NULL columns become zero values.
func scanRecord(sc scanner) (models.Record, error) {
	var (
		r                                                   models.Record
		first, last, email, phone, company, position, photo sql.NullString
		tags, notes, status                                 sql.NullString
		createdAt, updatedAt                                sql.NullTime
	)
	if err := sc.Scan(&r.ID, &first, &last, &email, &phone, &company, &position, &photo,
		&tags, &notes, &status, &createdAt, &updatedAt); err != nil {
		return r, err
	}
	r.FirstName = first.String
	r.LastName = last.String
	r.Email = email.String
	r.Phone = phone.String
	r.Company = company.String
	r.Position = position.String
	r.Photo = photo.String
	r.Tags = tags.String
	r.Notes = notes.String
	r.EmailStatus = status.String
	r.CreatedAt = createdAt.Time
	r.UpdatedAt = updatedAt.Time
	return r, nil
}

func patchColumns(p models.RecordPatch) ([]string, []any) {
	vals := p.Values()
	cols := make([]string, len(vals))
	args := make([]any, len(vals))
	for i, v := range vals {
		cols[i] = quote(v.Name)
		if t, ok := v.Value.(time.Time); ok {
			args[i] = t.UTC()
			continue
		}
		args[i] = v.Value
	}
	return cols, args
}

func columnList() string {
	quoted := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

func quote(col string) string {
	return `"` + col + `"`
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
