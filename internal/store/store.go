// Package store persists ingested registration records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicateKey is returned when an insert collides with the unique
// business-key index.
var ErrDuplicateKey = errors.New("record with the same business key already exists")

// Record is one ingested registration transaction. Every business field is
// stored as trimmed text; id is assigned by the store.
type Record struct {
	ID                     int64  `json:"id"`
	SROCode                string `json:"srocode"`
	InternalDocumentNumber string `json:"internaldocumentnumber"`
	DocNo                  string `json:"docno"`
	DocName                string `json:"docname"`
	RegistrationDate       string `json:"registrationdate"`
	SROName                string `json:"sroname"`
	MICRNo                 string `json:"micrno"`
	BankType               string `json:"bank_type"`
	PartyCode              string `json:"party_code"`
	SellerParty            string `json:"sellerparty"`
	PurchaserParty         string `json:"purchaserparty"`
	PropertyDescription    string `json:"propertydescription"`
	AreaName               string `json:"areaname"`
	ConsiderationAmt       string `json:"consideration_amt"`
	MarketValue            string `json:"marketvalue"`
	DateOfExecution        string `json:"dateofexecution"`
	StampDutyPaid          string `json:"stampdutypaid"`
	RegistrationFees       string `json:"registrationfees"`
	Status                 string `json:"status"`
	FileName               string `json:"file_name"`
	UploadDate             string `json:"upload_date"`
	DataHash               string `json:"data_hash"`
}

// BusinessKey is the 5-tuple that identifies a unique transaction.
type BusinessKey struct {
	DocNo                  string
	InternalDocumentNumber string
	RegistrationDate       string
	SellerParty            string
	PurchaserParty         string
}

// Key returns the record's trimmed business key.
func (r Record) Key() BusinessKey {
	return BusinessKey{
		DocNo:                  strings.TrimSpace(r.DocNo),
		InternalDocumentNumber: strings.TrimSpace(r.InternalDocumentNumber),
		RegistrationDate:       strings.TrimSpace(r.RegistrationDate),
		SellerParty:            strings.TrimSpace(r.SellerParty),
		PurchaserParty:         strings.TrimSpace(r.PurchaserParty),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS registrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	srocode TEXT,
	internaldocumentnumber TEXT,
	docno TEXT,
	docname TEXT,
	registrationdate TEXT,
	sroname TEXT,
	micrno TEXT,
	bank_type TEXT,
	party_code TEXT,
	sellerparty TEXT,
	purchaserparty TEXT,
	propertydescription TEXT,
	areaname TEXT,
	consideration_amt TEXT,
	marketvalue TEXT,
	dateofexecution TEXT,
	stampdutypaid TEXT,
	registrationfees TEXT,
	status TEXT,
	file_name TEXT,
	upload_date TEXT,
	data_hash TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_business_key
	ON registrations (docno, internaldocumentnumber, registrationdate, sellerparty, purchaserparty);
`

const recordColumns = `id, srocode, internaldocumentnumber, docno, docname,
	registrationdate, sroname, micrno, bank_type, party_code, sellerparty,
	purchaserparty, propertydescription, areaname, consideration_amt,
	marketvalue, dateofexecution, stampdutypaid, registrationfees, status,
	file_name, upload_date, data_hash`

// sortableColumns is the closed set of columns List accepts for ordering.
// Caller input never reaches the SQL text directly.
var sortableColumns = map[string]bool{
	"id": true, "srocode": true, "internaldocumentnumber": true,
	"docno": true, "docname": true, "registrationdate": true,
	"sroname": true, "micrno": true, "bank_type": true, "party_code": true,
	"sellerparty": true, "purchaserparty": true, "propertydescription": true,
	"areaname": true, "consideration_amt": true, "marketvalue": true,
	"dateofexecution": true, "stampdutypaid": true, "registrationfees": true,
	"status": true, "file_name": true, "upload_date": true, "data_hash": true,
}

// SortableColumn reports whether name may be used as a sort key.
func SortableColumn(name string) bool {
	return sortableColumns[name]
}

// Store is a SQLite-backed record store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// conflictChunkSize bounds how many keys one lookup query binds. Each key
// takes 5 placeholders and SQLite caps bound variables at 32766, so large
// daily extracts are checked in fixed-size groups.
const conflictChunkSize = 500

// FindConflict checks the key set against the store in batched queries and
// returns the source filename of the first existing record that shares a
// business key. Query failures propagate; a duplicate check that cannot read
// the store must not pass the batch through.
func (s *Store) FindConflict(ctx context.Context, keys []BusinessKey) (string, bool, error) {
	for start := 0; start < len(keys); start += conflictChunkSize {
		end := start + conflictChunkSize
		if end > len(keys) {
			end = len(keys)
		}
		fileName, found, err := s.findConflictChunk(ctx, keys[start:end])
		if err != nil || found {
			return fileName, found, err
		}
	}
	return "", false, nil
}

func (s *Store) findConflictChunk(ctx context.Context, keys []BusinessKey) (string, bool, error) {
	placeholders := make([]string, len(keys))
	args := make([]any, 0, len(keys)*5)
	for i, k := range keys {
		placeholders[i] = "(?, ?, ?, ?, ?)"
		args = append(args, k.DocNo, k.InternalDocumentNumber, k.RegistrationDate, k.SellerParty, k.PurchaserParty)
	}
	query := `SELECT file_name FROM registrations
		WHERE (docno, internaldocumentnumber, registrationdate, sellerparty, purchaserparty)
		IN (VALUES ` + strings.Join(placeholders, ", ") + `) LIMIT 1`

	var fileName string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("duplicate lookup: %w", err)
	}
	return fileName, true, nil
}

// InsertBatch appends all records inside a single transaction. Any failure,
// including a unique-key collision from a concurrent upload, rolls back the
// whole batch.
func (s *Store) InsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return errors.New("no records to insert")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO registrations (
		srocode, internaldocumentnumber, docno, docname, registrationdate,
		sroname, micrno, bank_type, party_code, sellerparty, purchaserparty,
		propertydescription, areaname, consideration_amt, marketvalue,
		dateofexecution, stampdutypaid, registrationfees, status,
		file_name, upload_date, data_hash
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		res, err := stmt.ExecContext(ctx,
			r.SROCode, r.InternalDocumentNumber, r.DocNo, r.DocName,
			r.RegistrationDate, r.SROName, r.MICRNo, r.BankType, r.PartyCode,
			r.SellerParty, r.PurchaserParty, r.PropertyDescription, r.AreaName,
			r.ConsiderationAmt, r.MarketValue, r.DateOfExecution,
			r.StampDutyPaid, r.RegistrationFees, r.Status,
			r.FileName, r.UploadDate, r.DataHash,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w (docno %s)", ErrDuplicateKey, r.DocNo)
			}
			return fmt.Errorf("insert record: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			records[i].ID = id
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// ListOptions controls pagination and ordering for List.
type ListOptions struct {
	Page       int
	PerPage    int
	SortBy     string
	Descending bool
}

// List returns one page of records plus the total record count.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Record, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = 10
	}
	if opts.SortBy == "" {
		opts.SortBy = "upload_date"
	}
	if !SortableColumn(opts.SortBy) {
		return nil, 0, fmt.Errorf("unknown sort column %q", opts.SortBy)
	}
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.PerPage
	query := fmt.Sprintf(`SELECT %s FROM registrations ORDER BY %s %s LIMIT ? OFFSET ?`,
		recordColumns, opts.SortBy, direction)
	rows, err := s.db.QueryContext(ctx, query, opts.PerPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, opts.PerPage)
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.SROCode, &r.InternalDocumentNumber, &r.DocNo, &r.DocName,
			&r.RegistrationDate, &r.SROName, &r.MICRNo, &r.BankType, &r.PartyCode,
			&r.SellerParty, &r.PurchaserParty, &r.PropertyDescription, &r.AreaName,
			&r.ConsiderationAmt, &r.MarketValue, &r.DateOfExecution,
			&r.StampDutyPaid, &r.RegistrationFees, &r.Status,
			&r.FileName, &r.UploadDate, &r.DataHash,
		); err != nil {
			return nil, 0, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return records, total, nil
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}

// Purge deletes every record and resets the id sequence so the next insert
// starts from 1 again. Returns the number of rows removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM registrations`)
	if err != nil {
		return 0, fmt.Errorf("purge records: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge records: %w", err)
	}
	// sqlite_sequence has no row for the table until the first insert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'registrations'`); err != nil && !strings.Contains(err.Error(), "no such table") {
		return 0, fmt.Errorf("reset sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purge: %w", err)
	}
	return deleted, nil
}
