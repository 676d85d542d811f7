// Package ingest coordinates the upload pipeline: decode, validate,
// duplicate-check and persist one spreadsheet batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"consolidate/internal/checksum"
	"consolidate/internal/config"
	"consolidate/internal/sheet"
	"consolidate/internal/store"
)

// RequiredColumns are the normalized column names every uploaded file must
// carry. These are the names the registration portals export.
var RequiredColumns = []string{
	"srocode", "internaldocumentnumber", "docno", "docname",
	"registrationdate", "sroname", "micrno", "bank_type",
	"party_code", "sellerparty", "purchaserparty", "propertydescription",
	"areaname", "consideration_amt", "marketvalue", "dateofexecution",
	"stampdutypaid", "registrationfees", "status",
}

// Result summarizes a successful ingestion.
type Result struct {
	BatchID       string         `json:"batch_id"`
	FileName      string         `json:"filename"`
	RowsProcessed int            `json:"rows_processed"`
	Preview       []store.Record `json:"preview"`
}

// Ingestor runs the ingestion pipeline against a store.
type Ingestor struct {
	store *store.Store
	cfg   *config.Config
	log   *logrus.Logger
}

// New builds an Ingestor. The config decides where uploads are staged.
func New(st *store.Store, cfg *config.Config, log *logrus.Logger) *Ingestor {
	return &Ingestor{store: st, cfg: cfg, log: log}
}

// Ingest processes one uploaded spreadsheet end to end. The staged copy of
// the upload is removed on every exit path; the store is only written in the
// final step, inside a single transaction.
func (ing *Ingestor) Ingest(ctx context.Context, fileName string, data []byte) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".xls" && ext != ".xlsx" {
		return nil, &InputError{Msg: "Invalid file type. Only .xls and .xlsx files are allowed"}
	}

	batchID := uuid.New().String()
	now := time.Now()
	storedName := now.Format("20060102_150405") + "_" + filepath.Base(fileName)

	if err := os.MkdirAll(ing.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	stagedPath := filepath.Join(ing.cfg.UploadDir, storedName)
	if err := os.WriteFile(stagedPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer func() {
		if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
			ing.log.WithFields(logrus.Fields{"batch_id": batchID, "path": stagedPath}).
				Warnf("cleanup failed: %v", err)
		}
	}()

	table, err := sheet.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, errors.New("file is empty or could not be read")
	}

	table.NormalizeColumns()
	if err := table.RequireColumns(RequiredColumns); err != nil {
		return nil, err
	}

	records := buildRecords(table)

	keys := make([]store.BusinessKey, len(records))
	for i, r := range records {
		keys[i] = r.Key()
	}
	// The check reads the whole key set in one query. A store failure here
	// aborts the batch instead of waving it through.
	conflictFile, found, err := ing.store.FindConflict(ctx, keys)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, &DuplicateError{FileName: conflictFile}
	}

	hash := checksum.BatchHash(keys)
	uploadDate := now.Format(time.RFC3339)
	for i := range records {
		records[i].FileName = storedName
		records[i].UploadDate = uploadDate
		records[i].DataHash = hash
	}

	if err := ing.store.InsertBatch(ctx, records); err != nil {
		return nil, err
	}

	ing.log.WithFields(logrus.Fields{
		"batch_id": batchID,
		"filename": storedName,
		"rows":     len(records),
	}).Info("batch ingested")

	preview := records
	if len(preview) > 5 {
		preview = preview[:5]
	}
	return &Result{
		BatchID:       batchID,
		FileName:      storedName,
		RowsProcessed: len(records),
		Preview:       preview,
	}, nil
}

// buildRecords maps table rows onto Records. Missing cells become empty
// strings and every value is stored trimmed.
func buildRecords(table *sheet.Table) []store.Record {
	idx := table.ColumnIndex()
	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]store.Record, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = store.Record{
			SROCode:                cell(row, "srocode"),
			InternalDocumentNumber: cell(row, "internaldocumentnumber"),
			DocNo:                  cell(row, "docno"),
			DocName:                cell(row, "docname"),
			RegistrationDate:       cell(row, "registrationdate"),
			SROName:                cell(row, "sroname"),
			MICRNo:                 cell(row, "micrno"),
			BankType:               cell(row, "bank_type"),
			PartyCode:              cell(row, "party_code"),
			SellerParty:            cell(row, "sellerparty"),
			PurchaserParty:         cell(row, "purchaserparty"),
			PropertyDescription:    cell(row, "propertydescription"),
			AreaName:               cell(row, "areaname"),
			ConsiderationAmt:       cell(row, "consideration_amt"),
			MarketValue:            cell(row, "marketvalue"),
			DateOfExecution:        cell(row, "dateofexecution"),
			StampDutyPaid:          cell(row, "stampdutypaid"),
			RegistrationFees:       cell(row, "registrationfees"),
			Status:                 cell(row, "status"),
		}
	}
	return records
}
