package records

import (
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"consolidate/internal/ingest"
)

const maxUploadBytes = 32 << 20

// UploadFile accepts a multipart spreadsheet upload and runs it through the
// ingestion pipeline.
func UploadFile(ing *ingest.Ingestor, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
			return
		}

		result, err := ing.Ingest(r.Context(), header.Filename, data)
		if err != nil {
			var inputErr *ingest.InputError
			status := http.StatusInternalServerError
			if errors.As(err, &inputErr) {
				status = http.StatusBadRequest
			}
			log.WithField("filename", header.Filename).Errorf("upload failed: %v", err)
			writeError(w, status, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "File uploaded and processed successfully",
			"filename":       result.FileName,
			"batch_id":       result.BatchID,
			"rows_processed": result.RowsProcessed,
			"preview":        result.Preview,
		})
	}
}
