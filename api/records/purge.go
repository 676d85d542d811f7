package records

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"consolidate/internal/store"
)

// DeleteAllData removes every stored record and resets the id sequence.
func DeleteAllData(st *store.Store, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := st.Purge(r.Context())
		if err != nil {
			log.Errorf("purge records: %v", err)
			writeError(w, http.StatusInternalServerError, "Error deleting data: "+err.Error())
			return
		}
		log.WithField("records_deleted", deleted).Info("store purged")
		writeJSON(w, http.StatusOK, map[string]any{
			"message":         "All records deleted successfully",
			"records_deleted": deleted,
		})
	}
}
