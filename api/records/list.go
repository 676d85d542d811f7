package records

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"consolidate/internal/store"
)

// ListData serves one page of stored records with display formatting
// applied. Sort column and direction are validated against a closed set
// before they go anywhere near the query.
func ListData(st *store.Store, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := intParam(q.Get("page"), 1)
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		perPage, err := intParam(q.Get("per_page"), 10)
		if err != nil {
			writeError(w, http.StatusBadRequest, "per_page must be an integer")
			return
		}
		if page < 1 {
			page = 1
		}
		if perPage < 1 {
			perPage = 10
		}

		sortBy := q.Get("sort_by")
		if sortBy == "" {
			sortBy = "upload_date"
		}
		if !store.SortableColumn(sortBy) {
			writeError(w, http.StatusBadRequest, "invalid sort column: "+sortBy)
			return
		}
		order := strings.ToLower(q.Get("order"))
		if order == "" {
			order = "desc"
		}
		if order != "asc" && order != "desc" {
			writeError(w, http.StatusBadRequest, "order must be asc or desc")
			return
		}

		recs, total, err := st.List(r.Context(), store.ListOptions{
			Page:       page,
			PerPage:    perPage,
			SortBy:     sortBy,
			Descending: order == "desc",
		})
		if err != nil {
			log.Errorf("list records: %v", err)
			writeError(w, http.StatusInternalServerError, "Error fetching data: "+err.Error())
			return
		}

		data := make([]store.Record, len(recs))
		for i, rec := range recs {
			data[i] = formatRecord(rec)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"data":        data,
			"total":       total,
			"page":        page,
			"per_page":    perPage,
			"total_pages": (total + perPage - 1) / perPage,
		})
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
