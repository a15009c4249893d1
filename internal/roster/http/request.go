package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
)

const (
	maxJSONBody = 1 << 20

	// Five documents at the image ceiling plus the text fields.
	maxMultipartBody = 6*media.MaxImageSize + 1<<20
	multipartMemory  = 8 << 20
)

// loadActor resolves the caller from the authenticated subject. Seats and
// flags always come from the store, never from token claims.
func loadActor(r *http.Request, st store.Store) (policy.Actor, error) {
	return service.LoadActor(r.Context(), st, httpx.UserIDFromContext(r.Context()))
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return false
	}
	return true
}

// parseMultipart reads a bounded multipart form.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeBadRequest(w, "request body must be multipart/form-data within the size limit")
		return false
	}
	return true
}

// formFile returns the first file of field, or nil when absent.
func formFile(r *http.Request, field string) *media.Upload {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return media.FromFileHeader(files[0])
}

// formValues returns every non-empty value of field. Comma separated values
// are split so both repeated fields and "a,b" work.
func formValues(r *http.Request, field string) []string {
	var out []string
	for _, v := range r.MultipartForm.Value[field] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
