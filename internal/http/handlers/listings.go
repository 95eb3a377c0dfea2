package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"listingforge/internal/domain"
	"listingforge/internal/middleware"
	"listingforge/internal/sqlinline"
)

// maxUploadBytes caps one multipart enqueue request.
const maxUploadBytes = 64 << 20

type enqueueResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ListingsEnqueue accepts a multipart request ("images" files plus optional
// "hints" and "language" fields), stages the uploads, and queues a
// generation job for the worker.
func (a *App) ListingsEnqueue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		a.error(w, http.StatusBadRequest, "invalid_input", "at least one image is required")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = middleware.LocaleFromContext(r.Context())
	}

	stagingDir := filepath.Join(a.Cfg.UploadDir, uuid.NewString())
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		a.error(w, http.StatusInternalServerError, "storage", "failed to stage uploads")
		return
	}
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		dest, err := saveUpload(fh, filepath.Join(stagingDir, filepath.Base(fh.Filename)))
		if err != nil {
			a.error(w, http.StatusInternalServerError, "storage", "failed to stage uploads")
			return
		}
		paths = append(paths, dest)
	}

	inputs := domain.GenerationInputs{
		ImagePaths: paths,
		Hints:      r.FormValue("hints"),
		Language:   language,
	}
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode inputs")
		return
	}

	var jobID string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QEnqueueJob, inputsJSON)
	if err := row.Scan(&jobID); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, enqueueResponse{JobID: jobID, Status: "QUEUED"})
}

// ListingStatus reports a job's state and, once it has succeeded, its result
// document. The optional marketplace query parameter projects the metadata
// into an Etsy, Shopify, or Amazon shape.
func (a *App) ListingStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectJob, jobID)
	var (
		id, status, workspaceDir, errorMessage string
		inputsJSON, resultJSON                 []byte
		createdAt, updatedAt                   time.Time
	)
	if err := row.Scan(&id, &status, &inputsJSON, &resultJSON, &workspaceDir, &errorMessage, &createdAt, &updatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}

	body := map[string]any{
		"id":         id,
		"status":     status,
		"inputs":     json.RawMessage(inputsJSON),
		"created_at": createdAt,
		"updated_at": updatedAt,
	}
	if workspaceDir != "" {
		body["workspace_dir"] = workspaceDir
	}
	if errorMessage != "" {
		body["error"] = errorMessage
	}

	if status == "SUCCEEDED" && len(resultJSON) > 0 && string(resultJSON) != "null" {
		var result domain.GenerationResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "stored result is unreadable")
			return
		}
		switch r.URL.Query().Get("marketplace") {
		case "":
			body["result"] = result
		case "etsy":
			body["result"] = domain.NewEtsyListing(result.Metadata)
		case "shopify":
			body["result"] = domain.NewShopifyProduct(result.Metadata)
		case "amazon":
			body["result"] = domain.NewAmazonListing(result.Metadata)
		default:
			a.error(w, http.StatusBadRequest, "bad_request", "unsupported marketplace")
			return
		}
	}
	a.json(w, http.StatusOK, body)
}

// ListingAssets lists the asset ledger rows recorded for a job.
func (a *App) ListingAssets(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListJobAssets, jobID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		var id, kind, path string
		var width, height int
		var bytes int64
		var createdAt time.Time
		if err := rows.Scan(&id, &kind, &path, &width, &height, &bytes, &createdAt); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"id":         id,
			"kind":       kind,
			"path":       path,
			"width":      width,
			"height":     height,
			"bytes":      bytes,
			"created_at": createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func saveUpload(fh *multipart.FileHeader, dest string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dest, nil
}
