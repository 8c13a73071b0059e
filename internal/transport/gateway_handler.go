package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shopgate/internal/domain"
	"shopgate/internal/middleware"
	"shopgate/internal/repository"
	"shopgate/internal/service"
	"shopgate/internal/upload"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

// GatewayHandler exposes the generic CRUD gateway over HTTP: one endpoint
// family, model and id selected by query parameters.
type GatewayHandler struct {
	gateway service.GatewayService
	logger  *zap.Logger
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(gateway service.GatewayService, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// RegisterRoutes registers the gateway endpoint family.
func (h *GatewayHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/dbhandler", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// Get serves collection and single-record reads.
func (h *GatewayHandler) Get(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	id := r.URL.Query().Get("id")

	var (
		result any
		err    error
	)
	if id == "" {
		result, err = h.gateway.List(r.Context(), model)
	} else {
		result, err = h.gateway.Get(r.Context(), model, id)
	}

	if err != nil {
		h.respondError(w, r, err, "Failed to fetch items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Create serves record creation, including file uploads and the cart pricing
// path.
func (h *GatewayHandler) Create(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")

	// The model check always runs before the body is touched.
	if _, err := domain.ParseModel(model); err != nil {
		h.respondError(w, r, err, "Failed to create item")
		return
	}

	fields, files, err := parseGatewayForm(r)
	if err != nil {
		h.logger.Debug("Failed to parse create form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.gateway.Create(r.Context(), model, fields, files)
	if err != nil {
		h.respondError(w, r, err, "Failed to create item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, created)
}

// Update serves partial updates; the record id travels in the form body.
func (h *GatewayHandler) Update(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")

	if _, err := domain.ParseModel(model); err != nil {
		h.respondError(w, r, err, "Failed to update item")
		return
	}

	fields, files, err := parseGatewayForm(r)
	if err != nil {
		h.logger.Debug("Failed to parse update form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.gateway.Update(r.Context(), model, fields, files)
	if err != nil {
		h.respondError(w, r, err, "Failed to update item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete removes the record identified by the model and id query parameters.
func (h *GatewayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	id := r.URL.Query().Get("id")

	if err := h.gateway.Delete(r.Context(), model, id); err != nil {
		h.respondError(w, r, err, "Failed to delete item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// respondError maps gateway errors onto the fixed client-visible taxonomy.
// Everything else is logged with detail and reported generically.
func (h *GatewayHandler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUnknownModel):
		h.logger.Debug("Invalid model",
			zap.String("model", r.URL.Query().Get("model")),
			zap.String("method", r.Method),
		)
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid model")
	case errors.Is(err, domain.ErrMissingID):
		h.logger.Debug("Missing id",
			zap.String("model", r.URL.Query().Get("model")),
			zap.String("method", r.Method),
		)
		middleware.RespondWithError(w, http.StatusBadRequest, "Missing id")
	case errors.Is(err, repository.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Document not found")
	default:
		h.logger.Error("Gateway operation failed",
			zap.Error(err),
			zap.String("model", r.URL.Query().Get("model")),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// parseGatewayForm extracts the submitted fields and files from a multipart
// or urlencoded body. A plain-string "file" field is treated as a passthrough
// upload (already a URL or data URI).
func parseGatewayForm(r *http.Request) (map[string]string, []upload.Input, error) {
	contentType := r.Header.Get("Content-Type")

	fields := map[string]string{}
	files := []upload.Input{}

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}

		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}

		for _, header := range r.MultipartForm.File["file"] {
			f, err := header.Open()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read uploaded file: %w", err)
			}

			files = append(files, upload.Input{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, nil, fmt.Errorf("failed to parse form: %w", err)
		}

		for key, values := range r.PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}

	if len(files) == 0 {
		if raw := fields["file"]; raw != "" {
			files = append(files, upload.Input{Remote: raw})
		}
	}

	return fields, files, nil
}
