package api

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/kestrel-dev/shelf-api/internal/api/shared"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/service"
)

// LibraryHandler handles book and borrow HTTP requests
type LibraryHandler struct {
	libraryService service.LibraryService
	queryOpts      []query.Option
	logger         *slog.Logger
}

// NewLibraryHandler creates a new LibraryHandler. queryOpts configure the
// book list query builder.
func NewLibraryHandler(
	libraryService service.LibraryService,
	queryOpts []query.Option,
	logger *slog.Logger,
) *LibraryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LibraryHandler")
	}
	return &LibraryHandler{
		libraryService: libraryService,
		queryOpts:      queryOpts,
		logger:         logger.With(slog.String("component", "library_handler")),
	}
}

// ListBooks handles GET /api/books requests
func (h *LibraryHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	b := listBuilder(r, append(slices.Clone(h.queryOpts), query.WithLogger(log)))
	if err := b.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	books, pagination, err := h.libraryService.ListBooks(r.Context(), b)
	if err != nil {
		HandleAPIError(w, r, err, "Error retrieving books")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookListResponse{
		Books:      books,
		Pagination: pagination,
	})
}

// GetBook handles GET /api/books/{id} requests
func (h *LibraryHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	book, err := h.libraryService.GetBook(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Error retrieving book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookResponse{Success: true, Data: book})
}

// CreateBook handles POST /api/books requests
func (h *LibraryHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.libraryService.CreateBook(r.Context(), req.Details())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, book)
}

// UpdateBook handles PATCH /api/books/{id} requests
func (h *LibraryHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.libraryService.UpdateBook(r.Context(), id, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err, "Server error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/{id} requests
func (h *LibraryHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.libraryService.DeleteBook(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgBookDeleted})
}
