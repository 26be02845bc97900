package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/api/shared"
	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
)

// Borrow handles POST /api/borrow requests. The borrow number is checked
// before the book is looked up.
func (h *LibraryHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BorrowRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	n, err := req.Count()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: bookId has invalid format", domain.ErrInvalidID), "")
		return
	}

	book, borrow, err := h.libraryService.Borrow(r.Context(), bookID, n)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to borrow book")
		return
	}

	log.Debug("borrow recorded",
		slog.String("borrow_id", borrow.ID.String()),
		slog.Int("updated_copies", book.Copies))
	shared.RespondWithJSON(w, r, http.StatusCreated, BorrowResponse{
		Message:       MsgBookBorrowed,
		Borrow:        borrow,
		UpdatedCopies: book.Copies,
	})
}

// ListBorrows handles GET /api/borrow requests
func (h *LibraryHandler) ListBorrows(w http.ResponseWriter, r *http.Request) {
	records, err := h.libraryService.ListBorrows(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Error retrieving borrow data")
		return
	}

	msg := MsgNoBorrowsFound
	if len(records) > 0 {
		msg = MsgBorrowsRetrieved
	}
	if records == nil {
		records = []domain.BorrowRecord{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BorrowListResponse{Message: msg, Data: records})
}
