package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"boostapi/internal/config"
	"boostapi/internal/interfaces"
	"boostapi/internal/middleware"
)

// allowedProofExtensions limits payment-proof uploads to images and PDFs.
var allowedProofExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

type PaymentProofHandler struct {
	repo          interfaces.BoostRequestRepository
	s3Client      *s3.Client
	bucket        string
	publicBaseURL string
}

func NewPaymentProofHandler(repo interfaces.BoostRequestRepository, s3Config *config.S3Config) *PaymentProofHandler {
	return &PaymentProofHandler{
		repo:          repo,
		s3Client:      s3Config.Client,
		bucket:        s3Config.Bucket,
		publicBaseURL: s3Config.PublicBaseURL,
	}
}

// UploadProof handles POST /api/v1/boosts/{id}/payment-proof. The image is
// stored as-is for manual admin review; nothing here verifies the payment.
// @Tags Boosts
// @Summary Attach a payment-proof image to a pending boost request
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Boost request id"
// @Param file formData file true "Proof image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/boosts/{id}/payment-proof [post]
func (h *PaymentProofHandler) UploadProof(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(requestID); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	const maxMemory = 10 << 20 // 10MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedProofExtensions[ext]
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "unsupported file type")
		return
	}

	key := "payment-proofs/" + uuid.New().String() + ext

	uploader := manager.NewUploader(h.s3Client)
	if _, err := uploader.Upload(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	}); err != nil {
		log.Printf("payment proof upload for request %s failed: %v", requestID, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "upload_failed", "Failed to store payment proof")
		return
	}

	url := strings.TrimSuffix(h.publicBaseURL, "/") + "/" + key

	// Only the owning seller may attach proof, and only while the request
	// is still PENDING review.
	if err := h.repo.SetPaymentProofURL(r.Context(), requestID, middleware.UserID(r), url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "no pending boost request with this id")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "upload_failed", "Failed to record payment proof")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"payment_proof_url": url})
}
