package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/presenter"
	"github.com/mkravets/student-profiles/pkg/resume"
)

type ResumesHandler struct {
	useCase       resume.UploadUseCase
	discrepancies resume.DiscrepancyReader
	maxBytes      int64
}

func NewResumesHandler(useCase resume.UploadUseCase, discrepancies resume.DiscrepancyReader, maxBytes int64) *ResumesHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20 // 10MB
	}
	return &ResumesHandler{useCase: useCase, discrepancies: discrepancies, maxBytes: maxBytes}
}

// mediaTypeFor maps a filename extension to the pipeline media type.
func mediaTypeFor(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return resume.MediaTypePDF, true
	case ".docx":
		return resume.MediaTypeDOCX, true
	}
	return "", false
}

// Upload ingests a resume file: stores a new immutable version, then
// best-effort extracts fields and reconciles them into the profile.
// @Summary Upload resume
// @Description Accepts a PDF/DOCX, stores it as the next version for the student and merges extracted skills into the profile.
// @Tags    resumes
// @Accept  multipart/form-data
// @Produce json
// @Param   id path int true "student id"
// @Param   resume formData file true "resume file (PDF/DOCX)"
// @Security BearerAuth
// @Success 201 {object} resume.UploadResult
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /students/{id}/resume [post]
func (h *ResumesHandler) Upload(c *fiber.Ctx) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	fh, err := c.FormFile("resume")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "resume file is required (pdf or docx)")
	}
	mediaType, ok := mediaTypeFor(fh.Filename)
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, resume.ErrUnsupportedFormat.Error())
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	result, err := h.useCase.Upload(c.Context(), studentID, fh.Filename, mediaType, data)
	if err != nil {
		switch {
		case errors.Is(err, resume.ErrUnsupportedFormat):
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, resume.ErrVersionConflict):
			return presenter.Error(c, http.StatusConflict, "concurrent upload detected, please retry")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to store resume")
		}
	}
	return presenter.JSON(c, http.StatusCreated, result)
}

// ListVersions returns the stored version history for a student.
// @Summary List resume versions
// @Tags    resumes
// @Produce json
// @Param   id path int true "student id"
// @Security BearerAuth
// @Success 200 {array} resume.Artifact
// @Router  /students/{id}/resumes [get]
func (h *ResumesHandler) ListVersions(c *fiber.Ctx) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.useCase.ListVersions(c.Context(), studentID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list resume versions")
	}
	if items == nil {
		items = []resume.Artifact{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Download streams the original payload of one stored version.
// @Summary Download resume version
// @Tags    resumes
// @Produce application/octet-stream
// @Param   id path int true "artifact id"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/download [get]
func (h *ResumesHandler) Download(c *fiber.Ctx) error {
	artifactID, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	file, err := h.useCase.Download(c.Context(), artifactID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "resume version not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load resume file")
	}
	c.Set(fiber.HeaderContentType, file.MediaType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.FileName))
	return c.Send(file.Data)
}

// Discrepancies returns the latest profile/resume mismatch set for review.
// @Summary Resume discrepancies
// @Tags    resumes
// @Produce json
// @Param   id path int true "student id"
// @Security BearerAuth
// @Success 200 {object} resume.DiscrepancyRecord
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /students/{id}/resume/discrepancies [get]
func (h *ResumesHandler) Discrepancies(c *fiber.Ctx) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	rec, err := h.discrepancies.GetDiscrepancies(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "no discrepancies recorded")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load discrepancies")
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
