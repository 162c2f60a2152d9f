package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"synthdata-wizard-api/internal/dto"
	"synthdata-wizard-api/internal/response"
	"synthdata-wizard-api/internal/service"
)

// DetectionHandler proxies the distribution detection and curve fit collaborators
type DetectionHandler struct {
	wizardService service.WizardService
}

func NewDetectionHandler(wizardService service.WizardService) *DetectionHandler {
	return &DetectionHandler{
		wizardService: wizardService,
	}
}

// upload is an opened multipart file together with its client-side name
type upload struct {
	multipart.File
	filename string
}

// openUpload opens the "file" form field or answers 400
func openUpload(c *gin.Context) (*upload, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "file is required")
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "file cannot be read")
		return nil, false
	}
	return &upload{File: file, filename: header.Filename}, true
}

// DetectColumns godoc
// @Summary      업로드 파일 컬럼 목록
// @Tags         detection
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV or spreadsheet"
// @Success      200 {object} response.SuccessResponse{data=domain.ColumnList}
// @Failure      502 {object} response.ErrorResponse
// @Router       /detect-distribution [post]
func (h *DetectionHandler) DetectColumns(c *gin.Context) {
	file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	columns, err := h.wizardService.DetectColumns(c.Request.Context(), file.filename, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, columns)
}

// DetectColumn godoc
// @Summary      컬럼 분포 감지
// @Tags         detection
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV or spreadsheet"
// @Param        column formData string true "Column name"
// @Success      200 {object} response.SuccessResponse{data=domain.ColumnDetection}
// @Failure      502 {object} response.ErrorResponse
// @Router       /detect-distribution/column [post]
func (h *DetectionHandler) DetectColumn(c *gin.Context) {
	column := c.PostForm("column")
	file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	detection, err := h.wizardService.DetectColumn(c.Request.Context(), file.filename, file, column)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, detection)
}

// FitCurve godoc
// @Summary      곡선 분포 피팅
// @Tags         detection
// @Accept       json
// @Produce      json
// @Param        request body dto.CurveRequest true "Normalised points"
// @Success      200 {object} response.SuccessResponse{data=domain.CurveFit}
// @Failure      502 {object} response.ErrorResponse
// @Router       /fit-distribution [post]
func (h *DetectionHandler) FitCurve(c *gin.Context) {
	var req dto.CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fit, err := h.wizardService.FitCurve(c.Request.Context(), req.Points)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, fit)
}
