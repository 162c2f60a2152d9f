package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/dto"
	"synthdata-wizard-api/internal/response"
	"synthdata-wizard-api/internal/service"
	"synthdata-wizard-api/internal/wizard"
)

// Response headers of a binary export
const (
	HeaderExportDownloadURL = "X-Export-Download-URL"
	HeaderExportArchiveKey  = "X-Export-Archive-Key"
)

type SessionHandler struct {
	wizardService service.WizardService
}

func NewSessionHandler(wizardService service.WizardService) *SessionHandler {
	return &SessionHandler{
		wizardService: wizardService,
	}
}

// session resolves :sessionId or answers 404
func (h *SessionHandler) session(c *gin.Context) (*wizard.Session, bool) {
	session, err := h.wizardService.GetSession(c.Param("sessionId"))
	if err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	return session, true
}

// CreateSession godoc
// @Summary      위저드 세션 생성
// @Description  Starts with three empty rows; with a profileId the profile is loaded and autosaved
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateSessionRequest false "Optional profile"
// @Success      201 {object} response.SuccessResponse{data=wizard.View}
// @Failure      404 {object} response.ErrorResponse "Profile not found"
// @Router       /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	view, err := h.wizardService.CreateSession(c.Request.Context(), req.ProfileID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, view)
}

// GetSession godoc
// @Summary      세션 조회
// @Tags         sessions
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Success      200 {object} response.SuccessResponse{data=wizard.View}
// @Failure      404 {object} response.ErrorResponse
// @Router       /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	response.SendSuccess(c, http.StatusOK, session.View())
}

// CloseSession godoc
// @Summary      세션 종료
// @Description  Flushes a pending profile save before the session is dropped
// @Tags         sessions
// @Param        sessionId path string true "Session ID"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Router       /sessions/{sessionId} [delete]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	if err := h.wizardService.CloseSession(c.Request.Context(), c.Param("sessionId")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddField godoc
// @Summary      필드 추가
// @Tags         fields
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Success      201 {object} response.SuccessResponse{data=wizard.FieldView}
// @Router       /sessions/{sessionId}/fields [post]
func (h *SessionHandler) AddField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	response.SendSuccess(c, http.StatusCreated, session.AddField())
}

// PatchField godoc
// @Summary      필드 부분 수정
// @Description  A distributionMode key is routed to the mode lock
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body domain.FieldPatch true "Partial row"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Mode locked"
// @Router       /sessions/{sessionId}/fields/{fieldId} [patch]
func (h *SessionHandler) PatchField(c *gin.Context) {
	var patch domain.FieldPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.wizardService.PatchField(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), patch)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// RemoveField godoc
// @Summary      필드 삭제
// @Tags         fields
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Router       /sessions/{sessionId}/fields/{fieldId} [delete]
func (h *SessionHandler) RemoveField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.RemoveField(c.Param("fieldId")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveField godoc
// @Summary      필드 순서 변경
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.MoveFieldRequest true "Target index"
// @Success      200 {object} response.SuccessResponse{data=dto.MoveFieldResponse}
// @Router       /sessions/{sessionId}/fields/{fieldId}/position [put]
func (h *SessionHandler) MoveField(c *gin.Context) {
	var req dto.MoveFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	fields, err := session.MoveField(c.Param("fieldId"), *req.Index)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.MoveFieldResponse{Fields: fields})
}

// GetMode godoc
// @Summary      분포 모드 및 가용성 조회
// @Tags         modes
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ModeResponse}
// @Router       /sessions/{sessionId}/fields/{fieldId}/mode [get]
func (h *SessionHandler) GetMode(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	fieldID := c.Param("fieldId")
	mode, availability, err := session.Availability(fieldID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.ModeResponse{FieldID: fieldID, Mode: mode, Availability: availability})
}

// EnterMode godoc
// @Summary      분포 모드 진입
// @Tags         modes
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.EnterModeRequest true "Mode"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Failure      409 {object} response.ErrorResponse "Mode locked"
// @Router       /sessions/{sessionId}/fields/{fieldId}/mode [put]
func (h *SessionHandler) EnterMode(c *gin.Context) {
	var req dto.EnterModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.wizardService.EnterMode(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), req.Mode)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// ResetMode godoc
// @Summary      분포 모드 초기화
// @Tags         modes
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Router       /sessions/{sessionId}/fields/{fieldId}/mode [delete]
func (h *SessionHandler) ResetMode(c *gin.Context) {
	view, err := h.wizardService.EnterMode(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), domain.ModeNone)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// SaveDistribution godoc
// @Summary      분포 저장 (standard, upload, custom)
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.SaveDistributionRequest true "Mode and config"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Failure      409 {object} response.ErrorResponse "Mode locked"
// @Router       /sessions/{sessionId}/fields/{fieldId}/distribution [put]
func (h *SessionHandler) SaveDistribution(c *gin.Context) {
	var req dto.SaveDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.wizardService.SaveDistribution(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), req.Mode, req.Config)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// OpenDependency godoc
// @Summary      의존성 분포 편집 준비
// @Tags         distributions
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Success      200 {object} response.SuccessResponse{data=wizard.DependencyFlow}
// @Failure      400 {object} response.ErrorResponse "No dependency selected"
// @Router       /sessions/{sessionId}/fields/{fieldId}/dependency [get]
func (h *SessionHandler) OpenDependency(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	flow, err := session.OpenDependencyFlow(c.Param("fieldId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, flow)
}

// ApplyDependency godoc
// @Summary      의존성 분포 저장
// @Description  Written onto the dependency target; falls back to the requesting field when the target is missing
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body domain.DistributionUpdate true "Partial config"
// @Success      200 {object} response.SuccessResponse{data=wizard.DependencyResult}
// @Failure      409 {object} response.ErrorResponse "Mode locked"
// @Router       /sessions/{sessionId}/fields/{fieldId}/dependency [post]
func (h *SessionHandler) ApplyDependency(c *gin.Context) {
	var update domain.DistributionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.wizardService.ApplyDependency(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), update)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// GetValues godoc
// @Summary      필드 유효 값 목록 조회
// @Tags         values
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ValuesResponse}
// @Router       /sessions/{sessionId}/fields/{fieldId}/values [get]
func (h *SessionHandler) GetValues(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	fieldID := c.Param("fieldId")
	values, err := session.EffectiveValues(fieldID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.ValuesResponse{FieldID: fieldID, Values: values})
}

// SaveValues godoc
// @Summary      값 목록 저장
// @Tags         values
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.ValueListRequest true "Value source and lines"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Router       /sessions/{sessionId}/fields/{fieldId}/values [put]
func (h *SessionHandler) SaveValues(c *gin.Context) {
	var req dto.ValueListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	view, err := session.SaveValueList(c.Param("fieldId"), req.ValueSource, req.Lines())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// SaveUseCaseValues godoc
// @Summary      타입과 값 목록 함께 저장
// @Tags         values
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.UseCaseValuesRequest true "Type and values"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Router       /sessions/{sessionId}/fields/{fieldId}/use-case-values [put]
func (h *SessionHandler) SaveUseCaseValues(c *gin.Context) {
	var req dto.UseCaseValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	view, err := session.EditValuesFromUseCase(c.Param("fieldId"), req.Type, req.Values)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// DetectField godoc
// @Summary      업로드 파일로 분포 감지 후 적용
// @Tags         distributions
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        file formData file true "CSV or spreadsheet"
// @Param        column formData string true "Column name"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Failure      502 {object} response.ErrorResponse "Detection service failed"
// @Router       /sessions/{sessionId}/fields/{fieldId}/detection [post]
func (h *SessionHandler) DetectField(c *gin.Context) {
	column := c.PostForm("column")
	if column == "" {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "column is required")
		return
	}
	upload, ok := openUpload(c)
	if !ok {
		return
	}
	defer upload.Close()

	view, err := h.wizardService.DetectAndApply(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), upload.filename, upload, column)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// FitFieldCurve godoc
// @Summary      손으로 그린 곡선 피팅 후 적용
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        fieldId path string true "Field ID"
// @Param        request body dto.CurveRequest true "Normalised points"
// @Success      200 {object} response.SuccessResponse{data=wizard.FieldView}
// @Failure      502 {object} response.ErrorResponse "Fit service failed"
// @Router       /sessions/{sessionId}/fields/{fieldId}/curve [post]
func (h *SessionHandler) FitFieldCurve(c *gin.Context) {
	var req dto.CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.wizardService.FitAndApply(c.Request.Context(), c.Param("sessionId"), c.Param("fieldId"), req.Points)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, view)
}

// UpdateOptions godoc
// @Summary      내보내기 옵션 수정
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        request body domain.ExportOptionsPatch true "rowCount, format, lineEnding"
// @Success      200 {object} response.SuccessResponse{data=domain.ExportOptions}
// @Router       /sessions/{sessionId}/options [patch]
func (h *SessionHandler) UpdateOptions(c *gin.Context) {
	var patch domain.ExportOptionsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}
	response.SendSuccess(c, http.StatusOK, session.SetOptions(patch))
}

// GetFieldNames godoc
// @Summary      고유 필드 이름 목록
// @Tags         sessions
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Success      200 {object} response.SuccessResponse{data=[]string}
// @Router       /sessions/{sessionId}/field-names [get]
func (h *SessionHandler) GetFieldNames(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	response.SendSuccess(c, http.StatusOK, session.FieldNames())
}

// AddSheet godoc
// @Summary      시트 추가
// @Tags         sheets
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Success      201 {object} response.SuccessResponse{data=domain.ExportSheet}
// @Router       /sessions/{sessionId}/sheets [post]
func (h *SessionHandler) AddSheet(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	response.SendSuccess(c, http.StatusCreated, session.AddSheet())
}

// RenameSheet godoc
// @Summary      시트 이름 변경
// @Description  The locked default sheet is left unchanged
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        sheetId path string true "Sheet ID"
// @Param        request body dto.RenameSheetRequest true "New name"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ExportSheet}
// @Router       /sessions/{sessionId}/sheets/{sheetId} [patch]
func (h *SessionHandler) RenameSheet(c *gin.Context) {
	var req dto.RenameSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.sheetOp(c, func(s *wizard.Session, sheetID string) ([]domain.ExportSheet, error) {
		return s.RenameSheet(sheetID, req.Name)
	})
}

// RemoveSheet godoc
// @Summary      시트 삭제
// @Tags         sheets
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        sheetId path string true "Sheet ID"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ExportSheet}
// @Router       /sessions/{sessionId}/sheets/{sheetId} [delete]
func (h *SessionHandler) RemoveSheet(c *gin.Context) {
	h.sheetOp(c, func(s *wizard.Session, sheetID string) ([]domain.ExportSheet, error) {
		return s.RemoveSheet(sheetID)
	})
}

// ToggleSheetField godoc
// @Summary      시트 필드 포함 여부 전환
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        sheetId path string true "Sheet ID"
// @Param        request body dto.SheetFieldRequest true "Field name"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ExportSheet}
// @Router       /sessions/{sessionId}/sheets/{sheetId}/toggle [post]
func (h *SessionHandler) ToggleSheetField(c *gin.Context) {
	var req dto.SheetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.sheetOp(c, func(s *wizard.Session, sheetID string) ([]domain.ExportSheet, error) {
		return s.ToggleSheetField(sheetID, req.FieldName)
	})
}

// SelectAllSheetFields godoc
// @Summary      시트에 모든 필드 포함
// @Tags         sheets
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        sheetId path string true "Sheet ID"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ExportSheet}
// @Router       /sessions/{sessionId}/sheets/{sheetId}/select-all [post]
func (h *SessionHandler) SelectAllSheetFields(c *gin.Context) {
	h.sheetOp(c, func(s *wizard.Session, sheetID string) ([]domain.ExportSheet, error) {
		return s.SelectAllSheetFields(sheetID)
	})
}

// SelectNoSheetFields godoc
// @Summary      시트 필드 모두 해제
// @Tags         sheets
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Param        sheetId path string true "Sheet ID"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ExportSheet}
// @Router       /sessions/{sessionId}/sheets/{sheetId}/select-none [post]
func (h *SessionHandler) SelectNoSheetFields(c *gin.Context) {
	h.sheetOp(c, func(s *wizard.Session, sheetID string) ([]domain.ExportSheet, error) {
		return s.SelectNoSheetFields(sheetID)
	})
}

func (h *SessionHandler) sheetOp(c *gin.Context, op func(s *wizard.Session, sheetID string) ([]domain.ExportSheet, error)) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	sheets, err := op(session, c.Param("sheetId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, sheets)
}

// GetExportSpec godoc
// @Summary      내보내기 요청 미리보기
// @Tags         export
// @Produce      json
// @Param        sessionId path string true "Session ID"
// @Success      200 {object} response.SuccessResponse{data=domain.ExportSpec}
// @Router       /sessions/{sessionId}/export-spec [get]
func (h *SessionHandler) GetExportSpec(c *gin.Context) {
	spec, err := h.wizardService.ExportSpec(c.Param("sessionId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, spec)
}

// Export godoc
// @Summary      데이터셋 생성 및 다운로드
// @Tags         export
// @Produce      octet-stream
// @Param        sessionId path string true "Session ID"
// @Success      200 {file} binary
// @Failure      502 {object} response.ErrorResponse "Generator failed"
// @Router       /sessions/{sessionId}/export [post]
func (h *SessionHandler) Export(c *gin.Context) {
	result, err := h.wizardService.Export(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	if result.ArchiveKey != "" {
		c.Header(HeaderExportArchiveKey, result.ArchiveKey)
	}
	if result.DownloadURL != "" {
		c.Header(HeaderExportDownloadURL, result.DownloadURL)
	}
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
