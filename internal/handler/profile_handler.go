package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/dto"
	"synthdata-wizard-api/internal/response"
	"synthdata-wizard-api/internal/service"
)

type ProfileHandler struct {
	profileStore service.ProfileStore
}

func NewProfileHandler(profileStore service.ProfileStore) *ProfileHandler {
	return &ProfileHandler{
		profileStore: profileStore,
	}
}

// ListProfiles godoc
// @Summary      프로필 목록 조회
// @Tags         profiles
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]domain.ProfileSummary}
// @Failure      500 {object} response.ErrorResponse
// @Router       /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileStore.ListProfiles(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, profiles)
}

// CreateProfile godoc
// @Summary      프로필 생성
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProfileRequest true "Profile name"
// @Success      201 {object} response.SuccessResponse{data=domain.ProfileSummary}
// @Failure      400 {object} response.ErrorResponse
// @Router       /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.profileStore.CreateProfile(c.Request.Context(), req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, profile)
}

// DeleteProfile godoc
// @Summary      프로필 삭제
// @Tags         profiles
// @Param        id path string true "Profile ID (UUID)"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Router       /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.profileStore.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfileData godoc
// @Summary      프로필 데이터 조회
// @Tags         profiles
// @Produce      json
// @Param        id path string true "Profile ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=domain.ProfileData}
// @Failure      404 {object} response.ErrorResponse
// @Router       /profiles/{id}/data [get]
func (h *ProfileHandler) GetProfileData(c *gin.Context) {
	data, err := h.profileStore.LoadProfileData(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, data)
}

// SaveProfileData godoc
// @Summary      프로필 데이터 저장
// @Description  Accepts the payload bare or wrapped in {"data": ...}
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id path string true "Profile ID (UUID)"
// @Param        request body domain.ProfileData true "Wizard payload"
// @Success      200 {object} response.SuccessResponse{data=domain.ProfileData}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /profiles/{id}/data [post]
func (h *ProfileHandler) SaveProfileData(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	data, err := decodeProfileData(raw)
	if err != nil {
		bindError(c, err)
		return
	}

	if err := h.profileStore.SaveProfileData(c.Request.Context(), c.Param("id"), *data); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, data)
}

// decodeProfileData accepts {rows,...} as well as {data:{rows,...}}
func decodeProfileData(raw []byte) (*domain.ProfileData, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if inner, ok := probe["data"]; ok {
		if _, bare := probe["rows"]; !bare {
			raw = inner
		}
	}

	data := &domain.ProfileData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, err
	}
	for i := range data.Rows {
		data.Rows[i].Normalize()
	}
	return data, nil
}
