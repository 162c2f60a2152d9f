package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/dto"
	"synthdata-wizard-api/internal/response"
)

// CatalogHandler serves the read-only field type registry
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetUseCases godoc
// @Summary      Use case 목록 조회
// @Tags         catalog
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]catalog.UseCase}
// @Router       /catalog/use-cases [get]
func (h *CatalogHandler) GetUseCases(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, catalog.UseCases())
}

// GetType godoc
// @Summary      필드 타입 정보 조회
// @Description  Unknown types are answered with known=false and empty lists
// @Tags         catalog
// @Produce      json
// @Param        type path string true "Field type"
// @Success      200 {object} response.SuccessResponse{data=dto.TypeInfoResponse}
// @Router       /catalog/types/{type} [get]
func (h *CatalogHandler) GetType(c *gin.Context) {
	fieldType := c.Param("type")
	_, known := catalog.Lookup(fieldType)
	useCaseID, _ := catalog.UseCaseOf(fieldType)

	response.SendSuccess(c, http.StatusOK, dto.TypeInfoResponse{
		Type:                 fieldType,
		Label:                catalog.LabelOf(fieldType),
		Tooltip:              catalog.TooltipOf(fieldType),
		AllowedDistributions: catalog.AllowedDistributionsOf(fieldType),
		DefaultValues:        catalog.DefaultValuesOf(fieldType),
		UseCaseID:            useCaseID,
		Known:                known,
	})
}

// GetNameSources godoc
// @Summary      이름 생성 소스 조회
// @Tags         catalog
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.NameSourcesResponse}
// @Router       /catalog/name-sources [get]
func (h *CatalogHandler) GetNameSources(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, dto.NameSourcesResponse{
		Regions:   catalog.NameRegions(),
		Countries: catalog.NameCountries(),
	})
}

// GetDistributions godoc
// @Summary      분포 종류 조회
// @Tags         catalog
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]catalog.DistributionKind}
// @Router       /catalog/distributions [get]
func (h *CatalogHandler) GetDistributions(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, catalog.DistributionKinds())
}
