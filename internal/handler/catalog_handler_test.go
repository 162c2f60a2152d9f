package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/dto"
)

func setupCatalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler()
	r := gin.New()
	r.GET("/catalog/use-cases", h.GetUseCases)
	r.GET("/catalog/types/:type", h.GetType)
	r.GET("/catalog/name-sources", h.GetNameSources)
	r.GET("/catalog/distributions", h.GetDistributions)
	return r
}

func TestCatalogHandler_GetType(t *testing.T) {
	tests := []struct {
		name      string
		fieldType string
		wantKnown bool
		wantUse   string
	}{
		{"성공: 등록된 타입", "currency", true, catalog.UseCaseFinanzen},
		{"성공: 알 수 없는 타입", "nonsense", false, ""},
	}

	r := setupCatalogRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/types/"+tt.fieldType, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var info dto.TypeInfoResponse
			decodeData(t, w, &info)
			assert.Equal(t, tt.fieldType, info.Type)
			assert.Equal(t, tt.wantKnown, info.Known)
			assert.Equal(t, tt.wantUse, info.UseCaseID)
			if tt.wantKnown {
				assert.Equal(t, catalog.DefaultValuesOf(tt.fieldType), info.DefaultValues)
			} else {
				assert.Empty(t, info.DefaultValues)
			}
		})
	}
}

func TestCatalogHandler_Lists(t *testing.T) {
	r := setupCatalogRouter()

	t.Run("use cases", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/use-cases", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var useCases []catalog.UseCase
		decodeData(t, w, &useCases)
		assert.Len(t, useCases, len(catalog.UseCases()))
	})

	t.Run("name sources", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/name-sources", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var sources dto.NameSourcesResponse
		decodeData(t, w, &sources)
		assert.Equal(t, catalog.NameCountries(), sources.Countries)
		assert.NotEmpty(t, sources.Regions)
	})

	t.Run("distributions", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/distributions", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var kinds []catalog.DistributionKind
		decodeData(t, w, &kinds)
		assert.Len(t, kinds, len(catalog.DistributionKinds()))
	})
}
