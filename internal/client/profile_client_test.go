package client

import (
	"context"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/response"
)

const profileURL = "http://profiles.test"

func newTestProfileClient() ProfileClient {
	return NewProfileClient(profileURL, 5*time.Second, zap.NewNop(), testMetrics())
}

func TestProfileClient_ListProfiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"성공: 배열 응답", `[{"id":"p-1","name":"Kunden"},{"id":"p-2","name":"Patienten"}]`},
		{"성공: data 래핑 응답", `{"data":[{"id":"p-1","name":"Kunden"},{"id":"p-2","name":"Patienten"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			gock.New(profileURL).Get("/profiles").Reply(200).
				SetHeader("Content-Type", "application/json").
				BodyString(tt.body)

			profiles, err := newTestProfileClient().ListProfiles(context.Background())

			require.NoError(t, err)
			assert.Equal(t, []domain.ProfileSummary{
				{ID: "p-1", Name: "Kunden"},
				{ID: "p-2", Name: "Patienten"},
			}, profiles)
		})
	}
}

func TestProfileClient_CreateAndDelete(t *testing.T) {
	defer gock.Off()
	gock.New(profileURL).Post("/profiles").
		MatchType("json").
		JSON(map[string]string{"name": "Kunden"}).
		Reply(201).
		JSON(map[string]string{"id": "p-9", "name": "Kunden"})
	gock.New(profileURL).Delete("/profiles/p-9").Reply(204)

	c := newTestProfileClient()

	created, err := c.CreateProfile(context.Background(), "Kunden")
	require.NoError(t, err)
	assert.Equal(t, &domain.ProfileSummary{ID: "p-9", Name: "Kunden"}, created)

	require.NoError(t, c.DeleteProfile(context.Background(), "p-9"))
	assert.True(t, gock.IsDone())
}

func TestProfileClient_LoadProfileData(t *testing.T) {
	defer gock.Off()
	gock.New(profileURL).Get("/profiles/p-1/data").Reply(200).
		JSON(map[string]interface{}{
			"data": map[string]interface{}{
				"rows": []map[string]interface{}{
					{"id": "f-1", "name": "alter", "type": "number", "dependency": "a,b"},
				},
				"rowCount":   25,
				"format":     "JSON",
				"lineEnding": "Unix(LF)",
			},
		})

	data, err := newTestProfileClient().LoadProfileData(context.Background(), "p-1")

	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "alter", data.Rows[0].Name)
	assert.Equal(t, domain.Dependency{"a", "b"}, data.Rows[0].Dependency)
	assert.Equal(t, 25, data.RowCount)
	assert.Equal(t, "JSON", data.Format)
	assert.Equal(t, "Unix(LF)", data.LineEnding)
}

func TestProfileClient_LoadProfileData_NotFound(t *testing.T) {
	defer gock.Off()
	gock.New(profileURL).Get("/profiles/missing/data").Reply(404)

	_, err := newTestProfileClient().LoadProfileData(context.Background(), "missing")

	assert.True(t, response.HasCode(err, response.ErrCodeNotFound))
}

func TestProfileClient_SaveProfileData(t *testing.T) {
	defer gock.Off()
	gock.New(profileURL).Post("/profiles/p-1/data").
		MatchType("json").
		JSON(map[string]interface{}{
			"rows":       []interface{}{},
			"rowCount":   13,
			"format":     "CSV",
			"lineEnding": "Windows(CRLF)",
		}).
		Reply(200)

	err := newTestProfileClient().SaveProfileData(context.Background(), "p-1", domain.ProfileData{
		Rows:       []domain.FieldSpec{},
		RowCount:   13,
		Format:     "CSV",
		LineEnding: "Windows(CRLF)",
	})

	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestProfileClient_MalformedResponse(t *testing.T) {
	defer gock.Off()
	gock.New(profileURL).Get("/profiles").Reply(200).BodyString("<html>")

	_, err := newTestProfileClient().ListProfiles(context.Background())

	assert.True(t, response.HasCode(err, response.ErrCodeNetwork))
}
