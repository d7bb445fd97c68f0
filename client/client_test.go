package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xuexuelaila/qa-community/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL), server
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"data":    data,
		"message": message,
	})
}

func TestClient_GetExtracted(t *testing.T) {
	api, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/qa/extracted", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, []models.QAKnowledge{
			{ID: "extracted_1", Question: "问题", Category: models.CategoryPractical},
		}, "")
	})

	qas, err := api.GetExtracted(context.Background())
	assert.NoError(t, err)
	assert.Len(t, qas, 1)
	assert.Equal(t, "extracted_1", qas[0].ID)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	api, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, nil, "知识库文件不存在")
	})

	_, err := api.GetExtracted(context.Background())
	assert.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "知识库文件不存在", apiErr.Message)
}

func TestClient_SearchQuery(t *testing.T) {
	api, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "索引", r.URL.Query().Get("keyword"))
		assert.Equal(t, "MongoDB,数据库", r.URL.Query().Get("tags"))
		writeEnvelope(w, http.StatusOK, true, []models.QAKnowledge{}, "")
	})

	qas, err := api.Search(context.Background(), "索引", []string{"MongoDB", "数据库"})
	assert.NoError(t, err)
	assert.Empty(t, qas)
}

func TestClient_SubmitFeedback(t *testing.T) {
	api, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "qa1", body["qaId"])
		assert.Equal(t, "useful", body["type"])
		writeEnvelope(w, http.StatusOK, true, models.QAKnowledge{ID: "qa1", Feedback: models.Feedback{Useful: 16}}, "")
	})

	qa, err := api.SubmitFeedback(context.Background(), "qa1", "useful")
	assert.NoError(t, err)
	assert.Equal(t, 16, qa.Feedback.Useful)
}

func TestClient_AdoptConflict(t *testing.T) {
	api, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, false, nil, "Post already has an adopted reply")
	})

	_, err := api.AdoptReply(context.Background(), "p1", "r2")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}
