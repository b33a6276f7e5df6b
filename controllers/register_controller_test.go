package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lending_register/app"
	"lending_register/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending_register/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *db.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := db.NewRepo(db.NewTestDB(t), nil)
	s := GetSrv(&app.App{Repo: repo})
	regCtl := NewRegisterController(s)
	itemCtl := NewItemController(s)

	r := gin.New()
	r.POST("/api/transactions", regCtl.Issue)
	r.GET("/api/transactions", regCtl.List)
	r.POST("/api/transactions/:id/return", regCtl.Return)
	r.POST("/api/resync", regCtl.Resync)
	r.GET("/api/items", itemCtl.ListItems)
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	require.NoError(t, repo.CreateItem(context.Background(), &models.Item{
		ID: uuid.NewString(), Name: "Tarpaulin", Total: 10,
	}))

	w := doJSON(t, r, http.MethodPost, "/api/transactions", app.H{
		"name":      "asha menon",
		"place":     "karaya",
		"phone":     "9876543210",
		"items":     []string{"Tarpaulin"},
		"issueDate": "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, models.StatusIssued, resp.Transactions[0].Status)

	it, err := repo.FindItemByName(context.Background(), "Tarpaulin")
	require.NoError(t, err)
	assert.Equal(t, 1, it.Issued)
	assert.Equal(t, 9, it.Available)
}

func TestIssueEndpointValidation(t *testing.T) {
	r, repo := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", app.H{
		"name":      "asha menon",
		"place":     "karaya",
		"phone":     "12345",
		"items":     []string{"Tarpaulin"},
		"issueDate": "2024-01-05",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Phone must be 10 digits", resp.Errors["phone"])

	txs, err := repo.ListTransactions(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, txs, "failed validation must not write")
}

func TestReturnEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/transactions/"+uuid.NewString()+"/return", app.H{
		"returnedItems": []string{"Tarpaulin"},
		"returnDate":    "2024-01-10",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResyncEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	it := &models.Item{ID: uuid.NewString(), Name: "Tent", Total: 5}
	require.NoError(t, repo.CreateItem(context.Background(), it))
	_, err := repo.UpdateItemCounts(context.Background(), it.ID, 5, 5)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/resync", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK      bool `json:"ok"`
		Updated int  `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Updated)

	got, err := repo.FindItemByName(context.Background(), "Tent")
	require.NoError(t, err)
	assert.Zero(t, got.Issued)
	assert.Equal(t, 5, got.Available)
}
