//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/crackube/qna-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestions_Create_RequiresAuth(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/questions", map[string]string{"title": "anonymous?"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestQuestions_Create_And_List(t *testing.T) {
	client := newTestClient(t)
	registerAndLogin(t, client, "Question Author")
	ownerID := currentUserID(t, client)

	questionID := createQuestion(t, client, "How do I drain a channel?")

	// Listing is public in the test deployment
	anon := newTestClient(t)
	resp, err := anon.GET("/api/questions?limit=100")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Value []struct {
				ID     string `json:"id"`
				Title  string `json:"title"`
				UserID string `json:"user_id"`
			} `json:"value"`
			Pagination struct {
				Page  int `json:"page"`
				Limit int `json:"limit"`
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	var found bool
	for _, q := range result.Data.Value {
		if q.ID == questionID {
			found = true
			assert.Equal(t, "How do I drain a channel?", q.Title)
			assert.Equal(t, ownerID, q.UserID)
		}
	}
	assert.True(t, found, "created question appears in the listing")
	assert.GreaterOrEqual(t, result.Data.Pagination.Total, 1)
}

func TestQuestions_Create_EmptyTitle(t *testing.T) {
	client := newTestClient(t)
	registerAndLogin(t, client, "Empty Author")

	resp, err := client.POST("/api/questions", map[string]string{"title": ""})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestQuestions_ListOwn(t *testing.T) {
	client := newTestClient(t)
	registerAndLogin(t, client, "Own Lister")
	createQuestion(t, client, "my only question")

	resp, err := client.GET("/api/questions/my")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		Data    []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "my only question", result.Data[0].Title)
}

func TestQuestions_Update_OwnershipMatrix(t *testing.T) {
	owner := newTestClient(t)
	registerAndLogin(t, owner, "Matrix Owner")
	questionID := createQuestion(t, owner, "original title")

	// Another user is rejected
	other := newTestClient(t)
	registerAndLogin(t, other, "Matrix Other")

	resp, err := other.PUT("/api/questions/"+questionID, map[string]string{"title": "hijacked"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Owner succeeds
	resp, err = owner.PUT("/api/questions/"+questionID, map[string]string{"title": "revised title"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "revised title", result.Data.Title)

	// Admin succeeds on someone else's question
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	resp, err = admin.PUT("/api/questions/"+questionID, map[string]string{"title": "moderated title"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestQuestions_Update_NotFound(t *testing.T) {
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	resp, err := admin.PUT("/api/questions/00000000-0000-0000-0000-000000000000",
		map[string]string{"title": "ghost"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestQuestions_Delete_CascadesToAnswers(t *testing.T) {
	owner := newTestClient(t)
	registerAndLogin(t, owner, "Cascade Owner")
	questionID := createQuestion(t, owner, "soon to vanish")

	answerer := newTestClient(t)
	registerAndLogin(t, answerer, "Cascade Answerer")
	answerID := createAnswer(t, answerer, questionID, "doomed answer")

	// Foreign user cannot delete
	resp, err := answerer.DELETE("/api/questions/" + questionID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Owner deletes; answers go with the question
	resp, err = owner.DELETE("/api/questions/" + questionID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = answerer.PUT("/api/answers/"+answerID, map[string]string{"title": "still there?"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "answer removed by the cascade")
	resp.Body.Close()

	resp, err = owner.DELETE("/api/questions/" + questionID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestQuestions_Pagination(t *testing.T) {
	client := newTestClient(t)
	registerAndLogin(t, client, "Pagination Author")

	prefix := testutil.RandomEmail()[:13]
	for i := 1; i <= 12; i++ {
		createQuestion(t, client, fmt.Sprintf("%s question %d", prefix, i))
	}

	resp, err := client.GET("/api/questions?page=1&limit=5")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Value []struct {
				Title string `json:"title"`
			} `json:"value"`
			Pagination struct {
				Page  int `json:"page"`
				Limit int `json:"limit"`
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Len(t, result.Data.Value, 5)
	assert.Equal(t, 1, result.Data.Pagination.Page)
	assert.Equal(t, 5, result.Data.Pagination.Limit)
	assert.GreaterOrEqual(t, result.Data.Pagination.Total, 12)

	// Garbage paging parameters fall back to the defaults
	resp, err = client.GET("/api/questions?page=abc&limit=-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, 1, result.Data.Pagination.Page)
	assert.Equal(t, 10, result.Data.Pagination.Limit)
}

func TestQuestions_MalformedID_NotFound(t *testing.T) {
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	resp, err := admin.PUT("/api/questions/not-a-uuid",
		map[string]string{"title": "ghost"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = admin.DELETE("/api/questions/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
