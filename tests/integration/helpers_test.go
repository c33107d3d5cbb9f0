//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/crackube/qna-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registerAndLogin creates a fresh account and logs the client in as it.
func registerAndLogin(t *testing.T, client *testutil.Client, name string) string {
	t.Helper()
	email := client.RegisterUser(t, name)
	client.LoginAs(t, email, "user12345")
	return email
}

// currentUserID fetches the id of the account the client is logged in as.
func currentUserID(t *testing.T, client *testutil.Client) string {
	t.Helper()

	resp, err := client.POST("/api/auth/getuser", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)
	return result.Data.ID
}

// createQuestion posts a question and returns its id.
func createQuestion(t *testing.T, client *testutil.Client, title string) string {
	t.Helper()

	resp, err := client.POST("/api/questions", map[string]string{"title": title})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)
	return result.Data.ID
}

// createAnswer posts an answer to a question and returns its id.
func createAnswer(t *testing.T, client *testutil.Client, questionID, title string) string {
	t.Helper()

	resp, err := client.POST("/api/answers", map[string]string{
		"title":       title,
		"question_id": questionID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)
	return result.Data.ID
}
