//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkazarin/clinicdesk/internal/testutil"
)

// userResponse mirrors the JSON shape of an account in API responses.
type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
}

// submissionResponse mirrors the JSON shape of a contact submission.
type submissionResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// loginAsAdmin logs the client in with the seeded administrator account.
func loginAsAdmin(t *testing.T, client *testutil.Client) {
	t.Helper()
	client.LoginAs(t, adminUsername, adminPassword)
}

// createTestUser creates an account through the admin API and returns it
// together with its password.
func createTestUser(t *testing.T, client *testutil.Client, role string) (userResponse, string) {
	t.Helper()

	username := testutil.RandomUsername(role)
	password := "test-password-123"

	resp, err := client.POST("/admin/users", map[string]string{
		"username":     username,
		"display_name": "Test " + role,
		"password":     password,
		"role":         role,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data userResponse `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data, password
}

// submitContactForm submits the contact form anonymously and returns the
// stored submission.
func submitContactForm(t *testing.T, client *testutil.Client, message string) submissionResponse {
	t.Helper()

	resp, err := client.POST("/contact", map[string]string{
		"name":    "Test Visitor",
		"email":   testutil.RandomEmail(),
		"message": message,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data submissionResponse `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data
}
