//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazarin/clinicdesk/internal/testutil"
)

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/login", map[string]string{
		"username": adminUsername,
		"password": adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			User         userResponse `json:"user"`
			AccessToken  string       `json:"access_token"`
			RefreshToken string       `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	assert.Equal(t, adminUsername, result.Data.User.Username)
	assert.Equal(t, "admin", result.Data.User.Role)
	assert.NotEmpty(t, result.Data.AccessToken)
	assert.NotEmpty(t, result.Data.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/login", map[string]string{
		"username": adminUsername,
		"password": "not-the-password",
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UnknownUser(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/login", map[string]string{
		"username": "nobody",
		"password": "whatever-123",
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	// Same response as a wrong password, no account enumeration
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_Authenticated(t *testing.T) {
	client := newTestClient(t)
	loginAsAdmin(t, client)

	resp, err := client.GET("/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data userResponse `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, adminUsername, result.Data.Username)
}

func TestMe_Unauthenticated(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	client := newTestClient(t)
	loginAsAdmin(t, client)

	resp, err := client.POST("/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Cookies were cleared, subsequent requests are anonymous
	resp, err = client.GET("/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_RequiresCSRFToken(t *testing.T) {
	client := newTestClient(t)
	loginAsAdmin(t, client)

	// A cross-site form post carries the cookies but not the header
	client.CSRFToken = ""
	resp, err := client.WithoutValidation().POST("/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The session is still live
	resp, err = client.GET("/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefresh_RotatesSession(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/login", map[string]string{
		"username": adminUsername,
		"password": adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Data struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &login)
	oldRefreshToken := login.Data.RefreshToken

	resp, err = client.POST("/refresh", map[string]string{
		"refresh_token": oldRefreshToken,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &refreshed)
	assert.NotEmpty(t, refreshed.Data.AccessToken)
	assert.NotEqual(t, oldRefreshToken, refreshed.Data.RefreshToken)

	// The old refresh token was rotated out and no longer works
	bare := newTestClientWithoutValidation()
	resp, err = bare.POST("/refresh", map[string]string{
		"refresh_token": oldRefreshToken,
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	admin := newTestClient(t)
	loginAsAdmin(t, admin)

	user, password := createTestUser(t, admin, "staff")

	resp, err := admin.POST("/admin/users/"+user.ID+"/deactivate", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	client := newTestClient(t)
	resp, err = client.POST("/login", map[string]string{
		"username": user.Username,
		"password": password,
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeactivation_InvalidatesRefresh(t *testing.T) {
	admin := newTestClient(t)
	loginAsAdmin(t, admin)

	user, password := createTestUser(t, admin, "staff")

	client := newTestClient(t)
	resp, err := client.POST("/login", map[string]string{
		"username": user.Username,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Data struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &login)

	resp, err = admin.POST("/admin/users/"+user.ID+"/deactivate", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bare := newTestClientWithoutValidation()
	resp, err = bare.POST("/refresh", map[string]string{
		"refresh_token": login.Data.RefreshToken,
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
