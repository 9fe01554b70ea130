package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosuvorov/WallPay/services"
	"github.com/kosuvorov/WallPay/storage"
	"github.com/kosuvorov/WallPay/utils"
)

func newTestApp() (*fiber.App, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	blobs := utils.NewMemoryBlobStore()
	app := fiber.New()
	SetupWallpaperRoutes(app, services.NewCatalogService(store, blobs))
	SetupRewardRoutes(app, services.NewRewardService(store, store))
	return app, store
}

// uploadRequest builds a multipart POST /api/wallpapers request.
func uploadRequest(t *testing.T, filename, contentType, coins string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	if coins != "" {
		require.NoError(t, mw.WriteField("coins", coins))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/wallpapers", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
}

func TestWallpaperLifecycle(t *testing.T) {
	app, _ := newTestApp()

	// Upload
	resp, err := app.Test(uploadRequest(t, "Sunset.jpg", "image/jpeg", "25"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID       string `json:"id"`
		Coins    int    `json:"coins"`
		IsActive bool   `json:"is_active"`
		ImageURL string `json:"image_url"`
	}
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 25, created.Coins)
	assert.True(t, created.IsActive)
	assert.True(t, strings.HasPrefix(created.ImageURL, "/uploads/"))

	// Visible in the client listing
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/wallpapers", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Wallpapers []struct {
			ID       string `json:"id"`
			ImageURL string `json:"image_url"`
		} `json:"wallpapers"`
	}
	decodeBody(t, resp, &listing)
	require.Len(t, listing.Wallpapers, 1)
	assert.Equal(t, created.ID, listing.Wallpapers[0].ID)

	// Hide it
	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/api/wallpapers/"+created.ID, fiber.Map{"is_active": false}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Coins    int  `json:"coins"`
		IsActive bool `json:"is_active"`
	}
	decodeBody(t, resp, &updated)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 25, updated.Coins, "PATCH without coins keeps the value")

	// Gone from the client listing, still in the admin listing
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/wallpapers", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &listing)
	assert.Empty(t, listing.Wallpapers)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/wallpapers/all", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &listing)
	assert.Len(t, listing.Wallpapers, 1)

	// Delete
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/wallpapers/"+created.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var deleted struct {
		Success bool `json:"success"`
	}
	decodeBody(t, resp, &deleted)
	assert.True(t, deleted.Success)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/wallpapers/all", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &listing)
	assert.Empty(t, listing.Wallpapers)
}

func TestUploadWithoutFile(t *testing.T) {
	app, _ := newTestApp()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("coins", "5"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/wallpapers", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRejectsNonImage(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(uploadRequest(t, "notes.txt", "text/plain", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUnknownWallpaper(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/wallpapers/missing", fiber.Map{"coins": 5}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUnknownWallpaper(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/wallpapers/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type claimResponse struct {
	AlreadyClaimed bool `json:"already_claimed"`
	CoinsEarned    int  `json:"coins_earned"`
	TotalCoins     int  `json:"total_coins"`
}

func TestClaimAndHistory(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(uploadRequest(t, "Sunset.jpg", "image/jpeg", "25"))
	require.NoError(t, err)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)

	// First claim: 201
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/rewards",
		fiber.Map{"deviceId": "device-a", "wallpaperId": created.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var claim claimResponse
	decodeBody(t, resp, &claim)
	assert.False(t, claim.AlreadyClaimed)
	assert.Equal(t, 25, claim.CoinsEarned)
	assert.Equal(t, 25, claim.TotalCoins)

	// Repeat claim: 200, no new coins
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/rewards",
		fiber.Map{"deviceId": "device-a", "wallpaperId": created.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &claim)
	assert.True(t, claim.AlreadyClaimed)
	assert.Equal(t, 0, claim.CoinsEarned)
	assert.Equal(t, 25, claim.TotalCoins)

	// History
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/rewards/device-a", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info struct {
		DeviceID   string `json:"device_id"`
		TotalCoins int    `json:"total_coins"`
		History    []struct {
			WallpaperID   string  `json:"wallpaper_id"`
			Coins         int     `json:"coins"`
			WallpaperName *string `json:"wallpaper_name"`
		} `json:"history"`
	}
	decodeBody(t, resp, &info)
	assert.Equal(t, "device-a", info.DeviceID)
	assert.Equal(t, 25, info.TotalCoins)
	require.Len(t, info.History, 1)
	assert.Equal(t, created.ID, info.History[0].WallpaperID)
	require.NotNil(t, info.History[0].WallpaperName)
	assert.Equal(t, "Sunset.jpg", *info.History[0].WallpaperName)
}

func TestClaimValidation(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/rewards", fiber.Map{"deviceId": "device-a"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/rewards",
		fiber.Map{"deviceId": "device-a", "wallpaperId": "missing"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryForUnknownDevice(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/rewards/never-seen", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `0`, string(raw["total_coins"]))
	assert.JSONEq(t, `[]`, string(raw["history"]), "empty history is an array, not null")
}
