package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kosuvorov/WallPay/models"
	"github.com/kosuvorov/WallPay/services"
)

// wallpaperResponse is the wire shape of a wallpaper: the stored fields plus
// the derived image_url.
type wallpaperResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Coins        int       `json:"coins"`
	IsActive     bool      `json:"is_active"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func toWallpaperResponse(catalog *services.CatalogService, w *models.Wallpaper) wallpaperResponse {
	return wallpaperResponse{
		ID:           w.ID,
		Filename:     w.Filename,
		OriginalName: w.OriginalName,
		Coins:        w.Coins,
		IsActive:     w.IsActive,
		ImageURL:     catalog.ImageURL(w),
		CreatedAt:    w.CreatedAt,
	}
}

func toWallpaperList(catalog *services.CatalogService, wallpapers []models.Wallpaper) []wallpaperResponse {
	out := make([]wallpaperResponse, 0, len(wallpapers))
	for i := range wallpapers {
		out = append(out, toWallpaperResponse(catalog, &wallpapers[i]))
	}
	return out
}

func SetupWallpaperRoutes(app *fiber.App, catalog *services.CatalogService) {
	// Active wallpapers for the mobile app
	app.Get("/api/wallpapers", func(c *fiber.Ctx) error {
		wallpapers, err := catalog.ListActive(c.Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{"wallpapers": toWallpaperList(catalog, wallpapers)})
	})

	// All wallpapers for the admin panel
	app.Get("/api/wallpapers/all", func(c *fiber.Ctx) error {
		wallpapers, err := catalog.ListAll(c.Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{"wallpapers": toWallpaperList(catalog, wallpapers)})
	})

	// Upload a new wallpaper (multipart: image file + optional coins)
	app.Post("/api/wallpapers", func(c *fiber.Ctx) error {
		file, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no image file provided"})
		}
		coins, _ := strconv.Atoi(c.FormValue("coins"))

		wallpaper, err := catalog.Create(c.Context(), file, coins)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toWallpaperResponse(catalog, wallpaper))
	})

	// Partial update: coins and/or visibility
	app.Patch("/api/wallpapers/:id", func(c *fiber.Ctx) error {
		var req struct {
			Coins    *int  `json:"coins"`
			IsActive *bool `json:"is_active"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		wallpaper, err := catalog.Update(c.Context(), c.Params("id"), req.Coins, req.IsActive)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(toWallpaperResponse(catalog, wallpaper))
	})

	app.Delete("/api/wallpapers/:id", func(c *fiber.Ctx) error {
		if err := catalog.Delete(c.Context(), c.Params("id")); err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
