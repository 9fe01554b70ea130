package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kosuvorov/WallPay/models"
	"github.com/kosuvorov/WallPay/services"
)

func SetupRewardRoutes(app *fiber.App, rewards *services.RewardService) {
	// Claim a wallpaper's coins for a device. Repeating a claim is safe: the
	// repeat (or a lost race against a concurrent duplicate) responds 200
	// with already_claimed instead of an error, first-time claims respond 201.
	app.Post("/api/rewards", func(c *fiber.Ctx) error {
		var req struct {
			DeviceID    string `json:"deviceId"`
			WallpaperID string `json:"wallpaperId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.DeviceID == "" || req.WallpaperID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deviceId and wallpaperId are required"})
		}

		result, err := rewards.Claim(c.Context(), req.DeviceID, req.WallpaperID)
		if err != nil {
			return errorJSON(c, err)
		}

		status := fiber.StatusCreated
		if result.AlreadyClaimed {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{
			"already_claimed": result.AlreadyClaimed,
			"coins_earned":    result.CoinsEarned,
			"total_coins":     result.TotalCoins,
		})
	})

	// Balance and recent claim history for a device
	app.Get("/api/rewards/:deviceId", func(c *fiber.Ctx) error {
		info, err := rewards.History(c.Context(), c.Params("deviceId"))
		if err != nil {
			return errorJSON(c, err)
		}
		history := info.History
		if history == nil {
			history = []models.ClaimHistoryEntry{}
		}
		return c.JSON(fiber.Map{
			"device_id":   info.DeviceID,
			"total_coins": info.TotalCoins,
			"history":     history,
		})
	})
}
