// handlers/game_routes.go
package handlers

import (
	"context"
	"errors"
	"strconv"

	"savings-pet-system/middleware"
	"savings-pet-system/models"
	"savings-pet-system/services"

	"github.com/gofiber/fiber/v2"
)

// LedgerReader lists a user's recorded transactions and resolves their linked items.
type LedgerReader interface {
	ListByUser(ctx context.Context, userID string, page, size int) ([]models.LedgerEntry, int64, error)
	FindAccountByItemID(ctx context.Context, itemID string) (*models.BankAccount, error)
}

// DeliveryReader returns the webhook audit trail for an item.
type DeliveryReader interface {
	Recent(ctx context.Context, itemID string, limit int) ([]models.WebhookDelivery, error)
}

// StateReader returns the user's game aggregates.
type StateReader interface {
	GetState(ctx context.Context, userID string) (*services.GameState, error)
}

func SetupGameRoutes(app *fiber.App, gatewayToken string, state StateReader, ledger LedgerReader, deliveries DeliveryReader) {
	// The gateway forwards /api/v1/pet/s/user/... -> /user/...
	securedGroup := app.Group("/user",
		middleware.GatewayAuthMiddleware(gatewayToken),
		middleware.UserContextMiddleware(),
	)

	securedGroup.Get("/game", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		gs, err := state.GetState(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load game state",
				"cause": err.Error(),
			})
		}

		p := gs.Profile
		return c.JSON(fiber.Map{
			"profile": fiber.Map{
				"xp":               p.CurrentXP,
				"level":            p.Level,
				"xp_to_next_level": int64(p.Level)*models.XPPerLevel - p.CurrentXP,
				"last_level_up_at": p.LastLevelUpAt,
			},
			"pet": fiber.Map{
				"name":      gs.Pet.Name,
				"stage":     gs.Pet.Stage,
				"happiness": gs.Pet.Happiness,
				"health":    gs.Pet.Health,
			},
			"city": fiber.Map{
				"funds":      gs.City.Funds.StringFixed(2),
				"population": gs.City.Population,
			},
		})
	})

	securedGroup.Get("/transactions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		entries, total, err := ledger.ListByUser(c.UserContext(), userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list transactions",
				"cause": err.Error(),
			})
		}
		if entries == nil {
			entries = []models.LedgerEntry{}
		}
		return c.JSON(fiber.Map{
			"transactions": entries,
			"page":         page,
			"size":         size,
			"total_items":  total,
		})
	})

	// Delivery history for one of the caller's linked items.
	securedGroup.Get("/webhooks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		itemID := c.Query("item_id")
		if itemID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item_id is required"})
		}
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		account, err := ledger.FindAccountByItemID(c.UserContext(), itemID)
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to look up item",
				"cause": err.Error(),
			})
		}
		if account.UserID != userID {
			// do not reveal items owned by someone else
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
		}

		rows, err := deliveries.Recent(c.UserContext(), itemID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list webhook deliveries",
				"cause": err.Error(),
			})
		}
		if rows == nil {
			rows = []models.WebhookDelivery{}
		}
		return c.JSON(fiber.Map{"item_id": itemID, "deliveries": rows})
	})
}
