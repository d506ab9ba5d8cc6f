// handlers/webhook_routes.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"savings-pet-system/models"
	"savings-pet-system/services"
	"savings-pet-system/utils"

	"github.com/gofiber/fiber/v2"
)

const webhookTypeTransactions = "TRANSACTIONS"

// ingestCodes are the TRANSACTIONS webhook codes that trigger ingestion.
var ingestCodes = map[string]bool{
	"INITIAL_UPDATE":    true,
	"HISTORICAL_UPDATE": true,
	"DEFAULT_UPDATE":    true,
}

// WebhookPayload is the aggregator's notification body.
type WebhookPayload struct {
	WebhookType     string `json:"webhook_type"`
	WebhookCode     string `json:"webhook_code"`
	ItemID          string `json:"item_id"`
	NewTransactions int    `json:"new_transactions"`
}

// Ingester is the part of the ingestion pipeline the webhook needs.
type Ingester interface {
	Ingest(ctx context.Context, itemID string, requestedCount int) (*services.IngestResult, error)
}

// DeliveryRecorder persists the audit trail of webhook deliveries.
type DeliveryRecorder interface {
	Record(ctx context.Context, d *models.WebhookDelivery) error
}

// WebhookHandler wires the aggregator webhook to ingestion. Recorder and Archive are optional.
type WebhookHandler struct {
	Ingester Ingester
	Recorder DeliveryRecorder
	Archive  utils.PayloadArchive
}

func SetupWebhookRoutes(app *fiber.App, h *WebhookHandler) {
	app.Post("/webhooks/transactions", h.HandleTransactions)
}

func (h *WebhookHandler) HandleTransactions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	body := append([]byte(nil), c.Body()...)

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}

	delivery := &models.WebhookDelivery{
		WebhookType: payload.WebhookType,
		WebhookCode: payload.WebhookCode,
		ItemID:      payload.ItemID,
	}
	if payload.WebhookType != webhookTypeTransactions || !ingestCodes[payload.WebhookCode] {
		log.Printf("[WEBHOOK] ➡️ Ignoring %s/%s for item %s", payload.WebhookType, payload.WebhookCode, payload.ItemID)
		delivery.Status = models.WebhookStatusIgnored
		delivery.ArchiveKey = h.archive(ctx, payload, body)
		h.record(ctx, delivery)
		return c.JSON(fiber.Map{"success": true})
	}

	result, err := h.Ingester.Ingest(ctx, payload.ItemID, payload.NewTransactions)
	if err != nil {
		delivery.Error = err.Error()
		if errors.Is(err, services.ErrAccountNotFound) {
			// unknown item: audit row only, the payload is not archived
			log.Printf("[WEBHOOK] ❌ No bank account for item %s", payload.ItemID)
			delivery.Status = models.WebhookStatusNotFound
			h.record(ctx, delivery)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no bank account linked to item " + payload.ItemID,
			})
		}

		log.Printf("[WEBHOOK] ❌ Ingestion failed for item %s: %v", payload.ItemID, err)
		delivery.Status = models.WebhookStatusFailed
		delivery.ArchiveKey = h.archive(ctx, payload, body)
		h.record(ctx, delivery)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process transactions",
			"cause": err.Error(),
		})
	}

	delivery.Status = models.WebhookStatusProcessed
	delivery.ProcessedCount = result.ProcessedCount
	delivery.XPEarned = result.TotalXPEarned
	delivery.ArchiveKey = h.archive(ctx, payload, body)
	h.record(ctx, delivery)

	return c.JSON(fiber.Map{
		"success":   true,
		"processed": result.ProcessedCount,
		"xp_earned": result.TotalXPEarned,
	})
}

func (h *WebhookHandler) archive(ctx context.Context, payload WebhookPayload, body []byte) string {
	if h.Archive == nil {
		return ""
	}
	key, err := h.Archive.Put(ctx, payload.WebhookType, payload.WebhookCode, body)
	if err != nil {
		log.Printf("[ARCHIVE] ⚠️ Failed to archive webhook for item %s: %v", payload.ItemID, err)
		return ""
	}
	return key
}

func (h *WebhookHandler) record(ctx context.Context, d *models.WebhookDelivery) {
	if h.Recorder == nil {
		return
	}
	if err := h.Recorder.Record(ctx, d); err != nil {
		log.Printf("[WEBHOOK] ⚠️ Failed to record delivery for item %s: %v", d.ItemID, err)
	}
}
