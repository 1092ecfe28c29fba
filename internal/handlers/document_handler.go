package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/documents"
	"github.com/finaccosolutions/finacco-backend/internal/assistant/wizard"
	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	"github.com/finaccosolutions/finacco-backend/internal/libraries"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/metrics"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	engine *workflow.Engine
	hub    *libraries.Hub
}

func NewDocumentHandler(engine *workflow.Engine, hub *libraries.Hub) *DocumentHandler {
	return &DocumentHandler{engine: engine, hub: hub}
}

// function to propose the field schema for a document type
func (h *DocumentHandler) ProposeSchema(c *fiber.Ctx) error {
	var dto struct {
		DocumentType string `json:"document_type"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(dto.DocumentType) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document type is required",
		})
	}

	client := h.documentClient(c)
	schema := wizard.ProposeFields(c.Context(), tuneDocumentClient(client, 0.2, 1024), dto.DocumentType)

	return c.Status(fiber.StatusOK).JSON(schema)
}

// function to validate the collected values and draft the document body
func (h *DocumentHandler) GenerateDocument(c *fiber.Ctx) error {
	var dto struct {
		ChatID       string            `json:"chat_id"`
		DocumentType string            `json:"document_type"`
		Fields       []wizard.FieldDef `json:"fields"`
		Values       map[string]string `json:"values"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(dto.DocumentType) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document type is required",
		})
	}

	// the widget sends back the schema it collected against; older clients
	// may omit it, then the fixed set applies
	fields := dto.Fields
	if len(fields) == 0 {
		fields = wizard.DefaultFields(dto.DocumentType)
	}

	if problems := wizard.Validate(fields, dto.Values); len(problems) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": problems,
		})
	}

	client := h.documentClient(c)
	rendered := documents.Render(c.Context(), tuneDocumentClient(client, 0.3, 2048), dto.DocumentType, fields, dto.Values)

	resp := fiber.Map{
		"title":    rendered.Title,
		"html":     rendered.HTML,
		"fallback": rendered.Fallback,
	}

	if dto.ChatID != "" {
		chatID, err := uuid.Parse(dto.ChatID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid chat ID",
			})
		}
		msg, err := h.engine.AttachDocument(chatID, middleware.UserID(c), rendered)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Chat not found",
				})
			}
			logger.Error("failed to attach document", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save document",
			})
		}
		resp["message"] = msg

		// open sockets learn about the new transcript entry right away
		if h.hub != nil {
			h.hub.NotifyUser(middleware.UserID(c), libraries.WebSocketMessageTypeDocumentReady, fiber.Map{
				"chat_id": chatID.String(),
				"message": msg,
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// function to export a drafted document as pdf
func (h *DocumentHandler) ExportDocument(c *fiber.Ctx) error {
	var dto struct {
		DocumentType string `json:"document_type"`
		HTML         string `json:"html"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(dto.HTML) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document HTML is required",
		})
	}

	title := documents.Title(dto.DocumentType)

	page, err := documents.PrintableHTML(title, dto.HTML)
	if err != nil {
		logger.Error("failed to build printable page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export document",
		})
	}

	pdf, err := libraries.RenderPDF(c.Context(), page)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		logger.Error("pdf export failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not generate the PDF. Please try again later.",
		})
	}
	metrics.ExportsTotal.WithLabelValues("success").Inc()

	objectName := fmt.Sprintf("exports/%s.pdf", uuid.NewString())
	if err := libraries.ArchiveExport(c.Context(), objectName, "application/pdf", pdf); err != nil {
		logger.Warn("failed to archive export", zap.Error(err))
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+exportFilename(dto.DocumentType)+`"`)
	return c.Send(pdf)
}

func (h *DocumentHandler) documentClient(c *fiber.Ctx) llmHandlers.Client {
	client, err := h.engine.NewClient(c.Context(), middleware.GeminiKey(c))
	if err != nil {
		logger.Warn("provider client unavailable", zap.Error(err))
		return nil
	}
	return client
}

func tuneDocumentClient(client llmHandlers.Client, temperature float32, maxTokens int32) llmHandlers.Client {
	if g, ok := client.(*llmHandlers.GenaiGeminiClient); ok {
		g.Temperature = temperature
		g.MaxTokens = maxTokens
	}
	return client
}

// exportFilename names the download from the document type and export date,
// e.g. "invoice-2025-11-08.pdf"
func exportFilename(documentType string) string {
	name := strings.ToLower(strings.TrimSpace(documentType))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "document"
	}
	return name + "-" + time.Now().Format("2006-01-02") + ".pdf"
}
