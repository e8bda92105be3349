package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/assistant"
	apperrors "github.com/pillguard/pillguard/internal/errors"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/metrics"
	"github.com/pillguard/pillguard/internal/schedule"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   "0.1.0",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleListMedications(c *fiber.Ctx) error {
	rows, err := s.tracker.Overview(c.Context(), schedule.Live())
	if err != nil {
		s.logger.Error("Failed to list medications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to list medications"})
	}
	return c.JSON(rows)
}

func (s *Server) handleCreateMedication(c *fiber.Ctx) error {
	var med medication.Medication
	if err := c.BodyParser(&med); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if med.OriginTimezone == "" {
		med.OriginTimezone = schedule.Live().ZoneName()
	}

	if err := s.meds.Create(&med); err != nil {
		if apperrors.IsAppError(err) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		s.logger.Error("Failed to create medication", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to create medication"})
	}

	return c.Status(201).JSON(med)
}

func (s *Server) handleGetMedication(c *fiber.Ctx) error {
	row, err := s.tracker.OverviewByID(c.Context(), c.Params("id"), schedule.Live())
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "medication not found"})
	}
	return c.JSON(row)
}

func (s *Server) handleUpdateMedication(c *fiber.Ctx) error {
	med, err := s.meds.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "medication not found"})
	}

	if err := c.BodyParser(med); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	med.ID = c.Params("id")

	if err := s.meds.Update(med); err != nil {
		if apperrors.IsAppError(err) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		s.logger.Error("Failed to update medication", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to update medication"})
	}

	return c.JSON(med)
}

func (s *Server) handleDeleteMedication(c *fiber.Ctx) error {
	if err := s.meds.Delete(c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete medication"})
	}
	return c.SendStatus(204)
}

func (s *Server) handleTakeDose(c *fiber.Ctx) error {
	row, err := s.tracker.TakeDose(c.Context(), c.Params("id"), schedule.Live())
	if err != nil {
		if err == apperrors.ErrMedicationNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "medication not found"})
		}
		s.logger.Error("Failed to log dose", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to log dose"})
	}
	return c.JSON(row)
}

func (s *Server) handleNextDose(c *fiber.Ctx) error {
	row, err := s.tracker.OverviewByID(c.Context(), c.Params("id"), schedule.Live())
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "medication not found"})
	}

	return c.JSON(fiber.Map{
		"next_due":       row.NextDue,
		"display_label":  row.DisplayLabel,
		"cross_timezone": row.CrossTimezone,
		"taken_today":    row.TakenToday,
	})
}

func (s *Server) handleAdherence(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	meds, err := s.meds.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list medications"})
	}

	stats, err := s.adherence.Stats(c.Context(), meds, days, time.Now())
	if err != nil {
		s.logger.Error("Failed to compute adherence", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to compute adherence"})
	}

	return c.JSON(stats)
}

func (s *Server) handleInventory(c *fiber.Ctx) error {
	rows, err := s.tracker.Overview(c.Context(), schedule.Live())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list medications"})
	}

	out := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		out = append(out, fiber.Map{
			"id":           row.Medication.ID,
			"name":         row.Medication.Name,
			"stock":        row.Medication.Stock,
			"days_left":    row.DaysLeft,
			"refill_date":  row.RefillDate,
			"needs_refill": row.NeedsRefill,
		})
	}
	return c.JSON(out)
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	return c.JSON(metrics.Default().Snapshot())
}

func (s *Server) handleDrugSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "query parameter q is required"})
	}
	return c.JSON(s.drugs.Search(c.Context(), query))
}

func (s *Server) handleDrugLabel(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "query parameter name is required"})
	}

	details, err := s.drugs.LabelDetails(c.Context(), name)
	if err != nil {
		if err == apperrors.ErrDrugNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "no label found"})
		}
		return c.Status(502).JSON(fiber.Map{"error": "label service unavailable"})
	}
	return c.JSON(details)
}

func (s *Server) handleInteractions(c *fiber.Ctx) error {
	meds, err := s.meds.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list medications"})
	}
	return c.JSON(s.assistant.AnalyzeInteractions(c.Context(), meds))
}

func (s *Server) handleAssistantChat(c *fiber.Ctx) error {
	var req struct {
		Message string                  `json:"message"`
		History []assistant.ChatMessage `json:"history"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	reply := s.assistant.Chat(c.Context(), req.History, req.Message)
	return c.JSON(fiber.Map{"reply": reply})
}
