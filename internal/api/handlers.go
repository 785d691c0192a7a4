package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"studytrack/internal/model"
)

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// Study materials

func (s *Server) handleListStudyMaterials(c *fiber.Ctx) error {
	materials, err := s.store.ListStudyMaterials(c.UserContext(), s.cfg.OwnerID)
	if err != nil {
		return s.fail(c, "fetch study materials", err)
	}
	return c.JSON(materials)
}

func (s *Server) handleCreateStudyMaterial(c *fiber.Ctx) error {
	var in model.InsertStudyMaterial
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid study material data")
	}

	material, err := s.store.CreateStudyMaterial(c.UserContext(), s.cfg.OwnerID, in)
	if err != nil {
		return s.fail(c, "create study material", err)
	}
	return c.Status(fiber.StatusCreated).JSON(material)
}

func (s *Server) handleDeleteStudyMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteStudyMaterial(c.UserContext(), id); err != nil {
		return s.fail(c, "delete study material", err)
	}
	return c.JSON(fiber.Map{"message": "Study material deleted"})
}

// Reminders

func (s *Server) handleListReminders(c *fiber.Ctx) error {
	reminders, err := s.store.ListReminders(c.UserContext(), s.cfg.OwnerID)
	if err != nil {
		return s.fail(c, "fetch reminders", err)
	}
	return c.JSON(reminders)
}

func (s *Server) handleCreateReminder(c *fiber.Ctx) error {
	var in model.InsertReminder
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid reminder data")
	}

	reminder, err := s.store.CreateReminder(c.UserContext(), s.cfg.OwnerID, in)
	if err != nil {
		return s.fail(c, "create reminder", err)
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (s *Server) handleUpdateReminder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var patch model.ReminderPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid reminder data")
	}

	reminder, err := s.store.UpdateReminder(c.UserContext(), id, patch)
	if err != nil {
		return s.fail(c, "update reminder", err)
	}
	return c.JSON(reminder)
}

func (s *Server) handleDeleteReminder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReminder(c.UserContext(), id); err != nil {
		return s.fail(c, "delete reminder", err)
	}
	return c.JSON(fiber.Map{"message": "Reminder deleted"})
}

// Diary entries

func (s *Server) handleListDiaryEntries(c *fiber.Ctx) error {
	entries, err := s.store.ListDiaryEntries(c.UserContext(), s.cfg.OwnerID)
	if err != nil {
		return s.fail(c, "fetch diary entries", err)
	}
	return c.JSON(entries)
}

func (s *Server) handleCreateDiaryEntry(c *fiber.Ctx) error {
	var in model.InsertDiaryEntry
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid diary entry data")
	}

	entry, err := s.store.CreateDiaryEntry(c.UserContext(), s.cfg.OwnerID, in)
	if err != nil {
		return s.fail(c, "create diary entry", err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (s *Server) handleDeleteDiaryEntry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDiaryEntry(c.UserContext(), id); err != nil {
		return s.fail(c, "delete diary entry", err)
	}
	return c.JSON(fiber.Map{"message": "Diary entry deleted"})
}

// Mood entries

func (s *Server) handleListMoodEntries(c *fiber.Ctx) error {
	entries, err := s.store.ListMoodEntries(c.UserContext(), s.cfg.OwnerID)
	if err != nil {
		return s.fail(c, "fetch mood entries", err)
	}
	return c.JSON(entries)
}

func (s *Server) handleCreateMoodEntry(c *fiber.Ctx) error {
	var in model.InsertMoodEntry
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mood entry data")
	}

	entry, err := s.store.CreateMoodEntry(c.UserContext(), s.cfg.OwnerID, in)
	if err != nil {
		return s.fail(c, "create mood entry", err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
