package common

import (
	"context"
	"eventspark/src/models"
	"eventspark/src/models/scopes"
	"eventspark/src/types"
	"log"
	"strings"

	"gorm.io/gorm"
)

var ErrEventHasTickets = types.NewValidationError("This event cannot be deleted because tickets have already been issued for it.")

// validateEventBody parses and checks an event body, accumulating every problem.
func validateEventBody(tx *gorm.DB, body *types.CreateEventRequestBody) (*models.Event, error) {
	var messages []string
	event := models.Event{
		Title:        strings.TrimSpace(body.Title),
		Description:  strings.TrimSpace(body.Description),
		VenueName:    strings.TrimSpace(body.VenueName),
		VenueAddress: trimOptional(body.VenueAddress),
		City:         strings.TrimSpace(body.City),
		CategoryID:   body.CategoryID,
		ImagePath:    trimOptional(body.ImagePath),
		MaxCapacity:  body.MaxCapacity,
	}
	if event.Title == "" {
		messages = append(messages, "Title is required.")
	}
	if event.VenueName == "" {
		messages = append(messages, "Venue name is required.")
	}
	if event.City == "" {
		messages = append(messages, "City is required.")
	}
	start, err := parseTime(body.StartDateTime)
	if err != nil {
		messages = append(messages, "Start date/time is invalid.")
	}
	end, err := parseTime(body.EndDateTime)
	if err != nil {
		messages = append(messages, "End date/time is invalid.")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		messages = append(messages, "End date/time must be after the start date/time.")
	}
	event.StartDateTime = start
	event.EndDateTime = end
	if event.CategoryID != nil {
		var count int64
		if err := tx.Model(&models.EventCategory{}).Where("id = ?", *event.CategoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			messages = append(messages, "Selected category does not exist.")
		}
	}
	if len(messages) > 0 {
		return nil, types.NewValidationError(messages...)
	}
	return &event, nil
}

// CreateEvent stores a new event owned by user. Status defaults to draft.
func CreateEvent(ctx context.Context, db *gorm.DB, user types.CurrentUser, body *types.CreateEventRequestBody) (*models.Event, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	tx := db.WithContext(ctx)
	event, err := validateEventBody(tx, body)
	if err != nil {
		return nil, err
	}
	event.OrganizerID = user.ID
	event.Status = types.EVENT_DRAFT
	if body.Status != nil {
		event.Status = *body.Status
	}
	event.Version = 1
	if err := tx.Create(event).Error; err != nil {
		log.Printf("Error creating event: %s\n", err.Error())
		return nil, err
	}
	log.Printf("Event [%d] created by user [%d]\n", event.ID, user.ID)
	if event.Status == types.EVENT_PUBLISHED {
		invalidateCatalog(ctx)
	}
	return event, nil
}

// UpdateEvent overwrites the editable fields when version still matches the stored row.
func UpdateEvent(ctx context.Context, db *gorm.DB, user types.CurrentUser, id uint, body *types.UpdateEventRequestBody) (*models.Event, error) {
	tx := db.WithContext(ctx)
	current, err := findManagedEvent(tx, user, id)
	if err != nil {
		return nil, err
	}
	event, err := validateEventBody(tx, &body.CreateEventRequestBody)
	if err != nil {
		return nil, err
	}
	status := current.Status
	if body.Status != nil {
		status = *body.Status
	}
	updates := map[string]any{
		"title":           event.Title,
		"description":     event.Description,
		"venue_name":      event.VenueName,
		"venue_address":   event.VenueAddress,
		"city":            event.City,
		"category_id":     event.CategoryID,
		"start_date_time": event.StartDateTime,
		"end_date_time":   event.EndDateTime,
		"image_path":      event.ImagePath,
		"max_capacity":    event.MaxCapacity,
		"status":          status,
	}
	if err := updateVersioned(tx, &models.Event{}, id, body.Version, updates); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx)
	return findEvent(tx, id)
}

func SetEventStatus(ctx context.Context, db *gorm.DB, user types.CurrentUser, id uint, status types.EventStatus, version uint) (*models.Event, error) {
	if !status.Valid() {
		return nil, types.NewValidationError("Invalid event status.")
	}
	tx := db.WithContext(ctx)
	if _, err := findManagedEvent(tx, user, id); err != nil {
		return nil, err
	}
	if err := updateVersioned(tx, &models.Event{}, id, version, map[string]any{"status": status}); err != nil {
		return nil, err
	}
	log.Printf("Event [%d] status set to %s by user [%d]\n", id, status, user.ID)
	invalidateCatalog(ctx)
	return findEvent(tx, id)
}

// DeleteEvent refuses when any ticket exists. Otherwise check-in logs, ticket types and the event
// are removed in that order inside one transaction.
func DeleteEvent(ctx context.Context, db *gorm.DB, user types.CurrentUser, id uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := findManagedEvent(tx, user, id)
		if err != nil {
			return err
		}
		var tickets int64
		if err := tx.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&tickets).Error; err != nil {
			return err
		}
		if tickets > 0 {
			log.Printf("Refused to delete event [%d]: %d tickets issued\n", event.ID, tickets)
			return ErrEventHasTickets
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.CheckInLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.TicketType{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, event.ID).Error
	})
	if err != nil {
		return err
	}
	invalidateCatalog(ctx)
	return nil
}

func ListMyEvents(ctx context.Context, db *gorm.DB, user types.CurrentUser) ([]models.Event, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	events := make([]models.Event, 0)
	if err := db.
		WithContext(ctx).
		Scopes(scopes.OwnedBy(user.ID)).
		Preload("Category").
		Order("start_date_time ASC").
		Find(&events).
		Error; err != nil {
		return nil, err
	}
	return events, nil
}

// updateVersioned applies updates only if the row still carries version, bumping it by one.
func updateVersioned(tx *gorm.DB, model any, id uint, version uint, updates map[string]any) error {
	updates["version"] = gorm.Expr("version + 1")
	res := tx.Model(model).Where("id = ? AND version = ?", id, version).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return types.ErrNotFound
		}
		return types.ErrConcurrencyConflict
	}
	return nil
}
