package common

import (
	"context"
	"encoding/json"
	"eventspark/src/config"
	"eventspark/src/lib"
	"eventspark/src/models"
	"eventspark/src/models/scopes"
	"eventspark/src/types"
	"eventspark/src/utils"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ParseEventListQuery converts bound query params into a filter with clamped paging.
func ParseEventListQuery(q types.EventListQuery) (types.EventListFilter, error) {
	page, pageSize := utils.ClampPage(q.Page, q.PageSize)
	filter := types.EventListFilter{
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		City:       strings.TrimSpace(q.City),
		Page:       page,
		PageSize:   pageSize,
	}
	if q.From != "" {
		from, err := time.ParseInLocation(config.DATE_PARSE_FORMAT, q.From, time.UTC)
		if err != nil {
			return filter, types.NewValidationError("Invalid 'from' date.")
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(config.DATE_PARSE_FORMAT, q.To, time.UTC)
		if err != nil {
			return filter, types.NewValidationError("Invalid 'to' date.")
		}
		filter.To = &to
	}
	return filter, nil
}

// ListEvents returns one page of Published events ordered by start time and the filtered total.
func ListEvents(ctx context.Context, db *gorm.DB, filter types.EventListFilter) ([]models.Event, int64, error) {
	page, pageSize := utils.ClampPage(filter.Page, filter.PageSize)

	q := db.WithContext(ctx).Model(&models.Event{}).Scopes(scopes.Published)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(title LIKE ? OR description LIKE ?)", like, like)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		q = q.Where("city = ?", city)
	}
	if filter.From != nil {
		q = q.Where("start_date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_date_time < ?", filter.To.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		log.Printf("Error counting events: %s\n", err.Error())
		return nil, 0, err
	}
	events := make([]models.Event, 0)
	if err := q.
		Session(&gorm.Session{}).
		Preload("Category").
		Order("start_date_time ASC").
		Order("id ASC").
		Scopes(scopes.Paginate(page, pageSize)).
		Find(&events).
		Error; err != nil {
		log.Printf("Error retrieving events: %s\n", err.Error())
		return nil, 0, err
	}
	return events, total, nil
}

// GetEvent hides unpublished events from everyone but their organizer and admins.
func GetEvent(ctx context.Context, db *gorm.DB, user types.CurrentUser, id uint) (*models.Event, error) {
	var event models.Event
	if err := db.
		WithContext(ctx).
		Preload("Category").
		Preload("TicketTypes", func(tx *gorm.DB) *gorm.DB { return tx.Order("price ASC").Order("id ASC") }).
		Where("id = ?", id).
		First(&event).
		Error; err != nil {
		return nil, notFoundOr(err)
	}
	if event.Status != types.EVENT_PUBLISHED && !user.CanManage(event.OrganizerID) {
		return nil, types.ErrNotFound
	}
	return &event, nil
}

func ListCities(ctx context.Context, db *gorm.DB) ([]string, error) {
	if cached, ok := lib.CacheGet(ctx, lib.CITIES_CACHE_KEY); ok {
		var cities []string
		if err := json.Unmarshal(cached, &cities); err == nil {
			return cities, nil
		}
	}
	cities := make([]string, 0)
	if err := db.
		WithContext(ctx).
		Model(&models.Event{}).
		Scopes(scopes.Published).
		Distinct("city").
		Order("city ASC").
		Pluck("city", &cities).
		Error; err != nil {
		return nil, err
	}
	if b, err := json.Marshal(cities); err == nil {
		lib.CacheSet(ctx, lib.CITIES_CACHE_KEY, b, lib.CITIES_CACHE_TTL)
	}
	return cities, nil
}

func invalidateCatalog(ctx context.Context) {
	lib.CacheDelete(ctx, lib.CITIES_CACHE_KEY)
}
