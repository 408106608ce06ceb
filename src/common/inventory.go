package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"descubre/src/db"
	"descubre/src/lib"
	"descubre/src/models"
)

const ticketTypeCacheTTL = 30 * time.Second

func ticketTypeCacheKey(eventID uint) string {
	return fmt.Sprintf("event:%d:ticket_types", eventID)
}

// DBInventory reads the active ticket types for an event ordered by
// ascending price, with a short-lived redis cache in front of the table.
type DBInventory struct{}

func (DBInventory) TicketTypes(ctx context.Context, eventID uint) ([]models.TicketType, error) {
	key := ticketTypeCacheKey(eventID)
	rd := lib.GetRedisClient()
	if rd != nil {
		cached, err := rd.Get(ctx, key).Result()
		if err == nil && cached != "" {
			var ticketTypes []models.TicketType
			if err := json.Unmarshal([]byte(cached), &ticketTypes); err == nil {
				return ticketTypes, nil
			}
		}
	}

	var ticketTypes []models.TicketType
	db := db.GetDb()
	err := db.WithContext(ctx).
		Model(&models.TicketType{}).
		Where(&models.TicketType{EventID: eventID, Active: true}).
		Order("price asc").
		Find(&ticketTypes).
		Error
	if err != nil {
		return nil, err
	}

	if rd != nil {
		if body, err := json.Marshal(ticketTypes); err == nil {
			if err := rd.Set(ctx, key, string(body), ticketTypeCacheTTL).Err(); err != nil {
				log.Printf("Error caching ticket types for event %d: %s\n", eventID, err.Error())
			}
		}
	}
	return ticketTypes, nil
}

// InvalidateTicketTypeCache drops the cached listing after a booking
// changes availability.
func InvalidateTicketTypeCache(eventID uint) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(context.Background(), ticketTypeCacheKey(eventID)).Err(); err != nil {
		log.Printf("Error invalidating ticket type cache for event %d: %s\n", eventID, err.Error())
	}
}
