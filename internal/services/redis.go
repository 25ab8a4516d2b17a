package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// MapMarker is the projection the map UI plots per visible listing.
type MapMarker struct {
	ID           uint    `json:"id"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	PricePerHour float64 `json:"pricePerHour"`
	IsAvailable  bool    `json:"isAvailable"`
	OwnerName    string  `json:"ownerName"`
}

// SetMapMarkers caches the per-viewer marker set. Visibility depends on the
// viewer's relationships, so the cache is keyed by viewer id with a short
// TTL; booking and relationship mutations simply let it expire.
func SetMapMarkers(ctx context.Context, viewerID uint, markers []MapMarker) error {
	data, err := json.Marshal(markers)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("markers:viewer:%d", viewerID)
	return RedisClient.Set(ctx, key, data, time.Minute).Err()
}

// GetMapMarkers retrieves the cached marker set for a viewer.
func GetMapMarkers(ctx context.Context, viewerID uint) ([]MapMarker, error) {
	key := fmt.Sprintf("markers:viewer:%d", viewerID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var markers []MapMarker
	if err := json.Unmarshal([]byte(data), &markers); err != nil {
		return nil, err
	}
	return markers, nil
}

// InvalidateMapMarkers drops a viewer's cached markers, used when the viewer
// mutates their own listings and expects the map to reflect it immediately.
func InvalidateMapMarkers(ctx context.Context, viewerID uint) error {
	key := fmt.Sprintf("markers:viewer:%d", viewerID)
	return RedisClient.Del(ctx, key).Err()
}

// PublishBookingUpdate publishes a booking status change to Redis pub/sub.
// The polling UI tier subscribes to know when to re-fetch.
func PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:updates", jsonData).Err()
}
