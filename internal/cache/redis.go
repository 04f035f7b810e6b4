package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skyfare/ticketdesk/config"
	"github.com/skyfare/ticketdesk/internal/domain"
)

// RedisCache backs two concerns: the bearer-token session store and the
// reference-data cache for countries and airlines.
type RedisCache struct {
	client     *redis.Client
	refdataTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, refdataTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		refdataTTL: refdataTTL,
	}
}

func (c *RedisCache) SaveSession(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return c.client.Set(ctx, sessionKey(token), userID, ttl).Err()
}

// GetSession resolves a bearer token to a user id. A missing or expired
// token is not an error; found is false.
func (c *RedisCache) GetSession(ctx context.Context, token string) (int64, bool, error) {
	userID, err := c.client.Get(ctx, sessionKey(token)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

func (c *RedisCache) DeleteSession(ctx context.Context, token string) error {
	return c.client.Del(ctx, sessionKey(token)).Err()
}

func (c *RedisCache) GetCountries(ctx context.Context) ([]domain.Country, error) {
	data, err := c.client.Get(ctx, countriesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var countries []domain.Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *RedisCache) SetCountries(ctx context.Context, countries []domain.Country) error {
	payload, err := json.Marshal(countries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, countriesKey(), payload, c.refdataTTL).Err()
}

func (c *RedisCache) GetAirlines(ctx context.Context) ([]domain.Airline, error) {
	data, err := c.client.Get(ctx, airlinesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var airlines []domain.Airline
	if err := json.Unmarshal(data, &airlines); err != nil {
		return nil, err
	}
	return airlines, nil
}

func (c *RedisCache) SetAirlines(ctx context.Context, airlines []domain.Airline) error {
	payload, err := json.Marshal(airlines)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airlinesKey(), payload, c.refdataTTL).Err()
}

func sessionKey(token string) string {
	return "session:" + token
}

func countriesKey() string {
	return "cache:countries"
}

func airlinesKey() string {
	return "cache:airlines"
}
