package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewTicketRepository(pool))
	assert.NotNil(t, NewBatchRepository(pool))
	assert.NotNil(t, NewBookingRepository(pool))
	assert.NotNil(t, NewUserRepository(pool))
	assert.NotNil(t, NewRefDataRepository(pool))
}
