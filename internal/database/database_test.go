package database

import (
	"testing"

	"sitelog/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, PROJECT_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Equal(t, log, db.log)
	assert.Nil(t, db.SQL)
}

func TestCacheBuilder_KeyHandling(t *testing.T) {
	t.Run("string key with hash prefix", func(t *testing.T) {
		cb := NewCacheBuilder[string](nil, "abc").WithHash("month_locks")
		assert.Equal(t, "month_locks:abc", cb.key)
	})

	t.Run("empty key rejected on get", func(t *testing.T) {
		cb := NewCacheBuilder[string](nil, "")
		var out any
		found, err := cb.Get(&out)
		assert.False(t, found)
		assert.Error(t, err)
	})

	t.Run("marshal failure is carried", func(t *testing.T) {
		cb := NewCacheBuilder[string](nil, "key").WithStruct(make(chan int))
		err := cb.Set()
		assert.Error(t, err)
	})
}
