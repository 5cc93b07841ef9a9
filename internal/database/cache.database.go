package database

import (
	"fmt"

	"sitelog/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index provides logical
// separation for one cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous cache operations
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - auth sessions keyed by token ID
	SESSION_CACHE_INDEX

	// PROJECT_CACHE_INDEX (DB 2) - per-project configuration: checklist
	// hierarchies, coordinate settings, property mappings
	PROJECT_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub fan-out for the selection channel
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.ErrMsg("cache address or port is empty")
	}

	initAddress := []string{fmt.Sprintf("%s:%d", address, port)}

	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&s.Cache.General, GENERAL_CACHE_INDEX, "general"},
		{&s.Cache.Session, SESSION_CACHE_INDEX, "session"},
		{&s.Cache.Project, PROJECT_CACHE_INDEX, "project"},
		{&s.Cache.Events, EVENTS_CACHE_INDEX, "events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: initAddress,
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create valkey client", err, "client", c.name)
		}
		*c.target = client
	}

	log.Info("Cache database initialized", "address", address, "port", port)

	return nil
}
