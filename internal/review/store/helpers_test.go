package store_test

import (
	"time"

	"profilr/internal/platform/config"
)

func testStoreConfig(uri string) config.Store {
	return config.Store{
		URI:            uri,
		Database:       "profilr_test",
		Collection:     "reviews",
		ConnectTimeout: 5 * time.Second,
	}
}
