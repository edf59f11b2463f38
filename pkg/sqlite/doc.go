// Package sqlite provides a SQLite backend for persisted sessions using the
// pure Go modernc.org/sqlite driver.
//
//	db, err := sqlite.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	storage, err := sqlite.NewStorageFromConfig(db, cfg)
//	if err != nil {
//		return err
//	}
//	adapter := persist.New(storage)
package sqlite
