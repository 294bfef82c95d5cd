/*
Package storage persists intermediate tables between cleaning stages.

DirStore writes one CSV file per label, the layout analysts open directly:

	store := storage.NewDirStore("data/intermediate")
	err := store.Save(ctx, "gen_data_clean", table)

SQLiteStore keeps every label in a single database and also records the
cleaning statistics of each run:

	db, err := storage.OpenSQLite("data/clean.db", logger)
	defer db.Close()
	err = db.Save(ctx, "gen_data_clean", table)
	err = db.SaveReport(ctx, runID, record)
*/
package storage
