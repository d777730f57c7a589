package main

import (
	"Inventaris/internal/repo"
	boltstore "Inventaris/internal/repo/bolt"
	"fmt"
)

// storage: набор репозиториев выбранного драйвера.
type storage struct {
	items      repo.ItemRepository
	borrowings repo.BorrowingRepository
	users      repo.UserRepository
	close      func() error
}

func openStorage(driver, dsn string) (*storage, error) {
	switch driver {
	case repo.DriverBolt:
		st, err := boltstore.Open(dsn)
		if err != nil {
			return nil, err
		}
		return &storage{items: st.Items(), borrowings: st.Borrowings(), users: st.Users(), close: st.Close}, nil
	case repo.DriverSQLite, repo.DriverPostgres:
		db, err := repo.InitDB(driver, dsn)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql handle: %w", err)
		}
		return &storage{
			items:      repo.NewItemRepository(db),
			borrowings: repo.NewBorrowingRepository(db),
			users:      repo.NewUserRepository(db),
			close:      sqlDB.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
