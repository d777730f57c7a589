package service

import (
	"Inventaris/internal/model"
	"context"
	"errors"

	"go.uber.org/zap"
)

type demoItem struct {
	name, description string
	stock             int
}

var demoItems = []demoItem{
	{"Proyektor Epson EB-X41", "Proyektor untuk presentasi dan seminar, XGA 1024x768", 2},
	{"Kamera DSLR Canon EOS 1300D", "Kamera untuk dokumentasi kegiatan, lensa kit 18-55mm", 1},
	{"Speaker Bluetooth JBL Charge 4", "Speaker portable untuk acara outdoor dan indoor", 3},
	{"Microphone Wireless Shure SM58", "Microphone untuk MC, pembicara dan panggung", 4},
	{"Laptop Acer Aspire 5", "Laptop untuk administrasi dan presentasi, Intel Core i5", 1},
	{"Tripod Kamera Manfrotto", "Tripod untuk kamera dan smartphone, max 165cm", 2},
}

var demoUsers = []struct {
	login, name string
}{
	{"mahasiswa1", "Ahmad Budi Santoso"},
	{"mahasiswa2", "Sari Dewi Lestari"},
}

const demoPassword = "user123"

// Seed заполняет пустой каталог демонстрационными данными и заводит демо-пользователей.
// Повторный запуск ничего не дублирует.
func Seed(ctx context.Context, catalog *Catalog, users *UserService, logger *zap.SugaredLogger) error {
	items, err := catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		for _, d := range demoItems {
			if _, err := catalog.Create(ctx, system, d.name, d.description, d.stock); err != nil {
				return err
			}
		}
		logger.Infow("demo items seeded", "count", len(demoItems))
	}

	for _, u := range demoUsers {
		_, err := users.register(ctx, u.login, demoPassword, u.name, model.RoleUser)
		if errors.Is(err, ErrLoginTaken) {
			continue
		}
		if err != nil {
			return err
		}
		logger.Infow("demo user created", "username", u.login)
	}
	return nil
}
