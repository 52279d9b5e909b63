package db

import (
	"context"
	"database/sql"
	"fmt"
)

// seedLockKey — ключ advisory-lock, чтобы два процесса не сидировали одновременно.
const seedLockKey = 7_302_118

// LicenseCatalog — фиксированный каталог типов прав. id стабильны: по ним идёт upsert.
var LicenseCatalog = []LicenseTypeRecord{
	{ID: "AM", Name: "Licencia AM", Description: "Мопеды до 50 см³", Category: "AM", MinAge: 15,
		RequiresTheoryExam: true, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 10, Price: 250, IsActive: true},
	{ID: "A1", Name: "Licencia A1", Description: "Мотоциклы до 125 см³", Category: "A1", MinAge: 16,
		RequiresTheoryExam: true, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 10, Price: 350, IsActive: true},
	{ID: "A2", Name: "Licencia A2", Description: "Мотоциклы до 35 кВт", Category: "A2", MinAge: 18,
		RequiresTheoryExam: true, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 10, Price: 450, IsActive: true},
	{ID: "A", Name: "Licencia A", Description: "Мотоциклы без ограничения мощности", Category: "A", MinAge: 20,
		RequiresTheoryExam: false, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 10, Price: 300, IsActive: true},
	{ID: "B", Name: "Licencia B", Description: "Легковые автомобили до 3500 кг", Category: "B", MinAge: 18,
		RequiresTheoryExam: true, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 10, Price: 600, IsActive: true},
	{ID: "BE", Name: "Licencia B+E", Description: "Автомобиль категории B с прицепом", Category: "BE", MinAge: 18,
		RequiresTheoryExam: false, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 10, Price: 400, IsActive: true},
	{ID: "C", Name: "Licencia C", Description: "Грузовые автомобили свыше 3500 кг", Category: "C", MinAge: 21,
		RequiresTheoryExam: true, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 5, Price: 1200, IsActive: true},
	{ID: "D", Name: "Licencia D", Description: "Автобусы, более 8 пассажиров", Category: "D", MinAge: 24,
		RequiresTheoryExam: true, RequiresPracticalExam: true, RequiresMedicalExam: true, ValidityYears: 5, Price: 1500, IsActive: true},
}

type AdminSeed struct {
	Email        string
	DNI          string
	PasswordHash string
	FirstName    string
	LastName     string
}

type SeedResult struct {
	CatalogSize   int
	RemovedStale  int64
	AdminInserted bool
}

// SeedCatalog приводит каталог к LicenseCatalog и создаёт администратора, если ни одного ADMIN ещё нет.
// Всё в одной транзакции: повторный запуск ничего не дублирует.
func SeedCatalog(ctx context.Context, database *sql.DB, admin AdminSeed) (SeedResult, error) {
	var res SeedResult

	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return res, fmt.Errorf("seed lock: %w", err)
	}

	keep := make([]string, 0, len(LicenseCatalog))
	for _, l := range LicenseCatalog {
		if _, err := UpsertLicenseType(ctx, tx, l); err != nil {
			return res, fmt.Errorf("upsert license type %s: %w", l.ID, err)
		}
		keep = append(keep, l.ID)
	}
	removed, err := DeleteLicenseTypesExcept(ctx, tx, keep)
	if err != nil {
		return res, fmt.Errorf("delete stale license types: %w", err)
	}

	admins, err := CountUsersByRole(ctx, tx, "ADMIN")
	if err != nil {
		return res, fmt.Errorf("count admins: %w", err)
	}
	if admins == 0 {
		if _, err := InsertUser(ctx, tx, UserRecord{
			Email:        admin.Email,
			DNI:          admin.DNI,
			PasswordHash: admin.PasswordHash,
			FirstName:    admin.FirstName,
			LastName:     admin.LastName,
			Role:         "ADMIN",
			IsActive:     true,
		}); err != nil {
			return res, fmt.Errorf("insert admin: %w", err)
		}
		res.AdminInserted = true
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	res.CatalogSize = len(LicenseCatalog)
	res.RemovedStale = removed
	return res, nil
}
