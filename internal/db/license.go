package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var licenseColumns = []string{
	"id", "name", "description", "category", "min_age", "requires_theory_exam", "requires_practical_exam",
	"requires_medical_exam", "validity_years", "price", "is_active",
}

func scanLicenseType(r rowScanner) (LicenseTypeRecord, error) {
	var l LicenseTypeRecord
	err := r.Scan(&l.ID, &l.Name, &l.Description, &l.Category, &l.MinAge, &l.RequiresTheoryExam,
		&l.RequiresPracticalExam, &l.RequiresMedicalExam, &l.ValidityYears, &l.Price, &l.IsActive)
	return l, err
}

func GetLicenseTypeByID(ctx context.Context, q Querier, id string) (*LicenseTypeRecord, error) {
	return selectOne(ctx, q, psql.Select(licenseColumns...).From("license_types").Where(sq.Eq{"id": id}), scanLicenseType)
}

// ListLicenseTypes (includeInactive=true — вернём и скрытые)
func ListLicenseTypes(ctx context.Context, q Querier, includeInactive bool) ([]LicenseTypeRecord, error) {
	b := psql.Select(licenseColumns...).From("license_types")
	if !includeInactive {
		b = b.Where(sq.Eq{"is_active": true})
	}
	return selectList(ctx, q, b.OrderBy("min_age", "id"), scanLicenseType)
}

func CountLicenseTypes(ctx context.Context, q Querier) (int, error) {
	n, err := selectOne(ctx, q, psql.Select("COUNT(*)").From("license_types"), scanCount)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// UpsertLicenseType — insert-or-replace по стабильному id каталога.
func UpsertLicenseType(ctx context.Context, q Querier, l LicenseTypeRecord) (int64, error) {
	return exec(ctx, q, `
		INSERT INTO license_types (id, name, description, category, min_age, requires_theory_exam,
		                           requires_practical_exam, requires_medical_exam, validity_years, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, description = excluded.description, category = excluded.category,
			min_age = excluded.min_age, requires_theory_exam = excluded.requires_theory_exam,
			requires_practical_exam = excluded.requires_practical_exam,
			requires_medical_exam = excluded.requires_medical_exam, validity_years = excluded.validity_years,
			price = excluded.price, is_active = excluded.is_active`,
		l.ID, l.Name, l.Description, l.Category, l.MinAge, l.RequiresTheoryExam,
		l.RequiresPracticalExam, l.RequiresMedicalExam, l.ValidityYears, l.Price, l.IsActive)
}

func UpdateLicenseType(ctx context.Context, q Querier, l LicenseTypeRecord) (int64, error) {
	return exec(ctx, q, `
		UPDATE license_types
		SET name = $1, description = $2, category = $3, min_age = $4, requires_theory_exam = $5,
		    requires_practical_exam = $6, requires_medical_exam = $7, validity_years = $8, price = $9, is_active = $10
		WHERE id = $11`,
		l.Name, l.Description, l.Category, l.MinAge, l.RequiresTheoryExam,
		l.RequiresPracticalExam, l.RequiresMedicalExam, l.ValidityYears, l.Price, l.IsActive, l.ID)
}

func SetLicenseTypeActive(ctx context.Context, q Querier, id string, active bool) (int64, error) {
	return exec(ctx, q, `UPDATE license_types SET is_active = $1 WHERE id = $2`, active, id)
}

func DeleteLicenseType(ctx context.Context, q Querier, id string) (int64, error) {
	return exec(ctx, q, `DELETE FROM license_types WHERE id = $1`, id)
}

// DeleteLicenseTypesExcept удаляет все записи каталога, чьих id нет в keep.
func DeleteLicenseTypesExcept(ctx context.Context, q Querier, keep []string) (int64, error) {
	return exec(ctx, q, `DELETE FROM license_types WHERE NOT (id = ANY($1))`, pq.Array(keep))
}
