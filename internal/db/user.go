package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var userColumns = []string{
	"id", "email", "dni", "password_hash", "first_name", "last_name", "phone", "address",
	"birth_date", "role", "is_active", "telegram_chat_id", "created_at", "updated_at",
}

func scanUser(r rowScanner) (UserRecord, error) {
	var u UserRecord
	err := r.Scan(&u.ID, &u.Email, &u.DNI, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Address,
		&u.BirthDate, &u.Role, &u.IsActive, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func selectUsers() sq.SelectBuilder {
	return psql.Select(userColumns...).From("users")
}

func GetUserByID(ctx context.Context, q Querier, id int64) (*UserRecord, error) {
	return selectOne(ctx, q, selectUsers().Where(sq.Eq{"id": id}), scanUser)
}

func GetUserByEmail(ctx context.Context, q Querier, email string) (*UserRecord, error) {
	return selectOne(ctx, q, selectUsers().Where(sq.Eq{"email": email}), scanUser)
}

func GetUserByDNI(ctx context.Context, q Querier, dni string) (*UserRecord, error) {
	return selectOne(ctx, q, selectUsers().Where(sq.Eq{"dni": dni}), scanUser)
}

func GetUserByTelegramChatID(ctx context.Context, q Querier, chatID int64) (*UserRecord, error) {
	return selectOne(ctx, q, selectUsers().Where(sq.Eq{"telegram_chat_id": chatID}), scanUser)
}

// ListUsersByRole — пользователи роли; onlyActive=false вернёт и деактивированных.
func ListUsersByRole(ctx context.Context, q Querier, role string, onlyActive bool) ([]UserRecord, error) {
	b := selectUsers().Where(sq.Eq{"role": role})
	if onlyActive {
		b = b.Where(sq.Eq{"is_active": true})
	}
	return selectList(ctx, q, b.OrderBy("last_name", "first_name"), scanUser)
}

func ListActiveUsers(ctx context.Context, q Querier) ([]UserRecord, error) {
	return selectList(ctx, q, selectUsers().Where(sq.Eq{"is_active": true}).OrderBy("last_name", "first_name"), scanUser)
}

func CountUsersByRole(ctx context.Context, q Querier, role string) (int, error) {
	n, err := selectOne(ctx, q, psql.Select("COUNT(*)").From("users").Where(sq.Eq{"role": role}), scanCount)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// InsertUser — новая запись; при u.ID != 0 работает как insert-or-replace по первичному ключу.
func InsertUser(ctx context.Context, q Querier, u UserRecord) (int64, error) {
	now := time.Now()
	cols := []string{"email", "dni", "password_hash", "first_name", "last_name", "phone", "address",
		"birth_date", "role", "is_active", "telegram_chat_id", "created_at", "updated_at"}
	vals := []any{u.Email, u.DNI, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Address,
		u.BirthDate, u.Role, u.IsActive, u.TelegramChatID, now, now}

	b := psql.Insert("users")
	if u.ID == 0 {
		return insertReturningID(ctx, q, b.Columns(cols...).Values(vals...))
	}
	b = b.Columns(append([]string{"id"}, cols...)...).Values(append([]any{u.ID}, vals...)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			email = excluded.email, dni = excluded.dni, password_hash = excluded.password_hash,
			first_name = excluded.first_name, last_name = excluded.last_name, phone = excluded.phone,
			address = excluded.address, birth_date = excluded.birth_date, role = excluded.role,
			is_active = excluded.is_active, telegram_chat_id = excluded.telegram_chat_id,
			updated_at = excluded.updated_at`)
	return upsertReturningID(ctx, q, "users", b)
}

func UpdateUser(ctx context.Context, q Querier, u UserRecord) (int64, error) {
	return exec(ctx, q, `
		UPDATE users
		SET email = $1, dni = $2, password_hash = $3, first_name = $4, last_name = $5, phone = $6,
		    address = $7, birth_date = $8, role = $9, is_active = $10, telegram_chat_id = $11, updated_at = now()
		WHERE id = $12`,
		u.Email, u.DNI, u.PasswordHash, u.FirstName, u.LastName, u.Phone,
		u.Address, u.BirthDate, u.Role, u.IsActive, u.TelegramChatID, u.ID)
}

// SetUserActive — мягкое удаление / восстановление.
func SetUserActive(ctx context.Context, q Querier, id int64, active bool) (int64, error) {
	return exec(ctx, q, `UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
}

func SetUserTelegramChatID(ctx context.Context, q Querier, id int64, chatID *int64) (int64, error) {
	return exec(ctx, q, `UPDATE users SET telegram_chat_id = $1, updated_at = now() WHERE id = $2`, chatID, id)
}

func DeleteUser(ctx context.Context, q Querier, id int64) (int64, error) {
	return exec(ctx, q, `DELETE FROM users WHERE id = $1`, id)
}
