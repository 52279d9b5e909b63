package repository

import (
	"context"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/live"
	"github.com/Spok95/driving-school-bot/internal/mapper"
	"github.com/Spok95/driving-school-bot/internal/models"
)

type UserRepository struct{ base }

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetUserByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.UserToDomain), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetUserByEmail(ctx, r.db, email)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.UserToDomain), nil
}

func (r *UserRepository) GetByDNI(ctx context.Context, dni string) (*models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetUserByDNI(ctx, r.db, dni)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.UserToDomain), nil
}

func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	rec, err := db.GetUserByTelegramChatID(ctx, r.db, chatID)
	if err != nil {
		return nil, err
	}
	return mapOne(rec, mapper.UserToDomain), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role models.Role, onlyActive bool) ([]models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.ListUsersByRole(ctx, r.db, string(role), onlyActive)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.UserToDomain), nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]models.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	recs, err := db.ListActiveUsers(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return mapAll(recs, mapper.UserToDomain), nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	return db.CountUsersByRole(ctx, r.db, string(role))
}

// Insert — вставка, а при ненулевом ID замена записи по первичному ключу. Возвращает id.
func (r *UserRepository) Insert(ctx context.Context, u models.User) (int64, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	id, err := db.InsertUser(ctx, r.db, mapper.UserToRecord(u))
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.Users)
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, u models.User) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.UpdateUser(ctx, r.db, mapper.UserToRecord(u))
	if err != nil {
		return err
	}
	r.changed(n, live.Users)
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.SetUserActive(ctx, r.db, id, active)
	if err != nil {
		return err
	}
	r.changed(n, live.Users)
	return nil
}

func (r *UserRepository) SetTelegramChatID(ctx context.Context, id int64, chatID *int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.SetUserTelegramChatID(ctx, r.db, id, chatID)
	if err != nil {
		return err
	}
	r.changed(n, live.Users)
	return nil
}

// Delete удаляет пользователя вместе с его записями (каскад в БД).
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	n, err := db.DeleteUser(ctx, r.db, id)
	if err != nil {
		return err
	}
	r.changed(n, live.Users)
	return nil
}

func (r *UserRepository) WatchByRole(ctx context.Context, role models.Role) <-chan live.Snapshot[models.User] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]models.User, error) {
		return r.ListByRole(ctx, role, false)
	}, live.Users)
}

func (r *UserRepository) WatchActive(ctx context.Context) <-chan live.Snapshot[models.User] {
	return live.Watch(ctx, r.hub, r.ListActive, live.Users)
}
