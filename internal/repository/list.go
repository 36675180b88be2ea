package repository

import (
	"context"
	"fmt"

	"cinelist/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// ListRepository stores user lists. Every lookup is scoped to the owner, so a
// list that belongs to someone else reads as ErrNotFound.
type ListRepository interface {
	Create(ctx context.Context, list *models.List) error
	ListByUser(ctx context.Context, userID int64) ([]models.List, error)
	Get(ctx context.Context, userID, listID int64) (*models.List, error)
	Rename(ctx context.Context, userID, listID int64, name string) error
	Delete(ctx context.Context, userID, listID int64) error
	AddItem(ctx context.Context, item *models.ListItem) error
	RemoveItem(ctx context.Context, listID int64, kind models.Kind, mediaID int) error
}

type listRepository struct {
	db DBTX
}

func NewListRepository(db DBTX) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *models.List) error {
	query, args, err := psql.Insert("lists").
		Columns("user_id", "name").
		Values(list.UserID, list.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert list query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&list.ID, &list.CreatedAt); err != nil {
		return fmt.Errorf("failed to create list: %w", translate(err))
	}
	if list.Items == nil {
		list.Items = []models.ListItem{}
	}
	return nil
}

// ListByUser returns the user's lists, oldest first, each with its items.
func (r *listRepository) ListByUser(ctx context.Context, userID int64) ([]models.List, error) {
	query, args, err := psql.Select("id", "user_id", "name", "created_at").
		From("lists").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select lists query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	lists := []models.List{}
	ids := []int64{}
	for rows.Next() {
		l := models.List{Items: []models.ListItem{}}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list row: %w", err)
		}
		lists = append(lists, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating list rows: %w", err)
	}
	if len(ids) == 0 {
		return lists, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if its, ok := items[lists[i].ID]; ok {
			lists[i].Items = its
		}
	}
	return lists, nil
}

func (r *listRepository) Get(ctx context.Context, userID, listID int64) (*models.List, error) {
	query, args, err := psql.Select("id", "user_id", "name", "created_at").
		From("lists").
		Where(sq.Eq{"id": listID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select list query: %w", err)
	}

	l := models.List{Items: []models.ListItem{}}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to get list: %w", translate(err))
	}

	items, err := r.items(ctx, []int64{l.ID})
	if err != nil {
		return nil, err
	}
	if its, ok := items[l.ID]; ok {
		l.Items = its
	}
	return &l, nil
}

func (r *listRepository) items(ctx context.Context, listIDs []int64) (map[int64][]models.ListItem, error) {
	query, args, err := psql.Select("id", "list_id", "media_type", "media_id", "media_title", "added_at").
		From("list_items").
		Where(sq.Eq{"list_id": listIDs}).
		OrderBy("added_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select list items query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query list items: %w", err)
	}
	defer rows.Close()

	byList := make(map[int64][]models.ListItem, len(listIDs))
	for rows.Next() {
		var it models.ListItem
		var kind string
		if err := rows.Scan(&it.ID, &it.ListID, &kind, &it.MediaID, &it.MediaTitle, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list item row: %w", err)
		}
		it.Kind = models.Kind(kind)
		byList[it.ListID] = append(byList[it.ListID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating list item rows: %w", err)
	}
	return byList, nil
}

func (r *listRepository) Rename(ctx context.Context, userID, listID int64, name string) error {
	query, args, err := psql.Update("lists").
		Set("name", name).
		Where(sq.Eq{"id": listID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build rename list query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to rename list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the list; its items go with it through ON DELETE CASCADE.
func (r *listRepository) Delete(ctx context.Context, userID, listID int64) error {
	query, args, err := psql.Delete("lists").Where(sq.Eq{"id": listID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete list query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddItem inserts item and fills in its ID and AddedAt. Adding the same
// title twice to a list returns ErrDuplicate.
func (r *listRepository) AddItem(ctx context.Context, item *models.ListItem) error {
	query, args, err := psql.Insert("list_items").
		Columns("list_id", "media_type", "media_id", "media_title").
		Values(item.ListID, string(item.Kind), item.MediaID, item.MediaTitle).
		Suffix("RETURNING id, added_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert list item query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&item.ID, &item.AddedAt); err != nil {
		return fmt.Errorf("failed to add list item: %w", translate(err))
	}
	return nil
}

func (r *listRepository) RemoveItem(ctx context.Context, listID int64, kind models.Kind, mediaID int) error {
	query, args, err := psql.Delete("list_items").
		Where(sq.Eq{"list_id": listID, "media_type": string(kind), "media_id": mediaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete list item query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to remove list item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
