package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cinelist/internal/models"
	"cinelist/internal/repository"

	"github.com/sirupsen/logrus"
)

const maxListNameLength = 100

type ListService struct {
	repo    repository.ListRepository
	catalog MediaLookup
	logger  *logrus.Logger
}

func NewListService(repo repository.ListRepository, catalog MediaLookup, logger *logrus.Logger) *ListService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ListService{repo: repo, catalog: catalog, logger: logger}
}

func listName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxListNameLength {
		return "", fmt.Errorf("%w: list name must be 1 to %d characters", ErrInvalidInput, maxListNameLength)
	}
	return name, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func (s *ListService) Create(ctx context.Context, userID int64, name string) (*models.List, error) {
	name, err := listName(name)
	if err != nil {
		return nil, err
	}

	list := &models.List{UserID: userID, Name: name}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "list_id": list.ID}).Info("List created")
	return list, nil
}

func (s *ListService) Lists(ctx context.Context, userID int64) ([]models.List, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the list if userID owns it. Lists owned by someone else are
// reported as not found.
func (s *ListService) Get(ctx context.Context, userID, listID int64) (*models.List, error) {
	list, err := s.repo.Get(ctx, userID, listID)
	if err != nil {
		return nil, notFound(err, "list")
	}
	return list, nil
}

func (s *ListService) Rename(ctx context.Context, userID, listID int64, name string) (*models.List, error) {
	name, err := listName(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, userID, listID, name); err != nil {
		return nil, notFound(err, "list")
	}
	return s.Get(ctx, userID, listID)
}

func (s *ListService) Delete(ctx context.Context, userID, listID int64) error {
	if err := s.repo.Delete(ctx, userID, listID); err != nil {
		return notFound(err, "list")
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "list_id": listID}).Info("List deleted")
	return nil
}

// AddItem puts a title on the list, storing the title name resolved through
// the catalog.
func (s *ListService) AddItem(ctx context.Context, userID, listID int64, mediaType string, mediaID int) (*models.ListItem, error) {
	kind, err := parseKind(mediaType)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return nil, err
	}

	detail, err := s.catalog.FetchDetail(ctx, kind, mediaID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrMediaNotFound
	}

	item := &models.ListItem{ListID: listID, Kind: kind, MediaID: mediaID, MediaTitle: detail.Title}
	if err := s.repo.AddItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrListItemExists
		}
		return nil, err
	}
	return item, nil
}

func (s *ListService) RemoveItem(ctx context.Context, userID, listID int64, mediaType string, mediaID int) error {
	kind, err := parseKind(mediaType)
	if err != nil {
		return err
	}
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.repo.RemoveItem(ctx, listID, kind, mediaID); err != nil {
		return notFound(err, "list item")
	}
	return nil
}
