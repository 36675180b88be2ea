package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cinelist/internal/models"
	"cinelist/internal/repository"
)

// fakeLookup serves canned details and credits and counts lookups.
type fakeLookup struct {
	details map[models.Kind]map[int]*models.MediaDetail
	credits map[models.Kind]map[int]*models.Credits
	calls   int
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		details: map[models.Kind]map[int]*models.MediaDetail{},
		credits: map[models.Kind]map[int]*models.Credits{},
	}
}

func (f *fakeLookup) addDetail(d *models.MediaDetail) {
	if f.details[d.Kind] == nil {
		f.details[d.Kind] = map[int]*models.MediaDetail{}
	}
	f.details[d.Kind][d.ID] = d
}

func (f *fakeLookup) addCredits(kind models.Kind, c *models.Credits) {
	if f.credits[kind] == nil {
		f.credits[kind] = map[int]*models.Credits{}
	}
	f.credits[kind][c.ID] = c
}

func (f *fakeLookup) FetchDetail(_ context.Context, kind models.Kind, id int) (*models.MediaDetail, error) {
	f.calls++
	return f.details[kind][id], nil
}

func (f *fakeLookup) FetchCredits(_ context.Context, kind models.Kind, id int) (*models.Credits, error) {
	f.calls++
	return f.credits[kind][id], nil
}

type ratingKey struct {
	user int64
	kind models.Kind
	id   int
}

type fakeRatingRepo struct {
	mu     sync.Mutex
	movies map[ratingKey]*models.RatedMovie
	series map[ratingKey]*models.RatedSeries
	anime  map[ratingKey]*models.RatedAnime
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		movies: map[ratingKey]*models.RatedMovie{},
		series: map[ratingKey]*models.RatedSeries{},
		anime:  map[ratingKey]*models.RatedAnime{},
	}
}

func (f *fakeRatingRepo) base(k ratingKey) *models.Rating {
	switch k.kind {
	case models.KindMovie:
		if r, ok := f.movies[k]; ok {
			return &r.Rating
		}
	case models.KindSeries:
		if r, ok := f.series[k]; ok {
			return &r.Rating
		}
	case models.KindAnime:
		if r, ok := f.anime[k]; ok {
			return &r.Rating
		}
	}
	return nil
}

func (f *fakeRatingRepo) Exists(_ context.Context, userID int64, kind models.Kind, mediaID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.base(ratingKey{userID, kind, mediaID}) != nil, nil
}

func stamp(r *models.Rating) {
	now := time.Now()
	r.CreatedAt, r.UpdatedAt = now, now
}

func (f *fakeRatingRepo) InsertMovie(_ context.Context, r *models.RatedMovie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := ratingKey{r.UserID, models.KindMovie, r.MediaID}
	if _, ok := f.movies[k]; ok {
		return repository.ErrDuplicate
	}
	stamp(&r.Rating)
	cp := *r
	f.movies[k] = &cp
	return nil
}

func (f *fakeRatingRepo) InsertSeries(_ context.Context, r *models.RatedSeries) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := ratingKey{r.UserID, models.KindSeries, r.MediaID}
	if _, ok := f.series[k]; ok {
		return repository.ErrDuplicate
	}
	stamp(&r.Rating)
	cp := *r
	f.series[k] = &cp
	return nil
}

func (f *fakeRatingRepo) InsertAnime(_ context.Context, r *models.RatedAnime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := ratingKey{r.UserID, models.KindAnime, r.MediaID}
	if _, ok := f.anime[k]; ok {
		return repository.ErrDuplicate
	}
	stamp(&r.Rating)
	cp := *r
	f.anime[k] = &cp
	return nil
}

func (f *fakeRatingRepo) UpdateRating(_ context.Context, userID int64, kind models.Kind, mediaID int, rating float64, comment *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.base(ratingKey{userID, kind, mediaID})
	if b == nil {
		return repository.ErrNotFound
	}
	b.Rating, b.Comment, b.UpdatedAt = rating, comment, time.Now()
	return nil
}

func (f *fakeRatingRepo) GetSeries(_ context.Context, userID int64, mediaID int) (*models.RatedSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.series[ratingKey{userID, models.KindSeries, mediaID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRatingRepo) UpdateSeriesCredits(_ context.Context, userID int64, mediaID int, creator, cast *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.series[ratingKey{userID, models.KindSeries, mediaID}]
	if !ok {
		return repository.ErrNotFound
	}
	if creator != nil {
		r.Creator = creator
	}
	if cast != nil {
		r.Cast = cast
	}
	return nil
}

func (f *fakeRatingRepo) Delete(_ context.Context, userID int64, kind models.Kind, mediaID int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := ratingKey{userID, kind, mediaID}
	b := f.base(k)
	if b == nil {
		return "", repository.ErrNotFound
	}
	title := b.Title
	delete(f.movies, k)
	delete(f.series, k)
	delete(f.anime, k)
	return title, nil
}

func (f *fakeRatingRepo) List(_ context.Context, userID int64, kind models.Kind) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Rating{}
	for k := range f.movies {
		if k.user == userID && k.kind == kind {
			out = append(out, *f.base(k))
		}
	}
	for k := range f.series {
		if k.user == userID && k.kind == kind {
			out = append(out, *f.base(k))
		}
	}
	for k := range f.anime {
		if k.user == userID && k.kind == kind {
			out = append(out, *f.base(k))
		}
	}
	return out, nil
}

type fakeListRepo struct {
	mu     sync.Mutex
	nextID int64
	lists  map[int64]*models.List
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: map[int64]*models.List{}}
}

func (f *fakeListRepo) Create(_ context.Context, l *models.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	l.CreatedAt = time.Now()
	l.Items = []models.ListItem{}
	cp := *l
	f.lists[l.ID] = &cp
	return nil
}

func (f *fakeListRepo) ListByUser(_ context.Context, userID int64) ([]models.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.List{}
	for id := int64(1); id <= f.nextID; id++ {
		if l, ok := f.lists[id]; ok && l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListRepo) owned(userID, listID int64) (*models.List, error) {
	l, ok := f.lists[listID]
	if !ok || l.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (f *fakeListRepo) Get(_ context.Context, userID, listID int64) (*models.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, err := f.owned(userID, listID)
	if err != nil {
		return nil, err
	}
	cp := *l
	cp.Items = append([]models.ListItem{}, l.Items...)
	return &cp, nil
}

func (f *fakeListRepo) Rename(_ context.Context, userID, listID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, err := f.owned(userID, listID)
	if err != nil {
		return err
	}
	l.Name = name
	return nil
}

func (f *fakeListRepo) Delete(_ context.Context, userID, listID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(userID, listID); err != nil {
		return err
	}
	delete(f.lists, listID)
	return nil
}

func (f *fakeListRepo) AddItem(_ context.Context, item *models.ListItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[item.ListID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, it := range l.Items {
		if it.Kind == item.Kind && it.MediaID == item.MediaID {
			return repository.ErrDuplicate
		}
	}
	item.ID = int64(len(l.Items) + 1)
	item.AddedAt = time.Now()
	l.Items = append(l.Items, *item)
	return nil
}

func (f *fakeListRepo) RemoveItem(_ context.Context, listID int64, kind models.Kind, mediaID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[listID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, it := range l.Items {
		if it.Kind == kind && it.MediaID == mediaID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = int64(len(f.users) + 1)
	u.CreatedAt = time.Now()
	cp := *u
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ListExcept(_ context.Context, id int64) ([]models.UserPublic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.UserPublic{}
	for _, u := range f.users {
		if u.ID != id {
			out = append(out, models.UserPublic{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID int64) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}
