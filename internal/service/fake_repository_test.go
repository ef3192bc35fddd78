package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
)

var errStoreDown = errors.New("connection refused")

type fakeCheckinRepository struct {
	mu       sync.Mutex
	records  map[string]*model.Checkin
	inserts  int
	getErr   error
	listErr  error
	insertFn func(*model.Checkin) error
}

func newFakeCheckinRepository() *fakeCheckinRepository {
	return &fakeCheckinRepository{records: make(map[string]*model.Checkin)}
}

func fakeKey(year int, date string) string {
	return fmt.Sprintf("%d/%s", year, date)
}

func (f *fakeCheckinRepository) Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.records[fakeKey(year, dateISO)]
	if !ok {
		return nil, repository.ErrCheckinNotFound
	}
	return c, nil
}

func (f *fakeCheckinRepository) Checkins(ctx context.Context, year int) ([]*model.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Checkin
	for _, c := range f.records {
		if c.Year == year {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateISO < out[j].DateISO })
	return out, nil
}

func (f *fakeCheckinRepository) InsertIfAbsent(ctx context.Context, c *model.Checkin) error {
	if f.insertFn != nil {
		err := f.insertFn(c)
		if err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	key := fakeKey(c.Year, c.DateISO)
	if _, ok := f.records[key]; ok {
		return repository.ErrCheckinExists
	}
	f.records[key] = c
	return nil
}

func (f *fakeCheckinRepository) put(c *model.Checkin) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[fakeKey(c.Year, c.DateISO)] = c
}

type fakeRamadanDayRepository struct {
	days    []model.RamadanDay
	creates int
}

func (f *fakeRamadanDayRepository) HasYear(ctx context.Context, year int) (bool, error) {
	for _, d := range f.days {
		if d.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRamadanDayRepository) CreateDays(ctx context.Context, days []model.RamadanDay) error {
	f.creates++
	f.days = append(f.days, days...)
	return nil
}

func (f *fakeRamadanDayRepository) Days(ctx context.Context, year int) ([]*model.RamadanDay, error) {
	var out []*model.RamadanDay
	for i := range f.days {
		if f.days[i].Year == year {
			out = append(out, &f.days[i])
		}
	}
	return out, nil
}
