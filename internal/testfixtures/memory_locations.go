package testfixtures

import (
	"context"
	"sort"
	"strings"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

func (m *MemoryRepository) withImages(loc models.Location) models.Location {
	loc.Images = nil
	for _, img := range m.images {
		if img.LocationID == loc.ID {
			loc.Images = append(loc.Images, img)
		}
	}
	sort.Slice(loc.Images, func(i, j int) bool { return loc.Images[i].ID < loc.Images[j].ID })
	return loc
}

func (m *MemoryRepository) ListLocations(ctx context.Context, f domain.LocationFilter) ([]models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := []models.Location{}
	for _, loc := range m.locations {
		if f.OwnerID != 0 && loc.OwnerID != f.OwnerID {
			continue
		}
		if f.ActiveOnly && !loc.IsActive {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(loc.Name), query) &&
			!strings.Contains(strings.ToLower(loc.Address), query) {
			continue
		}
		out = append(out, m.withImages(loc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) FindLocation(ctx context.Context, id uint) (*models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.locations[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	loc = m.withImages(loc)
	return &loc, nil
}

func (m *MemoryRepository) CreateLocation(ctx context.Context, loc *models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc.ID = m.id()
	stored := *loc
	stored.Images = nil
	m.locations[loc.ID] = stored
	return nil
}

func (m *MemoryRepository) UpdateLocation(ctx context.Context, loc *models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.locations[loc.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	stored := *loc
	stored.Images = nil
	m.locations[loc.ID] = stored
	return nil
}

func (m *MemoryRepository) AddImage(ctx context.Context, img *models.LocationImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	img.ID = m.id()
	m.images[img.ID] = *img
	return nil
}

func (m *MemoryRepository) GetImage(ctx context.Context, locationID, imageID uint) (*models.LocationImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	img, ok := m.images[imageID]
	if !ok || img.LocationID != locationID {
		return nil, domain.ErrRecordNotFound
	}
	return &img, nil
}

func (m *MemoryRepository) DeleteImage(ctx context.Context, img *models.LocationImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.images, img.ID)
	return nil
}
