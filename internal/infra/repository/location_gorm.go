package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

type LocationGormRepository struct {
	db *gorm.DB
}

func NewLocationGormRepository(db *gorm.DB) *LocationGormRepository {
	return &LocationGormRepository{db: db}
}

// --------------------------------------------------
// Location
// --------------------------------------------------

func (r *LocationGormRepository) ListLocations(
	ctx context.Context,
	f domain.LocationFilter,
) ([]models.Location, error) {

	q := r.db.WithContext(ctx).Preload("Images")

	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}

	var locs []models.Location
	if err := q.Order("id ASC").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *LocationGormRepository) FindLocation(
	ctx context.Context,
	id uint,
) (*models.Location, error) {

	var loc models.Location
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		First(&loc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &loc, nil
}

func (r *LocationGormRepository) CreateLocation(
	ctx context.Context,
	loc *models.Location,
) error {
	return r.db.WithContext(ctx).Omit("Owner", "Images").Create(loc).Error
}

func (r *LocationGormRepository) UpdateLocation(
	ctx context.Context,
	loc *models.Location,
) error {
	return r.db.WithContext(ctx).Omit("Owner", "Images").Save(loc).Error
}

// --------------------------------------------------
// Images
// --------------------------------------------------

func (r *LocationGormRepository) AddImage(
	ctx context.Context,
	img *models.LocationImage,
) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *LocationGormRepository) GetImage(
	ctx context.Context,
	locationID uint,
	imageID uint,
) (*models.LocationImage, error) {

	var img models.LocationImage
	if err := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ?", imageID, locationID).
		First(&img).Error; err != nil {
		return nil, notFound(err)
	}
	return &img, nil
}

func (r *LocationGormRepository) DeleteImage(
	ctx context.Context,
	img *models.LocationImage,
) error {
	return r.db.WithContext(ctx).Delete(img).Error
}

// Compile-time check
var _ domain.LocationRepository = (*LocationGormRepository)(nil)
