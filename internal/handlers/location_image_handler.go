package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/imaging"
	"github.com/BruksfildServices01/reservas-api/internal/infra/storage"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

const maxImageBytes = 10 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type LocationImageHandler struct {
	repo  domain.LocationRepository
	store storage.ObjectStore
	audit *audit.Dispatcher
}

// NewLocationImageHandler accepts a nil store; uploads then answer 503.
func NewLocationImageHandler(
	repo domain.LocationRepository,
	store storage.ObjectStore,
	audit *audit.Dispatcher,
) *LocationImageHandler {
	return &LocationImageHandler{
		repo:  repo,
		store: store,
		audit: audit,
	}
}

func imageKey(locationID uint) string {
	return fmt.Sprintf("locations/%d/%s.webp", locationID, uuid.NewString())
}

// Upload: POST /api/locations/:id/images (multipart field "image")
func (h *LocationImageHandler) Upload(c *gin.Context) {
	if h.store == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_unavailable", "Armazenamento de imagens indisponível.")
		return
	}

	loc, ok := loadManagedLocation(c, h.repo)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Imagem obrigatória.")
		return
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(fh.Filename))] {
		httperr.BadRequest(c, "invalid_image_extension", "Apenas arquivos jpg, jpeg e png são permitidos.")
		return
	}
	if fh.Size > maxImageBytes {
		httperr.BadRequest(c, "image_too_large", "Imagem excede o tamanho máximo de 10MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Erro ao ler imagem.")
		return
	}
	defer f.Close()

	body, err := imaging.ToWebP(f, imaging.DefaultQuality)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			httperr.BadRequest(c, "invalid_image", "Arquivo de imagem inválido.")
			return
		}
		httperr.Internal(c, "failed_to_convert_image", "Erro ao processar imagem.")
		return
	}

	ctx := c.Request.Context()
	key := imageKey(loc.ID)

	url, err := h.store.Put(ctx, key, imaging.ContentType, body)
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_store_image", "Erro ao salvar imagem.")
		return
	}

	img := models.LocationImage{
		LocationID: loc.ID,
		URL:        url,
		ObjectKey:  key,
	}
	if err := h.repo.AddImage(ctx, &img); err != nil {
		_ = h.store.Delete(ctx, key)
		httperr.Internal(c, "failed_to_save_image", "Erro ao salvar imagem.")
		return
	}

	h.audit.Dispatch(audit.Event{
		LocationID: audit.UintPtr(loc.ID),
		UserID:     audit.UintPtr(middleware.ActorFrom(c).UserID),
		Action:     "location_image_uploaded",
		Entity:     "location_image",
		EntityID:   audit.UintPtr(img.ID),
	})

	c.JSON(http.StatusCreated, img)
}

// Delete: DELETE /api/locations/:id/images/:imageId
func (h *LocationImageHandler) Delete(c *gin.Context) {
	loc, ok := loadManagedLocation(c, h.repo)
	if !ok {
		return
	}

	imageID, ok := paramID(c, "imageId", "image_not_found", "Imagem não encontrada.")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	img, err := h.repo.GetImage(ctx, loc.ID, imageID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Respond(c, domain.ErrImageNotFound, "", "")
			return
		}
		httperr.Internal(c, "failed_to_get_image", "Erro ao buscar imagem.")
		return
	}

	if err := h.repo.DeleteImage(ctx, img); err != nil {
		httperr.Internal(c, "failed_to_delete_image", "Erro ao remover imagem.")
		return
	}

	// o registro já foi removido; falha no bucket só deixa um objeto órfão
	if h.store != nil {
		if err := h.store.Delete(ctx, img.ObjectKey); err != nil {
			_ = c.Error(err)
		}
	}

	h.audit.Dispatch(audit.Event{
		LocationID: audit.UintPtr(loc.ID),
		UserID:     audit.UintPtr(middleware.ActorFrom(c).UserID),
		Action:     "location_image_deleted",
		Entity:     "location_image",
		EntityID:   audit.UintPtr(img.ID),
	})

	c.Status(http.StatusNoContent)
}
