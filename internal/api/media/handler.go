package media

import (
	"net/http"
	"sync"

	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/media"
	"artshare-api/internal/infra/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadBytes = 10 << 20

var (
	mu    sync.RWMutex
	store storage.ObjectStore
)

// SetStore installs the object store used by uploads. Nil disables uploads.
func SetStore(s storage.ObjectStore) {
	mu.Lock()
	defer mu.Unlock()
	store = s
}

func currentStore() storage.ObjectStore {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// POST /media_objects
func UploadMediaObject(c *gin.Context) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	s := currentStore()
	if s == nil {
		apierr.Respond(c, apierr.ErrUnavailable)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		apierr.Respond(c, apierr.Field("file", "file is a required field"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	obj := &media.Object{
		ID:          uuid.NewString(),
		ContentType: contentType,
		Size:        fh.Size,
		UploaderID:  &userID,
	}
	obj.FilePath = media.ObjectKey(obj.ID, fh.Filename)

	ctx := c.Request.Context()
	if err := s.Put(ctx, obj.FilePath, f, fh.Size, contentType); err != nil {
		apierr.Respond(c, err)
		return
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(obj).Error
	})
	if err != nil {
		if derr := s.Delete(ctx, obj.FilePath); derr != nil {
			log.Context(ctx).Warnw("msg", "orphaned media object", "key", obj.FilePath, "error", derr.Error())
		}
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.Media(obj))
}

// GET /media_objects/:id
func GetMediaObject(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apierr.Respond(c, apierr.ErrNotFound)
		return
	}
	var obj media.Object
	if err := database.DB.WithContext(c.Request.Context()).First(&obj, "id = ?", id).Error; err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.Media(&obj))
}
