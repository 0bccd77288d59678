package media

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Object is an uploaded file. The bytes live in object storage under FilePath.
type Object struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	FilePath    string `gorm:"not null" json:"file_path"`
	ContentType string `gorm:"size:127" json:"content_type"`
	Size        int64  `json:"size"`
	UploaderID  *uint  `gorm:"index" json:"uploader_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Object) TableName() string { return "media_objects" }

func (o *Object) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ContentURL joins the public base of the bucket with the object key.
func (o Object) ContentURL(base string) string {
	if base == "" {
		return "/" + o.FilePath
	}
	return strings.TrimRight(base, "/") + "/" + o.FilePath
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds the storage key for an upload: media/<id>/<clean filename>.
func ObjectKey(id, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		name = "file"
	}
	return path.Join("media", id, name)
}
