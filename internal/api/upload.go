package api

import (
	"context"        // Request context
	"mime/multipart" // Multipart file headers
	"net/http"       // HTTP status codes

	"eduvault/internal/metrics" // Upload counters
	"eduvault/internal/storage" // Object storage relay

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Uploader stores uploaded parts
type Uploader interface {
	Upload(ctx context.Context, parts []storage.Part) (map[string]storage.Blob, error)
}

// UploadHandler relays optional "file" and "thumbnail" parts to object storage
func UploadHandler(uploader Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parts []storage.Part // Parts present in the request
		for _, field := range []string{storage.FieldThumbnail, storage.FieldFile} {
			header, err := c.FormFile(field)
			if err != nil {
				continue // Part absent (or body not multipart)
			}
			f, err := header.Open()
			if err != nil {
				metrics.RecordUpload("error")
				respondError(c, "open "+field, err)
				return
			}
			defer f.Close()
			parts = append(parts, partFrom(field, header, f))
		}
		blobs, err := uploader.Upload(c.Request.Context(), parts)
		if err != nil {
			if len(parts) == 0 {
				metrics.RecordUpload("invalid")
			} else {
				metrics.RecordUpload("error")
			}
			respondError(c, "upload", err)
			return
		}
		metrics.RecordUpload("ok")
		logrus.WithField("parts", len(blobs)).Info("Upload relayed") // Log success
		resp := gin.H{"success": true}
		for field, blob := range blobs {
			resp[field] = blob // file / thumbnail
		}
		c.JSON(http.StatusOK, resp)
	}
}

func partFrom(field string, header *multipart.FileHeader, f multipart.File) storage.Part {
	return storage.Part{
		Field:       field,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}
}
