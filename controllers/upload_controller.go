package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
	"github.com/ortega-imprenta/orders-api/utils"
)

// UploadOrderFile handles POST /api/v1/orders/:id/files - uploads a
// production file for an order. The multipart form carries the file under
// "file" and the production area under "area". Files are stored under
// {folio}/{area folder}/.
func UploadOrderFile(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	area := c.PostForm("area")
	folder, ok := models.WorkTypeFolders[area]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_AREA",
				"message": "Area is not a recognized production category",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A file is required",
			},
		})
		return
	}

	if err := utils.ValidateOrderFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	contentType := utils.ContentTypeFor(fileHeader.Filename)
	key := utils.BuildStorageKey(order.Folio, folder, fileHeader.Filename)
	if err := s3Service.UploadFile(fileHeader, key, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store the file",
			},
		})
		return
	}

	orderFile := models.OrderFile{
		OrderID:    order.ID,
		Name:       fileHeader.Filename,
		StorageKey: key,
		Size:       fileHeader.Size,
		MimeType:   contentType,
		Area:       area,
	}
	if err := db.Create(&orderFile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record the file",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    orderFile,
	})
}

// GetFileURL handles GET /api/v1/files/:fileId/url - returns a transient
// presigned download URL for a stored production file.
func GetFileURL(c *gin.Context) {
	db := config.GetDB()

	var orderFile models.OrderFile
	if err := db.First(&orderFile, "id = ?", c.Param("fileId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "File not found",
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	url, err := s3Service.GetPresignedURL(orderFile.StorageKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRESIGN_FAILED",
				"message": "Failed to generate a download URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"name": orderFile.Name,
			"url":  url,
		},
	})
}
