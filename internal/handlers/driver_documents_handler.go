package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"logistics-backend/internal/models"
	"logistics-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedDocTypes = map[string]bool{
	"license":      true,
	"registration": true,
	"insurance":    true,
}

// DriverDocumentsSubmit принимает файл документа водителя (multipart).
// Файл сохраняется на диск, запись создается со статусом pending.
func DriverDocumentsSubmit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		docType := c.PostForm("docType")
		if !allowedDocTypes[docType] {
			utils.RespondFail(c, http.StatusBadRequest, "Недопустимый тип документа")
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Файл не найден")
			return
		}

		// Уникальное имя и поддиректория по дате
		ext := filepath.Ext(file.Filename)
		newFileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)

		now := time.Now()
		dateDir := filepath.Join("uploads", "documents", now.Format("2006/01/02"))
		if err := os.MkdirAll(dateDir, 0755); err != nil {
			utils.RespondError(c, err, "Ошибка при создании директории")
			return
		}

		filePath := filepath.Join(dateDir, newFileName)
		if err := c.SaveUploadedFile(file, filePath); err != nil {
			utils.RespondError(c, err, "Ошибка при сохранении файла")
			return
		}

		doc := models.DriverDocument{
			DriverID: userID.(uint),
			DocType:  docType,
			FilePath: "/" + filepath.ToSlash(filePath),
			Status:   models.DocumentStatusPending,
		}

		if err := db.Create(&doc).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при сохранении документа")
			return
		}

		log.Printf("Водитель %v загрузил документ %s (id=%d)", userID, docType, doc.ID)
		utils.RespondSuccess(c, http.StatusCreated, doc.ToResponse())
	}
}

// DriverDocumentsGet возвращает документы текущего водителя
func DriverDocumentsGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var docs []models.DriverDocument
		if err := db.Where("driver_id = ?", userID).Order("id").Find(&docs).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении документов")
			return
		}

		response := make([]models.DriverDocumentResponse, 0, len(docs))
		for _, doc := range docs {
			response = append(response, doc.ToResponse())
		}

		utils.RespondSuccess(c, http.StatusOK, response)
	}
}

// DriverDocumentsDelete удаляет документ текущего водителя
func DriverDocumentsDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		docID := c.Param("id")

		result := db.Where("id = ? AND driver_id = ?", docID, userID).Delete(&models.DriverDocument{})
		if result.Error != nil {
			utils.RespondError(c, result.Error, "Ошибка при удалении документа")
			return
		}
		if result.RowsAffected == 0 {
			utils.RespondFail(c, http.StatusNotFound, "Документ не найден")
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Документ успешно удален"})
	}
}

// AdminListDocuments возвращает все документы с данными водителей
func AdminListDocuments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("id")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var docs []models.DriverDocument
		if err := query.Preload("Driver").Find(&docs).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при получении документов")
			return
		}

		response := make([]models.DriverDocumentResponse, 0, len(docs))
		for _, doc := range docs {
			resp := doc.ToResponse()
			driverResp := doc.Driver.ToResponse()
			resp.Driver = &driverResp
			response = append(response, resp)
		}

		utils.RespondSuccess(c, http.StatusOK, response)
	}
}

// AdminUpdateDocumentStatus подтверждает или отклоняет документ водителя
func AdminUpdateDocumentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status          models.DocumentStatus `json:"status" binding:"required"`
			RejectionReason string                `json:"rejectionReason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondFail(c, http.StatusBadRequest, "Неверный формат данных")
			return
		}

		if req.Status != models.DocumentStatusVerified && req.Status != models.DocumentStatusRejected {
			utils.RespondFail(c, http.StatusBadRequest, "Недопустимый статус документа")
			return
		}
		if req.Status == models.DocumentStatusRejected && req.RejectionReason == "" {
			utils.RespondFail(c, http.StatusBadRequest, "Укажите причину отклонения")
			return
		}

		docID := c.Param("id")

		var doc models.DriverDocument
		if err := db.First(&doc, docID).Error; err != nil {
			utils.RespondError(c, err, "Документ не найден")
			return
		}

		if doc.Status == req.Status {
			utils.RespondFail(c, http.StatusConflict, "Документ уже в этом статусе")
			return
		}

		doc.Status = req.Status
		doc.RejectionReason = req.RejectionReason

		if err := db.Save(&doc).Error; err != nil {
			utils.RespondError(c, err, "Ошибка при обновлении статуса")
			return
		}

		log.Printf("Статус документа %d изменен на %s", doc.ID, doc.Status)
		utils.RespondSuccess(c, http.StatusOK, doc.ToResponse())
	}
}
