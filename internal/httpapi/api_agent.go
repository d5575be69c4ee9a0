package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	verificationdomain "github.com/streetsource/streetsource-api/internal/domains/verification/domain"
	verificationports "github.com/streetsource/streetsource-api/internal/domains/verification/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// agentAPI handles field-agent inventory verification.
type agentAPI struct {
	service   verificationports.Service
	responder *envelope.Responder
}

func newAgentAPI(service verificationports.Service, responder *envelope.Responder) *agentAPI {
	return &agentAPI{service: service, responder: responder}
}

type verificationRecordResponse struct {
	ID            int64     `json:"id"`
	ItemID        int64     `json:"itemId"`
	Status        string    `json:"status"`
	QualityRating int       `json:"qualityRating"`
	Review        string    `json:"review,omitempty"`
	ImageURLs     []string  `json:"imageUrls"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toRecordResponse(record *verificationdomain.Record) verificationRecordResponse {
	return verificationRecordResponse{
		ID:            record.ID,
		ItemID:        record.ItemID,
		Status:        string(record.Status),
		QualityRating: record.QualityRating,
		Review:        record.Review,
		ImageURLs:     record.ImageURLs,
		CreatedAt:     record.CreatedAt,
	}
}

// Post /api/agent/verify-inventory-item (multipart)
func (api *agentAPI) VerifyItem(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		envelope.BadRequest(c, "multipart form is required: "+err.Error())
		return
	}
	itemID, err := strconv.ParseInt(formValue(form.Value, "itemId"), 10, 64)
	if err != nil || itemID < 1 {
		envelope.BadRequest(c, "itemId must be a positive integer")
		return
	}
	rating, err := strconv.Atoi(formValue(form.Value, "qualityRating"))
	if err != nil {
		envelope.BadRequest(c, "qualityRating must be an integer")
		return
	}
	input := verificationports.SubmitInput{
		ItemID:        itemID,
		Status:        verificationdomain.Status(formValue(form.Value, "status")),
		QualityRating: rating,
		Review:        formValue(form.Value, "review"),
	}
	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			envelope.BadRequest(c, "cannot read uploaded image "+header.Filename)
			return
		}
		defer file.Close()
		input.Images = append(input.Images, verificationports.Upload{
			Filename: header.Filename,
			Content:  file,
		})
	}
	record, err := api.service.Submit(c.Request.Context(), input)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusCreated, toRecordResponse(record), "verification submitted")
}

type feedItemResponse struct {
	Item         inventoryItemResponse `json:"item"`
	SupplierName string                `json:"supplierName"`
	Status       *string               `json:"verificationStatus,omitempty"`
}

// Get /api/agent/inventory
func (api *agentAPI) PendingInventory(c *gin.Context) {
	feed, err := api.service.PendingFeed(c.Request.Context())
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	out := make([]feedItemResponse, 0, len(feed))
	for _, entry := range feed {
		item := feedItemResponse{
			Item:         toItemResponse(entry.Item),
			SupplierName: entry.SupplierName,
		}
		if entry.Status != nil {
			status := string(*entry.Status)
			item.Status = &status
		}
		out = append(out, item)
	}
	envelope.OK(c, http.StatusOK, out, "inventory pending verification")
}

func formValue(values map[string][]string, key string) string {
	if list := values[key]; len(list) > 0 {
		return list[0]
	}
	return ""
}
