package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	communitydomain "github.com/streetsource/streetsource-api/internal/domains/community/domain"
	communityports "github.com/streetsource/streetsource-api/internal/domains/community/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// consumerAPI handles the normal-user side: vendor browsing, feedback,
// ratings, and the consumer profile.
type consumerAPI struct {
	community communityports.Service
	accounts  accountports.Service
	responder *envelope.Responder
}

func newConsumerAPI(community communityports.Service, accounts accountports.Service, responder *envelope.Responder) *consumerAPI {
	return &consumerAPI{community: community, accounts: accounts, responder: responder}
}

type vendorPageResponse struct {
	Vendors []vendorResponse `json:"vendors"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Pages   int              `json:"pages"`
}

// Get /api/normalUser/vendors
func (api *consumerAPI) ListVendors(c *gin.Context) {
	filter := communityports.VendorFilter{
		Cuisine:  c.Query("cuisine"),
		Location: c.Query("location"),
	}
	if raw := c.Query("minRating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			envelope.BadRequest(c, "minRating must be a number")
			return
		}
		filter.MinRating = minRating
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			envelope.BadRequest(c, "page must be a positive integer")
			return
		}
		filter.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			envelope.BadRequest(c, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}
	page, err := api.community.ListVendors(c.Request.Context(), filter)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	out := vendorPageResponse{
		Vendors: make([]vendorResponse, 0, len(page.Vendors)),
		Total:   page.Total,
		Page:    page.Page,
		Pages:   page.Pages,
	}
	for _, vendor := range page.Vendors {
		out.Vendors = append(out.Vendors, toVendorResponse(vendor))
	}
	envelope.OK(c, http.StatusOK, out, "vendors")
}

type feedbackResponse struct {
	ID           int64     `json:"id"`
	VendorUserID int64     `json:"vendorId"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toFeedbackResponse(f *communitydomain.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:           f.ID,
		VendorUserID: f.VendorUserID,
		Comment:      f.Comment,
		CreatedAt:    f.CreatedAt,
	}
}

// Get /api/normalUser/feedback/:vendorId
func (api *consumerAPI) FeedbackForVendor(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil || vendorID < 1 {
		envelope.BadRequest(c, "vendorId must be a positive integer")
		return
	}
	feedbacks, err := api.community.FeedbackForVendor(c.Request.Context(), currentUserID(c), vendorID)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	out := make([]feedbackResponse, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		out = append(out, toFeedbackResponse(feedback))
	}
	envelope.OK(c, http.StatusOK, gin.H{
		"hasFeedback": len(out) > 0,
		"feedbacks":   out,
	}, "feedback for vendor")
}

type addFeedbackRequest struct {
	VendorID int64  `json:"vendorId" binding:"required"`
	Comment  string `json:"comment"`
}

// Post /api/normalUser/feedback
func (api *consumerAPI) AddFeedback(c *gin.Context) {
	var payload addFeedbackRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	feedback, err := api.community.AddFeedback(c.Request.Context(), currentUserID(c), payload.VendorID, payload.Comment)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusCreated, toFeedbackResponse(feedback), "feedback added")
}

type rateVendorRequest struct {
	VendorID int64 `json:"vendorId" binding:"required"`
	Rating   int   `json:"rating" binding:"required"`
}

// Post /api/normalUser/rate
func (api *consumerAPI) RateVendor(c *gin.Context) {
	var payload rateVendorRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	rating, err := api.community.RateVendor(c.Request.Context(), currentUserID(c), payload.VendorID, payload.Rating)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, gin.H{
		"vendorId": rating.VendorUserID,
		"score":    rating.Score,
	}, "vendor rated")
}

type consumerProfileResponse struct {
	User         userResponse `json:"user"`
	MemberSince  time.Time    `json:"memberSince"`
	TotalReviews int64        `json:"totalReviews"`
	TotalRatings int64        `json:"totalRatings"`
}

// Get /api/normalUser/profile
func (api *consumerAPI) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	user, err := api.accounts.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	stats, err := api.community.ProfileStats(c.Request.Context(), userID)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, consumerProfileResponse{
		User:         toUserResponse(user),
		MemberSince:  user.CreatedAt,
		TotalReviews: stats.TotalReviews,
		TotalRatings: stats.TotalRatings,
	}, "profile")
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Put /api/normalUser/profile
func (api *consumerAPI) UpdateProfile(c *gin.Context) {
	var payload updateProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	user, err := api.accounts.UpdateProfile(c.Request.Context(), currentUserID(c), accountports.ProfileUpdate{
		Name:  payload.Name,
		Phone: payload.Phone,
	})
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toUserResponse(user), "profile updated")
}
