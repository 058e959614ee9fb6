package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/repository"
	"github.com/loomline/catalog_end/service"
	"github.com/loomline/catalog_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListQuotations returns a filtered, paginated quotation list. Each item
// carries its computed pricing summary; expiry shown here is derived from the
// current time, the stored status is only coerced on single reads.
func ListQuotations(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	now := clock()
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.IsValidQuotationStatus(models.QuotationStatus(status)) {
			utils.HandleError(c, utils.CreateValidationError("invalid status filter"))
			return
		}
		filter["status"] = status
	}
	if enquiryID := c.Query("enquiryId"); enquiryID != "" {
		filter["enquiryId"] = enquiryID
	}
	if search := c.Query("search"); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = []bson.M{
			{"quotationNo": regex},
			{"customerName": regex},
			{"company": regex},
			{"email": regex},
		}
	}
	if expiringIn := c.Query("expiringIn"); expiringIn != "" {
		days, err := strconv.Atoi(expiringIn)
		if err != nil || days < 1 {
			utils.HandleError(c, utils.CreateValidationError("expiringIn must be a positive number of days"))
			return
		}
		filter["status"] = models.QuotationStatusSent
		filter["validUntil"] = bson.M{
			"$gte": now,
			"$lte": now.Add(time.Duration(days) * 24 * time.Hour),
		}
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.QuotationsCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.LogError(err, nil, "quotation count failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.LogError(err, nil, "quotation list query failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}
	defer cursor.Close(ctx)

	quotations := []models.Quotation{}
	if err := cursor.All(ctx, &quotations); err != nil {
		utils.LogError(err, nil, "quotation list decode failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	items := make([]gin.H, 0, len(quotations))
	for i := range quotations {
		q := &quotations[i]
		items = append(items, gin.H{
			"quotation": q,
			"pricing":   service.PriceQuotation(q, now),
		})
	}

	utils.PaginatedResponse(c, items, total, page, limit)
}

// GetQuotation returns one quotation with its pricing summary. Reading a sent
// quotation past its validity date coerces it to expired.
func GetQuotation(c *gin.Context) {
	quotation, err := quotationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"quotation": quotation,
		"pricing":   service.PriceQuotation(quotation, clock()),
	}, "")
}

// CreateQuotation issues a draft quotation against an enquiry.
func CreateQuotation(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var input service.CreateQuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError(err.Error()))
		return
	}

	quotation, err := quotationService.Create(c.Request.Context(), input, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("quotationNo", quotation.QuotationNo).Str("enquiryId", quotation.EnquiryID).Msg("quotation created")
	utils.SuccessResponse(c, quotation, "quotation created", http.StatusCreated)
}

// UpdateQuotation applies a staff patch, tracking product revisions and
// cascading status changes to the parent enquiry.
func UpdateQuotation(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var input service.UpdateQuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError(err.Error()))
		return
	}

	quotation, err := quotationService.Update(c.Request.Context(), c.Param("id"), input, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, quotation, "quotation updated")
}

// SendQuotation marks a draft quotation as sent.
func SendQuotation(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	quotation, err := quotationService.Send(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("quotationNo", quotation.QuotationNo).Msg("quotation sent")
	utils.SuccessResponse(c, quotation, "quotation sent")
}

// QuotationStats aggregates quotation counts and the conversion rate.
func QuotationStats(c *gin.Context) {
	ctx := c.Request.Context()
	collection := repository.Collection(repository.QuotationsCollection)

	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.LogError(err, nil, "quotation stats aggregation failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		utils.LogError(err, nil, "quotation stats decode failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	byStatus := gin.H{}
	var total, accepted, decided int64
	for _, row := range rows {
		byStatus[row.Status] = row.Count
		total += row.Count
		switch models.QuotationStatus(row.Status) {
		case models.QuotationStatusAccepted:
			accepted += row.Count
			decided += row.Count
		case models.QuotationStatusDeclined, models.QuotationStatusExpired:
			decided += row.Count
		}
	}

	conversionRate := 0.0
	if decided > 0 {
		conversionRate = float64(accepted) / float64(decided) * 100
	}

	utils.SuccessResponse(c, gin.H{
		"total":          total,
		"byStatus":       byStatus,
		"conversionRate": conversionRate,
		"generatedAt":    clock(),
	}, "")
}
