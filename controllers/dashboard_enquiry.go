package controllers

import (
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

// ListEnquiries returns a filtered, paginated enquiry list for the dashboard.
func ListEnquiries(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.IsValidEnquiryStatus(models.EnquiryStatus(status)) {
			utils.HandleError(c, utils.CreateValidationError("invalid status filter"))
			return
		}
		filter["status"] = status
	}
	if priority := c.Query("priority"); priority != "" {
		filter["priority"] = priority
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		filter["assignedTo"] = assignedTo
	}
	if source := c.Query("source"); source != "" {
		filter["source"] = source
	}
	if search := c.Query("search"); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = []bson.M{
			{"enquiryNo": regex},
			{"customerName": regex},
			{"company": regex},
			{"email": regex},
		}
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.EnquiriesCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.LogError(err, nil, "enquiry count failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.LogError(err, nil, "enquiry list query failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}
	defer cursor.Close(ctx)

	enquiries := []models.Enquiry{}
	if err := cursor.All(ctx, &enquiries); err != nil {
		utils.LogError(err, nil, "enquiry list decode failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	now := clock()
	items := make([]gin.H, 0, len(enquiries))
	for i := range enquiries {
		e := &enquiries[i]
		items = append(items, gin.H{
			"enquiry":          e,
			"totalQuantity":    e.TotalQuantity(),
			"daysSinceEnquiry": e.DaysSinceEnquiry(now),
			"isOverdue":        e.IsOverdue(now),
		})
	}

	utils.PaginatedResponse(c, items, total, page, limit)
}

// GetEnquiry returns one enquiry with its derived fields.
func GetEnquiry(c *gin.Context) {
	enquiry, err := enquiryService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	now := clock()
	utils.SuccessResponse(c, gin.H{
		"enquiry":          enquiry,
		"totalQuantity":    enquiry.TotalQuantity(),
		"daysSinceEnquiry": enquiry.DaysSinceEnquiry(now),
		"isOverdue":        enquiry.IsOverdue(now),
	}, "")
}

// UpdateEnquiry applies a staff patch to an enquiry.
func UpdateEnquiry(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var input service.UpdateEnquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError(err.Error()))
		return
	}

	enquiry, err := enquiryService.Update(c.Request.Context(), c.Param("id"), input, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, enquiry, "enquiry updated")
}

// AddEnquiryCommunication logs a customer contact on an enquiry.
func AddEnquiryCommunication(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var input service.CommunicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError(err.Error()))
		return
	}

	comm, err := enquiryService.AddCommunication(c.Request.Context(), c.Param("id"), input, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, comm, "communication recorded")
}

// countByField groups documents of a collection by one field.
func countByField(c *gin.Context, collectionName, field string) (gin.H, int64, bool) {
	ctx := c.Request.Context()
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
	}

	cursor, err := repository.Collection(collectionName).Aggregate(ctx, pipeline)
	if err != nil {
		utils.LogError(err, map[string]interface{}{"field": field}, "stats aggregation failed")
		utils.HandleError(c, utils.CreateInternalError())
		return nil, 0, false
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		utils.LogError(err, map[string]interface{}{"field": field}, "stats decode failed")
		utils.HandleError(c, utils.CreateInternalError())
		return nil, 0, false
	}

	counts := gin.H{}
	var total int64
	for _, row := range rows {
		counts[row.Key] = row.Count
		total += row.Count
	}
	return counts, total, true
}

// EnquiryStats aggregates enquiry counts for the dashboard.
func EnquiryStats(c *gin.Context) {
	ctx := c.Request.Context()
	collection := repository.Collection(repository.EnquiriesCollection)

	byStatus, total, ok := countByField(c, repository.EnquiriesCollection, "status")
	if !ok {
		return
	}
	byPriority, _, ok := countByField(c, repository.EnquiriesCollection, "priority")
	if !ok {
		return
	}
	bySource, _, ok := countByField(c, repository.EnquiriesCollection, "source")
	if !ok {
		return
	}

	now := clock()
	overdue, err := collection.CountDocuments(ctx, bson.M{
		"status":       models.EnquiryStatusInReview,
		"followUpDate": bson.M{"$lt": now},
	})
	if err != nil {
		utils.LogError(err, nil, "overdue count failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	since := now.Add(-30 * 24 * time.Hour)
	recent, err := collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		utils.LogError(err, nil, "recent enquiry count failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"total":       total,
		"byStatus":    byStatus,
		"byPriority":  byPriority,
		"bySource":    bySource,
		"overdue":     overdue,
		"last30Days":  recent,
		"generatedAt": now,
	}, "")
}
