package controllers

import (
	"net/http"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/service"
	"github.com/loomline/catalog_end/utils"

	"github.com/gin-gonic/gin"
)

// statusMessages maps each enquiry status to the customer-facing summary
// returned by the public status lookup.
var statusMessages = map[models.EnquiryStatus]string{
	models.EnquiryStatusNew:      "Your enquiry has been received and is awaiting review.",
	models.EnquiryStatusInReview: "Your enquiry is being reviewed by our team.",
	models.EnquiryStatusQuoted:   "A quotation has been prepared for your enquiry.",
	models.EnquiryStatusApproved: "Your enquiry has been approved and is moving forward.",
	models.EnquiryStatusRejected: "We are unable to proceed with your enquiry at this time.",
	models.EnquiryStatusClosed:   "Your enquiry has been closed.",
}

// CreateEnquiry handles a public product enquiry submission.
func CreateEnquiry(c *gin.Context) {
	var input service.CreateEnquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError(err.Error()))
		return
	}

	enquiry, err := enquiryService.Create(c.Request.Context(), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("enquiryNo", enquiry.EnquiryNo).Str("email", enquiry.Email).Msg("enquiry created")
	utils.SuccessResponse(c, gin.H{
		"enquiryNo": enquiry.EnquiryNo,
		"enquiry":   enquiry,
	}, "enquiry submitted successfully", http.StatusCreated)
}

// SubmitContactForm handles a general contact submission, recorded as an
// enquiry without product lines.
func SubmitContactForm(c *gin.Context) {
	var input service.ContactFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError(err.Error()))
		return
	}

	enquiry, err := enquiryService.CreateFromContactForm(c.Request.Context(), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("enquiryNo", enquiry.EnquiryNo).Msg("contact form submitted")
	utils.SuccessResponse(c, gin.H{"enquiryNo": enquiry.EnquiryNo}, "message received", http.StatusCreated)
}

// LookupEnquiryStatus is the public status check. Both the reference number
// and the submitting email must match; the response deliberately exposes no
// internal detail beyond the status summary.
func LookupEnquiryStatus(c *gin.Context) {
	enquiryNo := c.Query("enquiryNo")
	email := c.Query("email")
	if enquiryNo == "" || email == "" {
		utils.HandleError(c, utils.CreateValidationError("enquiryNo and email are required"))
		return
	}

	enquiry, err := enquiryService.GetByNoAndEmail(c.Request.Context(), enquiryNo, email)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	message, ok := statusMessages[enquiry.Status]
	if !ok {
		message = "Your enquiry is being processed."
	}

	utils.SuccessResponse(c, gin.H{
		"enquiryNo": enquiry.EnquiryNo,
		"status":    enquiry.Status,
		"message":   message,
		"createdAt": enquiry.CreatedAt,
		"updatedAt": enquiry.UpdatedAt,
	}, "")
}
