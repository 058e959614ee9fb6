package controllers

import (
	"github.com/loomline/catalog_end/service"
)

var (
	enquiryService   *service.EnquiryService
	quotationService *service.QuotationService
	clock            service.Clock = service.SystemClock
)

// Setup injects the service layer the handlers call into.
func Setup(enquiries *service.EnquiryService, quotations *service.QuotationService, c service.Clock) {
	enquiryService = enquiries
	quotationService = quotations
	if c != nil {
		clock = c
	}
}
