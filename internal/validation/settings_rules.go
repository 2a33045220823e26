package validation

import (
	"strings"

	"storefront-admin-service/internal/models"
)

// ValidateShippingFee requires both fees to be non-negative
func ValidateShippingFee(fee *models.ShippingFee) error {
	if fee.InsideCity < 0 {
		return reject("insideCity", "Inside city fee cannot be negative")
	}
	if fee.OutsideCity < 0 {
		return reject("outsideCity", "Outside city fee cannot be negative")
	}
	return nil
}

// ValidatePaymentSettings checks the text fields and the optional QR upload
func ValidatePaymentSettings(req *models.UpdatePaymentSettingsRequest, qr *models.FileUpload) error {
	if strings.TrimSpace(req.AccountName) == "" {
		return reject("accountName", "Account name is required")
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		return reject("accountNumber", "Account number is required")
	}
	if qr != nil && qr.Kind != models.MediaKindImage {
		return reject("qrImage", "Payment QR must be an image")
	}
	return nil
}
