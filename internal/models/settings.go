package models

// PaymentSettings is the storefront's payment (personal-info) configuration
type PaymentSettings struct {
	ID            string `json:"id,omitempty"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	QRImage       string `json:"qrImage,omitempty"`
}

// UpdatePaymentSettingsRequest carries the text fields of a payment settings update
type UpdatePaymentSettingsRequest struct {
	AccountName   string `form:"accountName" json:"accountName"`
	AccountNumber string `form:"accountNumber" json:"accountNumber"`
	BankName      string `form:"bankName" json:"bankName"`
}

// ShippingFee is the storefront's delivery fee configuration
type ShippingFee struct {
	InsideCity  float64 `json:"insideCity"`
	OutsideCity float64 `json:"outsideCity"`
}
