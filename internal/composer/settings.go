package composer

import "storefront-admin-service/internal/models"

const QRImageField = "qrImage"

// ComposePaymentSettings builds the personal-info update; the QR image is optional
func ComposePaymentSettings(req *models.UpdatePaymentSettingsRequest, qr *models.FileUpload) *Payload {
	p := NewPayload()
	p.AddField("accountName", req.AccountName)
	p.AddField("accountNumber", req.AccountNumber)
	p.AddField("bankName", req.BankName)
	if qr != nil {
		p.AddFile(QRImageField, *qr)
	}
	return p
}
