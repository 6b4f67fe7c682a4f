package domain

type ProductInfo struct {
	CertificateNumber   string `json:"certificate_number,omitempty"`
	BatchNumber         string `json:"batch_number,omitempty"`
	ExpiryDate          string `json:"expiry_date,omitempty"`
	PackSize            string `json:"pack_size,omitempty"`
	BrandName           string `json:"brand_name,omitempty"`
	GenericName         string `json:"generic_name,omitempty"`
	DosageForm          string `json:"dosage_form,omitempty"`
	ManufacturerCountry string `json:"manufacturer_country,omitempty"`
	Strength            string `json:"strength,omitempty"`
	Description         string `json:"description,omitempty"`
	Precaution          string `json:"precaution,omitempty"`
}

func (p *ProductInfo) IsEmpty() bool {
	return p == nil || *p == ProductInfo{}
}

type ProductExtractorUseCase interface {
	Extract(text string) *ProductInfo
}
