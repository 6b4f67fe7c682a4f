package extractor

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	"gopkg.in/yaml.v3"
)

var (
	certificatePattern = regexp.MustCompile(`(?i:certificate)(?:\s*(?i:no\.?|number|#))?[\s:#.-]*([A-Z0-9][A-Z0-9-]*)`)
	batchPattern       = regexp.MustCompile(`(?i:batch|lot)(?:\s*(?i:no\.?|number|#))?[\s:#.-]*([A-Z0-9][A-Z0-9-]*)`)
	expiryPattern      = regexp.MustCompile(`(?i)exp.*?(\d{2}[-/]\d{2}[-/]\d{4})`)
	packPattern        = regexp.MustCompile(`(?i)pack.*?(\d+)`)
	brandPattern       = regexp.MustCompile(`([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)[®™]`)
	genericPattern     = regexp.MustCompile(`\(([\w\s-]+)\)`)
	strengthPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?\s*(?:mg|ml|g|mcg)/?(?:\d+(?:\.\d+)?\s*(?:mg|ml|g|mcg))?)`)
	descriptionPattern = regexp.MustCompile(`(?i)description:?\s*([^.]+)`)
	precautionPattern  = regexp.MustCompile(`(?i)(?:precaution|warning)s?:?\s*([^.]+)`)
)

// Dictionary holds the word lists matched against recognized text, order decides which entry wins.
type Dictionary struct {
	DosageForms []string `yaml:"dosage_forms"`
	Countries   []string `yaml:"countries"`
}

func DefaultDictionary() *Dictionary {
	return &Dictionary{
		DosageForms: []string{"tablet", "capsule", "syrup", "injection", "cream", "ointment"},
		Countries:   []string{"USA", "UK", "India", "Germany", "Switzerland", "France"},
	}
}

// LoadDictionary reads a yaml dictionary, lists missing from the file keep their defaults.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read dictionary file failed")
	}
	var fileDictionary Dictionary
	if err := yaml.Unmarshal(data, &fileDictionary); err != nil {
		return nil, errors.Wrap(err, "unmarshal dictionary failed")
	}
	dictionary := DefaultDictionary()
	if len(fileDictionary.DosageForms) != 0 {
		dictionary.DosageForms = fileDictionary.DosageForms
	}
	if len(fileDictionary.Countries) != 0 {
		dictionary.Countries = fileDictionary.Countries
	}
	return dictionary, nil
}

type extractorUseCase struct {
	dictionary *Dictionary
}

var _ domain.ProductExtractorUseCase = (*extractorUseCase)(nil)

func CreateExtractorUseCase(dictionary *Dictionary) domain.ProductExtractorUseCase {
	if dictionary == nil {
		dictionary = DefaultDictionary()
	}
	return &extractorUseCase{
		dictionary: dictionary,
	}
}

func (e *extractorUseCase) Extract(text string) *domain.ProductInfo {
	return &domain.ProductInfo{
		CertificateNumber:   findFirst(certificatePattern, text),
		BatchNumber:         findFirst(batchPattern, text),
		ExpiryDate:          normalizeDate(findFirst(expiryPattern, text)),
		PackSize:            findFirst(packPattern, text),
		BrandName:           findFirst(brandPattern, text),
		GenericName:         findFirst(genericPattern, text),
		DosageForm:          e.dosageForm(text),
		ManufacturerCountry: e.manufacturerCountry(text),
		Strength:            findFirst(strengthPattern, text),
		Description:         findFirst(descriptionPattern, text),
		Precaution:          findFirst(precautionPattern, text),
	}
}

func (e *extractorUseCase) dosageForm(text string) string {
	lowerText := strings.ToLower(text)
	for _, form := range e.dictionary.DosageForms {
		if strings.Contains(lowerText, strings.ToLower(form)) {
			return form
		}
	}
	return ""
}

func (e *extractorUseCase) manufacturerCountry(text string) string {
	upperText := strings.ToUpper(text)
	for _, country := range e.dictionary.Countries {
		upperCountry := strings.ToUpper(country)
		if strings.Contains(upperText, "MADE IN "+upperCountry) || strings.Contains(upperText, "MANUFACTURED IN "+upperCountry) {
			return country
		}
	}
	return ""
}

func findFirst(pattern *regexp.Regexp, text string) string {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// normalizeDate reads day first dates and returns them as yyyy-mm-dd, impossible dates are dropped.
func normalizeDate(date string) string {
	if date == "" {
		return ""
	}
	date = strings.ReplaceAll(date, "-", "/")
	parsed, err := time.Parse("02/01/2006", date)
	if err != nil {
		return ""
	}
	return parsed.Format("2006-01-02")
}
