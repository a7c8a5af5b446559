package service

import (
	"fmt"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// requiredPersonalFields lists the personal fields the document cannot be
// built without, in render order.
var requiredPersonalFields = []struct {
	name  string
	value func(entity.PersonalInfo) string
}{
	{"fullName", func(p entity.PersonalInfo) string { return p.FullName }},
	{"streetAddress", func(p entity.PersonalInfo) string { return p.StreetAddress }},
	{"city", func(p entity.PersonalInfo) string { return p.City }},
	{"state", func(p entity.PersonalInfo) string { return p.State }},
	{"zip", func(p entity.PersonalInfo) string { return p.Zip }},
}

// DocumentBuilderImpl implements port.DocumentBuilder.
type DocumentBuilderImpl struct {
	logger port.Logger
	now    func() time.Time
	newID  func() string
}

// NewDocumentBuilder creates a new document builder.
func NewDocumentBuilder(l port.Logger) *DocumentBuilderImpl {
	return &DocumentBuilderImpl{
		logger: l,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Build assembles the canonical EstateDocument. Validation of required
// personal fields is fail-closed: every missing field is reported, and no
// document is produced while any is missing. A beneficiary allocation sum
// that is not 100% yields a warning on the document, never an error: the
// testator may intentionally leave a remainder to the residuary estate.
func (b *DocumentBuilderImpl) Build(
	personal entity.PersonalInfo,
	executor entity.ExecutorDetails,
	beneficiaries []entity.Beneficiary,
	assets []entity.Asset,
) (*entity.EstateDocument, []entity.MissingFieldError) {
	var missing []entity.MissingFieldError
	for _, field := range requiredPersonalFields {
		if field.value(personal) == "" {
			missing = append(missing, entity.MissingFieldError{Field: field.name})
		}
	}
	if executor.Name == "" {
		missing = append(missing, entity.MissingFieldError{Field: "executorName"})
	}
	if len(missing) > 0 {
		b.logger.Warn("Document build rejected, required fields missing", "missingCount", len(missing))
		return nil, missing
	}

	doc := &entity.EstateDocument{
		DocumentID:    b.newID(),
		Title:         entity.DefaultDocumentTitle,
		PersonalInfo:  personal,
		Executor:      executor,
		Beneficiaries: beneficiaries,
		Assets:        assets,
		GeneratedAt:   b.now(),
	}

	if len(beneficiaries) > 0 {
		sum := decimal.Zero
		for _, beneficiary := range beneficiaries {
			sum = sum.Add(beneficiary.AllocationPercent)
		}
		if !sum.Equal(decimal.NewFromInt(100)) {
			warning := fmt.Sprintf("beneficiary allocations sum to %s%%, not 100%%", sum.String())
			doc.Warnings = append(doc.Warnings, warning)
			b.logger.Warn("Beneficiary allocation mismatch", "sum", sum.String())
		}
	}

	b.logger.Info("Document built",
		"documentId", doc.DocumentID,
		"beneficiaryCount", len(beneficiaries),
		"assetCount", len(assets),
		"warnings", len(doc.Warnings))
	return doc, nil
}
