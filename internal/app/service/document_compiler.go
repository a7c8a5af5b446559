package service

import (
	"fmt"
	"strings"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"
	"estate_addendum/internal/pkg/metrics"
)

// Font sizes in points. Line height and the wrap width estimate derive from
// the font size, matching the layout the platform's documents have always
// used: lineHeight = size * 0.5 mm, approximate glyph width = size * 0.18 mm.
const (
	titleFontSize    = 16.0
	headingFontSize  = 14.0
	bodyFontSize     = 12.0
	footerFontSize   = 10.0
	lineHeightFactor = 0.5
	charWidthFactor  = 0.18
	blockSpacing     = 5.0
	sectionSpacing   = 10.0
)

var (
	documentHeaderLine    = "ADDENDUM TO LAST WILL AND TESTAMENT"
	documentSubHeaderLine = "REGARDING CRYPTOCURRENCY ASSETS"

	assetsIntro        = "I hereby add the following cryptocurrency assets to my estate:"
	beneficiariesIntro = "I direct that the cryptocurrency assets listed below be distributed as follows:"
	legalProvisions    = "This addendum is intended to supplement and not replace my existing " +
		"Last Will and Testament. In the event of any conflict between this addendum and my " +
		"original will, this addendum shall control with respect to the cryptocurrency assets " +
		"listed herein."

	signatureLine = "___________________________"
)

// DocumentCompilerImpl implements port.DocumentCompiler. Compile holds no
// state between calls: each call creates a fresh layout cursor, so compiling
// the same document twice yields byte-for-byte identical output.
type DocumentCompilerImpl struct {
	pageWidth  float64
	pageHeight float64
	margin     float64
	logger     port.Logger
}

// NewDocumentCompiler creates a compiler for the configured page geometry.
func NewDocumentCompiler(cfg configloader.CompilerConfig, l port.Logger) *DocumentCompilerImpl {
	return &DocumentCompilerImpl{
		pageWidth:  cfg.PageWidthMM,
		pageHeight: cfg.PageHeightMM,
		margin:     cfg.MarginMM,
		logger:     l,
	}
}

// layoutCursor tracks the write position during one compile call. The
// cursor only moves forward; page breaks reset y to the top margin.
type layoutCursor struct {
	renderer   port.PageRenderer
	y          float64
	pageWidth  float64
	pageHeight float64
	margin     float64
	footerText string
}

func (c *layoutCursor) contentWidth() float64  { return c.pageWidth - 2*c.margin }
func (c *layoutCursor) contentBottom() float64 { return c.pageHeight - c.margin }

// newPage starts a fresh page and stamps the footer, which lives below the
// content area and can never collide with body text.
func (c *layoutCursor) newPage() {
	c.renderer.AddPage()
	c.y = c.margin
	c.renderer.DrawText(c.margin, c.pageHeight-10, c.footerText, port.TextStyle{Size: footerFontSize})
}

// styledLine is one pre-wrapped line ready to draw.
type styledLine struct {
	text  string
	style port.TextStyle
}

// ensureRoom breaks to a new page when the upcoming block does not fit the
// remaining space. A block taller than a whole empty page cannot be placed
// at all; silently truncating estate content is unacceptable, so that is a
// fatal layout error.
func (c *layoutCursor) ensureRoom(blockName string, blockHeight float64) error {
	if c.y+blockHeight <= c.contentBottom() {
		return nil
	}
	if c.margin+blockHeight > c.contentBottom() {
		return entity.LayoutOverflowError{
			Block:  blockName,
			Detail: fmt.Sprintf("block height %.1fmm exceeds page content height %.1fmm", blockHeight, c.contentBottom()-c.margin),
		}
	}
	c.newPage()
	return nil
}

// drawBlock places one discrete block, breaking the page first if needed.
// The cursor advances exactly lineHeight per wrapped line.
func (c *layoutCursor) drawBlock(blockName string, lines []styledLine) error {
	var height float64
	for _, line := range lines {
		height += line.style.Size * lineHeightFactor
	}
	if err := c.ensureRoom(blockName, height); err != nil {
		return err
	}
	for _, line := range lines {
		c.renderer.DrawText(c.margin, c.y, line.text, line.style)
		c.y += line.style.Size * lineHeightFactor
	}
	c.y += blockSpacing
	return nil
}

// wrapText splits text into lines that fit the given width using a greedy
// word wrap. A single word wider than the line is hard-split rather than
// allowed to overflow the content area.
func wrapText(text string, size, width float64) []string {
	maxChars := int(width / (size * charWidthFactor))
	if maxChars < 1 {
		maxChars = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for len([]rune(word)) > maxChars {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			runes := []rune(word)
			lines = append(lines, string(runes[:maxChars]))
			word = string(runes[maxChars:])
		}
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= maxChars:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// WrappedLineCount reports how many lines a paragraph occupies at the given
// size within the given width.
func WrappedLineCount(text string, size, width float64) int {
	return len(wrapText(text, size, width))
}

// paragraph wraps text into one block of body lines.
func (c *layoutCursor) paragraph(blockName, text string, style port.TextStyle) error {
	wrapped := wrapText(text, style.Size, c.contentWidth())
	lines := make([]styledLine, 0, len(wrapped))
	for _, line := range wrapped {
		lines = append(lines, styledLine{text: line, style: style})
	}
	return c.drawBlock(blockName, lines)
}

func (c *layoutCursor) heading(text string) error {
	return c.paragraph("heading "+text, text, port.TextStyle{Size: headingFontSize, Bold: true})
}

func (c *layoutCursor) body(blockName, text string) error {
	return c.paragraph(blockName, text, port.TextStyle{Size: bodyFontSize})
}

// field draws a "Label: value" body line, skipping empty values entirely.
func (c *layoutCursor) field(label, value string) error {
	if value == "" {
		return nil
	}
	return c.body("field "+label, fmt.Sprintf("%s: %s", label, value))
}

func (c *layoutCursor) sectionGap() {
	c.y += sectionSpacing
}

// Compile walks the document in its fixed section order and emits draw
// instructions to the renderer. All dates come from the document itself,
// never from the clock, so output is reproducible.
func (d *DocumentCompilerImpl) Compile(doc *entity.EstateDocument, renderer port.PageRenderer) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	cursor := &layoutCursor{
		renderer:   renderer,
		pageWidth:  d.pageWidth,
		pageHeight: d.pageHeight,
		margin:     d.margin,
		footerText: fmt.Sprintf("Generated on %s by Last Wish Platform", doc.GeneratedAt.Format("January 2, 2006")),
	}
	cursor.newPage()

	sections := []func(*layoutCursor, *entity.EstateDocument) error{
		compileHeader,
		compilePersonalInfo,
		compileExecutor,
		compileBeneficiaries,
		compileAssets,
		compileInstructions,
		compileLegalProvisions,
		compileSignatures,
		compileNotarization,
	}
	for _, section := range sections {
		if err := section(cursor, doc); err != nil {
			d.logger.Error("Document compilation failed",
				"documentId", doc.DocumentID, "error", err)
			return nil, err
		}
	}

	output, err := renderer.Output()
	if err != nil {
		return nil, fmt.Errorf("renderer output failed: %w", err)
	}

	metrics.DocumentsCompiled.Inc()
	d.logger.Info("Document compiled",
		"documentId", doc.DocumentID,
		"pages", renderer.PageCount(),
		"bytes", len(output))
	return output, nil
}

func compileHeader(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.paragraph("document header", documentHeaderLine, port.TextStyle{Size: titleFontSize, Bold: true}); err != nil {
		return err
	}
	if err := c.paragraph("document subheader", documentSubHeaderLine, port.TextStyle{Size: headingFontSize, Bold: true}); err != nil {
		return err
	}
	c.sectionGap()
	return nil
}

func compilePersonalInfo(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("TESTATOR INFORMATION"); err != nil {
		return err
	}
	p := doc.PersonalInfo
	if err := c.field("Name", p.FullName); err != nil {
		return err
	}
	if err := c.field("Address", p.StreetAddress); err != nil {
		return err
	}
	cityLine := p.City
	if p.State != "" {
		cityLine += ", " + p.State
	}
	if p.Zip != "" {
		cityLine += " " + p.Zip
	}
	if err := c.field("City, State, ZIP", cityLine); err != nil {
		return err
	}
	if err := c.field("Country", p.Country); err != nil {
		return err
	}
	if err := c.field("Original Will Date", p.OriginalWillDate); err != nil {
		return err
	}
	if err := c.field("Original Will Location", p.OriginalWillLocation); err != nil {
		return err
	}
	c.sectionGap()
	return nil
}

func compileExecutor(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("EXECUTOR INFORMATION"); err != nil {
		return err
	}
	if err := c.field("Executor Name", doc.Executor.Name); err != nil {
		return err
	}
	if err := c.field("Relationship", doc.Executor.Relationship); err != nil {
		return err
	}
	if err := c.field("Contact", doc.Executor.Contact); err != nil {
		return err
	}
	c.sectionGap()
	return nil
}

func compileBeneficiaries(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("BENEFICIARIES"); err != nil {
		return err
	}
	if err := c.body("beneficiaries intro", beneficiariesIntro); err != nil {
		return err
	}
	for i, b := range doc.Beneficiaries {
		name := b.Name
		if b.Relationship != "" {
			name = fmt.Sprintf("%s (%s)", b.Name, b.Relationship)
		}
		blockName := fmt.Sprintf("beneficiary %d", i+1)
		if err := c.body(blockName, fmt.Sprintf("%d. %s", i+1, name)); err != nil {
			return err
		}
		if err := c.field("   Address", b.Address); err != nil {
			return err
		}
		if err := c.field("   Email", b.Email); err != nil {
			return err
		}
		if err := c.field("   Percentage", b.AllocationPercent.String()+"%"); err != nil {
			return err
		}
		if b.Contingent {
			if err := c.body(blockName+" status", "   Status: Contingent Beneficiary"); err != nil {
				return err
			}
		}
	}
	c.sectionGap()
	return nil
}

func compileAssets(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("CRYPTOCURRENCY ASSETS"); err != nil {
		return err
	}
	if err := c.body("assets intro", assetsIntro); err != nil {
		return err
	}
	for i, asset := range doc.Assets {
		blockName := fmt.Sprintf("asset %d", i+1)
		description := fmt.Sprintf("%d. %s %s", i+1, asset.DisplayBalance.String(), asset.Symbol)
		if asset.Name != "" && asset.Name != asset.Symbol {
			description += fmt.Sprintf(" (%s)", asset.Name)
		}
		if err := c.body(blockName, description); err != nil {
			return err
		}
		if err := c.field("   Network", asset.NetworkID); err != nil {
			return err
		}
		if err := c.field("   Contract", asset.ContractAddress); err != nil {
			return err
		}
		if err := c.field("   Token ID", asset.TokenID); err != nil {
			return err
		}
		estimated := "Unknown (no price data)"
		if asset.ValueUSD != nil {
			estimated = "$" + asset.ValueUSD.StringFixed(2) + " USD"
		}
		if err := c.field("   Estimated Value", estimated); err != nil {
			return err
		}
		if err := c.field("   Access Method", asset.AccessMethod); err != nil {
			return err
		}
		if err := c.field("   Special Instructions", asset.SpecialInstructions); err != nil {
			return err
		}
	}
	c.sectionGap()
	return nil
}

func compileInstructions(c *layoutCursor, doc *entity.EstateDocument) error {
	if doc.SpecialInstructions != "" {
		if err := c.heading("SPECIAL INSTRUCTIONS"); err != nil {
			return err
		}
		if err := c.body("special instructions", doc.SpecialInstructions); err != nil {
			return err
		}
		c.sectionGap()
	}
	if doc.AccessInstructions != "" {
		if err := c.heading("ACCESS INSTRUCTIONS"); err != nil {
			return err
		}
		if err := c.body("access instructions", doc.AccessInstructions); err != nil {
			return err
		}
		c.sectionGap()
	}
	return nil
}

func compileLegalProvisions(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("LEGAL PROVISIONS"); err != nil {
		return err
	}
	if err := c.body("legal provisions", legalProvisions); err != nil {
		return err
	}
	c.sectionGap()
	return nil
}

func compileSignatures(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("SIGNATURES"); err != nil {
		return err
	}
	if err := c.body("testator signature", "Testator Signature: "+signatureLine+" Date: ___________"); err != nil {
		return err
	}
	if err := c.body("testator name", doc.PersonalInfo.FullName); err != nil {
		return err
	}
	c.sectionGap()

	if err := c.heading("WITNESSES"); err != nil {
		return err
	}
	for _, ordinal := range []string{"1", "2"} {
		if err := c.body("witness "+ordinal+" signature", "Witness "+ordinal+" Signature: "+signatureLine+" Date: ___________"); err != nil {
			return err
		}
		if err := c.body("witness "+ordinal+" name", "Print Name: "+signatureLine); err != nil {
			return err
		}
	}
	c.sectionGap()
	return nil
}

func compileNotarization(c *layoutCursor, doc *entity.EstateDocument) error {
	if err := c.heading("NOTARIZATION"); err != nil {
		return err
	}
	notaryLines := []string{
		"State of: " + signatureLine,
		"County of: " + signatureLine,
		"Notary Public Signature: " + signatureLine,
		"My commission expires: " + signatureLine,
		"Notary Seal:",
	}
	for i, line := range notaryLines {
		if err := c.body(fmt.Sprintf("notarization line %d", i+1), line); err != nil {
			return err
		}
	}
	return nil
}

// CompiledFileName builds the deterministic save name for a compiled
// document: the lower-cased testator name with whitespace collapsed to
// hyphens plus the generation date.
func CompiledFileName(doc *entity.EstateDocument) string {
	name := strings.ToLower(strings.Join(strings.Fields(doc.PersonalInfo.FullName), "-"))
	return fmt.Sprintf("cryptocurrency-addendum-%s-%s.pdf", name, doc.GeneratedAt.Format("2006-01-02"))
}
