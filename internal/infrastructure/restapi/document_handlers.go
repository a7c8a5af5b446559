package restapi

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/app/service"
	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"
	"estate_addendum/internal/infrastructure/draftstore"
	"estate_addendum/internal/infrastructure/render"

	"github.com/gin-gonic/gin"
)

// BuildRequest carries the user-entered document sections. Assets come from
// the aggregator's current ledger, not from the request.
type BuildRequest struct {
	PersonalInfo        entity.PersonalInfo    `json:"personalInfo"`
	Executor            entity.ExecutorDetails `json:"executorDetails"`
	Beneficiaries       []entity.Beneficiary   `json:"beneficiaries"`
	SpecialInstructions string                 `json:"specialInstructions,omitempty"`
	AccessInstructions  string                 `json:"accessInstructions,omitempty"`
}

// DocumentHandler handles document building, draft persistence and final
// compilation.
type DocumentHandler struct {
	builder    port.DocumentBuilder
	compiler   port.DocumentCompiler
	aggregator port.AssetAggregator
	drafts     port.DraftStore
	cfg        *configloader.Config
	logger     port.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	builder port.DocumentBuilder,
	compiler port.DocumentCompiler,
	aggregator port.AssetAggregator,
	drafts port.DraftStore,
	cfg *configloader.Config,
	l port.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		builder:    builder,
		compiler:   compiler,
		aggregator: aggregator,
		drafts:     drafts,
		cfg:        cfg,
		logger:     l,
	}
}

// BuildHandler assembles a document from the request sections plus the
// current asset ledger and persists it as the working draft. Missing
// required fields fail the whole call with the complete list.
func (h *DocumentHandler) BuildHandler(c *gin.Context) {
	var req BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	doc, missing := h.builder.Build(req.PersonalInfo, req.Executor, req.Beneficiaries, h.aggregator.Snapshot())
	if len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"missing_fields": missing})
		return
	}
	doc.SpecialInstructions = req.SpecialInstructions
	doc.AccessInstructions = req.AccessInstructions

	if err := h.drafts.SaveDraft(c.Request.Context(), h.cfg.Draft.DraftID, doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist draft: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// DraftHandler returns the persisted working draft.
func (h *DocumentHandler) DraftHandler(c *gin.Context) {
	doc, err := h.drafts.LoadDraft(c.Request.Context(), h.cfg.Draft.DraftID)
	if err != nil {
		if errors.Is(err, draftstore.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no draft saved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// CompileHandler compiles the persisted draft and writes the output under
// the configured directory with the deterministic addendum file name.
func (h *DocumentHandler) CompileHandler(c *gin.Context) {
	doc, err := h.drafts.LoadDraft(c.Request.Context(), h.cfg.Draft.DraftID)
	if err != nil {
		if errors.Is(err, draftstore.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no draft to compile"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	renderer := render.NewRecorder()
	output, err := h.compiler.Compile(doc, renderer)
	if err != nil {
		var overflow entity.LayoutOverflowError
		if errors.As(err, &overflow) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": overflow.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileName := service.CompiledFileName(doc)
	if err := os.MkdirAll(h.cfg.Compiler.OutputDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create output dir: " + err.Error()})
		return
	}
	outputPath := filepath.Join(h.cfg.Compiler.OutputDir, fileName)
	if err := os.WriteFile(outputPath, output, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write document: " + err.Error()})
		return
	}

	h.logger.Info("Compiled document written",
		"documentId", doc.DocumentID, "path", outputPath, "pages", renderer.PageCount())
	c.JSON(http.StatusOK, gin.H{
		"fileName": fileName,
		"pages":    renderer.PageCount(),
		"bytes":    len(output),
	})
}
