package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakitori/internal/domain"
	"kakitori/internal/service"
)

type wordResponse struct {
	ID        int    `json:"id"`
	Word      string `json:"word"`
	Kanji     string `json:"kanji"`
	Level     string `json:"level"`
	Meaning   string `json:"meaning"`
	HasAudio1 bool   `json:"has_audio1"`
	HasAudio2 bool   `json:"has_audio2"`
	HasAudio3 bool   `json:"has_audio3"`
}

func newWordResponse(w domain.Word) wordResponse {
	return wordResponse{
		ID:        w.ID,
		Word:      w.Word,
		Kanji:     w.Kanji,
		Level:     w.Level,
		Meaning:   w.Meaning,
		HasAudio1: w.HasAudio[0],
		HasAudio2: w.HasAudio[1],
		HasAudio3: w.HasAudio[2],
	}
}

type meaningResponse struct {
	Index    int    `json:"index"`
	Word     string `json:"word"`
	Furigana string `json:"furigana"`
	Kanji    string `json:"kanji"`
	Level    string `json:"level"`
	Text     string `json:"text"`
}

type updateWordRequest struct {
	Kanji   string `json:"kanji"`
	Level   string `json:"level"`
	Meaning string `json:"meaning"`
}

type regenerateAudioRequest struct {
	UseKanji bool `json:"use_kanji"`
}

type checkWordRequest struct {
	Word string `json:"word"`
}

type meaningsRequest struct {
	Word     string `json:"word"`
	LoadMore bool   `json:"load_more"`
}

type saveWordRequest struct {
	Word              string `json:"word"`
	MeaningIndex      *int   `json:"meaning_index"`
	UseKanji          bool   `json:"use_kanji"`
	CustomTranslation string `json:"custom_translation"`
}

// WordHandler serves vocabulary endpoints
type WordHandler struct {
	words  *service.WordService
	logger *zap.Logger
}

// NewWordHandler creates a new word handler
func NewWordHandler(words *service.WordService, logger *zap.Logger) *WordHandler {
	return &WordHandler{
		words:  words,
		logger: logger.With(zap.String("handler", "words")),
	}
}

// List handles GET /api/words
func (h *WordHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := h.words.List(c.Request.Context(), page, perPage, c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	words := make([]wordResponse, 0, len(result.Words))
	for _, w := range result.Words {
		words = append(words, newWordResponse(w))
	}

	c.JSON(http.StatusOK, gin.H{
		"words":    words,
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
		"pages":    result.Pages,
	})
}

// Get handles GET /api/words/:id
func (h *WordHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	w, err := h.words.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newWordResponse(*w))
}

// Update handles PUT /api/words/:id
func (h *WordHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req updateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.words.Update(c.Request.Context(), id, req.Kanji, req.Level, req.Meaning); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Word updated successfully")
}

// Delete handles DELETE /api/words/:id
func (h *WordHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.words.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Word deleted successfully")
}

// RegenerateAudio handles POST /api/words/:id/regenerate-audio
func (h *WordHandler) RegenerateAudio(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req regenerateAudioRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.words.RegenerateAudio(c.Request.Context(), id, req.UseKanji); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "Audio regenerated successfully")
}

// Check handles POST /api/check-word
func (h *WordHandler) Check(c *gin.Context) {
	var req checkWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	exists, err := h.words.Exists(c.Request.Context(), req.Word)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// Meanings handles POST /api/get-meanings
func (h *WordHandler) Meanings(c *gin.Context) {
	var req meaningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result := h.words.Lookup(c.Request.Context(), req.Word, req.LoadMore)

	meanings := make([]meaningResponse, 0, len(result.Candidates))
	for _, m := range result.Candidates {
		meanings = append(meanings, meaningResponse{
			Index:    m.Index,
			Word:     m.Word,
			Furigana: m.Furigana,
			Kanji:    m.Kanji,
			Level:    m.Level,
			Text:     m.Meaning,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"meanings": meanings,
		"has_more": result.HasMore,
		"outcome":  result.Outcome,
	})
}

// Save handles POST /api/save-word
func (h *WordHandler) Save(c *gin.Context) {
	var req saveWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.MeaningIndex == nil {
		respondBadRequest(c, "meaning_index is required")
		return
	}

	w, err := h.words.Save(c.Request.Context(), service.SaveWordInput{
		Word:          req.Word,
		MeaningIndex:  *req.MeaningIndex,
		UseKanji:      req.UseKanji,
		CustomMeaning: req.CustomTranslation,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Word added successfully",
		"word":    newWordResponse(*w),
	})
}

// Audio handles GET /api/audio/:id/:n
func (h *WordHandler) Audio(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	n, ok := intParam(c, "n")
	if !ok {
		return
	}

	audio, err := h.words.Audio(c.Request.Context(), id, n)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=audio_"+strconv.Itoa(id)+"_"+strconv.Itoa(n)+".wav")
	c.Data(http.StatusOK, "audio/wav", audio)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
