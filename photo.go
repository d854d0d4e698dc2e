package main

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/photo"
)

// maxImageBytes caps the uploaded photo size.
const maxImageBytes = 8 << 20

// analyzeFood estimates the foods in an uploaded photo. When a meal form
// field is given the estimates are also logged to that meal on date
// (default today).
// POST /api/food/analyze (multipart: image, meal?, date?)
func (h *Handler) analyzeFood(c *gin.Context) {
	uid := c.GetString("user_id")

	fh, err := c.FormFile("image")
	if err != nil {
		apiError(c, http.StatusBadRequest, "image is required")
		return
	}
	if fh.Size > maxImageBytes {
		apiError(c, http.StatusRequestEntityTooLarge, "image is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable image")
		return
	}
	defer f.Close()
	image, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil || len(image) == 0 {
		apiError(c, http.StatusBadRequest, "unreadable image")
		return
	}

	meal := c.PostForm("meal")
	date := c.DefaultPostForm("date", h.today())
	if _, err := nutrition.ParseDate(date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.analyzer.Analyze(c, image)
	switch {
	case errors.Is(err, photo.ErrMisconfigured):
		log.Printf("[analyzeFood] provider misconfigured: %v", err)
		apiError(c, http.StatusServiceUnavailable, "food recognition is not configured")
		return
	case errors.Is(err, photo.ErrUnavailable):
		log.Printf("[analyzeFood] provider unavailable: %v", err)
		apiError(c, http.StatusBadGateway, "food recognition failed, try again")
		return
	case err != nil:
		log.Printf("[analyzeFood] unexpected error: %v", err)
		apiError(c, http.StatusInternalServerError, "food recognition failed")
		return
	}

	resp := analyzeResponse{Result: result}
	if meal == "" || result.Status != photo.StatusSuccess {
		c.JSON(http.StatusOK, resp)
		return
	}

	p, err := h.profiles.Load(c, uid)
	if err != nil {
		storeError(c, "analyzeFood", err)
		return
	}
	now := h.clock.Now()
	change, err := h.logs.Update(c, uid, date, p.MealCategories, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		for _, est := range result.Foods {
			var err error
			if l, err = ledger.AddFood(l, meal, est.Food(), now); err != nil {
				return l, err
			}
		}
		return l, nil
	})
	if errors.Is(err, ledger.ErrMealNotFound) {
		apiError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		storeError(c, "analyzeFood", err)
		return
	}

	logged := h.afterLogChange(c, uid, p, change)
	resp.Logged = &logged
	c.JSON(http.StatusOK, resp)
}
