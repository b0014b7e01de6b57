package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sharpen/internal/catalog"
	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/repository"
	"github.com/alexanderramin/sharpen/internal/service"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func StartSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contract.StartSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		kind, err := domain.ParseSessionKind(string(req.Kind))
		if err != nil {
			badRequest(c, err)
			return
		}
		s, err := sessions.Start(c.Request.Context(), kind, req.ReferenceID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, contract.NewSessionView(s))
	}
}

// ActiveSession returns the open session of the kind given in ?kind=.
func ActiveSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, err := domain.ParseSessionKind(c.Query("kind"))
		if err != nil {
			badRequest(c, err)
			return
		}
		s, err := sessions.Active(c.Request.Context(), kind)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.NewSessionView(s))
	}
}

func GetSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.NewSessionView(s))
	}
}

func AbandonSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.Abandon(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func SubmitArtifact(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contract.SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := sessions.Submit(c.Request.Context(), c.Param("id"), req.Artifact())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func PauseSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Pause(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.NewSessionView(s))
	}
}

func ResumeSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Resume(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.NewSessionView(s))
	}
}

// CompleteSession accepts an empty body as "no completion data".
func CompleteSession(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contract.CompleteRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err)
			return
		}
		entry, err := sessions.Complete(c.Request.Context(), c.Param("id"), req.CompletionData())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.NewHistoryView(*entry))
	}
}

func ListInterrupted(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cps, err := sessions.Interrupted(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if cps == nil {
			cps = []domain.Checkpoint{}
		}
		c.JSON(http.StatusOK, cps)
	}
}

func FinalizeInterrupted(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := sessions.FinalizeInterrupted(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.NewHistoryView(*entry))
	}
}

func DiscardInterrupted(sessions service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.DiscardInterrupted(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ListHistory supports ?kind=, ?since= (RFC3339) and ?limit=.
func ListHistory(progress service.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := historyFilter(c)
		if err != nil {
			badRequest(c, err)
			return
		}
		entries, err := progress.History(c.Request.Context(), f)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]contract.HistoryView, 0, len(entries))
		for _, e := range entries {
			out = append(out, contract.NewHistoryView(e))
		}
		c.JSON(http.StatusOK, out)
	}
}

func GetProgress(progress service.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contract.ProgressRequest
		if raw := c.Query("now"); raw != "" {
			now, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				badRequest(c, fmt.Errorf("now: %w", err))
				return
			}
			req.Now = &now
		}
		resp, err := progress.Progress(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func CheckFeature(progress service.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		feature := c.Param("feature")
		d, err := progress.CheckFeature(c.Request.Context(), feature, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, contract.FeatureAccessView{Feature: feature, Decision: d})
	}
}

func GetRecommendation(progress service.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := progress.Recommend(c.Request.Context(), time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// ListCatalog supports ?kind= and marks premium activities the user cannot
// start as locked.
func ListCatalog(cat catalog.Catalog, entitled service.EntitlementFunc, userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var kind *domain.SessionKind
		if raw := c.Query("kind"); raw != "" {
			k, err := domain.ParseSessionKind(raw)
			if err != nil {
				badRequest(c, err)
				return
			}
			kind = &k
		}
		activities, err := cat.List(c.Request.Context(), kind)
		if err != nil {
			writeError(c, err)
			return
		}
		premium := entitled(c.Request.Context(), userID)
		out := make([]contract.ActivityView, 0, len(activities))
		for _, a := range activities {
			out = append(out, contract.NewActivityView(a, premium))
		}
		c.JSON(http.StatusOK, out)
	}
}

func historyFilter(c *gin.Context) (repository.HistoryFilter, error) {
	var f repository.HistoryFilter
	if raw := c.Query("kind"); raw != "" {
		k, err := domain.ParseSessionKind(raw)
		if err != nil {
			return f, err
		}
		f.Kind = &k
	}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, fmt.Errorf("since: %w", err)
		}
		f.Since = &since
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}
