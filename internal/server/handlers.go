package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/leaders"
	"github.com/jonathan/leadprep/internal/types"
)

// DefaultInterviewLeaders is how many leaders /interviews searches by default.
const DefaultInterviewLeaders = 5

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	URL string `json:"url" validate:"required"`
}

// AnalyzeResponse wraps company info
type AnalyzeResponse struct {
	Success bool                 `json:"success"`
	Data    *leaders.CompanyInfo `json:"data"`
}

// InterviewsRequest is the body of POST /interviews
type InterviewsRequest struct {
	URL        string `json:"url" validate:"required"`
	MaxLeaders int    `json:"max_leaders,omitempty" validate:"omitempty,min=1,max=15"`
}

// InterviewsResponse holds ranked interviews per leader
type InterviewsResponse struct {
	Company *leaders.CompanyInfo          `json:"company"`
	Results []interviews.LeaderInterviews `json:"results"`
}

// ResearchRequest is the body of POST /research and /research/stream
type ResearchRequest struct {
	Leads          []types.Lead `json:"leads" validate:"required,min=1,max=25,dive"`
	Openers        bool         `json:"openers,omitempty"`
	ProductContext string       `json:"product_context,omitempty"`
}

// ResearchResponse holds research results and, when requested, openers
type ResearchResponse struct {
	Results []types.ResearchResult `json:"results"`
	Openers []types.Opener         `json:"openers,omitempty"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy", "service": "leadprep"})
}

// handleAnalyze resolves a company URL to its leaders
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	info, err := s.companies.CompanyInfo(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{Success: true, Data: info})
}

// handleInterviews resolves leaders then finds and ranks their interviews
func (s *Server) handleInterviews(w http.ResponseWriter, r *http.Request) {
	if s.finder == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "interview search"})
		return
	}

	var req InterviewsRequest
	if err := s.decode(r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}
	if req.MaxLeaders == 0 {
		req.MaxLeaders = DefaultInterviewLeaders
	}

	info, err := s.companies.CompanyInfo(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	people := info.Leaders
	if len(people) > req.MaxLeaders {
		people = people[:req.MaxLeaders]
	}

	s.jsonResponse(w, http.StatusOK, InterviewsResponse{
		Company: info,
		Results: s.finder.ForLeaders(r.Context(), people, info.CompanyName),
	})
}

// handleResearch researches a batch of leads and optionally drafts openers
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.researchRequest(w, r)
	if !ok {
		return
	}

	resp := ResearchResponse{Results: s.researcher.ResearchBatch(r.Context(), req.Leads)}
	if req.Openers {
		resp.Openers = s.openers.GenerateBatch(r.Context(), resp.Results, req.ProductContext)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleResearchStream researches leads one at a time, streaming each
// result (and opener) as an SSE event
func (s *Server) handleResearchStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.researchRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := r.Context()
	for i, lead := range req.Leads {
		if ctx.Err() != nil {
			sse.WriteError(ctx.Err().Error())
			return
		}

		res := types.ResearchResult{Lead: lead}
		if brief, err := s.researcher.Research(ctx, lead); err != nil {
			res.Error = err.Error()
		} else {
			res.Brief = brief
		}
		if err := sse.WriteEvent("research", map[string]any{"index": i, "result": res}); err != nil {
			s.logger.Warn("error writing SSE event", "error", err)
			return
		}

		if req.Openers {
			op := s.openers.GenerateBatch(ctx, []types.ResearchResult{res}, req.ProductContext)[0]
			if err := sse.WriteEvent("opener", map[string]any{"index": i, "opener": op}); err != nil {
				s.logger.Warn("error writing SSE event", "error", err)
				return
			}
		}
	}

	sse.WriteComplete(len(req.Leads))
}

func (s *Server) researchRequest(w http.ResponseWriter, r *http.Request) (ResearchRequest, bool) {
	var req ResearchRequest
	if s.researcher == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "research"})
		return req, false
	}
	if err := s.decode(r, &req); err != nil {
		s.errorFromErr(w, err)
		return req, false
	}
	if req.Openers && s.openers == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "opener drafting"})
		return req, false
	}
	return req, true
}

// handleCacheStats returns leader cache statistics
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	if s.cache == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "cache"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.cache.Stats())
}

// handleCacheClear empties the leader cache
func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	if s.cache == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "cache"})
		return
	}
	if err := s.cache.Clear(); err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ErrValidation{Field: fieldPath(fe.Namespace()), Message: "failed '" + fe.Tag() + "' check"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// fieldPath drops the struct name from a validator namespace, leaving the
// JSON path such as "leads[0].company_domain".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
