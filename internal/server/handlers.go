package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/tweetcloud/internal/source"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

const defaultTop = 20

// AnalyzeRequest is the body of POST /analyze and the first websocket
// message of /ws/analyze.
type AnalyzeRequest struct {
	Subject string   `json:"subject"`
	Items   []string `json:"items"`
	// HTML is a saved timeline page; its posts are appended to Items.
	HTML string `json:"html,omitempty"`
	// Top limits the returned word list. Defaults to 20.
	Top int `json:"top,omitempty"`
	// Outcomes asks for per-item outcomes in the response.
	Outcomes bool `json:"outcomes,omitempty"`
}

// AnalyzeResponse reports a persisted result
type AnalyzeResponse struct {
	Message  string        `json:"message"`
	File     string        `json:"file"`
	Artifact string        `json:"artifact"`
	Words    int           `json:"words"`
	Top      []WordCount   `json:"top"`
	Skipped  int           `json:"skipped"`
	NoWords  int           `json:"no_words"`
	Outcomes []OutcomeView `json:"outcomes,omitempty"`
}

// WordCount is one entry of a ranked word list
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// OutcomeView is the wire form of a per-item outcome
type OutcomeView struct {
	Index   int    `json:"index"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Words   int    `json:"words"`
	Error   string `json:"error,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// RecordView is the wire form of a stored record
type RecordView struct {
	Handle    string         `json:"handle"`
	Subject   string         `json:"subject"`
	Timestamp string         `json:"timestamp"`
	Words     map[string]int `json:"words"`
}

// SummaryView is the wire form of a record summary
type SummaryView struct {
	Handle    string `json:"handle"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
	Distinct  int    `json:"distinct"`
	Total     int    `json:"total"`
}

// ListResponse is the body of GET /results
type ListResponse struct {
	Subject string        `json:"subject"`
	Results []SummaryView `json:"results"`
	Top     []WordCount   `json:"top"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func viewOutcome(o tweetcloud.Outcome) OutcomeView {
	v := OutcomeView{
		Index:   o.Index,
		Status:  o.Status.String(),
		Reason:  string(o.Reason),
		Words:   o.Words,
		Preview: o.Preview,
	}
	if o.Err != nil {
		v.Error = o.Err.Error()
	}
	return v
}

func viewEntries(entries []freq.Entry) []WordCount {
	out := make([]WordCount, len(entries))
	for i, e := range entries {
		out[i] = WordCount{Word: e.Word, Count: e.Count}
	}
	return out
}

func decodeAnalyze(data []byte) (AnalyzeRequest, error) {
	var req AnalyzeRequest
	if err := api.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: decode request: %v", internalerr.ErrInvalidInput, err)
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		return req, fmt.Errorf("%w: subject is required", internalerr.ErrInvalidInput)
	}
	if req.HTML != "" {
		extracted, err := source.ExtractHTML(strings.NewReader(req.HTML))
		if err != nil {
			return req, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
		}
		req.Items = append(req.Items, extracted...)
	}
	if req.Top <= 0 {
		req.Top = defaultTop
	}
	return req, nil
}

// checkItems applies the item cap and the no-posts rule
func (s *Server) checkItems(req AnalyzeRequest) (int, string) {
	if len(req.Items) == 0 {
		return http.StatusNotFound, "no posts found for " + req.Subject
	}
	if s.maxItems > 0 && len(req.Items) > s.maxItems {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("too many items: %d > %d", len(req.Items), s.maxItems)
	}
	return 0, ""
}

func (s *Server) analyze(ctx context.Context, req AnalyzeRequest, observers ...tweetcloud.Observer) (AnalyzeResponse, error) {
	res, err := s.engine.Process(ctx, req.Subject, req.Items, observers...)
	if err != nil {
		return AnalyzeResponse{}, err
	}

	resp := AnalyzeResponse{
		Message:  "result saved; word cloud can be rendered from the artifact",
		File:     store.ImageName(res.Handle),
		Artifact: string(res.Handle),
		Words:    len(res.Words),
		Top:      viewEntries(res.Words.Top(req.Top)),
		Skipped:  res.Count(tweetcloud.StatusFailed),
		NoWords:  res.Count(tweetcloud.StatusNoWords) + res.Count(tweetcloud.StatusEmpty),
	}
	if req.Outcomes {
		resp.Outcomes = make([]OutcomeView, len(res.Outcomes))
		for i, o := range res.Outcomes {
			resp.Outcomes[i] = viewOutcome(o)
		}
	}
	return resp, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	req, err := decodeAnalyze(body)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if status, msg := s.checkItems(req); status != 0 {
		log.Warn("analyze rejected", "subject", req.Subject, "items", len(req.Items), "reason", msg)
		writeError(w, status, msg)
		return
	}

	log.Info("analyze request", "subject", req.Subject, "items", len(req.Items))
	resp, err := s.analyze(r.Context(), req)
	if err != nil {
		log.Error("analyze failed", "subject", req.Subject, "err", err)
		writeError(w, statusFor(err), "server error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	h := store.Handle(r.PathValue("handle"))
	rec, err := s.engine.Store().Load(r.Context(), h)
	if err != nil {
		if !store.IsNotFound(err) {
			s.logger(r).Error("load result", "handle", h, "err", err)
		}
		writeError(w, statusFor(err), err.Error())
		return
	}

	words := rec.Words
	if words == nil {
		words = freq.Map{}
	}
	writeJSON(w, http.StatusOK, RecordView{
		Handle:    string(h),
		Subject:   rec.Subject,
		Timestamp: rec.CreatedAt.Format(store.TimeLayout),
		Words:     words,
	})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	subject := strings.TrimSpace(r.URL.Query().Get("subject"))
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject query parameter is required")
		return
	}
	top := defaultTop
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "top must be a non-negative integer")
			return
		}
		top = n
	}

	st := s.engine.Store()
	sums, err := st.List(r.Context(), subject)
	if err != nil {
		s.logger(r).Error("list results", "subject", subject, "err", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	entries, err := st.TopWords(r.Context(), subject, top)
	if err != nil {
		s.logger(r).Error("top words", "subject", subject, "err", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := ListResponse{Subject: subject, Results: make([]SummaryView, len(sums)), Top: viewEntries(entries)}
	for i, sm := range sums {
		resp.Results[i] = SummaryView{
			Handle:    string(sm.Handle),
			Subject:   sm.Subject,
			Timestamp: sm.CreatedAt.Format(time.RFC3339),
			Distinct:  sm.Distinct,
			Total:     sm.Total,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWordcloud(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	path := filepath.Join(s.staticDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		s.logger(r).Warn("word cloud image not found", "path", path)
		writeError(w, http.StatusNotFound, "word cloud image not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "image exists",
		"image_path": "static/" + name,
	})
}
