package main

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

//go:embed frontend
var frontendFS embed.FS

const maxRequestSize = 1 << 20 // 1 Mo

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens += refill * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux        *http.ServeMux
	store      *Store
	gemini     *GeminiClient
	sse        *Broadcaster
	generateRL *rateLimiter
	suggestRL  *rateLimiter
}

// NewServer creates a configured HTTP server.
func NewServer(store *Store, gemini *GeminiClient) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		store:      store,
		gemini:     gemini,
		sse:        NewBroadcaster(),
		generateRL: newRateLimiter(10, time.Minute), // 10 générations/min per IP
		suggestRL:  newRateLimiter(5, time.Minute),  // 5 appels Gemini/min per IP
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)
	s.mux.HandleFunc("GET /api/puzzles/{id}/puzzle.svg", s.handlePuzzleSVG)
	s.mux.HandleFunc("GET /api/puzzles/{id}/solution.svg", s.handleSolutionSVG)

	// Job API
	s.mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)
	s.mux.HandleFunc("GET /api/jobs/{id}/events", s.handleJobEvents)

	// Word list API
	s.mux.HandleFunc("POST /api/wordlists", s.handleSuggestWords)

	// Frontend static files
	frontendDir, _ := fs.Sub(frontendFS, "frontend")
	fileServer := http.FileServer(http.FS(frontendDir))
	s.mux.HandleFunc("GET /puzzle/{id}", s.handlePuzzlePage)
	s.mux.Handle("GET /", fileServer)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// generateRequest is the common payload for puzzle and job creation.
type generateRequest struct {
	Rows           int      `json:"rows"`
	Cols           int      `json:"cols"`
	Words          []string `json:"words"`
	AllowBackwards *bool    `json:"allow_backwards"` // default true
	Mask           string   `json:"mask"`
}

// validate cleans the request in place and returns a caller-facing
// message when it is malformed. The solver only ever sees cleaned
// input: uppercase A-Z words, positive in-range dimensions.
func (req *generateRequest) validate() string {
	if req.Rows < 1 || req.Rows > maxGridSize || req.Cols < 1 || req.Cols > maxGridSize {
		return "Dimensions invalides : entre 1 et 32"
	}
	req.Words = cleanWords(req.Words)
	if len(req.Words) == 0 {
		return "Champ 'words' requis"
	}
	if len(req.Words) > maxWords {
		return "Trop de mots (max 50)"
	}
	for _, w := range req.Words {
		if !validWord(w) {
			return "Mot invalide : lettres A-Z uniquement"
		}
	}
	if req.Mask != "" && req.Mask != maskCircle {
		return "Masque inconnu : 'circle' ou vide"
	}
	return ""
}

func (req *generateRequest) allowBackwards() bool {
	return req.AllowBackwards == nil || *req.AllowBackwards
}

// generate runs the solver with a fresh time-seeded source. nil means
// all attempts were exhausted without finding a layout, which is an
// expected outcome for tight parameters.
func (req *generateRequest) generate() *Puzzle {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	grid, spans, ok := generateGrid(req.Rows, req.Cols, req.Words, req.allowBackwards(), rng)
	if !ok {
		return nil
	}
	return newPuzzle(req.Rows, req.Cols, grid, spans, req.Words, req.Mask)
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*generateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return nil, false
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

// --- Puzzle handlers ---

// POST /api/puzzles — generate a puzzle synchronously.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	puzzle := req.generate()
	if puzzle == nil {
		jsonError(w, "Aucune disposition trouvée pour ces paramètres", http.StatusUnprocessableEntity)
		return
	}
	s.store.SavePuzzle(puzzle)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(puzzle)
}

// GET /api/puzzles — list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	puzzles := s.store.ListPuzzles()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(puzzles)
}

// GET /api/puzzles/{id} — get a single puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(puzzle)
}

// GET /api/puzzles/{id}/puzzle.svg — printable puzzle sheet.
func (s *Server) handlePuzzleSVG(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(renderPuzzleSVG(puzzle, r.URL.Query().Get("page"))))
}

// GET /api/puzzles/{id}/solution.svg — answer sheet with highlights.
func (s *Server) handleSolutionSVG(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(renderSolutionSVG(puzzle, rng)))
}

// --- Job handlers ---

// POST /api/jobs — queue a generation in the background.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	job := s.store.CreateJob()
	go s.runJob(job, req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(job.Snapshot())
}

// runJob executes one queued generation and broadcasts every status
// transition to SSE watchers.
func (s *Server) runJob(job *Job, req *generateRequest) {
	job.Start()
	s.sse.BroadcastJob(job.Snapshot())

	puzzle := req.generate()
	if puzzle == nil {
		job.Fail("Aucune disposition trouvée pour ces paramètres")
	} else {
		s.store.SavePuzzle(puzzle)
		job.Complete(puzzle)
	}
	s.sse.BroadcastJob(job.Snapshot())
}

// GET /api/jobs/{id} — job status snapshot.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job := s.store.GetJob(r.PathValue("id"))
	if job == nil {
		jsonError(w, "Tâche introuvable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// DELETE /api/jobs/{id} — forget a job.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteJob(r.PathValue("id")) {
		jsonError(w, "Tâche introuvable", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/jobs/{id}/events — SSE stream of job status changes.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	job := s.store.GetJob(r.PathValue("id"))
	if job == nil {
		jsonError(w, "Tâche introuvable", http.StatusNotFound)
		return
	}

	s.sse.ServeSSE(w, r, job.ID, func(c *client) {
		// Send the current snapshot on connect so late subscribers
		// see terminal states.
		data, _ := json.Marshal(job.Snapshot())
		c.ch <- string(data)
	})
}

// --- Word list handler ---

// POST /api/wordlists — ask Gemini for a themed word list.
func (s *Server) handleSuggestWords(w http.ResponseWriter, r *http.Request) {
	if !s.suggestRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	if s.gemini == nil {
		jsonError(w, "Suggestion de mots non configurée", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	var req struct {
		Theme  string `json:"theme"`
		Count  int    `json:"count"`
		MaxLen int    `json:"max_len"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Theme == "" {
		jsonError(w, "Champ 'theme' requis", http.StatusBadRequest)
		return
	}
	if req.Count < 1 || req.Count > maxWords {
		req.Count = 12
	}
	if req.MaxLen < 3 || req.MaxLen > maxGridSize {
		req.MaxLen = 12
	}

	words, err := s.gemini.SuggestWords(r.Context(), req.Theme, req.Count, req.MaxLen)
	if err != nil {
		log.Printf("Gemini suggest error: %v", err)
		jsonError(w, "Erreur lors de la génération de la liste de mots", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"words": words})
}

// --- Frontend page handlers ---

// GET /puzzle/{id} — serve the puzzle page.
func (s *Server) handlePuzzlePage(w http.ResponseWriter, _ *http.Request) {
	data, _ := frontendFS.ReadFile("frontend/puzzle.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// --- Helpers ---

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
