package simulator

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ProcessStatus estado de un proceso asíncrono consultable por trackId.
type ProcessStatus string

const (
	ProcessProcessing ProcessStatus = "processing"
	ProcessCompleted  ProcessStatus = "completed"
	ProcessError      ProcessStatus = "error"
)

// Process snapshot de un proceso: lo que devuelven los endpoints de consulta.
type Process struct {
	TrackID    string        `json:"trackId"`
	CompanyID  string        `json:"-"`
	Status     ProcessStatus `json:"status"`
	Logs       []string      `json:"logs"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
	Result     any           `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// ProcessStore guarda en memoria los procesos lanzados en segundo plano.
// Las entradas terminadas expiran tras ttl; al superar maxEntries se descartan primero
// las terminadas más antiguas.
type ProcessStore struct {
	mu         sync.RWMutex
	entries    map[string]*Process
	ttl        time.Duration
	maxEntries int
	now        Clock
}

// NewProcessStore crea el store. now nil usa time.Now.
func NewProcessStore(ttl time.Duration, maxEntries int, now Clock) *ProcessStore {
	if now == nil {
		now = time.Now
	}
	return &ProcessStore{
		entries:    make(map[string]*Process),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

// Start registra un proceso nuevo en estado processing. companyID es la empresa dueña;
// vacío deja el proceso visible solo sin filtro de empresa.
func (s *ProcessStore) Start(trackID, companyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[trackID] = &Process{
		TrackID:   trackID,
		CompanyID: companyID,
		Status:    ProcessProcessing,
		Logs:      []string{},
		StartedAt: s.now().UTC(),
	}
	s.evictLocked()
}

// Append agrega una línea al log del proceso. Ignora trackIds desconocidos.
func (s *ProcessStore) Append(trackID, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.entries[trackID]; ok {
		p.Logs = append(p.Logs, line)
	}
}

// Progress adapta Append a ProgressFunc para los simuladores.
func (s *ProcessStore) Progress(trackID string) ProgressFunc {
	return func(line string) { s.Append(trackID, line) }
}

// Complete marca el proceso como terminado con su resultado.
func (s *ProcessStore) Complete(trackID string, result any) {
	s.finish(trackID, ProcessCompleted, result, "")
}

// Fail marca el proceso como terminado con error.
func (s *ProcessStore) Fail(trackID string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.finish(trackID, ProcessError, nil, msg)
}

func (s *ProcessStore) finish(trackID string, status ProcessStatus, result any, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[trackID]
	if !ok {
		return
	}
	at := s.now().UTC()
	p.Status = status
	p.Result = result
	p.Error = errMsg
	p.FinishedAt = &at
}

// Get devuelve una copia del proceso; false si no existe o expiró.
func (s *ProcessStore) Get(trackID string) (Process, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[trackID]
	if !ok || s.expired(p, s.now()) {
		return Process{}, false
	}
	cp := *p
	cp.Logs = append([]string(nil), p.Logs...)
	return cp, true
}

// Len número de entradas retenidas (incluye expiradas aún no purgadas).
func (s *ProcessStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Purge elimina las entradas terminadas cuyo TTL venció. Devuelve cuántas eliminó.
func (s *ProcessStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, p := range s.entries {
		if s.expired(p, now) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// RunJanitor purga periódicamente hasta que ctx termine.
func (s *ProcessStore) RunJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Purge()
		}
	}
}

// Los procesos en curso no expiran.
func (s *ProcessStore) expired(p *Process, now time.Time) bool {
	return p.FinishedAt != nil && now.Sub(*p.FinishedAt) > s.ttl
}

func (s *ProcessStore) evictLocked() {
	if s.maxEntries <= 0 || len(s.entries) <= s.maxEntries {
		return
	}
	finished := make([]*Process, 0, len(s.entries))
	for _, p := range s.entries {
		if p.FinishedAt != nil {
			finished = append(finished, p)
		}
	}
	sort.Slice(finished, func(i, j int) bool { return finished[i].FinishedAt.Before(*finished[j].FinishedAt) })
	for _, p := range finished {
		if len(s.entries) <= s.maxEntries {
			return
		}
		delete(s.entries, p.TrackID)
	}
}
