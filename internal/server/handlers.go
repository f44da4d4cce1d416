package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/filestore"
	"github.com/intellisql/intellisql/internal/prompt"
	"github.com/intellisql/intellisql/internal/query"
	"github.com/intellisql/intellisql/internal/schema"
)

type attachRequest struct {
	// Driver selects the engine; empty means sqlite.
	Driver string `json:"driver,omitempty"`
	// DSN is a local file path (sqlite) or connection string.
	DSN string `json:"dsn,omitempty"`
	// Bucket/Key name an uploaded object to download and attach.
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
}

type sessionResponse struct {
	Source string   `json:"source"`
	Driver string   `json:"driver"`
	Tables []string `json:"tables"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	var req attachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.New(errs.ErrKindInvalidInput, "invalid JSON body"))
		return
	}

	dsn := req.DSN
	if req.Key != "" {
		if s.store == nil {
			respondError(w, errs.New(errs.ErrKindInvalidInput, "object storage is not configured"))
			return
		}
		bucket := req.Bucket
		if bucket == "" {
			bucket = s.cfg.Filestore.Bucket
		}
		path, err := filestore.Download(r.Context(), s.store, bucket, req.Key, "")
		if err != nil {
			respondError(w, err)
			return
		}
		dsn = path
	}
	if dsn == "" {
		respondError(w, errs.New(errs.ErrKindInvalidInput, "dsn or key is required"))
		return
	}

	driver := database.Driver(req.Driver)
	if driver == "" {
		driver = database.DriverSQLite
	}

	dbCfg := database.DefaultConfig(driver, dsn)
	if s.cfg.Query.Timeout > 0 {
		dbCfg.QueryTimeout = s.cfg.Query.Timeout.Std()
	}

	sess, err := s.mgr.Attach(r.Context(), dbCfg)
	if err != nil {
		// The downloaded copy is useless if it never attached.
		if req.Key != "" {
			os.Remove(dsn)
		}
		respondError(w, err)
		return
	}

	s.log.With().Str("source", sess.Source()).Logger().Info("database attached")
	respondJSON(w, http.StatusOK, sessionResponse{
		Source: sess.Source(),
		Driver: string(sess.Driver()),
		Tables: sess.Snapshot().TableNames(),
	})
}

func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request) {
	s.mgr.Detach()
	respondJSON(w, http.StatusOK, map[string]string{"status": "detached"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.mgr.Current()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		Source: sess.Source(),
		Driver: string(sess.Driver()),
		Tables: sess.Snapshot().TableNames(),
	})
}

type columnDTO struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	PrimaryKey bool    `json:"primaryKey"`
	Default    *string `json:"default,omitempty"`
}

type foreignKeyDTO struct {
	Column    string `json:"column"`
	RefTable  string `json:"refTable"`
	RefColumn string `json:"refColumn"`
}

type tableDTO struct {
	Name        string          `json:"name"`
	Columns     []columnDTO     `json:"columns"`
	ForeignKeys []foreignKeyDTO `json:"foreignKeys,omitempty"`
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sess, err := s.mgr.Current()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]tableDTO{
		"tables": tablesToDTO(sess.Snapshot()),
	})
}

func tablesToDTO(snap *schema.Snapshot) []tableDTO {
	out := make([]tableDTO, 0, len(snap.Tables))
	for _, t := range snap.Tables {
		dto := tableDTO{Name: t.Name}
		for _, c := range t.Columns {
			dto.Columns = append(dto.Columns, columnDTO{
				Name:       c.Name,
				Type:       c.DeclaredType,
				Nullable:   c.Nullable,
				PrimaryKey: c.IsPrimaryKey,
				Default:    c.DefaultValue,
			})
		}
		for _, fk := range t.ForeignKeys {
			dto.ForeignKeys = append(dto.ForeignKeys, foreignKeyDTO{
				Column:    fk.FromColumn,
				RefTable:  fk.ToTable,
				RefColumn: fk.ToColumn,
			})
		}
		out = append(out, dto)
	}
	return out
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	sess, err := s.mgr.Current()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"prompt": sess.Prompt()})
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	sess, err := s.mgr.Current()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{
		"questions": prompt.ExampleQuestions(sess.Snapshot()),
	})
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	SQL       string        `json:"sql"`
	Result    *query.Result `json:"result"`
	Truncated bool          `json:"truncated"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.New(errs.ErrKindInvalidInput, "invalid JSON body"))
		return
	}
	if req.Question == "" {
		respondError(w, errs.New(errs.ErrKindInvalidInput, "question is required"))
		return
	}

	res, err := s.mgr.Ask(r.Context(), req.Question)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, askResponse{
		SQL:       res.SQL,
		Result:    res.Result,
		Truncated: res.Result.Truncated(),
	})
}

type queryRequest struct {
	SQL string `json:"sql"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.New(errs.ErrKindInvalidInput, "invalid JSON body"))
		return
	}

	res, err := s.mgr.Run(r.Context(), req.SQL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.New(errs.ErrKindInvalidInput, "invalid JSON body"))
		return
	}

	res, err := s.mgr.Run(r.Context(), req.SQL)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
	if err := query.WriteCSV(w, res); err != nil {
		s.log.ErrorWith("csv export failed", err, nil)
	}
}
