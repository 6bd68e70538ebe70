package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/bastiangx/tileserve/pkg/pattern"
	"github.com/bastiangx/tileserve/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Error codes sent in ErrorResponse.
const (
	CodeBadRequest  = 400
	CodeUnavailable = 503
	CodeInternal    = 500
)

// Options bounds requests.
type Options struct {
	MaxLimit       int
	MaxQueryLength int
}

// Server answers msgpack requests against a search engine.
type Server struct {
	engine *search.Engine
	src    search.Source
	opts   Options
	dec    *msgpack.Decoder
	out    *bufio.Writer
	enc    *msgpack.Encoder
}

// NewServer creates a server reading requests from r and writing responses to w.
// src is the lexicon source behind engine and feeds status requests.
func NewServer(engine *search.Engine, src search.Source, opts Options, r io.Reader, w io.Writer) *Server {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = 64
	}
	out := bufio.NewWriter(w)
	return &Server{
		engine: engine,
		src:    src,
		opts:   opts,
		dec:    msgpack.NewDecoder(bufio.NewReader(r)),
		out:    out,
		enc:    msgpack.NewEncoder(out),
	}
}

// NewStdio creates a server on stdin/stdout.
func NewStdio(engine *search.Engine, src search.Source, opts Options) *Server {
	return NewServer(engine, src, opts, os.Stdin, os.Stdout)
}

// Serve announces the server status, then answers requests until the input ends or ctx
// is done. ctx is checked between requests only.
//
// A well-formed msgpack value that does not decode into a Request gets a 400 and the
// loop continues. Bytes that are not msgpack at all cannot be skipped, so Serve stops
// and returns the read error.
func (s *Server) Serve(ctx context.Context) error {
	log.Debug("Starting server")
	if err := s.send(s.status("")); err != nil {
		return err
	}

	for ctx.Err() == nil {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				log.Warnf("Input ended mid-request: %v", err)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Debugf("Undecodable request: %v", err)
			if err := s.send(ErrorResponse{Error: "invalid request", Code: CodeBadRequest}); err != nil {
				return err
			}
			continue
		}
		if err := s.send(s.Handle(ctx, req)); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
		return err
	}
	return s.out.Flush()
}

// Handle answers one request. The result is one of the response types.
func (s *Server) Handle(ctx context.Context, req Request) any {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if n := utf8.RuneCountInString(req.Query); n > s.opts.MaxQueryLength {
		return ErrorResponse{
			ID:    req.ID,
			Error: fmt.Sprintf("query exceeds maximum length of %d characters", s.opts.MaxQueryLength),
			Code:  CodeBadRequest,
		}
	}
	limit := req.Limit
	if limit <= 0 || limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}

	start := time.Now()
	var (
		resp any
		err  error
	)
	switch req.Op {
	case OpExact:
		resp, err = s.entries(req.ID, limit, start, func() ([]search.Entry, error) {
			return s.engine.Exact(ctx, req.Query)
		})
	case OpPlusOne:
		resp, err = s.entries(req.ID, limit, start, func() ([]search.Entry, error) {
			return s.engine.PlusOne(ctx, req.Query)
		})
	case OpBlanks:
		resp, err = s.entries(req.ID, limit, start, func() ([]search.Entry, error) {
			return s.engine.BlankQuery(ctx, req.Query)
		})
	case OpSubsets:
		resp, err = s.entries(req.ID, limit, start, func() ([]search.Entry, error) {
			return s.engine.Subsets(ctx, req.Query)
		})
	case OpPattern:
		resp, err = s.pattern(ctx, req, limit, start)
	case OpJudge:
		resp, err = s.judge(ctx, req, start)
	case OpMember:
		var ok bool
		ok, err = s.engine.IsMember(ctx, req.Query)
		resp = MemberResponse{ID: req.ID, Word: req.Query, Member: ok}
	case OpStatus:
		resp = s.status(req.ID)
	default:
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown op: %q", req.Op), Code: CodeBadRequest}
	}
	if err != nil {
		return errorResponse(req.ID, err)
	}
	log.Debugf("%s %q answered in %s", req.Op, req.Query, time.Since(start))
	return resp
}

func (s *Server) entries(id string, limit int, start time.Time, run func() ([]search.Entry, error)) (any, error) {
	entries, err := run()
	if err != nil {
		return nil, err
	}
	resp := SearchResponse{ID: id, Count: len(entries)}
	if len(entries) > limit {
		entries = entries[:limit]
		resp.Truncated = true
	}
	resp.Entries = toEntries(entries)
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp, nil
}

func (s *Server) pattern(ctx context.Context, req Request, limit int, start time.Time) (any, error) {
	groups, err := s.engine.Pattern(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	resp := SearchResponse{ID: req.ID, Count: groups.Len()}
	left := limit
	for _, g := range groups {
		if left == 0 {
			resp.Truncated = true
			break
		}
		entries := g.Entries
		if len(entries) > left {
			entries = entries[:left]
			resp.Truncated = true
		}
		left -= len(entries)
		resp.Groups = append(resp.Groups, Group{Length: g.Length, Entries: toEntries(entries)})
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp, nil
}

func (s *Server) judge(ctx context.Context, req Request, start time.Time) (any, error) {
	verdict, err := s.engine.Judge(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	resp := JudgeResponse{ID: req.ID, AllValid: verdict.AllValid, Words: make([]Judgement, 0, len(verdict.Words))}
	for _, j := range verdict.Words {
		resp.Words = append(resp.Words, Judgement{Word: j.Word, Valid: j.Valid, Suggestions: j.Suggestions})
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp, nil
}

func (s *Server) status(id string) StatusResponse {
	cs := s.engine.CacheStats()
	st := StatusResponse{ID: id, Status: "ready", CacheHits: cs.Hits, CacheMisses: cs.Misses}

	lex, err := s.src.Lexicon()
	if err != nil {
		st.Status = "loading"
		if f, ok := s.src.(interface{ Err() error }); ok {
			if loadErr := f.Err(); loadErr != nil {
				st.Status = "failed"
				st.Error = loadErr.Error()
			}
		}
		return st
	}
	stats := lex.Stats()
	st.Words = stats.Words
	st.Alphagrams = stats.Alphagrams
	st.MaxLength = stats.MaxLength
	return st
}

func toEntries(entries []search.Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Word: e.Word, Extra: e.Extra, Blanks: e.Blanks, Filled: e.Filled, Length: e.Length}
	}
	return out
}

func errorResponse(id string, err error) ErrorResponse {
	code := CodeInternal
	switch {
	case errors.Is(err, pattern.ErrMalformed), errors.Is(err, search.ErrRackTooLong):
		code = CodeBadRequest
	case errors.Is(err, lexicon.ErrUnavailable):
		code = CodeUnavailable
	default:
		log.Errorf("Request %s failed: %v", id, err)
	}
	return ErrorResponse{ID: id, Error: err.Error(), Code: code}
}
