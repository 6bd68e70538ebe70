/*
Package server implements msgpack IPC for lexicon queries.

Clients write msgpack encoded requests to stdin, one value after another, and read one
msgpack response per request from stdout. Logs go to stderr.

# IPC

Every request names an operation and carries the query text:

	{"id": "q1", "op": "exact", "q": "casa"}
	{"id": "q2", "op": "pattern", "q": "C*A:5", "l": 20}

Operations:

	exact    anagrams of the query
	plus1    anagrams of the query plus one tile
	blanks   anagrams with '?' blanks, e.g. "A?A"
	subsets  strictly shorter words buildable from the rack
	pattern  pattern search, results grouped by length
	judge    validate every word of the query
	member   membership of a single word
	status   lexicon readiness and counters

Search responses carry entries and a count:

	{"id": "q1", "r": [{"w": "ASCA", "n": 4}, {"w": "CASA", "n": 4}], "c": 2, "t": 85}

Failures answer with an error message and a code: 400 for bad requests, 503 while the
lexicon is unavailable, 500 otherwise.

	{"id": "q2", "e": "malformed pattern: ...", "c": 400}

A request without an id gets a generated one, echoed in the response.
The server announces itself with a status message before reading requests.
*/
package server

// Op names a request operation.
type Op string

const (
	OpExact   Op = "exact"
	OpPlusOne Op = "plus1"
	OpBlanks  Op = "blanks"
	OpSubsets Op = "subsets"
	OpPattern Op = "pattern"
	OpJudge   Op = "judge"
	OpMember  Op = "member"
	OpStatus  Op = "status"
)

// Request is one query.
type Request struct {
	ID    string `msgpack:"id"`
	Op    Op     `msgpack:"op"`
	Query string `msgpack:"q"`
	Limit int    `msgpack:"l,omitempty"`
}

// Entry is one result word.
type Entry struct {
	Word   string   `msgpack:"w"`
	Extra  string   `msgpack:"x,omitempty"`
	Blanks []string `msgpack:"b,omitempty"`
	Filled []int    `msgpack:"f,omitempty"`
	Length int      `msgpack:"n"`
}

// Group holds the pattern entries of one length.
type Group struct {
	Length  int     `msgpack:"n"`
	Entries []Entry `msgpack:"r"`
}

// SearchResponse answers exact, plus1, blanks, subsets and pattern requests.
// Pattern results fill Groups, the others Entries. Count is the number of matches
// before the limit; TimeTaken is in microseconds.
type SearchResponse struct {
	ID        string  `msgpack:"id"`
	Entries   []Entry `msgpack:"r,omitempty"`
	Groups    []Group `msgpack:"g,omitempty"`
	Count     int     `msgpack:"c"`
	Truncated bool    `msgpack:"tr,omitempty"`
	TimeTaken int64   `msgpack:"t"`
}

// Judgement is the verdict on one word.
type Judgement struct {
	Word        string   `msgpack:"w"`
	Valid       bool     `msgpack:"v"`
	Suggestions []string `msgpack:"s,omitempty"`
}

// JudgeResponse answers judge requests.
type JudgeResponse struct {
	ID        string      `msgpack:"id"`
	Words     []Judgement `msgpack:"r"`
	AllValid  bool        `msgpack:"ok"`
	TimeTaken int64       `msgpack:"t"`
}

// MemberResponse answers member requests.
type MemberResponse struct {
	ID     string `msgpack:"id"`
	Word   string `msgpack:"w"`
	Member bool   `msgpack:"m"`
}

// StatusResponse reports lexicon readiness: "ready", "loading" or "failed".
type StatusResponse struct {
	ID          string `msgpack:"id"`
	Status      string `msgpack:"status"`
	Error       string `msgpack:"error,omitempty"`
	Words       int    `msgpack:"words,omitempty"`
	Alphagrams  int    `msgpack:"alphagrams,omitempty"`
	MaxLength   int    `msgpack:"max_length,omitempty"`
	CacheHits   int64  `msgpack:"cache_hits"`
	CacheMisses int64  `msgpack:"cache_misses"`
}

// ErrorResponse holds basic error information for a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
