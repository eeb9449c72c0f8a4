/*
Package server implements msgpack IPC for the rankserve index.

The server speaks binary msgpack over stdin/stdout. Clients send one
request message at a time and receive one response per request; messages
are processed synchronously with timing info included in completion
responses.

# IPC

Every request carries an ID echoed in the response and an op selecting
the handler. A completion request:

	{"id": "req_001", "op": "complete", "p": "ame", "l": 24}

is answered with suggestions ranked by score:

	{"id": "req_001", "s": [{"k": "amenity", "v": "amenity", "sc": 930, "r": 1}], "c": 1, "t": 145}

Mutations go through the same stream:

	{"id": "m_001", "op": "add", "k": "amenity", "sc": 930, "v": "amenity"}
	{"id": "m_002", "op": "delete", "k": "amenity"}

and are acknowledged with a status response. A stats op reports index and
loader counters, and a config op reads or updates server limits without a
restart.

Invalid requests are answered with {"id", "e", "c"} error messages; the
stream itself stays open until stdin closes.
*/
package server

// Request is the envelope for every incoming message. Fields beyond ID
// and Op are read by the op they belong to.
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`

	// complete
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Unique *bool  `msgpack:"u,omitempty"`

	// add / delete
	Key      string `msgpack:"k,omitempty"`
	Score    int    `msgpack:"sc,omitempty"`
	Value    string `msgpack:"v,omitempty"`
	Distinct string `msgpack:"d,omitempty"`

	// config
	Action       string `msgpack:"action,omitempty"` // "get", "update"
	MaxLimit     *int   `msgpack:"max_limit,omitempty"`
	MinPrefix    *int   `msgpack:"min_prefix,omitempty"`
	MaxPrefix    *int   `msgpack:"max_prefix,omitempty"`
	EnableFilter *bool  `msgpack:"enable_filter,omitempty"`
}

// Suggestion is one ranked result in a completion response.
type Suggestion struct {
	Key   string `msgpack:"k"`
	Value string `msgpack:"v"`
	Score int    `msgpack:"sc"`
	Rank  uint16 `msgpack:"r"`
}

// CompletionResponse answers a complete op.
type CompletionResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// StatusResponse acknowledges add, delete and config ops.
type StatusResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Removed *bool  `msgpack:"removed,omitempty"`
}

// StatsResponse answers a stats op with index and loader counters.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ConfigResponse answers a config get.
type ConfigResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	MaxLimit     int    `msgpack:"max_limit"`
	MinPrefix    int    `msgpack:"min_prefix"`
	MaxPrefix    int    `msgpack:"max_prefix"`
	EnableFilter bool   `msgpack:"enable_filter"`
}

// ErrorResponse holds basic error information for failed requests.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
