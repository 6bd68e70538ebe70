// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the TileServe lexicon query server and CLI.

TileServe answers Spanish Scrabble lexicon queries: anagrams, anagrams plus one tile,
blank searches, sub-rack searches, pattern searches and play validation. The alphabet
treats CH, LL and RR as single tiles and keeps Ñ as its own letter.

# Usage

Start the MessagePack IPC server with default settings:

	tileserve

Run the interactive CLI with debug logging:

	tileserve cli -d

Build the lexicon snapshot and the fallback database from the word lists:

	tileserve index --data /path/to/words

The data directory holds plain text word lists (*.txt, one word per line) and binary
chunk files (dict_0001.bin, dict_0002.bin, ...). When a snapshot exists it is read
instead, which is much faster than rebuilding the lexicon from the word lists.

# Configuration

Configuration lives in config.toml inside the user config directory and is created
with defaults when missing:

	[server]
	max_limit = 200
	max_query_length = 64

	[dict]
	dir = "data"
	snapshot = "data/lexicon.msgpack"
	fallback_db = "data/words.db"

	[search]
	max_blanks = 2
	cache_size = 256

Every key can be overridden with a TILESERVE_* environment variable; run
"tileserve config" to list them.

# Server Mode

The default command loads the lexicon in the background and serves requests on
stdin/stdout right away. Until the lexicon is published, anagram and membership
requests are answered from the SQLite fallback database when one exists; pattern
requests fail with code 503.

	{"id": "q1", "op": "pattern", "q": "C*A:5"}

See package server for the protocol.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
