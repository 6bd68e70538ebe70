package dictionary

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/tileserve/internal/logger"
	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/charmbracelet/log"
)

// LoadFunc builds a lexicon.
type LoadFunc func(ctx context.Context) (*lexicon.Lexicon, error)

// Provider builds a lexicon in the background and publishes it once complete.
// Readers never see a partially built lexicon and never block on Lexicon.
type Provider struct {
	load       LoadFunc
	maxRetries int
	backoff    time.Duration

	current atomic.Pointer[lexicon.Lexicon]
	start   sync.Once
	done    chan struct{}
	err     error // written before done is closed
	log     *log.Logger
}

// NewProvider creates a provider that calls load when started. A failed load is retried
// up to maxRetries times, waiting backoff times the attempt number in between.
func NewProvider(load LoadFunc, maxRetries int, backoff time.Duration) *Provider {
	return &Provider{
		load:       load,
		maxRetries: maxRetries,
		backoff:    backoff,
		done:       make(chan struct{}),
		log:        logger.New("dictionary"),
	}
}

// Preloaded returns a provider that already holds lex.
func Preloaded(lex *lexicon.Lexicon) *Provider {
	p := NewProvider(func(context.Context) (*lexicon.Lexicon, error) { return lex, nil }, 0, 0)
	p.start.Do(func() {
		p.current.Store(lex)
		close(p.done)
	})
	return p
}

// FromDisk is a LoadFunc reading the snapshot if present, else the word lists in dir.
func FromDisk(l *Loader, dir, snapshot string) LoadFunc {
	return func(ctx context.Context) (*lexicon.Lexicon, error) {
		return l.Load(ctx, dir, snapshot)
	}
}

// Start begins loading in a new goroutine. Later calls do nothing.
func (p *Provider) Start(ctx context.Context) {
	p.start.Do(func() {
		go p.run(ctx)
	})
}

func (p *Provider) run(ctx context.Context) {
	defer close(p.done)

	for attempt := 0; ; attempt++ {
		lex, err := p.load(ctx)
		if err == nil {
			p.current.Store(lex)
			p.log.Debugf("Lexicon published: %d words", lex.Len())
			return
		}
		if attempt >= p.maxRetries || ctx.Err() != nil {
			p.err = err
			p.log.Errorf("Failed to load lexicon: %v", err)
			return
		}

		p.log.Warnf("Load failed (attempt %d/%d): %v", attempt+1, p.maxRetries+1, err)
		select {
		case <-time.After(time.Duration(attempt+1) * p.backoff):
		case <-ctx.Done():
			p.err = ctx.Err()
			return
		}
	}
}

// Lexicon returns the published lexicon, or an error wrapping lexicon.ErrUnavailable.
func (p *Provider) Lexicon() (*lexicon.Lexicon, error) {
	if lex := p.current.Load(); lex != nil {
		return lex, nil
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", lexicon.ErrUnavailable, err)
	}
	return nil, lexicon.ErrUnavailable
}

// Ready reports whether a lexicon has been published.
func (p *Provider) Ready() bool {
	return p.current.Load() != nil
}

// Err returns the load error once loading has finished unsuccessfully.
func (p *Provider) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until loading finishes or ctx is done.
func (p *Provider) Wait(ctx context.Context) (*lexicon.Lexicon, error) {
	select {
	case <-p.done:
		return p.Lexicon()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
