package builder

import "context"

// Coalescer runs passes one at a time. Requests made while a pass is running
// collapse into a single queued re-run.
type Coalescer struct {
	pending chan struct{}
	pass    func(context.Context) error
}

// NewCoalescer creates a Coalescer that runs pass for each granted request.
func NewCoalescer(pass func(context.Context) error) *Coalescer {
	return &Coalescer{
		pending: make(chan struct{}, 1),
		pass:    pass,
	}
}

// Request queues a pass. It never blocks.
func (c *Coalescer) Request() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// Run executes queued passes until ctx is done, returning nil, or a pass fails,
// returning its error.
func (c *Coalescer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.pending:
			if err := c.pass(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
