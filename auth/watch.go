package auth

import "context"

const watchBuffer = 8

// Watch streams state changes, starting with the current state. The channel
// is closed when ctx is done. A watcher that falls behind loses the oldest
// pending states, never the latest.
func (c *Controller) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, watchBuffer)

	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = ch
	ch <- c.state
	c.mu.Unlock()

	context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.watchers, id)
		close(ch)
	})
	return ch
}

// publishLocked fans a state out to every watcher. Callers hold mu.
func (c *Controller) publishLocked(s State) {
	for _, ch := range c.watchers {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
