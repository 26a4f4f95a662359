// Package ws holds the live-connection registry and the per-connection
// read/write pumps. The registry is the only shared mutable structure of the
// core; every mutation goes through its mutex.
package ws

import "sync"

const sendBuffer = 256

// Conn is the outbound side of one live client connection. Delivery through
// it is a best-effort push, not a guaranteed queue.
type Conn struct {
	send chan []byte
}

// Receive returns the channel the write pump drains. It is closed when the
// registry prunes the connection.
func (c *Conn) Receive() <-chan []byte {
	return c.send
}

// Registry maps a username to the outbound handles of every connection that
// user currently has open (multi-device support). Entries exist only while a
// socket is open; nothing here is durable.
type Registry struct {
	mu    sync.Mutex
	users map[string][]*Conn
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[string][]*Conn)}
}

// Register creates a new outbound handle for username and retains it for
// fan-out.
func (r *Registry) Register(username string) *Conn {
	conn := &Conn{send: make(chan []byte, sendBuffer)}
	r.mu.Lock()
	r.users[username] = append(r.users[username], conn)
	r.mu.Unlock()
	return conn
}

// Unregister removes one handle for username, dropping the user entry when it
// was the last one. Calling it again for the same handle, or after the
// handle was already pruned by a broadcast, is a no-op.
func (r *Registry) Unregister(username string, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.users[username]
	for i, c := range conns {
		if c == conn {
			conns = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(conns) == 0 {
		delete(r.users, username)
	} else {
		r.users[username] = conns
	}
}

// BroadcastTo pushes payload to every registered handle of every listed
// username. Users with no live connection are skipped; a handle whose buffer
// is full is considered dead, its channel is closed, and it is pruned.
// Dedup of usernames is the caller's responsibility.
func (r *Registry) BroadcastTo(usernames []string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, username := range usernames {
		conns, ok := r.users[username]
		if !ok {
			continue
		}
		kept := conns[:0]
		for _, c := range conns {
			select {
			case c.send <- payload:
				kept = append(kept, c)
			default:
				// Slow or gone consumer; closing ends its write pump.
				close(c.send)
			}
		}
		if len(kept) == 0 {
			delete(r.users, username)
		} else {
			r.users[username] = kept
		}
	}
}
