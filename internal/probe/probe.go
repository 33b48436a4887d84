// Package probe checks that the daemon actually accepts FTP sessions.
package probe

import (
	"fmt"
	"time"

	"github.com/jlaffaye/ftp"
)

// Prober dials the daemon and optionally attempts a login with a dedicated
// check account. The dial carries its own timeout so a wedged daemon cannot
// stall the health endpoint.
type Prober struct {
	Addr     string
	User     string
	Password string
	Timeout  time.Duration
}

// Check returns nil when the daemon answered (and, if configured, accepted
// the login).
func (p *Prober) Check() error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	conn, err := ftp.Dial(p.Addr, ftp.DialWithTimeout(timeout))
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.Addr, err)
	}
	defer conn.Quit()

	if p.User == "" {
		return nil
	}
	if err := conn.Login(p.User, p.Password); err != nil {
		return fmt.Errorf("login as %s: %w", p.User, err)
	}
	return nil
}
