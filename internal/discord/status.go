package discord

import (
	"time"

	"github.com/whotypes/dndspawner/internal/status"
)

// StatusProvider exposes the client to the status API.
func (c *Client) StatusProvider() status.Provider {
	return statusProvider{c}
}

type statusProvider struct {
	c *Client
}

func (p statusProvider) Health() status.Health {
	uptime := p.c.Uptime().Truncate(time.Second)
	h := status.Health{
		Ready:         p.c.Ready(),
		Uptime:        uptime.String(),
		UptimeSeconds: uptime.Seconds(),
	}
	if u := p.c.User(); u != nil {
		h.User = displayName(u)
	}
	if latency := p.c.Latency(); latency > 0 {
		h.Latency = latency.String()
	}
	return h
}

func (p statusProvider) Extensions() []status.Extension {
	statuses := p.c.Extensions()
	out := make([]status.Extension, len(statuses))
	for i, st := range statuses {
		out[i] = status.Extension{Name: st.Name, Loaded: st.Loaded, Error: st.Error}
		if !st.LoadedAt.IsZero() {
			at := st.LoadedAt
			out[i].LoadedAt = &at
		}
	}
	return out
}

func (p statusProvider) Commands() []status.Command {
	cmds := p.c.Commands()
	out := make([]status.Command, len(cmds))
	for i, cmd := range cmds {
		out[i] = status.Command{
			Name:        cmd.Name,
			Aliases:     cmd.Aliases,
			Extension:   p.c.ExtensionOf(cmd),
			Description: cmd.Description,
			Hybrid:      cmd.Hybrid,
		}
	}
	return out
}
