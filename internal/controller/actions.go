package controller

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/i474232898/dailyweather/internal/ui"
)

const (
	ActionNavigate = "navigate"
	ActionOpenURL  = "openURL"
	ActionRefresh  = "refresh"
)

var ErrInvalidAction = errors.New("invalid action")

// HandleAction interprets an action raised by a rendered component. Unknown
// types are reported as diagnostics and otherwise ignored.
func (c *Controller) HandleAction(ctx context.Context, a ui.Action) error {
	switch a.Type {
	case ActionNavigate:
		screen := a.Payload["screen"]
		if screen == "" {
			return c.invalid(a, "missing screen")
		}
		c.events.publish(Event{Kind: EventNavigate, Detail: screen})
		return nil

	case ActionOpenURL:
		raw := a.Payload["url"]
		u, err := url.Parse(raw)
		if raw == "" || err != nil || !u.IsAbs() {
			return c.invalid(a, fmt.Sprintf("bad url %q", raw))
		}
		c.events.publish(Event{Kind: EventOpenURL, Detail: u.String()})
		return nil

	case ActionRefresh:
		c.Refresh(ctx)
		return nil
	}

	c.report(fmt.Errorf("unknown action type %q", a.Type))
	return nil
}

func (c *Controller) invalid(a ui.Action, why string) error {
	err := fmt.Errorf("%w: %s: %s", ErrInvalidAction, a.Type, why)
	c.report(err)
	return err
}
