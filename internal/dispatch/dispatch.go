// Package dispatch delivers rendered notifications to their surfaces.
// Two backends exist behind one interface: a local dispatcher feeding the
// in-app notification center, and a Web Push dispatcher for subscribed
// browsers. The scheduler is parameterized over the interface and never
// knows which backend it is driving.
package dispatch

import (
	"context"
	"errors"
)

// Notification tags. A fixed tag lets a re-sent notification replace the
// previous one on surfaces that support identity, instead of stacking.
const (
	TagDailyEarnings  = "daily-earnings"
	TagEarningsChange = "earnings-change"
	TagTest           = "test"
)

// Dispatcher is the boundary to a notification surface.
type Dispatcher interface {
	// RequestPermission asks the surface whether notifications may be
	// shown. A false return with nil error means the user (or surface)
	// declined.
	RequestPermission(ctx context.Context) (bool, error)
	// Show delivers one notification.
	Show(ctx context.Context, title, body, tag string) error
}

// Multi fans out to several dispatchers.
type Multi []Dispatcher

// RequestPermission is granted when at least one backend grants.
func (m Multi) RequestPermission(ctx context.Context) (bool, error) {
	var errs []error
	granted := false
	for _, d := range m {
		ok, err := d.RequestPermission(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			granted = true
		}
	}
	if !granted && len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return granted, nil
}

// Show delivers to every backend; failures are joined so one dead surface
// does not hide the others.
func (m Multi) Show(ctx context.Context, title, body, tag string) error {
	var errs []error
	for _, d := range m {
		if err := d.Show(ctx, title, body, tag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
