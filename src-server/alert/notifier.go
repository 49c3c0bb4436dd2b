// Package alert holds the outputs the scheduler fires: notifications and
// audio tones.
package alert

import (
	"context"
	"errors"
)

type Notification struct {
	Title string
	Body  string
	// Tag is stable per event so a sink can replace an earlier notification.
	Tag                string
	Urgency            Urgency
	RequireInteraction bool
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type Permission int

const (
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// PermissionRequester is implemented by notifiers that need consent or a
// reachability check before they can show anything.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (Permission, error)
}

// MultiNotifier sends to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RequestPermission grants when at least one member grants.
func (m MultiNotifier) RequestPermission(ctx context.Context) (Permission, error) {
	result := PermissionDenied
	var errs []error
	for _, notifier := range m {
		requester, ok := notifier.(PermissionRequester)
		if !ok {
			result = PermissionGranted
			continue
		}
		p, err := requester.RequestPermission(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if p == PermissionGranted {
			result = PermissionGranted
		}
	}
	return result, errors.Join(errs...)
}
