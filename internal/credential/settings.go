package credential

import (
	"errors"

	"github.com/longkey1/zenx/internal/zenx"
)

// Save stores value and raises the matching notification.
// A blank value is rejected with ErrEmptyCredential and nothing is written.
func Save(store Store, n zenx.Notifier, value string) error {
	if err := store.Set(value); err != nil {
		if errors.Is(err, ErrEmptyCredential) {
			n.Notify(zenx.Notification{Kind: zenx.NotifyError, Title: "Error", Description: "Please enter a valid API key"})
		} else {
			n.Notify(zenx.Notification{Kind: zenx.NotifyError, Title: "Error", Description: "Failed to save API key: " + err.Error()})
		}
		return err
	}
	n.Notify(zenx.Notification{Kind: zenx.NotifySuccess, Title: "Success", Description: "API key saved successfully!"})
	return nil
}

// Remove clears the stored credential and raises the matching notification.
func Remove(store Store, n zenx.Notifier) error {
	if err := store.Clear(); err != nil {
		n.Notify(zenx.Notification{Kind: zenx.NotifyError, Title: "Error", Description: "Failed to remove API key: " + err.Error()})
		return err
	}
	n.Notify(zenx.Notification{Kind: zenx.NotifyInfo, Title: "Cleared", Description: "API key removed from storage"})
	return nil
}
