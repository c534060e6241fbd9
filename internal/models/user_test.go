package models

import (
	"testing"
	"time"
)

func TestUser_Touch_UpdatesLastActiveAndReactivates(t *testing.T) {
	u := &User{IsActive: false, LastActiveAt: time.Now().Add(-48 * time.Hour)}
	now := time.Now()

	u.Touch(now)

	if !u.LastActiveAt.Equal(now) {
		t.Errorf("LastActiveAt = %v, want %v", u.LastActiveAt, now)
	}
	if !u.IsActive {
		t.Error("expected Touch to reactivate the user")
	}
}
