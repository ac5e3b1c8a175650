package services

import (
	"context"
	"testing"

	"tripatlas/internal/models"
)

func TestSaveProfileCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.Profile
		complete bool
	}{
		{
			"all required fields",
			models.Profile{Location: "Berlin", Age: 30, GroupType: models.GroupSolo},
			true,
		},
		{
			"missing location",
			models.Profile{Age: 30, GroupType: models.GroupSolo},
			false,
		},
		{
			"missing age",
			models.Profile{Location: "Berlin", GroupType: models.GroupSolo},
			false,
		},
		{
			"missing group type",
			models.Profile{Location: "Berlin", Age: 30},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(newFakeUserStore())
			user, err := svc.SaveProfile(context.Background(), "u1", "a@b.com", "A", tt.profile)
			if err != nil {
				t.Fatalf("SaveProfile failed: %v", err)
			}
			if user.IsProfileComplete != tt.complete {
				t.Errorf("Expected complete=%v, got %v", tt.complete, user.IsProfileComplete)
			}
		})
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	if _, err := svc.GetProfile(context.Background(), "ghost"); !IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestLogMood(t *testing.T) {
	store := newFakeUserStore()
	store.put(&models.User{UID: "u1"})
	svc := NewUserService(store)

	if err := svc.LogMood(context.Background(), "u1", "Adventurous", "planning a trip"); err != nil {
		t.Fatalf("LogMood failed: %v", err)
	}
	logs := store.get("u1").MoodLogs
	if len(logs) != 1 || logs[0].Mood != "Adventurous" {
		t.Errorf("Unexpected mood logs: %+v", logs)
	}

	if err := svc.LogMood(context.Background(), "u1", "", ""); err == nil {
		t.Error("Expected error for empty mood")
	}
}
