package models

import (
	"testing"
	"time"
)

func TestWindow_Elapsed(t *testing.T) {
	now := time.Now()
	w := &Window{LastActivityAt: now.Add(-3 * time.Hour)}

	if got := w.Elapsed(now); got != 3*time.Hour {
		t.Errorf("Elapsed() = %v, want %v", got, 3*time.Hour)
	}
}

func TestWindow_StageSent_ReflectsEachFlag(t *testing.T) {
	w := &Window{Stage1Sent: true, Stage3Sent: true}

	if !w.StageSent(ReminderS1) {
		t.Error("expected S1 to report sent")
	}
	if w.StageSent(ReminderS2) {
		t.Error("expected S2 to report not sent")
	}
	if !w.StageSent(ReminderS3) {
		t.Error("expected S3 to report sent")
	}
}

func TestWindow_StageSent_UnknownStageTreatedAsSent(t *testing.T) {
	w := &Window{}
	if !w.StageSent(ReminderStage("bogus")) {
		t.Error("expected an unrecognized stage to be treated as already sent")
	}
}

func TestWindow_MarkStageSent_FlipsOnlyTheGivenStage(t *testing.T) {
	w := &Window{}
	w.MarkStageSent(ReminderS4)

	if !w.Stage4Sent {
		t.Error("expected Stage4Sent to be true")
	}
	if w.Stage1Sent || w.Stage2Sent || w.Stage3Sent || w.Stage5Sent {
		t.Error("expected only Stage4Sent to be flipped")
	}
}
