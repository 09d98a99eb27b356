package app

import (
	"testing"

	"github.com/thirdtwenty/320mag/internal/pipeline"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"引数なしはdaily", []string{}, CommandDaily},
		{"collect", []string{"collect", "food", "2"}, CommandCollect},
		{"daily", []string{"daily"}, CommandDaily},
		{"worker", []string{"worker"}, CommandWorker},
		{"migrate", []string{"migrate"}, CommandMigrate},
		{"report", []string{"report"}, CommandReport},
		{"healthcheck", []string{"healthcheck"}, CommandHealthcheck},
		{"未知のコマンドはdaily", []string{"bogus"}, CommandDaily},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.args)
			if got != tt.want {
				t.Errorf("ParseCommand(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestCheckBatchOutcome(t *testing.T) {
	// Success > Failed なら成功
	// Failed >= Success（かつ失敗あり）なら非ゼロ終了のためのエラー
	tests := []struct {
		name    string
		success int
		failed  int
		wantErr bool
	}{
		{"全件成功", 3, 0, false},
		{"成功が失敗を上回る", 2, 1, false},
		{"失敗が成功と同数", 1, 1, true},
		{"失敗が成功を上回る", 0, 2, true},
		{"成功も失敗もなし", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkBatchOutcome(&pipeline.BatchResult{
				Category: "food",
				Success:  tt.success,
				Failed:   tt.failed,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("checkBatchOutcome(success=%d, failed=%d) err=%v, wantErr=%v",
					tt.success, tt.failed, err, tt.wantErr)
			}
		})
	}
}
