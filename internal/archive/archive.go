// Package archive implements score retention: once a day, scores older than
// the retention window are exported to CSV, mailed to the operator, and then
// deleted.
package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"flappy-game/internal/config"
	"flappy-game/internal/database"
)

const retention = 30 * 24 * time.Hour

type Job struct {
	db   *database.Database
	smtp config.SMTP
	log  *slog.Logger
}

func NewJob(db *database.Database, smtp config.SMTP, log *slog.Logger) *Job {
	return &Job{db: db, smtp: smtp, log: log}
}

// Run executes the export daily until ctx is cancelled.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.archiveOnce(ctx); err != nil {
				j.log.Error("score archival failed", "err", err)
			}
		}
	}
}

func (j *Job) configured() bool {
	return j.smtp.Host != "" && j.smtp.User != "" && j.smtp.Receiver != ""
}

func (j *Job) archiveOnce(ctx context.Context) error {
	if !j.configured() {
		j.log.Warn("smtp not configured, skipping score archival")
		return nil
	}

	cutoff := time.Now().UTC().Add(-retention)

	scores, err := j.db.GetScoresOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		j.log.Info("no scores due for archival")
		return nil
	}

	report, err := exportCSV(scores)
	if err != nil {
		return err
	}

	if err := j.email(report); err != nil {
		// Do not delete what was never delivered.
		return fmt.Errorf("emailing archive: %w", err)
	}

	deleted, err := j.db.DeleteScoresOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	j.log.Info("archived old scores", "exported", len(scores), "deleted", deleted)
	return nil
}

func exportCSV(scores []database.ArchivedScore) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"username", "email", "score", "createdAt"}); err != nil {
		return nil, err
	}
	for _, s := range scores {
		record := []string{s.Username, s.Email, strconv.Itoa(s.Score), s.CreatedAt.Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (j *Job) email(csvBody []byte) error {
	msg := strings.Join([]string{
		"From: " + j.smtp.From,
		"To: " + j.smtp.Receiver,
		"Subject: Exported scores older than 30 days",
		"MIME-Version: 1.0",
		"Content-Type: text/csv; charset=utf-8",
		"Content-Disposition: attachment; filename=old_scores.csv",
		"",
		string(csvBody),
	}, "\r\n")

	addr := j.smtp.Host + ":" + j.smtp.Port
	auth := smtp.PlainAuth("", j.smtp.User, j.smtp.Pass, j.smtp.Host)
	return smtp.SendMail(addr, auth, j.smtp.From, []string{j.smtp.Receiver}, []byte(msg))
}
