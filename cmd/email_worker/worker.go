package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/oksasatya/pharmadocs/pkg/helpers"
	"github.com/oksasatya/pharmadocs/pkg/mailer"
	mailtpl "github.com/oksasatya/pharmadocs/pkg/mailer/templates"
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type worker struct {
	Sender  sender
	AppName string
	BaseURL string
}

// Handle renders one EmailJob and sends it. Malformed jobs are dropped;
// send failures are requeued.
func (w *worker) Handle(ctx context.Context, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return helpers.Drop(err)
	}
	if strings.TrimSpace(job.To) == "" {
		return helpers.Drop(mailer.ErrNoRecipient)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		data := map[string]any{
			"AppName":    w.AppName,
			"ProfileURL": strings.TrimRight(w.BaseURL, "/") + "/profile",
			"Email":      job.To,
		}
		for k, v := range job.Data {
			data[k] = v
		}
		s, t, h, err := mailtpl.Render(job.Template, data)
		if err != nil {
			return helpers.Drop(err)
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return w.Sender.Send(c, job.To, subject, text, html)
}
