package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/agreementchain/agreements/pkg/agreement"
)

var ErrSend = errors.New("error sending message")

type Message struct {
	Content string `json:"content"`
}

type Messager struct {
	BaseURL  string
	Instance string

	client *http.Client
	notify bool
}

// NewMessager returns a messager posting to a Discord compatible webhook.
// Nothing is sent when baseURL is empty.
func NewMessager(baseURL, instance string) agreement.WebhookMessager {
	return &Messager{
		BaseURL:  baseURL,
		Instance: instance,
		client:   http.DefaultClient,
		notify:   baseURL != "",
	}
}

func (b *Messager) send(ctx context.Context, content string) error {
	if !b.notify {
		return nil
	}

	data, err := json.Marshal(Message{Content: fmt.Sprintf("[%s] %s", b.Instance, content)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrSend, resp.StatusCode)
	}

	return nil
}

func (b *Messager) Notify(ctx context.Context, message string) error {
	return b.send(ctx, message)
}

func (b *Messager) NotifyWarning(ctx context.Context, errorMessage error) error {
	return b.send(ctx, "warning: "+errorMessage.Error())
}

func (b *Messager) NotifyError(ctx context.Context, errorMessage error) error {
	return b.send(ctx, "error: "+errorMessage.Error())
}
